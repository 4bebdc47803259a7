package build

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// A literal-substring substitution applied to log lines.
type replacement struct {
	from string
	to   string
}

// Executes an interpreter with a fixed argument vector in the given
// working directory, streaming stdout line-by-line through the
// replacements before logging.
//
// Standard input is closed immediately; standard error is inherited. The
// substitutions rewrite log output only; the script file and the
// filesystem are never touched. A non-zero exit is [ErrBuild]; a spawn or
// wait failure is [ErrSpawn] and aborts the pipeline outright.
func runProcessWithReplacements(ctx context.Context, command, cwd string, args []string, replacements []replacement) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = cwd
	cmd.Stdin = nil
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			slog.Info(applyReplacements(scanner.Text(), replacements))
		}
		if err := scanner.Err(); err != nil {
			slog.Warn("error reading build output", "error", err)
			// The pipe must still be drained, or the child blocks
			// writing into it and Wait never returns.
			_, _ = io.Copy(io.Discard, stdout)
		}
		return nil
	})

	// The pump must drain before Wait closes the pipe.
	_ = g.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: exit code %d", ErrBuild, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	return nil
}

// Applies the ordered replacements to a single line.
func applyReplacements(line string, replacements []replacement) string {
	for _, r := range replacements {
		line = strings.ReplaceAll(line, r.from, r.to)
	}
	return line
}
