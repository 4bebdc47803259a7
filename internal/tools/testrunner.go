package tools

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/shale-build/shale/internal/build"
	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
	"github.com/shale-build/shale/internal/recipe"
	"github.com/shale-build/shale/internal/source"
)

// Runs package tests by extracting the archive into the test prefix and
// executing the recipe's declared test commands there.
type ScriptTestRunner struct{}

// Checks every declared package-content pattern against the manifest.
//
// Each pattern must match at least one packaged path; the first pattern
// with no match fails the run. Patterns are doublestar globs.
func (ScriptTestRunner) RunPackageContentTests(ctx context.Context, spec *recipe.TestSpec, manifest []string, platform metadata.Platform) error {
	for _, pattern := range spec.PackageContents {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: invalid pattern %q", ErrContentTest, pattern)
		}

		matched := false
		for _, path := range manifest {
			if ok, _ := doublestar.Match(pattern, path); ok {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("%w: no packaged path matches %q", ErrContentTest, pattern)
		}

		slog.Debug("package content matched", "pattern", pattern)
	}
	return nil
}

// Extracts the archive into the test prefix and runs the test commands.
//
// Commands run sequentially with the test prefix exported as PREFIX; the
// first non-zero exit fails the run with the command's output attached.
// The test prefix itself is created by the orchestrator and its retention
// is the orchestrator's concern.
func (ScriptTestRunner) RunTest(ctx context.Context, archive string, config build.TestConfiguration) error {
	if err := os.MkdirAll(config.TestPrefix, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrTest, err)
	}

	if err := source.Extract(ctx, archive, config.TestPrefix); err != nil {
		return fmt.Errorf("%w: %w", ErrTest, err)
	}

	commands := config.Commands
	for _, command := range commands {
		slog.Info("running test command", "command", command)

		if err := runTestCommand(ctx, command, config); err != nil {
			return err
		}
	}
	return nil
}

// Runs one test command in the test prefix.
func runTestCommand(ctx context.Context, command string, config build.TestConfiguration) error {
	var cmd *exec.Cmd
	if config.TargetPlatform.IsWindows() {
		cmd = exec.CommandContext(ctx, "cmd.exe", "/d", "/c", command)
	} else {
		cmd = exec.CommandContext(ctx, "/bin/bash", "-c", command)
	}

	var out bytes.Buffer
	cmd.Dir = config.TestPrefix
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.Env = append(os.Environ(), "PREFIX="+config.TestPrefix)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %q: %s", ErrTest, command, out.String())
	}
	return nil
}
