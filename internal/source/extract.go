package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Archive extensions the URL fetcher recognizes and hands to [Extract].
var knownArchiveExtensions = []string{"tar", "tar.gz", "tar.xz", "tar.bz2", "zip"}

// Returns true if the file name ends in a recognized archive extension.
func IsArchive(fileName string) bool {
	for _, ext := range knownArchiveExtensions {
		if strings.HasSuffix(fileName, ext) {
			return true
		}
	}
	return false
}

// Extracts an archive into the target directory.
//
// Exactly one leading path component is stripped, following the convention
// of a single top-level wrapper directory, and permission bits are
// preserved. Extraction is delegated to the system tar; its absence is
// reported as [ErrTarNotFound] rather than a generic I/O failure, and a
// non-zero exit is reported as [ErrExtraction] with the captured output.
func Extract(ctx context.Context, archive, targetDir string) error {
	tar, err := exec.LookPath("tar")
	if err != nil {
		return ErrTarNotFound
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tar,
		"-xf", archive,
		"--preserve-permissions",
		"--strip-components=1",
		"-C", targetDir,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		return fmt.Errorf("%w: %s\nstdout: %s\nstderr: %s",
			ErrExtraction, archive, stdout.String(), stderr.String())
	}

	return nil
}
