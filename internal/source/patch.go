package source

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Applies an ordered list of patch files to the work directory.
//
// Patch paths are resolved against the recipe directory. Each patch is
// parsed first so a malformed file is rejected before anything touches the
// tree, then applied with the system patch tool at strip level 1. The
// tool's absence is [ErrPatchNotFound]; a failed application is
// [ErrPatchFailed] with the tool's output as diagnostic text.
func ApplyPatches(patches []string, workDir, recipeDir string) error {
	patchExe, err := exec.LookPath("patch")
	if err != nil {
		return ErrPatchNotFound
	}

	for _, patch := range patches {
		path := filepath.Join(recipeDir, patch)
		files, err := parsePatch(path)
		if err != nil {
			return err
		}

		slog.Info("applying patch", "patch", patch, "files", len(files))

		if err := applyPatch(patchExe, path, workDir); err != nil {
			return err
		}
	}

	return nil
}

// Parses a patch file and returns the files it touches.
func parsePatch(path string) ([]*gitdiff.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	files, _, err := gitdiff.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid patch %s: %w", ErrPatchFailed, path, err)
	}
	return files, nil
}

// Applies one parsed-and-validated patch file with the external tool.
func applyPatch(patchExe, path, workDir string) error {
	var out bytes.Buffer
	cmd := exec.Command(patchExe, "-p1", "--batch", "-i", path, "-d", workDir)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return fmt.Errorf("%w: %w", ErrPatchFailed, err)
		}
		return fmt.Errorf("%w: %s: %s", ErrPatchFailed, path, out.String())
	}
	return nil
}
