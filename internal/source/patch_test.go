package source

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const helloPatch = `--- a/hello.txt
+++ b/hello.txt
@@ -1 +1 @@
-hello world
+hello patched world
`

func TestApplyPatches(t *testing.T) {
	if _, err := exec.LookPath("patch"); err != nil {
		t.Skipf("patch not available: %v", err)
	}

	recipeDir := t.TempDir()
	workDir := t.TempDir()

	writeTestFile(t, filepath.Join(recipeDir, "hello.patch"), helloPatch)
	writeTestFile(t, filepath.Join(workDir, "hello.txt"), "hello world\n")

	if err := ApplyPatches([]string{"hello.patch"}, workDir, recipeDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workDir, "hello.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello patched world\n" {
		t.Errorf("patched content = %q", data)
	}
}

func TestApplyPatchesMissingPatchFile(t *testing.T) {
	if _, err := exec.LookPath("patch"); err != nil {
		t.Skipf("patch not available: %v", err)
	}

	err := ApplyPatches([]string{"absent.patch"}, t.TempDir(), t.TempDir())
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("error = %v, want ErrFileNotFound", err)
	}
}

func TestApplyPatchesInvalidPatch(t *testing.T) {
	if _, err := exec.LookPath("patch"); err != nil {
		t.Skipf("patch not available: %v", err)
	}

	recipeDir := t.TempDir()
	writeTestFile(t, filepath.Join(recipeDir, "garbage.patch"), "this is not a diff at all")

	err := ApplyPatches([]string{"garbage.patch"}, t.TempDir(), recipeDir)
	if !errors.Is(err, ErrPatchFailed) {
		t.Fatalf("error = %v, want ErrPatchFailed", err)
	}
}

func TestApplyPatchesFailedHunk(t *testing.T) {
	if _, err := exec.LookPath("patch"); err != nil {
		t.Skipf("patch not available: %v", err)
	}

	recipeDir := t.TempDir()
	workDir := t.TempDir()

	writeTestFile(t, filepath.Join(recipeDir, "hello.patch"), helloPatch)
	writeTestFile(t, filepath.Join(workDir, "hello.txt"), "entirely different content\n")

	err := ApplyPatches([]string{"hello.patch"}, workDir, recipeDir)
	if !errors.Is(err, ErrPatchFailed) {
		t.Fatalf("error = %v, want ErrPatchFailed", err)
	}
}
