package source

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestCopyDirCopiesTree(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	writeTestFile(t, filepath.Join(from, "main.c"), "int main() {}")
	writeTestFile(t, filepath.Join(from, "src", "lib.c"), "static int x;")
	writeTestFile(t, filepath.Join(from, "docs", "readme.md"), "# readme")

	copied, err := NewCopyDir(from, to).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCopied(t, copied, []string{"docs/readme.md", "main.c", "src/lib.c"})

	for _, rel := range copied {
		if _, err := os.Stat(filepath.Join(to, rel)); err != nil {
			t.Errorf("missing copied file %s: %v", rel, err)
		}
	}
}

func TestCopyDirPreservesPermissions(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	script := filepath.Join(from, "run.sh")
	writeTestFile(t, script, "#!/bin/sh\n")
	if err := os.Chmod(script, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := NewCopyDir(from, to).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(filepath.Join(to, "run.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestCopyDirHonorsGitignore(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	writeTestFile(t, filepath.Join(from, ".gitignore"), "*.o\nbuild/\n")
	writeTestFile(t, filepath.Join(from, "main.c"), "")
	writeTestFile(t, filepath.Join(from, "main.o"), "")
	writeTestFile(t, filepath.Join(from, "build", "out"), "")

	copied, err := NewCopyDir(from, to).UseGitignore(true).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCopied(t, copied, []string{".gitignore", "main.c"})

	if _, err := os.Stat(filepath.Join(to, "main.o")); !os.IsNotExist(err) {
		t.Error("ignored file main.o was copied")
	}
	if _, err := os.Stat(filepath.Join(to, "build")); !os.IsNotExist(err) {
		t.Error("ignored directory build was copied")
	}
}

func TestCopyDirIgnoresRulesWhenDisabled(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	writeTestFile(t, filepath.Join(from, ".gitignore"), "*.o\n")
	writeTestFile(t, filepath.Join(from, "main.o"), "")

	copied, err := NewCopyDir(from, to).UseGitignore(false).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCopied(t, copied, []string{".gitignore", "main.o"})
}

func TestCopyDirGlobFilters(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "include only c files",
			include: []string{"**/*.c"},
			want:    []string{"main.c", "src/lib.c"},
		},
		{
			name:    "exclude docs",
			exclude: []string{"docs/**"},
			want:    []string{"main.c", "src/lib.c"},
		},
		{
			name:    "exclude wins over include",
			include: []string{"**/*.c"},
			exclude: []string{"src/**"},
			want:    []string{"main.c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := t.TempDir()
			to := t.TempDir()

			writeTestFile(t, filepath.Join(from, "main.c"), "")
			writeTestFile(t, filepath.Join(from, "src", "lib.c"), "")
			writeTestFile(t, filepath.Join(from, "docs", "readme.md"), "")

			copied, err := NewCopyDir(from, to).
				IncludeGlobs(tt.include...).
				ExcludeGlobs(tt.exclude...).
				Run()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertCopied(t, copied, tt.want)
		})
	}
}

func TestCopyDirExcludePrunesDirectories(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	writeTestFile(t, filepath.Join(from, "main.c"), "")
	writeTestFile(t, filepath.Join(from, ".git", "config"), "[core]")
	writeTestFile(t, filepath.Join(from, ".git", "objects", "ab", "cdef"), "")
	if err := os.MkdirAll(filepath.Join(from, ".git", "refs", "heads"), 0755); err != nil {
		t.Fatal(err)
	}

	copied, err := NewCopyDir(from, to).
		UseGitignore(false).
		ExcludeGlobs(".git/**", ".git").
		Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCopied(t, copied, []string{"main.c"})

	// Not even an empty directory skeleton may survive the exclusion.
	if _, err := os.Stat(filepath.Join(to, ".git")); !os.IsNotExist(err) {
		t.Errorf("excluded directory .git exists at the destination: %v", err)
	}
}

func TestCopyDirDirCreationFailure(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	writeTestFile(t, filepath.Join(from, "sub", "file.txt"), "")
	// A plain file where the directory must go makes MkdirAll fail.
	writeTestFile(t, filepath.Join(to, "sub"), "")

	_, err := NewCopyDir(from, to).Run()
	if !errors.Is(err, ErrCopy) {
		t.Fatalf("error = %v, want ErrCopy", err)
	}
}

func TestCopyDirInvalidGlob(t *testing.T) {
	_, err := NewCopyDir(t.TempDir(), t.TempDir()).IncludeGlobs("[").Run()
	if !errors.Is(err, ErrGlob) {
		t.Fatalf("error = %v, want ErrGlob", err)
	}
}

func TestCopyDirPreservesSymlinks(t *testing.T) {
	from := t.TempDir()
	to := t.TempDir()

	writeTestFile(t, filepath.Join(from, "target.txt"), "data")
	if err := os.Symlink("target.txt", filepath.Join(from, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if _, err := NewCopyDir(from, to).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target, err := os.Readlink(filepath.Join(to, "link.txt"))
	if err != nil {
		t.Fatalf("copied link is not a symlink: %v", err)
	}
	if target != "target.txt" {
		t.Errorf("link target = %q, want %q", target, "target.txt")
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func assertCopied(t *testing.T, got, want []string) {
	t.Helper()

	normalized := make([]string, len(got))
	for i, p := range got {
		normalized[i] = filepath.ToSlash(p)
	}
	sort.Strings(normalized)

	if len(normalized) != len(want) {
		t.Fatalf("copied = %v, want %v", normalized, want)
	}
	for i := range want {
		if normalized[i] != want[i] {
			t.Fatalf("copied = %v, want %v", normalized, want)
		}
	}
}
