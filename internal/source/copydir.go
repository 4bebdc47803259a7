package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/shale-build/shale/internal/paths"
)

// Copies a directory tree with optional ignore-file and glob filtering.
//
// Built with [NewCopyDir] and configured fluently; [CopyDir.Run] performs
// the copy. Permission bits and symlinks are preserved.
type CopyDir struct {
	from         string
	to           string
	useGitignore bool
	include      []string
	exclude      []string
}

// Creates a copy operation from one directory tree to another.
func NewCopyDir(from, to string) *CopyDir {
	return &CopyDir{from: from, to: to}
}

// Controls whether .gitignore rules found in the source tree root are
// honored. Defaults to false.
func (c *CopyDir) UseGitignore(use bool) *CopyDir {
	c.useGitignore = use
	return c
}

// Restricts the copy to paths matching at least one of the given glob
// patterns. An empty list matches everything.
func (c *CopyDir) IncludeGlobs(patterns ...string) *CopyDir {
	c.include = append(c.include, patterns...)
	return c
}

// Excludes paths matching any of the given glob patterns.
func (c *CopyDir) ExcludeGlobs(patterns ...string) *CopyDir {
	c.exclude = append(c.exclude, patterns...)
	return c
}

// Runs the copy and returns the relative paths of the files that were
// copied.
//
// Directories are created as needed with their source permissions; empty
// directories that survive filtering are preserved. Symlinks are
// recreated, not followed.
func (c *CopyDir) Run() ([]string, error) {
	for _, pattern := range append(append([]string{}, c.include...), c.exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrGlob, pattern)
		}
	}

	ignore, err := c.loadIgnore()
	if err != nil {
		return nil, err
	}

	var copied []string

	err = filepath.WalkDir(c.from, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCopy, err)
		}

		rel, err := filepath.Rel(c.from, path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStripPrefix, err)
		}
		if rel == "." {
			return nil
		}

		if c.skip(rel, ignore, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		dest := filepath.Join(c.to, rel)

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCopy, err)
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
				return fmt.Errorf("%w: %w", ErrCopy, err)
			}
			return nil

		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrCopy, err)
			}
			if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
				return fmt.Errorf("%w: %w", ErrCopy, err)
			}
			os.Remove(dest)
			if err := os.Symlink(target, dest); err != nil {
				return fmt.Errorf("%w: %w", ErrCopy, err)
			}
			copied = append(copied, rel)
			return nil

		default:
			if err := copyFile(path, dest, info.Mode().Perm()); err != nil {
				return fmt.Errorf("%w: %w", ErrCopy, err)
			}
			copied = append(copied, rel)
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	return copied, nil
}

// Loads the ignore rules from the source tree root, if enabled and present.
func (c *CopyDir) loadIgnore() (*gitignore.GitIgnore, error) {
	if !c.useGitignore {
		return nil, nil
	}

	ignoreFile := filepath.Join(c.from, ".gitignore")
	if _, err := os.Stat(ignoreFile); os.IsNotExist(err) {
		return nil, nil
	}

	ignore, err := gitignore.CompileIgnoreFile(ignoreFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCopy, err)
	}
	return ignore, nil
}

// Decides whether a relative path is filtered out of the copy.
//
// Exclude globs apply to directories as well as files, so an excluded
// directory prunes its whole subtree. Include globs apply to files only;
// directories are always entered so that patterns like "**/*.c" can match
// below them.
func (c *CopyDir) skip(rel string, ignore *gitignore.GitIgnore, isDir bool) bool {
	if ignore != nil {
		// Directory rules like "build/" only match with the trailing slash.
		if ignore.MatchesPath(rel) || (isDir && ignore.MatchesPath(rel+"/")) {
			return true
		}
	}

	slashed := filepath.ToSlash(rel)

	for _, pattern := range c.exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}

	if isDir || len(c.include) == 0 {
		return false
	}
	for _, pattern := range c.include {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return false
		}
	}
	return true
}

// Copies a single file, preserving its permission bits.
func copyFile(src, dest string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
