package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shale-build/shale/internal/recipe"
)

// Materializes a git source into the cache and returns the checkout path.
//
// The repository is cloned into (or fetched within) a cache directory
// keyed by its URL, then the requested revision is checked out. The
// resulting tree is what the fetch loop copies into the work directory.
func gitSrc(ctx context.Context, src *recipe.GitSource, cacheDir string) (string, error) {
	git, err := exec.LookPath("git")
	if err != nil {
		return "", ErrGitNotFound
	}

	checkout := filepath.Join(cacheDir, repoSlug(src.URL))

	if _, err := os.Stat(filepath.Join(checkout, ".git")); err == nil {
		slog.Info("fetching source from cached git repo", "url", src.URL)
		if _, err := runGit(ctx, git, checkout, "fetch", "origin", "--tags"); err != nil {
			return "", err
		}
	} else {
		slog.Info("fetching source from git repo", "url", src.URL)
		if _, err := runGit(ctx, git, cacheDir, "clone", "--recursive", src.URL, checkout); err != nil {
			return "", err
		}
	}

	rev := src.Rev
	if rev == "" {
		rev = "origin/HEAD"
	}
	if _, err := runGit(ctx, git, checkout, "checkout", "--force", rev); err != nil {
		return "", err
	}

	if _, err := runGit(ctx, git, checkout, "submodule", "update", "--init", "--recursive"); err != nil {
		return "", err
	}

	return checkout, nil
}

// Runs a single git command in the given directory, returning its output.
//
// A non-zero exit is reported as [ErrGit] with the combined output as
// diagnostic text.
func runGit(ctx context.Context, git, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, git, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: git %s: %s", ErrGit, strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Converts a repository URL into a filesystem-safe cache directory name.
func repoSlug(url string) string {
	slug := strings.TrimSuffix(url, ".git")
	for _, r := range []string{"://", ":", "/", "@"} {
		slug = strings.ReplaceAll(slug, r, "_")
	}
	return slug
}
