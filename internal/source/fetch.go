package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shale-build/shale/internal/paths"
	"github.com/shale-build/shale/internal/recipe"
)

// Seam for tests; production code always applies real patches.
var applyPatches = ApplyPatches

// Materializes every source into the work directory and applies its
// patches, in declaration order.
//
// Each source's patches are applied strictly after its own materialization
// and before the next source is processed. The first error aborts the
// remaining sources; there is no partial-source rollback. The cache
// directory is shared across builds for content reuse; concurrent
// invocations sharing it are not coordinated.
func Fetch(ctx context.Context, sources []recipe.Source, workDir, recipeDir, cacheDir string) error {
	cacheSrc := filepath.Join(cacheDir, "src_cache")
	if err := os.MkdirAll(cacheSrc, paths.DefaultDirMode); err != nil {
		return err
	}

	for _, src := range sources {
		if err := fetchSource(ctx, src, workDir, recipeDir, cacheSrc); err != nil {
			return err
		}

		if patches := src.PatchFiles(); len(patches) > 0 {
			if err := applyPatches(patches, workDir, recipeDir); err != nil {
				return err
			}
		}
	}

	return nil
}

// Materializes a single source into its destination directory.
func fetchSource(ctx context.Context, src recipe.Source, workDir, recipeDir, cacheSrc string) error {
	destDir := workDir
	if folder := src.TargetFolder(); folder != "" {
		destDir = filepath.Join(workDir, folder)
	}

	switch src := src.(type) {
	case recipe.GitSource:
		return fetchGit(ctx, &src, destDir, cacheSrc)
	case recipe.URLSource:
		return fetchURLSource(ctx, &src, destDir, cacheSrc)
	case recipe.PathSource:
		return fetchPath(&src, destDir, recipeDir)
	default:
		return fmt.Errorf("%w: unknown source variant %T", ErrSource, src)
	}
}

// Checks out a git source and copies the tree into the destination.
//
// Ignore-file rules are deliberately not honored on this copy: the
// checked-out tree contains exactly the tracked files, and .gitignore
// rules could drop files the repository intentionally tracks.
func fetchGit(ctx context.Context, src *recipe.GitSource, destDir, cacheSrc string) error {
	checkout, err := gitSrc(ctx, src, cacheSrc)
	if err != nil {
		return err
	}

	copied, err := NewCopyDir(checkout, destDir).
		UseGitignore(false).
		ExcludeGlobs(".git/**", ".git").
		Run()
	if err != nil {
		return err
	}

	slog.Info("copied git checkout", "dest", destDir, "files", len(copied))
	return nil
}

// Downloads a URL source, then extracts or copies it into the destination.
func fetchURLSource(ctx context.Context, src *recipe.URLSource, destDir, cacheSrc string) error {
	cached, err := urlSrc(ctx, src, cacheSrc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(destDir, paths.DefaultDirMode); err != nil {
		return err
	}

	if IsArchive(filepath.Base(cached)) {
		if err := Extract(ctx, cached, destDir); err != nil {
			return err
		}
		slog.Info("extracted archive", "dest", destDir)
		return nil
	}

	fileName := src.FileName
	if fileName == "" {
		// Strip the checksum prefix the cache adds.
		fileName = filepath.Base(cached)
		if _, rest, ok := cutCachePrefix(fileName); ok {
			fileName = rest
		}
	}

	dest := filepath.Join(destDir, fileName)
	if err := copyFile(cached, dest, paths.DefaultFileMode); err != nil {
		return err
	}

	slog.Info("downloaded file placed", "dest", dest)
	return nil
}

// Copies a path source into the destination.
//
// The path is resolved against the recipe directory and canonicalized. A
// missing path is [ErrFileNotFound]. Directories are copied recursively,
// honoring the source's ignore-file flag; files are copied under the
// explicit file name when given, else their own base name.
func fetchPath(src *recipe.PathSource, destDir, recipeDir string) error {
	srcPath := src.Path
	if !filepath.IsAbs(srcPath) {
		srcPath = filepath.Join(recipeDir, srcPath)
	}

	srcPath, err := filepath.EvalSymlinks(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, src.Path)
		}
		return err
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, srcPath)
		}
		return err
	}

	if err := os.MkdirAll(destDir, paths.DefaultDirMode); err != nil {
		return err
	}

	if info.IsDir() {
		copied, err := NewCopyDir(srcPath, destDir).
			UseGitignore(src.UseGitignore).
			Run()
		if err != nil {
			return err
		}
		slog.Info("copied source directory", "src", srcPath, "dest", destDir, "files", len(copied))
		return nil
	}

	fileName := src.FileName
	if fileName == "" {
		fileName = filepath.Base(srcPath)
	}

	dest := filepath.Join(destDir, fileName)
	slog.Info("copying source file", "src", srcPath, "dest", dest)
	return copyFile(srcPath, dest, info.Mode().Perm())
}

// Splits a cache file name of the form "<hex>_<name>".
func cutCachePrefix(name string) (prefix, rest string, ok bool) {
	for i, r := range name {
		if r == '_' {
			return name[:i], name[i+1:], i > 0 && i+1 < len(name)
		}
		if !isHexDigit(r) {
			return "", "", false
		}
	}
	return "", "", false
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}
