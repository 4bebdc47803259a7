package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shale-build/shale/internal/paths"
)

var ErrLayout = errors.New("invalid directory layout")

// The fixed set of absolute paths a build operates on.
//
// The recipe directory is read-only input. The work directory is the build
// scratch space; the build directory is a descendant of it and is deleted
// on success unless no-clean is set. The two prefixes are the install
// roots: files appearing under the host prefix become the package, the
// build prefix holds build-time-only tools.
type Directories struct {
	RecipeDir   string // Directory containing the recipe and its auxiliary files.
	CacheDir    string // Persistent source cache shared across builds.
	WorkDir     string // Scratch space for this build.
	BuildDir    string // Ephemeral subdirectory of WorkDir, removed on success.
	OutputDir   string // Destination channel directory for packaged results.
	HostPrefix  string // Install root matched against the final package.
	BuildPrefix string // Install root for build-time tools, not shipped.
}

// Lays out the directories for one build invocation under a scratch root.
//
// The scratch root gets a per-invocation subdirectory derived from the
// recipe name and build id, so concurrent builds of different recipes do
// not collide. Nothing is created on disk; call [Directories.Create].
func NewDirectories(recipeDir, outputDir, scratchRoot, name, buildID string) Directories {
	root := filepath.Join(scratchRoot, fmt.Sprintf("%s_%s", name, buildID))
	workDir := filepath.Join(root, "work")

	return Directories{
		RecipeDir:   recipeDir,
		CacheDir:    paths.Cache(),
		WorkDir:     workDir,
		BuildDir:    filepath.Join(workDir, "bld"),
		OutputDir:   outputDir,
		HostPrefix:  filepath.Join(root, "host_env"),
		BuildPrefix: filepath.Join(root, "build_env"),
	}
}

// Checks the layout invariants.
//
// The host and build prefixes must be distinct from the output directory,
// and the build directory must be a descendant of the work directory.
func (d Directories) Validate() error {
	if d.HostPrefix == d.OutputDir || d.BuildPrefix == d.OutputDir {
		return fmt.Errorf("%w: prefix coincides with output directory %q", ErrLayout, d.OutputDir)
	}
	if !isDescendant(d.WorkDir, d.BuildDir) {
		return fmt.Errorf("%w: build dir %q is not under work dir %q", ErrLayout, d.BuildDir, d.WorkDir)
	}
	return nil
}

// Creates the writable directories on disk.
//
// The recipe directory is input and is only checked for existence. The
// output directory is created so it can be indexed before the first
// package lands in it.
func (d Directories) Create() error {
	if err := d.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(d.RecipeDir); err != nil {
		return fmt.Errorf("%w: recipe dir: %w", ErrLayout, err)
	}

	for _, dir := range []string{d.CacheDir, d.WorkDir, d.BuildDir, d.OutputDir, d.HostPrefix, d.BuildPrefix} {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return err
		}
	}
	return nil
}

// Returns true if path is lexically inside root.
func isDescendant(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}
