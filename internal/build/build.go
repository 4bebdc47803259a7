package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
	"github.com/shale-build/shale/internal/source"
)

// Controls build execution.
type Options struct {
	NoClean bool // Retain the build directory and test prefix after the run.
	NoTest  bool // Skip the package's declared tests.
}

// Returned after a successful build.
type Result struct {
	Archive  string   // Path of the packaged archive in the output directory.
	Manifest []string // Relative paths of the packaged files.
}

// Runs one complete build of the unit.
//
// The pipeline is a strictly ordered sequence: index the local channel,
// fetch sources, resolve or install dependencies, resolve and persist the
// build script, snapshot the host prefix, execute the script, snapshot
// again and diff, package, content-test, re-index, and run the package
// tests. Every step mutates filesystem state later steps depend on, so
// nothing overlaps. The first failure aborts the remaining steps with the
// original error intact.
//
// The build directory and test prefix are torn down on exit regardless of
// which path left the function; only Options.NoClean suppresses deletion.
func Run(ctx context.Context, unit *metadata.Unit, tools Tools, opts Options) (*Result, error) {
	dirs := unit.BuildConfiguration.Directories
	platform := unit.BuildConfiguration.TargetPlatform

	slog.Info("running build",
		"recipe", unit.Recipe.Name,
		"version", unit.Recipe.Version,
		"build_id", unit.BuildConfiguration.BuildID,
		"platform", platform,
	)

	if err := dirs.Create(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	testDir := filepath.Join(dirs.WorkDir, "test")

	if !opts.NoClean {
		defer func() {
			os.RemoveAll(dirs.BuildDir)
			os.RemoveAll(testDir)
		}()
	}

	// The output directory must be indexed before resolution so previously
	// built packages are visible as a local channel.
	if err := tools.Indexer.Index(ctx, dirs.OutputDir, platform); err != nil {
		return nil, err
	}

	channels := append([]string{dirs.OutputDir}, unit.BuildConfiguration.Channels...)

	if len(unit.Recipe.Sources) > 0 {
		if err := source.Fetch(ctx, unit.Recipe.Sources, dirs.WorkDir, dirs.RecipeDir, dirs.CacheDir); err != nil {
			return nil, err
		}
	}

	unit, err := finalizeDependencies(ctx, unit, tools, channels)
	if err != nil {
		return nil, err
	}

	buildScript, err := createBuildScript(unit, tools.EnvWriter)
	if err != nil {
		return nil, err
	}

	slog.Info("work dir", "path", dirs.WorkDir)
	slog.Info("build script", "path", buildScript)

	filesBefore, err := recordFiles(dirs.HostPrefix)
	if err != nil {
		return nil, err
	}

	interpreter, args := interpreterFor(platform, buildScript)
	err = runProcessWithReplacements(ctx, interpreter, dirs.WorkDir, args, []replacement{
		{from: dirs.HostPrefix, to: "$PREFIX"},
		{from: dirs.BuildPrefix, to: "$BUILD_PREFIX"},
	})
	if err != nil {
		return nil, err
	}

	filesAfter, err := recordFiles(dirs.HostPrefix)
	if err != nil {
		return nil, err
	}

	difference := newFiles(filesBefore, filesAfter)
	slog.Info("recorded new files", "count", len(difference))

	archive, manifest, err := tools.Packager.Package(ctx, unit, difference,
		dirs.HostPrefix, dirs.OutputDir, unit.BuildConfiguration.PackageFormat)
	if err != nil {
		return nil, err
	}

	if unit.Recipe.Test.HasPackageContents() {
		if err := tools.Tests.RunPackageContentTests(ctx, unit.Recipe.Test, manifest, platform); err != nil {
			return nil, err
		}
	}

	if !opts.NoClean {
		if err := os.RemoveAll(dirs.BuildDir); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}
	}

	// Re-index so the freshly built package is visible to subsequent
	// resolution, including the test environment below.
	if err := tools.Indexer.Index(ctx, dirs.OutputDir, platform); err != nil {
		return nil, err
	}

	if opts.NoTest {
		slog.Info("skipping tests")
	} else {
		slog.Info("running tests")

		if err := os.MkdirAll(testDir, paths.DefaultDirMode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}

		config := TestConfiguration{
			TestPrefix:     testDir,
			TargetPlatform: platform,
			KeepTestPrefix: opts.NoClean,
			Channels:       channels,
		}
		if unit.Recipe.Test != nil {
			config.Commands = unit.Recipe.Test.Commands
		}

		err := tools.Tests.RunTest(ctx, archive, config)
		if err != nil {
			return nil, err
		}
	}

	if !opts.NoClean {
		if err := os.RemoveAll(dirs.BuildDir); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}
	}

	return &Result{Archive: archive, Manifest: manifest}, nil
}

// Produces the unit snapshot carrying finalized dependencies.
//
// When the unit already has them, the environments are installed from the
// resolved information without re-resolution. Otherwise the requirements
// are resolved against the channel list and a new snapshot is produced;
// the original unit is never mutated.
func finalizeDependencies(ctx context.Context, unit *metadata.Unit, tools Tools, channels []string) (*metadata.Unit, error) {
	if unit.FinalizedDependencies != nil {
		slog.Info("using finalized dependencies")

		if err := tools.Installer.Install(ctx, unit); err != nil {
			return nil, err
		}
		return unit, nil
	}

	deps, err := tools.Resolver.Resolve(ctx, unit, channels)
	if err != nil {
		return nil, err
	}

	return unit.WithFinalizedDependencies(deps), nil
}

// Returns the interpreter and argument vector for the build script.
//
// The choice is keyed to the target platform family, matching the script
// extension selected by the resolver.
func interpreterFor(platform metadata.Platform, script string) (string, []string) {
	if platform.IsWindows() {
		return "cmd.exe", []string{"/d", "/c", script}
	}
	return "/bin/bash", []string{"-e", script}
}
