package build

import (
	"context"
	"io"

	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/recipe"
)

// Shell dialect for generated environment scripts.
type ShellDialect string

const (
	DialectBash   ShellDialect = "bash"
	DialectCmdExe ShellDialect = "cmdexe"
)

// Resolves a build unit's declared requirements against a channel list
// into a version-pinned dependency set.
type Resolver interface {
	Resolve(ctx context.Context, unit *metadata.Unit, channels []string) (*metadata.FinalizedDependencies, error)
}

// Installs the environments described by a unit's finalized dependencies
// into the host and build prefixes.
type Installer interface {
	Install(ctx context.Context, unit *metadata.Unit) error
}

// Packages the new files under the host prefix into an archive in the
// output directory, returning the archive path and the manifest of
// packaged paths.
type Packager interface {
	Package(ctx context.Context, unit *metadata.Unit, newFiles []string, hostPrefix, outputDir string, format metadata.PackageFormat) (archive string, manifest []string, err error)
}

// Indexes a directory as a local package channel so resolution can see the
// packages it contains.
type Indexer interface {
	Index(ctx context.Context, outputDir string, platform metadata.Platform) error
}

// Configuration handed to the test runner for a package test run.
type TestConfiguration struct {
	TestPrefix     string            // Fresh prefix directory the package is installed into.
	TargetPlatform metadata.Platform // Platform the package was built for.
	KeepTestPrefix bool              // Whether the test prefix survives the run.
	Channels       []string          // Channels available during test environment resolution.
	Commands       []string          // The recipe's declared test commands.
}

// Runs the two test stages: package-content assertions against the
// manifest, and the package's declared tests against the built archive.
type TestRunner interface {
	RunPackageContentTests(ctx context.Context, spec *recipe.TestSpec, manifest []string, platform metadata.Platform) error
	RunTest(ctx context.Context, archive string, config TestConfiguration) error
}

// Writes the environment-activation script for a build phase to the sink,
// in the given shell dialect.
type EnvScriptWriter interface {
	WriteEnvScript(unit *metadata.Unit, phase string, sink io.Writer, dialect ShellDialect) error
}

// The external collaborators a build run is composed with.
type Tools struct {
	Resolver  Resolver
	Installer Installer
	Packager  Packager
	Indexer   Indexer
	Tests     TestRunner
	EnvWriter EnvScriptWriter
}
