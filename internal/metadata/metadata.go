package metadata

import (
	"strings"

	"github.com/shale-build/shale/internal/recipe"
)

// A conda-style target platform identifier (e.g., "linux-64", "osx-arm64",
// "win-64", "noarch").
type Platform string

// Returns true if the platform belongs to the Windows family.
//
// The Windows family selects batch script generation and the cmd.exe
// interpreter; everything else is treated as POSIX.
func (p Platform) IsWindows() bool {
	return strings.HasPrefix(string(p), "win-")
}

// Format of the package archive written by the packager.
type PackageFormat string

const (
	FormatTarGz  PackageFormat = "tar.gz"
	FormatTarBz2 PackageFormat = "tar.bz2"
)

// A single fully resolved, version-pinned package.
type PinnedPackage struct {
	Name    string
	Version string
	Build   string // Build string disambiguating same-version builds.
	Channel string // Channel the package was resolved from.
}

// A fully resolved, version-pinned dependency set ready for environment
// installation.
//
// FinalizedDependencies is attached to a [Unit] exactly once; after that
// the unit snapshot carrying it is immutable.
type FinalizedDependencies struct {
	Build []PinnedPackage // Installed into the build prefix.
	Host  []PinnedPackage // Installed into the host prefix.
}

// Fixed configuration for one build invocation.
type BuildConfiguration struct {
	BuildID        string        // Unique identifier for this invocation, used in logs and scratch paths.
	TargetPlatform Platform      // Platform the package is built for.
	Channels       []string      // Channels consulted during dependency resolution.
	PackageFormat  PackageFormat // Archive format for the packaged result.
	Directories    Directories   // Directory layout for this invocation.
}

// The aggregate handed through the build pipeline: the immutable recipe,
// the build configuration, and, once resolution has happened, the
// finalized dependencies.
type Unit struct {
	Recipe                *recipe.Recipe
	BuildConfiguration    BuildConfiguration
	FinalizedDependencies *FinalizedDependencies
}

// Returns a new unit snapshot carrying the finalized dependencies.
//
// The receiver is not modified. Finalization happens once; the returned
// snapshot is what the rest of the pipeline threads through.
func (u *Unit) WithFinalizedDependencies(deps *FinalizedDependencies) *Unit {
	return &Unit{
		Recipe:                u.Recipe,
		BuildConfiguration:    u.BuildConfiguration,
		FinalizedDependencies: deps,
	}
}
