package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
)

// Resolves dependencies for recipes that declare none.
//
// Real resolution is an external collaborator's job; this resolver exists
// so dependency-free recipes build end-to-end out of the box. A recipe
// with requirements is rejected rather than silently under-resolved.
type TrivialResolver struct{}

// Returns an empty finalized dependency set, or an error if the recipe
// declares requirements this resolver cannot satisfy.
func (TrivialResolver) Resolve(ctx context.Context, unit *metadata.Unit, channels []string) (*metadata.FinalizedDependencies, error) {
	req := unit.Recipe.Requirements
	if len(req.Build) > 0 || len(req.Host) > 0 {
		return nil, fmt.Errorf("%w: recipe declares %d build and %d host requirements",
			ErrUnresolvable, len(req.Build), len(req.Host))
	}
	return &metadata.FinalizedDependencies{}, nil
}

// Installs environments for trivially resolved dependency sets.
//
// Creating the prefix directories is all an empty dependency set needs; a
// finalized set with pinned packages requires an external installer.
type TrivialInstaller struct{}

// Prepares the host and build prefixes.
func (TrivialInstaller) Install(ctx context.Context, unit *metadata.Unit) error {
	deps := unit.FinalizedDependencies
	if deps != nil && (len(deps.Build) > 0 || len(deps.Host) > 0) {
		return fmt.Errorf("%w: finalized set contains pinned packages", ErrUnresolvable)
	}

	dirs := unit.BuildConfiguration.Directories
	for _, prefix := range []string{dirs.HostPrefix, dirs.BuildPrefix} {
		if err := os.MkdirAll(prefix, paths.DefaultDirMode); err != nil {
			return err
		}
	}
	return nil
}
