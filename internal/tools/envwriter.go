package tools

import (
	"fmt"
	"io"

	"github.com/shale-build/shale/internal/build"
	"github.com/shale-build/shale/internal/metadata"
)

// Emits environment-activation scripts for generated build scripts.
//
// The emitted script exports the prefix paths and package identity the
// build script body relies on, plus the CONDA_BUILD marker the preamble
// checks to stay idempotent under nested invocations.
type EnvWriter struct{}

// Writes the activation script for a phase in the requested dialect.
func (EnvWriter) WriteEnvScript(unit *metadata.Unit, phase string, sink io.Writer, dialect build.ShellDialect) error {
	dirs := unit.BuildConfiguration.Directories

	vars := []struct {
		name  string
		value string
	}{
		{"CONDA_BUILD", "1"},
		{"SHALE_PHASE", phase},
		{"PREFIX", dirs.HostPrefix},
		{"BUILD_PREFIX", dirs.BuildPrefix},
		{"RECIPE_DIR", dirs.RecipeDir},
		{"SRC_DIR", dirs.WorkDir},
		{"PKG_NAME", unit.Recipe.Name},
		{"PKG_VERSION", unit.Recipe.Version},
		{"PKG_BUILD_ID", unit.BuildConfiguration.BuildID},
		{"target_platform", string(unit.BuildConfiguration.TargetPlatform)},
	}

	switch dialect {
	case build.DialectCmdExe:
		for _, v := range vars {
			if _, err := fmt.Fprintf(sink, "set %s=%s\r\n", v.name, v.value); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(sink, "set PATH=%s\\bin;%s\\bin;%%PATH%%\r\n", dirs.BuildPrefix, dirs.HostPrefix)
		return err

	default:
		for _, v := range vars {
			if _, err := fmt.Fprintf(sink, "export %s=%q\n", v.name, v.value); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(sink, "export PATH=%q:%q:$PATH\n", dirs.BuildPrefix+"/bin", dirs.HostPrefix+"/bin")
		return err
	}
}
