package build

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
	"github.com/shale-build/shale/internal/recipe"
)

const bashPreamble = `
## Start of bash preamble
if [ -z ${CONDA_BUILD+x} ]; then
    source ((script_path))
fi
# enable debug mode for the rest of the script
set -x
## End of preamble
`

// Resolves the recipe's build script, prepends the environment-activation
// preamble, and persists the result into the work directory.
//
// Two files are written: build_env.{sh,bat} with the activation script
// produced by the env writer, and conda_build.{sh,bat} with the preamble
// followed by the resolved script body. The extension is selected solely
// by the target platform family, independent of the host running the
// builder. Returns the path of the build script file.
func createBuildScript(unit *metadata.Unit, envWriter EnvScriptWriter) (string, error) {
	dirs := unit.BuildConfiguration.Directories
	windows := unit.BuildConfiguration.TargetPlatform.IsWindows()

	ext := "sh"
	if windows {
		ext = "bat"
	}

	content, err := resolveScriptContent(unit.Recipe.Script.Contents(), dirs.RecipeDir, ext)
	if err != nil {
		return "", err
	}

	if unit.Recipe.Script.Interpreter != "" {
		slog.Warn("script interpreter overrides are not supported, ignoring",
			"interpreter", unit.Recipe.Script.Interpreter)
	}

	envScriptPath := filepath.Join(dirs.WorkDir, "build_env."+ext)

	envFile, err := os.OpenFile(envScriptPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScript, err)
	}

	dialect := DialectBash
	if windows {
		dialect = DialectCmdExe
	}
	if err := envWriter.WriteEnvScript(unit, "BUILD", envFile, dialect); err != nil {
		envFile.Close()
		return "", fmt.Errorf("%w: %w", ErrScript, err)
	}
	if err := envFile.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrScript, err)
	}

	var preamble string
	if windows {
		preamble = fmt.Sprintf("IF \"%%CONDA_BUILD%%\" == \"\" (\n    call %s\n)", envScriptPath)
	} else {
		preamble = strings.ReplaceAll(bashPreamble, "((script_path))", envScriptPath)
	}

	scriptPath := filepath.Join(dirs.WorkDir, "conda_build."+ext)
	full := preamble + "\n" + content

	if err := os.WriteFile(scriptPath, []byte(full), paths.ScriptMode); err != nil {
		return "", fmt.Errorf("%w: %w", ErrScript, err)
	}

	return scriptPath, nil
}

// Determines the literal script text from the recipe's authoring surface.
//
// The dispatch is exhaustive over the [recipe.ScriptContent] union:
//
//   - Default: read the conventionally named "build" file from the recipe
//     directory; an absent file yields an empty script, which is valid.
//   - Path: an explicitly named file; missing is a hard error. A path
//     without extension gets the platform default appended first.
//   - CommandOrPath: a single-line string ending in a known script
//     extension is tried as a path, falling back to the literal string if
//     the file does not exist. Any other read error propagates.
//   - Commands: newline-joined.
//   - Command: used verbatim.
func resolveScriptContent(content recipe.ScriptContent, recipeDir, defaultExt string) (string, error) {
	switch c := content.(type) {
	case recipe.DefaultScript:
		data, err := os.ReadFile(filepath.Join(recipeDir, "build."+defaultExt))
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrScript, err)
		}
		return string(data), nil

	case recipe.ScriptPath:
		path := c.Path
		if filepath.Ext(path) == "" {
			path += "." + defaultExt
		}
		data, err := os.ReadFile(filepath.Join(recipeDir, path))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrScript, err)
		}
		return string(data), nil

	case recipe.CommandOrPath:
		if looksLikeScriptPath(c.Value) {
			data, err := os.ReadFile(filepath.Join(recipeDir, c.Value))
			if err == nil {
				return string(data), nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %w", ErrScript, err)
			}
			// Fall through: treat the value as literal script text.
		}
		return c.Value, nil

	case recipe.Commands:
		return strings.Join(c.Commands, "\n"), nil

	case recipe.Command:
		return c.Command, nil

	default:
		return "", fmt.Errorf("%w: unknown script content %T", ErrScript, content)
	}
}

// Returns true if an ambiguous script value should be tried as a path: a
// single-line string ending in a known script extension. A value with a
// newline is never a path, regardless of how its lines end.
func looksLikeScriptPath(value string) bool {
	if strings.Contains(value, "\n") {
		return false
	}
	return strings.HasSuffix(value, ".sh") || strings.HasSuffix(value, ".bat")
}
