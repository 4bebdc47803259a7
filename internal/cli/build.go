package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/google/uuid"

	"github.com/shale-build/shale/internal/build"
	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/paths"
	"github.com/shale-build/shale/internal/tools"
)

// Represents the 'shale build' command.
type BuildCmd struct {
	Recipe         string   `arg:"" help:"Recipe file, or a directory containing recipe.yaml." type:"path"`
	Output         string   `short:"o" default:"output" help:"Output directory for the packaged result." type:"path"`
	TargetPlatform string   `help:"Target platform (e.g. linux-64). Defaults to the host."`
	Channel        []string `help:"Additional channels for dependency resolution." placeholder:"URL"`
	CacheDir       string   `help:"Override the source cache directory." type:"path"`
	ScratchDir     string   `help:"Override the build scratch root." type:"path"`
	NoClean        bool     `help:"Keep the build directory and test prefix after the run."`
	NoTest         bool     `help:"Skip the package's declared tests."`
}

// Executes the build command.
//
// Loads the builder config and the recipe, lays out the per-invocation
// directories, and runs the pipeline with the reference collaborators.
// Prints the resulting archive path on success.
func (c *BuildCmd) Run(ctx context.Context) error {
	config, err := loadConfig(RootCmd.Config)
	if err != nil {
		return err
	}

	recipePath := c.Recipe
	if info, err := os.Stat(recipePath); err == nil && info.IsDir() {
		recipePath = filepath.Join(recipePath, "recipe.yaml")
	}

	rec, err := loadRecipe(recipePath)
	if err != nil {
		return err
	}

	recipeDir, err := filepath.Abs(filepath.Dir(recipePath))
	if err != nil {
		return err
	}
	outputDir, err := filepath.Abs(c.Output)
	if err != nil {
		return err
	}

	scratch := firstOf(c.ScratchDir, config.ScratchDir, paths.BuildRoot())
	platform := firstOf(c.TargetPlatform, config.TargetPlatform, hostPlatform())

	buildID := uuid.NewString()

	dirs := metadata.NewDirectories(recipeDir, outputDir, scratch, rec.Name, buildID)
	if cache := firstOf(c.CacheDir, config.CacheDir); cache != "" {
		dirs.CacheDir = cache
	}

	unit := &metadata.Unit{
		Recipe: rec,
		BuildConfiguration: metadata.BuildConfiguration{
			BuildID:        buildID,
			TargetPlatform: metadata.Platform(platform),
			Channels:       append(config.Channels, c.Channel...),
			PackageFormat:  metadata.FormatTarGz,
			Directories:    dirs,
		},
	}

	result, err := build.Run(ctx, unit, tools.Default(), build.Options{
		NoClean: c.NoClean || config.NoClean,
		NoTest:  c.NoTest || config.NoTest,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.Archive)
	return nil
}

// Returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Maps the host OS and architecture to a platform identifier.
func hostPlatform() string {
	arch := map[string]string{
		"amd64": "64",
		"386":   "32",
	}[goruntime.GOARCH]
	if arch == "" {
		arch = goruntime.GOARCH
	}

	switch goruntime.GOOS {
	case "darwin":
		return "osx-" + arch
	case "windows":
		return "win-" + arch
	default:
		return goruntime.GOOS + "-" + arch
	}
}
