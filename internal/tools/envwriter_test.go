package tools

import (
	"strings"
	"testing"

	"github.com/shale-build/shale/internal/build"
	"github.com/shale-build/shale/internal/metadata"
	"github.com/shale-build/shale/internal/recipe"
)

func envWriterUnit() *metadata.Unit {
	return &metadata.Unit{
		Recipe: &recipe.Recipe{Name: "demo", Version: "1.0.0"},
		BuildConfiguration: metadata.BuildConfiguration{
			BuildID:        "b-42",
			TargetPlatform: "linux-64",
			Directories: metadata.Directories{
				RecipeDir:   "/recipes/demo",
				WorkDir:     "/scratch/demo_b-42/work",
				HostPrefix:  "/scratch/demo_b-42/host_env",
				BuildPrefix: "/scratch/demo_b-42/build_env",
			},
		},
	}
}

func TestEnvWriterBash(t *testing.T) {
	var sink strings.Builder
	if err := (EnvWriter{}).WriteEnvScript(envWriterUnit(), "BUILD", &sink, build.DialectBash); err != nil {
		t.Fatalf("WriteEnvScript: %v", err)
	}
	script := sink.String()

	for _, want := range []string{
		`export CONDA_BUILD="1"`,
		`export SHALE_PHASE="BUILD"`,
		`export PREFIX="/scratch/demo_b-42/host_env"`,
		`export BUILD_PREFIX="/scratch/demo_b-42/build_env"`,
		`export SRC_DIR="/scratch/demo_b-42/work"`,
		`export PKG_NAME="demo"`,
		`export PKG_VERSION="1.0.0"`,
		`export target_platform="linux-64"`,
		`:$PATH`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script is missing %q:\n%s", want, script)
		}
	}
}

func TestEnvWriterCmdExe(t *testing.T) {
	unit := envWriterUnit()
	unit.BuildConfiguration.TargetPlatform = "win-64"

	var sink strings.Builder
	if err := (EnvWriter{}).WriteEnvScript(unit, "BUILD", &sink, build.DialectCmdExe); err != nil {
		t.Fatalf("WriteEnvScript: %v", err)
	}
	script := sink.String()

	for _, want := range []string{
		"set CONDA_BUILD=1\r\n",
		"set PREFIX=/scratch/demo_b-42/host_env\r\n",
		"%PATH%",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script is missing %q:\n%s", want, script)
		}
	}
	if strings.Contains(script, "export ") {
		t.Errorf("batch script contains bash syntax:\n%s", script)
	}
}
