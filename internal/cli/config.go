package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/shale-build/shale/internal"
)

// Builder configuration loaded from a YAML file.
//
// Every field has a flag counterpart on the build command; flags win over
// file values.
type fileConfig struct {
	Channels       []string `yaml:"channels"`
	TargetPlatform string   `yaml:"target_platform"`
	CacheDir       string   `yaml:"cache_dir"`
	ScratchDir     string   `yaml:"scratch_dir"`
	NoClean        bool     `yaml:"no_clean"`
	NoTest         bool     `yaml:"no_test"`
}

// Loads the builder config from the given path, or from the default
// location when the path is empty. A missing default file yields a zero
// config; a missing explicit file is an error.
func loadConfig(path string) (fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(xdg.ConfigHome, internal.Name, "config.yaml")
	}

	var config fileConfig

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, nil
}
