package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
channels:
  - https://example.com/channel
target_platform: linux-aarch64
cache_dir: /var/cache/shale
no_clean: true
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		config, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}

		if !reflect.DeepEqual(config.Channels, []string{"https://example.com/channel"}) {
			t.Errorf("channels = %v", config.Channels)
		}
		if config.TargetPlatform != "linux-aarch64" {
			t.Errorf("target platform = %q", config.TargetPlatform)
		}
		if config.CacheDir != "/var/cache/shale" {
			t.Errorf("cache dir = %q", config.CacheDir)
		}
		if !config.NoClean || config.NoTest {
			t.Errorf("flags = %+v", config)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("loadConfig succeeded, want an error")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("channels: [oops\n"), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := loadConfig(path); err == nil {
			t.Fatal("loadConfig succeeded, want an error")
		}
	})
}

func TestFirstOf(t *testing.T) {
	if got := firstOf("", "", "fallback"); got != "fallback" {
		t.Errorf("firstOf = %q", got)
	}
	if got := firstOf("flag", "file", "fallback"); got != "flag" {
		t.Errorf("firstOf = %q", got)
	}
	if got := firstOf("", ""); got != "" {
		t.Errorf("firstOf = %q, want empty", got)
	}
}

func TestHostPlatform(t *testing.T) {
	platform := hostPlatform()
	if platform == "" {
		t.Fatal("host platform is empty")
	}
	if !strings.Contains(platform, "-") {
		t.Errorf("host platform %q is not os-arch shaped", platform)
	}
}
