package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "shale"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for generated executable scripts.
	ScriptMode os.FileMode = 0755
)

// Path to the cache directory for downloaded and checked-out sources.
//
//	Linux:   ~/.cache/shale
//	macOS:   ~/Library/Caches/shale
func Cache() string {
	return filepath.Join(xdg.CacheHome, toolName)
}

// Default root directory for build scratch space.
//
//	Linux:   ~/.cache/shale/builds
//	macOS:   ~/Library/Caches/shale/builds
func BuildRoot() string {
	return filepath.Join(Cache(), "builds")
}
