package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "btctl"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// File name of the deployment manifest.
	manifestName = "btctl.yaml"

	// File name of the advisory lock inside the data directory.
	lockName = ".btctl.lock"

	// File name of the service configuration inside the data directory.
	configName = "config.ini"
)

// Image-internal paths. The image is laid out so that the application
// directory and the data directory are siblings under the install root,
// matching what the service expects at startup.
const (

	// Install root inside the image.
	InstallDir = "/opt/babytracker"

	// Mount path of the data directory inside the container. The host data
	// directory is bound here; the image ships a default config at this path
	// only as a first-run fallback.
	DataMount = InstallDir + "/data"

	// Working directory of the service process inside the container.
	AppWorkdir = InstallDir + "/babytracker"
)

// Name of the host data directory relative to the working directory.
const defaultDataDir = "data"

// Path to the deployment manifest.
//
// A btctl.yaml in the working directory wins. Otherwise the XDG config
// directory is consulted:
//
//	Linux:   ~/.config/btctl/btctl.yaml
//	macOS:   ~/Library/Application Support/btctl/btctl.yaml
//
// Returns the empty string when neither exists; the caller falls back to
// built-in defaults.
func Manifest() string {
	if _, err := os.Stat(manifestName); err == nil {
		return manifestName
	}

	fallback := filepath.Join(xdg.ConfigHome, toolName, manifestName)
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}

	return ""
}

// Resolves the host data directory to an absolute path.
//
// An empty dir selects the conventional ./data next to the invocation.
func DataDir(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	return filepath.Abs(dir)
}

// Path to the advisory lock file inside the data directory.
func LockFile(dataDir string) string {
	return filepath.Join(dataDir, lockName)
}

// Path to the service configuration file inside the data directory.
func ConfigINI(dataDir string) string {
	return filepath.Join(dataDir, configName)
}
