package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Package manager flavors understood by the recipe renderer.
const (
	PackageManagerApt = "apt"
	PackageManagerApk = "apk"
)

// Container names. run and daemon share one fixed name so the engine itself
// refuses a second instance against the same host; shell gets its own so a
// debug session can run next to nothing else.
const (
	ContainerName      = "babytracker"
	ShellContainerName = "babytracker-shell"
)

// Default base images per package manager flavor.
var defaultBases = map[string]string{
	PackageManagerApt: "debian:bookworm-slim",
	PackageManagerApk: "alpine:3.20",
}

// Default system packages per package manager flavor.
var defaultPackages = map[string][]string{
	PackageManagerApt: {"python3", "python3-pip"},
	PackageManagerApk: {"python3", "py3-pip"},
}

// Deployment manifest for the babytracker service.
type Config struct {
	Image    string `yaml:"image"`    // Image reference to build and run (name:tag).
	Port     int    `yaml:"port"`     // Published port, host and container side alike.
	DataDir  string `yaml:"data_dir"` // Host data directory. Empty selects ./data.
	Platform string `yaml:"platform"` // Target platform (e.g. "linux/arm64"). Empty uses the daemon default.
	Recipe   Recipe `yaml:"build"`    // Build recipe for the image.
}

// Build recipe. One parameterized recipe replaces the historical pair of
// drifting container files; the varying options are explicit fields.
type Recipe struct {
	BaseImage      string   `yaml:"base_image"`      // Base OS image. Empty selects the flavor default.
	PackageManager string   `yaml:"package_manager"` // "apt" or "apk".
	Packages       []string `yaml:"packages"`        // System packages. Empty selects the flavor default.
	Requirements   string   `yaml:"requirements"`    // Dependency manifest, relative to the build context.
	AppDir         string   `yaml:"app_dir"`         // Application source directory, relative to the build context.
	ConfigFile     string   `yaml:"config_file"`     // Default config file, relative to the build context.
	Timezone       string   `yaml:"timezone"`        // Optional image timezone (ENV TZ). Empty omits it.
	Context        string   `yaml:"context"`         // Build context directory. Empty selects ".".
	Command        []string `yaml:"command"`         // Startup command baked into the image, invoked with no arguments.
}

// Returns the built-in manifest.
//
// The defaults reproduce the Debian variant of the original deployment,
// timezone included; the Alpine variant is a package_manager switch away.
func Default() *Config {
	return &Config{
		Image: "babytracker:latest",
		Port:  8050,
		Recipe: Recipe{
			PackageManager: PackageManagerApt,
			Requirements:   "requirements.txt",
			AppDir:         "babytracker",
			ConfigFile:     "data/config.ini",
			Timezone:       "Europe/Berlin",
			Context:        ".",
		},
	}
}

// Loads the manifest from the given path.
//
// An empty path returns the built-in defaults. Fields absent from the file
// keep their defaults, so a manifest only needs to spell out what differs.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrManifest, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrManifest, path, err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}

	return cfg, nil
}

// Fills flavor-dependent fields that the manifest left empty.
func (c *Config) applyDefaults() {
	if c.Recipe.PackageManager == "" {
		c.Recipe.PackageManager = PackageManagerApt
	}
	if c.Recipe.BaseImage == "" {
		c.Recipe.BaseImage = defaultBases[c.Recipe.PackageManager]
	}
	if len(c.Recipe.Packages) == 0 {
		c.Recipe.Packages = defaultPackages[c.Recipe.PackageManager]
	}
	if c.Recipe.Context == "" {
		c.Recipe.Context = "."
	}
	if len(c.Recipe.Command) == 0 {
		c.Recipe.Command = []string{"python3", "web.py"}
	}
}

// Checks the manifest for values the builder and runner cannot work with.
func (c *Config) Validate() error {
	if c.Image == "" {
		return fmt.Errorf("%w: image must not be empty", ErrManifest)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrManifest, c.Port)
	}
	return c.Recipe.Validate()
}

// Checks the recipe for values the renderer cannot work with.
func (r *Recipe) Validate() error {
	switch r.PackageManager {
	case PackageManagerApt, PackageManagerApk, "":
	default:
		return fmt.Errorf("%w: unknown package manager %q", ErrManifest, r.PackageManager)
	}
	if r.Requirements == "" {
		return fmt.Errorf("%w: requirements must not be empty", ErrManifest)
	}
	if r.AppDir == "" {
		return fmt.Errorf("%w: app_dir must not be empty", ErrManifest)
	}
	if r.ConfigFile == "" {
		return fmt.Errorf("%w: config_file must not be empty", ErrManifest)
	}
	if len(r.Command) == 0 {
		return fmt.Errorf("%w: command must not be empty", ErrManifest)
	}
	return nil
}
