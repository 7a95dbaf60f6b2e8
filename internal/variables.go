package internal

import (
	"runtime"
	"strings"
)

// Name of the tool, used for logging prefixes and path naming.
const Name = "btctl"

// Version reported for builds without linker flags.
const devVersion = "dev"

// Set via ldflags by the release pipeline. Local builds leave them empty
// and report a dev version.
var (
	version     = "" // Release version (e.g. "1.2.3").
	gitCommit   = "" // Git commit hash the release was cut from.
	rawLogLevel = "" // Default log level ("quiet", "info", or "debug").
)

// Returns the release version, "dev" when none was baked in. A "v" prefix
// is stripped so tag names can be passed through unchanged.
func Version() string {
	v := strings.TrimSpace(version)
	if v == "" {
		return devVersion
	}
	return strings.TrimPrefix(strings.ToLower(v), "v")
}

// Returns the git commit the build was cut from, truncated for display.
// Empty for local builds.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if len(c) > 12 {
		c = c[:12]
	}
	return c
}

// Returns the version line printed by the version command, for example
// "1.2.3 (a1b2c3d4e5f6) linux/amd64".
func VersionString() string {
	s := Version()
	if c := GitCommit(); c != "" {
		s += " (" + c + ")"
	}
	return s + " " + runtime.GOOS + "/" + runtime.GOARCH
}
