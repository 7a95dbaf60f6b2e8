package internal

import "strings"

// Log detail, ordered from least to most output.
type LogLevel int

const (
	LogQuiet LogLevel = iota // Warnings and errors only.
	LogInfo                  // Operator-facing progress.
	LogDebug                 // Engine-level detail.
)

// Returns the log level baked in via the rawLogLevel linker flag.
//
// Unset or unrecognized values select info. The CLI flags can still raise
// or lower the result after parsing.
func DefaultLogLevel() LogLevel {
	switch strings.ToLower(strings.TrimSpace(rawLogLevel)) {
	case "quiet", "warn":
		return LogQuiet
	case "debug":
		return LogDebug
	default:
		return LogInfo
	}
}
