// Parses flags and dispatches the lifecycle commands.
//
// The tool accepts the following flags:
//
//	-q, --quiet      Suppress informational output.
//	-v, --verbose    Enable verbose output.
//	-d, --debug      Enable debug output.
//	-m, --manifest   Deployment manifest path.
//	    --data       Host data directory override.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected command runs.
//
// Every command is a thin translation to one engine invocation; the shared
// helpers load the manifest, resolve the data directory, and enforce the
// image-exists precondition for the container commands.
package cli
