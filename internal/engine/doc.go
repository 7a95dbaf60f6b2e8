// Package engine wraps the Docker Engine API for the lifecycle operations.
//
// Every operation is one deterministic translation to an engine invocation:
// a [Spec] enumerates the fixed arguments (data bind, published port,
// restart policy, terminal flags) and the translation helpers turn it into
// the engine's container and host configurations. Failures pass through
// from the engine unchanged apart from sentinel wrapping; the only added
// behavior is the fail-fast image existence check that replaces the
// engine's late not-found error with a typed precondition failure.
//
// Foreground runs attach the streams before start and register the exit
// watch before start, so neither early output nor an immediate exit can be
// missed. Detached runs return as soon as the engine has scheduled the
// container.
package engine
