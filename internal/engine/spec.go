package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/babytracker/btctl/internal/paths"
)

// SELinux relabel option applied to the data bind mount, for hosts running
// mandatory access control.
const bindRelabel = "z"

// Describes a container to create.
//
// The spec is the full deterministic translation of one lifecycle operation:
// every field maps to a fixed engine argument, nothing is inferred at
// create time.
type Spec struct {
	Image                string   // Image reference to run.
	Name                 string   // Container name. The engine rejects duplicates.
	Cmd                  []string // Command override. Empty keeps the image's default entry command.
	DataDir              string   // Absolute host data directory, bound at paths.DataMount.
	Port                 int      // Published port, host:container 1:1. Zero publishes nothing.
	Platform             string   // Target platform (e.g. "linux/arm64"). Empty uses the daemon default.
	TTY                  bool     // Allocate a pseudo-terminal.
	Interactive          bool     // Keep stdin open and attach it.
	Detach               bool     // Run in the background; no streams attached.
	AutoRemove           bool     // Remove the container when it exits.
	RestartUnlessStopped bool     // Restart automatically unless explicitly stopped.
}

// Translates the spec into the engine's container configuration.
func containerConfig(s Spec) *container.Config {
	cfg := &container.Config{
		Image:        s.Image,
		Tty:          s.TTY,
		OpenStdin:    s.Interactive,
		StdinOnce:    s.Interactive,
		AttachStdin:  s.Interactive && !s.Detach,
		AttachStdout: !s.Detach,
		AttachStderr: !s.Detach,
		ExposedPorts: portSet(s.Port),
	}
	if len(s.Cmd) > 0 {
		cfg.Cmd = strslice.StrSlice(s.Cmd)
	}
	return cfg
}

// Translates the spec into the engine's host configuration.
func hostConfig(s Spec) *container.HostConfig {
	hc := &container.HostConfig{
		Binds:        []string{dataBind(s.DataDir)},
		PortBindings: portMap(s.Port),
		AutoRemove:   s.AutoRemove,
	}
	if s.RestartUnlessStopped {
		hc.RestartPolicy = container.RestartPolicy{Name: container.RestartPolicyUnlessStopped}
	}
	return hc
}

// Parses the spec's platform into an OCI platform, nil when unset.
func platform(s Spec) (*ocispec.Platform, error) {
	if s.Platform == "" {
		return nil, nil
	}

	os, arch, ok := strings.Cut(s.Platform, "/")
	if !ok || os == "" || arch == "" {
		return nil, fmt.Errorf("%w: invalid platform %q", ErrEngine, s.Platform)
	}

	p := &ocispec.Platform{OS: os, Architecture: arch}
	if rest := strings.SplitN(arch, "/", 2); len(rest) == 2 {
		p.Architecture = rest[0]
		p.Variant = rest[1]
	}
	return p, nil
}

// Formats the host-to-container bind for the data directory.
//
// The relabel option keeps the mount readable under SELinux-enforcing
// hosts; engines without label support ignore it.
func dataBind(hostDir string) string {
	return hostDir + ":" + paths.DataMount + ":" + bindRelabel
}

// The container-side TCP port for a published port number.
func natPort(port int) nat.Port {
	return nat.Port(strconv.Itoa(port) + "/tcp")
}

// Exposed-ports set for the container config. Nil when nothing is published.
func portSet(port int) nat.PortSet {
	if port <= 0 {
		return nil
	}
	return nat.PortSet{natPort(port): struct{}{}}
}

// Host port bindings, mapping the port 1:1 on all host interfaces. Nil when
// nothing is published.
func portMap(port int) nat.PortMap {
	if port <= 0 {
		return nil
	}
	return nat.PortMap{
		natPort(port): []nat.PortBinding{{HostPort: strconv.Itoa(port)}},
	}
}
