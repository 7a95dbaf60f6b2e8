package internal

import (
	"runtime"
	"strings"
	"testing"
)

func setBuildVars(t *testing.T, v, commit string) {
	t.Helper()
	origVersion, origCommit := version, gitCommit
	version, gitCommit = v, commit
	t.Cleanup(func() { version, gitCommit = origVersion, origCommit })
}

func TestVersionStringDevBuild(t *testing.T) {
	setBuildVars(t, "", "")

	want := "dev " + runtime.GOOS + "/" + runtime.GOARCH
	if got := VersionString(); got != want {
		t.Fatalf("VersionString() = %q, want %q", got, want)
	}
}

func TestVersionStringRelease(t *testing.T) {
	setBuildVars(t, "v1.2.3", "a1b2c3d4e5f6a7b8")

	got := VersionString()
	if !strings.HasPrefix(got, "1.2.3 (a1b2c3d4e5f6)") {
		t.Fatalf("VersionString() = %q, want version with truncated commit", got)
	}
}

func TestVersionStripsTagPrefix(t *testing.T) {
	setBuildVars(t, "V2.0.0", "")

	if got := Version(); got != "2.0.0" {
		t.Fatalf("Version() = %q, want %q", got, "2.0.0")
	}
}
