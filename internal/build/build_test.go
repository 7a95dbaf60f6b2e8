package build

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/babytracker/btctl/internal/config"
)

func TestStageDockerfile(t *testing.T) {
	dir := t.TempDir()

	name, cleanup, err := stageDockerfile(dir, "FROM scratch\n")
	if err != nil {
		t.Fatalf("stageDockerfile: %v", err)
	}

	if filepath.IsAbs(name) {
		t.Fatalf("name = %q, want relative to the context", name)
	}
	if !strings.HasPrefix(name, ".btctl-dockerfile-") {
		t.Fatalf("name = %q, want generated prefix", name)
	}

	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("staged file unreadable: %v", err)
	}
	if string(content) != "FROM scratch\n" {
		t.Fatalf("staged content = %q", content)
	}

	cleanup()
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Fatalf("cleanup left the staged file behind: %v", err)
	}
}

func TestStageDockerfileUnique(t *testing.T) {
	dir := t.TempDir()

	a, cleanupA, err := stageDockerfile(dir, "FROM a\n")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanupA()

	b, cleanupB, err := stageDockerfile(dir, "FROM b\n")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanupB()

	if a == b {
		t.Fatalf("staged names collide: %q", a)
	}
}

func TestContextExcludes(t *testing.T) {
	r := config.Recipe{ConfigFile: "data/config.ini"}
	got := contextExcludes(r)

	if !slices.Contains(got, "data") {
		t.Fatalf("excludes = %v, want live data directory excluded", got)
	}
	if !slices.Contains(got, "!data/config.ini") {
		t.Fatalf("excludes = %v, want default config re-included", got)
	}
}

func TestContextExcludesRootConfig(t *testing.T) {
	// A config file at the context root must not exclude the whole context.
	r := config.Recipe{ConfigFile: "config.ini"}
	got := contextExcludes(r)

	if slices.Contains(got, ".") {
		t.Fatalf("excludes = %v, must not exclude the context root", got)
	}
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()
	r := config.Recipe{
		Requirements: "requirements.txt",
		AppDir:       "babytracker",
		ConfigFile:   "data/config.ini",
	}

	if err := checkInputs(dir, r); !errors.Is(err, ErrContext) {
		t.Fatalf("err = %v, want ErrContext for empty context", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("dash\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "babytracker"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "config.ini"), []byte("[baby]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := checkInputs(dir, r); err != nil {
		t.Fatalf("checkInputs with complete context: %v", err)
	}
}
