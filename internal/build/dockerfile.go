package build

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/paths"
)

// Renders the recipe into a Dockerfile.
//
// Layer order is part of the contract: system packages first, then the
// dependency manifest, then application code, so dependency layers are
// cached independently of application changes. The package manager's cache
// is cleared in the same layer as the install to keep it out of the image.
func render(r config.Recipe, port int) (string, error) {
	install, err := installStep(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "FROM %s\n\n", r.BaseImage)
	b.WriteString(install)

	if r.Timezone != "" {
		fmt.Fprintf(&b, "\nENV TZ=%s\n", r.Timezone)
	}

	requirements := path.Join(paths.InstallDir, "requirements.txt")
	fmt.Fprintf(&b, "\nCOPY %s %s\n", r.Requirements, requirements)
	fmt.Fprintf(&b, "RUN pip3 install --no-cache-dir --break-system-packages -r %s\n", requirements)

	fmt.Fprintf(&b, "\nCOPY %s %s\n", r.AppDir, paths.AppWorkdir)
	fmt.Fprintf(&b, "COPY %s %s\n", r.ConfigFile, path.Join(paths.DataMount, "config.ini"))

	fmt.Fprintf(&b, "\nVOLUME %s\n", paths.DataMount)
	fmt.Fprintf(&b, "EXPOSE %d\n", port)
	fmt.Fprintf(&b, "WORKDIR %s\n", paths.AppWorkdir)
	fmt.Fprintf(&b, "CMD %s\n", jsonCommand(r.Command))

	return b.String(), nil
}

// Renders the system package install for the recipe's package manager
// flavor.
func installStep(r config.Recipe) (string, error) {
	packages := r.Packages

	// A configured timezone is meaningless without zoneinfo on the slim
	// base images, so tzdata rides along with the system packages.
	if r.Timezone != "" && !slices.Contains(packages, "tzdata") {
		packages = append(slices.Clone(packages), "tzdata")
	}

	list := strings.Join(packages, " ")

	switch r.PackageManager {
	case config.PackageManagerApt:
		return fmt.Sprintf("RUN apt-get update \\\n    && apt-get install -y --no-install-recommends %s \\\n    && rm -rf /var/lib/apt/lists/*\n", list), nil
	case config.PackageManagerApk:
		return fmt.Sprintf("RUN apk add --no-cache %s\n", list), nil
	default:
		return "", fmt.Errorf("%w: unknown package manager %q", ErrRecipe, r.PackageManager)
	}
}

// Formats a command in exec form, so the engine runs it without a shell.
func jsonCommand(cmd []string) string {
	quoted := make([]string, len(cmd))
	for i, c := range cmd {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
