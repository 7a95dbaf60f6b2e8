package build

import (
	"errors"
	"strings"
	"testing"

	"github.com/babytracker/btctl/internal/config"
)

func aptRecipe() config.Recipe {
	return config.Recipe{
		BaseImage:      "debian:bookworm-slim",
		PackageManager: config.PackageManagerApt,
		Packages:       []string{"python3", "python3-pip"},
		Requirements:   "requirements.txt",
		AppDir:         "babytracker",
		ConfigFile:     "data/config.ini",
		Timezone:       "Europe/Berlin",
		Context:        ".",
		Command:        []string{"python3", "web.py"},
	}
}

func apkRecipe() config.Recipe {
	r := aptRecipe()
	r.BaseImage = "alpine:3.20"
	r.PackageManager = config.PackageManagerApk
	r.Packages = []string{"python3", "py3-pip"}
	r.Timezone = ""
	return r
}

func TestRenderApt(t *testing.T) {
	out, err := render(aptRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.HasPrefix(out, "FROM debian:bookworm-slim\n") {
		t.Fatalf("missing FROM line:\n%s", out)
	}
	if !strings.Contains(out, "apt-get install -y --no-install-recommends") {
		t.Fatalf("missing apt install:\n%s", out)
	}
	if !strings.Contains(out, "EXPOSE 8050\n") {
		t.Fatalf("missing EXPOSE:\n%s", out)
	}
	if !strings.Contains(out, "VOLUME /opt/babytracker/data\n") {
		t.Fatalf("missing VOLUME:\n%s", out)
	}
	if !strings.Contains(out, `CMD ["python3", "web.py"]`) {
		t.Fatalf("missing CMD:\n%s", out)
	}
}

func TestRenderCacheClearSameLayer(t *testing.T) {
	out, err := render(aptRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// The cache clear must share the RUN layer with the install, otherwise
	// the cache is baked into a lower layer and the image grows anyway.
	for _, line := range strings.Split(out, "RUN ") {
		if strings.Contains(line, "apt-get install") {
			if !strings.Contains(line, "rm -rf /var/lib/apt/lists/*") {
				t.Fatalf("cache clear not in the install layer:\n%s", out)
			}
			return
		}
	}
	t.Fatalf("no install layer found:\n%s", out)
}

func TestRenderDependenciesBeforeApplication(t *testing.T) {
	out, err := render(aptRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	deps := strings.Index(out, "COPY requirements.txt")
	install := strings.Index(out, "pip3 install")
	app := strings.Index(out, "COPY babytracker ")

	if deps == -1 || install == -1 || app == -1 {
		t.Fatalf("missing expected lines:\n%s", out)
	}
	if !(deps < install && install < app) {
		t.Fatalf("dependency layers must precede the application copy:\n%s", out)
	}
}

func TestRenderTimezone(t *testing.T) {
	out, err := render(aptRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "ENV TZ=Europe/Berlin\n") {
		t.Fatalf("missing timezone env:\n%s", out)
	}
	if !strings.Contains(out, "tzdata") {
		t.Fatalf("timezone set but tzdata not installed:\n%s", out)
	}
}

func TestRenderNoTimezone(t *testing.T) {
	out, err := render(apkRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "ENV TZ=") {
		t.Fatalf("unexpected timezone env:\n%s", out)
	}
	if strings.Contains(out, "tzdata") {
		t.Fatalf("tzdata installed without a timezone:\n%s", out)
	}
}

func TestRenderApk(t *testing.T) {
	out, err := render(apkRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.HasPrefix(out, "FROM alpine:3.20\n") {
		t.Fatalf("missing FROM line:\n%s", out)
	}
	if !strings.Contains(out, "apk add --no-cache python3 py3-pip\n") {
		t.Fatalf("missing apk install:\n%s", out)
	}
	if strings.Contains(out, "apt-get") {
		t.Fatalf("apt leaked into apk recipe:\n%s", out)
	}
}

func TestRenderConfigSeededAtMountPath(t *testing.T) {
	out, err := render(aptRecipe(), 8050)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "COPY data/config.ini /opt/babytracker/data/config.ini\n") {
		t.Fatalf("default config not seeded at the mount path:\n%s", out)
	}
}

func TestRenderUnknownPackageManager(t *testing.T) {
	r := aptRecipe()
	r.PackageManager = "yum"

	if _, err := render(r, 8050); !errors.Is(err, ErrRecipe) {
		t.Fatalf("err = %v, want ErrRecipe", err)
	}
}

func TestJSONCommand(t *testing.T) {
	got := jsonCommand([]string{"python3", "web.py"})
	if got != `["python3", "web.py"]` {
		t.Fatalf("jsonCommand = %s", got)
	}
}
