package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/errdefs"
)

// Image lookup double. Only the listed references exist.
type fakeImages struct {
	refs     map[string]types.ImageInspect
	inspects int
}

func (f *fakeImages) ImageInspectWithRaw(ctx context.Context, ref string) (types.ImageInspect, []byte, error) {
	f.inspects++
	insp, ok := f.refs[ref]
	if !ok {
		return types.ImageInspect{}, nil, errdefs.NotFound(fmt.Errorf("no such image: %s", ref))
	}
	return insp, nil, nil
}

func builtImage() types.ImageInspect {
	return types.ImageInspect{
		ID:       "sha256:a3f2c44758b789f23cdef129edf9843ef2c7f97296dd4a8d1a6d52d14a3cd7ee",
		Size:     2048,
		RepoTags: []string{"babytracker:latest"},
	}
}

func TestEnsureImageMissing(t *testing.T) {
	eng := &Engine{images: &fakeImages{}}

	err := eng.EnsureImage(context.Background(), "babytracker:latest")
	if !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("EnsureImage() = %v, want ErrImageNotFound", err)
	}
	if !strings.Contains(err.Error(), "babytracker:latest") {
		t.Fatalf("EnsureImage() = %v, want the reference in the message", err)
	}
}

func TestEnsureImagePresent(t *testing.T) {
	imgs := &fakeImages{refs: map[string]types.ImageInspect{"babytracker:latest": builtImage()}}
	eng := &Engine{images: imgs}

	if err := eng.EnsureImage(context.Background(), "babytracker:latest"); err != nil {
		t.Fatalf("EnsureImage() = %v", err)
	}
	if imgs.inspects != 1 {
		t.Fatalf("inspects = %d, want 1", imgs.inspects)
	}
}

func TestImageExists(t *testing.T) {
	imgs := &fakeImages{refs: map[string]types.ImageInspect{"babytracker:latest": builtImage()}}
	eng := &Engine{images: imgs}

	ok, err := eng.ImageExists(context.Background(), "babytracker:latest")
	if err != nil || !ok {
		t.Fatalf("ImageExists(built) = %v, %v, want true", ok, err)
	}

	ok, err = eng.ImageExists(context.Background(), "babytracker:unbuilt")
	if err != nil || ok {
		t.Fatalf("ImageExists(unbuilt) = %v, %v, want false without error", ok, err)
	}
}

func TestImageSummary(t *testing.T) {
	imgs := &fakeImages{refs: map[string]types.ImageInspect{"babytracker:latest": builtImage()}}
	eng := &Engine{images: imgs}

	info, err := eng.Image(context.Background(), "babytracker:latest")
	if err != nil {
		t.Fatalf("Image() = %v", err)
	}
	if info.ID != "a3f2c44758b7" {
		t.Fatalf("ID = %q, want the truncated digest", info.ID)
	}
	if len(info.Tags) != 1 || info.Tags[0] != "babytracker:latest" {
		t.Fatalf("Tags = %v", info.Tags)
	}
	if info.Size == "" {
		t.Fatal("Size must be formatted for display")
	}
}

func TestImageSummaryMissing(t *testing.T) {
	eng := &Engine{images: &fakeImages{}}

	if _, err := eng.Image(context.Background(), "babytracker:latest"); !errors.Is(err, ErrImageNotFound) {
		t.Fatalf("Image() = %v, want ErrImageNotFound", err)
	}
}
