package dlexport

import (
	"errors"
	"image"
	"testing"

	"seehuhn.de/go/geom/rect"
)

func TestBindImages(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 4, 4))
	state := &DrawListState{
		Cmds: []DrawCommand{
			{TextureID: atlasTex},
			{TextureID: 7},
			{TextureID: 9},
		},
		Groups: []PolygonGroup{
			{glyphPoly("a", 0, 0, red, 1)},
			{triangle(red, 1, vtx(0, 0), vtx(1, 0), vtx(0, 1)), triangle(red, 1, vtx(5, 5), vtx(6, 5), vtx(5, 6))},
			{triangle(red, 1, vtx(0, 0), vtx(1, 0), vtx(0, 1))},
		},
	}

	failed := BindImages(state, atlasTex, testTextures{7: tex})
	if failed != 1 {
		t.Errorf("BindImages() = %d failed commands, want 1", failed)
	}

	if state.Groups[0][0].Kind() != KindText {
		t.Errorf("atlas polygon kind = %v, want text", state.Groups[0][0].Kind())
	}

	for i := range state.Groups[1] {
		fill, ok := state.Groups[1][i].Image()
		if !ok {
			t.Fatalf("polygon %d of texture 7 has no image", i)
		}
		if !fill.Available() || fill.Image != image.Image(tex) {
			t.Errorf("polygon %d image = %+v, want bound texture", i, fill)
		}
	}
	if a, b := state.Groups[1][0].Payload, state.Groups[1][1].Payload; a != b {
		t.Error("polygons of one command should share one fetched texture")
	}

	fill, ok := state.Groups[2][0].Image()
	if !ok {
		t.Fatal("polygon of texture 9 has no image payload")
	}
	if fill.Available() {
		t.Error("missing texture reported as available")
	}
	if !errors.Is(fill.Err, ErrTextureUnavailable) {
		t.Errorf("Err = %v, want ErrTextureUnavailable", fill.Err)
	}
	if !errors.Is(fill.Err, errNoTexture) {
		t.Errorf("Err = %v, want to wrap the source error", fill.Err)
	}
	var texErr *TextureError
	if !errors.As(fill.Err, &texErr) || texErr.ID != 9 {
		t.Errorf("Err = %v, want *TextureError for id 9", fill.Err)
	}
}

func TestBindImagesNilSource(t *testing.T) {
	state := &DrawListState{
		Cmds:   []DrawCommand{{TextureID: 3, ClipRect: rect.Rect{URx: 1, URy: 1}}},
		Groups: []PolygonGroup{{triangle(red, 1, vtx(0, 0), vtx(1, 0), vtx(0, 1))}},
	}
	if failed := BindImages(state, atlasTex, nil); failed != 1 {
		t.Errorf("BindImages(nil source) = %d, want 1", failed)
	}
	if st := state.Stats(); st.Placeholders != 1 {
		t.Errorf("Stats().Placeholders = %d, want 1", st.Placeholders)
	}
}
