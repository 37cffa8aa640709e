package drawlist

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gogpu/dlexport"
	iimage "github.com/gogpu/dlexport/internal/image"
)

func TestTexturesAddAndFetch(t *testing.T) {
	tex := NewTextures()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	id := tex.Add(img)
	if id == 0 {
		t.Fatal("Add() returned ID 0, which is reserved for the atlas")
	}
	got, err := tex.Texture(id)
	if err != nil {
		t.Fatalf("Texture(%d) error = %v", id, err)
	}
	if got != img {
		t.Errorf("Texture(%d) returned a different image", id)
	}
	if tex.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tex.Len())
	}
}

func TestTexturesAddSkipsUsedIDs(t *testing.T) {
	tex := NewTextures()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	tex.Set(1, img)
	tex.Set(2, img)
	if id := tex.Add(img); id != 3 {
		t.Errorf("Add() = %d, want 3", id)
	}
}

func TestTexturesMissing(t *testing.T) {
	tex := NewTextures()
	id := tex.Add(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	tex.Remove(id)

	_, err := tex.Texture(id)
	if !errors.Is(err, ErrUnknownTexture) {
		t.Errorf("Texture() error = %v, want ErrUnknownTexture", err)
	}
	if tex.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tex.Len())
	}
}

func TestTexturesLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	tex := NewTextures()
	id, err := tex.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, _ := tex.Texture(id)
	if got.Bounds().Dx() != 3 {
		t.Errorf("loaded width = %d, want 3", got.Bounds().Dx())
	}

	if _, err := tex.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}

func TestTexturesLoadBytes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 5))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	tex := NewTextures()
	id, err := tex.LoadBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	got, err := tex.Texture(id)
	if err != nil {
		t.Fatalf("Texture(%d) error = %v", id, err)
	}
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 5 {
		t.Errorf("loaded bounds = %v, want 2x5", b)
	}

	if _, err := tex.LoadBytes(nil); !errors.Is(err, iimage.ErrEmptyData) {
		t.Errorf("LoadBytes(nil) error = %v, want ErrEmptyData", err)
	}
	if _, err := tex.LoadBytes([]byte("not an image")); err == nil {
		t.Error("LoadBytes(garbage) error = nil, want error")
	}
	if tex.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tex.Len())
	}
}

func TestTexturesConcurrent(t *testing.T) {
	tex := NewTextures()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	var wg sync.WaitGroup
	ids := make([]dlexport.TextureID, 16)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = tex.Add(img)
		}()
	}
	wg.Wait()

	seen := make(map[dlexport.TextureID]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("ID %d assigned twice", id)
		}
		seen[id] = true
	}
}
