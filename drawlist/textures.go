package drawlist

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/dlexport"
	iimage "github.com/gogpu/dlexport/internal/image"
)

// Textures is an in-memory texture store. It implements
// dlexport.TextureSource.
//
// ID 0 is never assigned by Add; by convention it belongs to the font
// atlas. Textures is safe for concurrent use.
type Textures struct {
	mu     sync.RWMutex
	images map[dlexport.TextureID]image.Image
	next   dlexport.TextureID
}

var _ dlexport.TextureSource = (*Textures)(nil)

// NewTextures creates an empty texture store.
func NewTextures() *Textures {
	return &Textures{
		images: make(map[dlexport.TextureID]image.Image),
		next:   1,
	}
}

// Add stores img under a fresh ID and returns it.
func (t *Textures) Add(img image.Image) dlexport.TextureID {
	t.mu.Lock()
	defer t.mu.Unlock()

	for t.images[t.next] != nil {
		t.next++
	}
	id := t.next
	t.images[id] = img
	t.next++
	return id
}

// Set stores img under id, replacing any previous image.
func (t *Textures) Set(id dlexport.TextureID, img image.Image) {
	t.mu.Lock()
	t.images[id] = img
	t.mu.Unlock()
}

// Remove deletes the image stored under id.
func (t *Textures) Remove(id dlexport.TextureID) {
	t.mu.Lock()
	delete(t.images, id)
	t.mu.Unlock()
}

// Len returns the number of stored textures.
func (t *Textures) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.images)
}

// Load decodes the image file at path and adds it to the store.
func (t *Textures) Load(path string) (dlexport.TextureID, error) {
	img, err := iimage.LoadImage(path)
	if err != nil {
		return 0, fmt.Errorf("drawlist: load texture: %w", err)
	}
	return t.Add(img), nil
}

// LoadBytes decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP) and
// adds it to the store.
func (t *Textures) LoadBytes(data []byte) (dlexport.TextureID, error) {
	img, err := iimage.LoadImageFromBytes(data)
	if err != nil {
		return 0, fmt.Errorf("drawlist: load texture: %w", err)
	}
	return t.Add(img), nil
}

// Texture implements dlexport.TextureSource.
func (t *Textures) Texture(id dlexport.TextureID) (image.Image, error) {
	t.mu.RLock()
	img, ok := t.images[id]
	t.mu.RUnlock()
	if !ok || img == nil {
		return nil, ErrUnknownTexture
	}
	return img, nil
}
