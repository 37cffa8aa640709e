package drawlist

import "errors"

var (
	// ErrNoFont is returned when text is drawn at a size the atlas does not
	// contain.
	ErrNoFont = errors.New("drawlist: font size not in atlas")

	// ErrUnknownTexture is returned by Textures for an unregistered ID.
	ErrUnknownTexture = errors.New("drawlist: unknown texture")
)
