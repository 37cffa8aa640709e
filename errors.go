package dlexport

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dlexport package.
var (
	// ErrTextureUnavailable is reported for polygon groups whose bound texture
	// could not be fetched. The group is still exported, with a transparent
	// placeholder in place of the image.
	ErrTextureUnavailable = errors.New("dlexport: texture unavailable")
)

// TextureError records a failed texture fetch for one draw command.
type TextureError struct {
	ID  TextureID
	Err error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("dlexport: texture %d: %v", e.ID, e.Err)
}

// Unwrap returns the underlying fetch error.
func (e *TextureError) Unwrap() error {
	return e.Err
}

// Is reports ErrTextureUnavailable for every TextureError, so callers can
// test with errors.Is regardless of what the texture source returned.
func (e *TextureError) Is(target error) bool {
	return target == ErrTextureUnavailable
}
