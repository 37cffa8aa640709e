package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrNoSizes is returned when an atlas is requested without font sizes.
	ErrNoSizes = errors.New("text: no font sizes")
)

// InvalidSizeError is returned for a font size that is not positive.
type InvalidSizeError struct {
	Size float64
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("text: invalid font size %v", e.Size)
}
