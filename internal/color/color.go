// Package color decodes the packed vertex colors emitted by immediate-mode
// renderers.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColorU8 represents a color with uint8 components in [0,255].
// Alpha is straight (not premultiplied).
type ColorU8 struct {
	R, G, B, A uint8
}

// Bit layout of a packed vertex color. The renderer stores the channels in
// memory order R, G, B, A, so read as a little-endian uint32 red ends up in
// the low byte.
const (
	shiftR = 0
	shiftG = 8
	shiftB = 16
	shiftA = 24
)

// Unpack decodes a packed vertex color.
func Unpack(c uint32) ColorU8 {
	return ColorU8{
		R: uint8(c >> shiftR),
		G: uint8(c >> shiftG),
		B: uint8(c >> shiftB),
		A: uint8(c >> shiftA),
	}
}

// Pack is the inverse of Unpack.
func Pack(c ColorU8) uint32 {
	return uint32(c.R)<<shiftR | uint32(c.G)<<shiftG | uint32(c.B)<<shiftB | uint32(c.A)<<shiftA
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c ColorU8) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// AlphaF64 maps an alpha byte to [0,1], rounded to 3 decimal places.
func AlphaF64(a uint8) float64 {
	return math.Round(float64(a)/255*1000) / 1000
}

// ParseHex parses "#rrggbb" or "#rrggbbaa". A missing alpha means opaque.
func ParseHex(s string) (ColorU8, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return ColorU8{}, fmt.Errorf("color: invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return ColorU8{}, fmt.Errorf("color: invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return ColorU8{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
