package dlexport

import (
	"image"
	"math"

	icolor "github.com/gogpu/dlexport/internal/color"
	"seehuhn.de/go/geom/rect"
)

// Color is an opaque fill color. Alpha is carried separately on the polygon.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return icolor.ColorU8{R: c.R, G: c.G, B: c.B}.Hex()
}

// PolygonKind identifies what a polygon was reconstructed as.
type PolygonKind int

const (
	// KindPlain is a filled outline.
	KindPlain PolygonKind = iota

	// KindText is a glyph or a run of glyphs.
	KindText

	// KindImage is an outline filled with a texture.
	KindImage
)

// String returns the kind name.
func (k PolygonKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Payload is the optional part of a polygon. It is implemented by *TextRun
// and *ImageFill only; a nil payload means a plain polygon.
type Payload interface {
	payload()
}

// TextRun is the payload of a polygon recognized as text.
//
// Before runs are joined a TextRun holds exactly one glyph. LastCharX and
// LastCharY anchor the most recently appended glyph; Advance is that glyph's
// advance.
type TextRun struct {
	Text      string
	FontSize  float64
	Advance   float64
	LastCharX float64
	LastCharY float64
	Vertical  bool
}

func (*TextRun) payload() {}

// ImageFill is the payload of a polygon drawn with a non-atlas texture.
// Err is set when the texture could not be fetched; Image is nil then.
type ImageFill struct {
	TextureID TextureID
	Image     image.Image
	Err       error
}

func (*ImageFill) payload() {}

// Available reports whether the texture contents were fetched.
func (f *ImageFill) Available() bool {
	return f.Err == nil && f.Image != nil
}

// Polygon is a reconstructed shape: an ordered outline, a fill and an
// optional text or image payload.
type Polygon struct {
	Vertices []Vertex
	Color    Color
	Alpha    float64
	Payload  Payload
}

// Kind returns the polygon kind derived from its payload.
func (p *Polygon) Kind() PolygonKind {
	switch p.Payload.(type) {
	case *TextRun:
		return KindText
	case *ImageFill:
		return KindImage
	default:
		return KindPlain
	}
}

// Text returns the text payload, if any.
func (p *Polygon) Text() (*TextRun, bool) {
	t, ok := p.Payload.(*TextRun)
	return t, ok
}

// Image returns the image payload, if any.
func (p *Polygon) Image() (*ImageFill, bool) {
	f, ok := p.Payload.(*ImageFill)
	return f, ok
}

// Bounds returns the bounding box of all vertex positions, with the minimum
// corner in LLx/LLy. An empty polygon has inverted infinite bounds.
func (p *Polygon) Bounds() rect.Rect {
	b := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for _, v := range p.Vertices {
		b.LLx = math.Min(b.LLx, v.Pos.X)
		b.LLy = math.Min(b.LLy, v.Pos.Y)
		b.URx = math.Max(b.URx, v.Pos.X)
		b.URy = math.Max(b.URy, v.Pos.Y)
	}
	return b
}

// PolygonGroup holds the polygons of one draw command in draw order.
type PolygonGroup []Polygon
