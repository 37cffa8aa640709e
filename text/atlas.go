package text

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/dlexport"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"
)

// Default atlas parameters.
const (
	// DefaultAtlasWidth is the width of the virtual atlas texture in pixels.
	DefaultAtlasWidth = 1024

	// DefaultFontSize matches the default UI font size of common
	// immediate-mode GUI libraries.
	DefaultFontSize = 13

	// glyphPadding separates neighboring glyph cells so no two glyphs share a
	// UV origin, including zero-width ones such as space.
	glyphPadding = 1

	// whiteCell is the size of the opaque block reserved at the atlas origin
	// for solid fills.
	whiteCell = 2
)

// RuneRange is an inclusive range of code points to pack into the atlas.
type RuneRange struct {
	Lo, Hi rune
}

// DefaultRanges covers printable ASCII and Latin-1.
var DefaultRanges = []RuneRange{{0x20, 0x7E}, {0xA0, 0xFF}}

// AtlasOption configures an Atlas during creation.
type AtlasOption func(*atlasConfig)

type atlasConfig struct {
	width  int
	ranges []RuneRange
}

// WithAtlasWidth sets the width of the virtual atlas texture in pixels.
func WithAtlasWidth(w int) AtlasOption {
	return func(c *atlasConfig) {
		if w > 0 {
			c.width = w
		}
	}
}

// WithRanges replaces the set of code points packed into the atlas.
func WithRanges(ranges ...RuneRange) AtlasOption {
	return func(c *atlasConfig) {
		c.ranges = ranges
	}
}

// Atlas is a font atlas for one font at one or more sizes.
// It implements dlexport.FontAtlas.
//
// Atlas is immutable after creation and safe for concurrent use.
type Atlas struct {
	id     dlexport.TextureID
	width  int
	height int
	fonts  []*Font
	white  vec.Vec2
}

var _ dlexport.FontAtlas = (*Atlas)(nil)

// Font is one font size packed into an Atlas. It implements dlexport.Font.
type Font struct {
	size   float64
	glyphs []dlexport.Glyph
	index  map[rune]int

	ascent     float64
	lineHeight float64

	shaper *Shaper
}

var _ dlexport.Font = (*Font)(nil)

// NewAtlas parses font data and packs the glyphs of every requested size.
// id is the texture identifier draw commands will reference.
func NewAtlas(id dlexport.TextureID, data []byte, sizes []float64, opts ...AtlasOption) (*Atlas, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	if len(sizes) == 0 {
		return nil, ErrNoSizes
	}

	cfg := atlasConfig{width: DefaultAtlasWidth, ranges: DefaultRanges}
	for _, opt := range opts {
		opt(&cfg)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	shaper, err := NewShaper(data)
	if err != nil {
		return nil, err
	}

	p := &packer{width: cfg.width, x: whiteCell + glyphPadding, rowHeight: whiteCell}
	a := &Atlas{id: id, width: cfg.width}
	var cells [][]image.Rectangle

	for _, size := range sizes {
		if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
			return nil, &InvalidSizeError{Size: size}
		}
		f, fc, err := packFont(parsed, size, cfg.ranges, p)
		if err != nil {
			return nil, err
		}
		f.shaper = shaper
		a.fonts = append(a.fonts, f)
		cells = append(cells, fc)
	}

	a.height = nextPow2(p.y + p.rowHeight)
	a.white = vec.Vec2{X: 1 / float64(a.width), Y: 1 / float64(a.height)}

	// UVs are normalized once the final texture height is known.
	for fi, f := range a.fonts {
		for gi := range f.glyphs {
			c := cells[fi][gi]
			g := &f.glyphs[gi]
			g.U0 = float64(c.Min.X) / float64(a.width)
			g.V0 = float64(c.Min.Y) / float64(a.height)
			g.U1 = float64(c.Max.X) / float64(a.width)
			g.V1 = float64(c.Max.Y) / float64(a.height)
		}
	}

	return a, nil
}

// DefaultAtlas returns an atlas of the Go Regular font at DefaultFontSize
// plus any extra sizes.
func DefaultAtlas(id dlexport.TextureID, extraSizes ...float64) (*Atlas, error) {
	sizes := append([]float64{DefaultFontSize}, extraSizes...)
	return NewAtlas(id, goregular.TTF, sizes)
}

// TextureID implements dlexport.FontAtlas.
func (a *Atlas) TextureID() dlexport.TextureID { return a.id }

// Fonts implements dlexport.FontAtlas.
func (a *Atlas) Fonts() []dlexport.Font {
	out := make([]dlexport.Font, len(a.fonts))
	for i, f := range a.fonts {
		out[i] = f
	}
	return out
}

// Font returns the font packed at the given size.
func (a *Atlas) Font(size float64) (*Font, bool) {
	for _, f := range a.fonts {
		if f.size == size {
			return f, true
		}
	}
	return nil, false
}

// WhiteUV returns a texture coordinate inside the opaque block at the atlas
// origin. Solid fills use it for all corners.
func (a *Atlas) WhiteUV() vec.Vec2 { return a.white }

// Size returns the atlas texture size in pixels.
func (a *Atlas) Size() (width, height int) { return a.width, a.height }

// FontSize implements dlexport.Font.
func (f *Font) FontSize() float64 { return f.size }

// Glyphs implements dlexport.Font.
func (f *Font) Glyphs() []dlexport.Glyph { return f.glyphs }

// Glyph returns the atlas entry for r.
func (f *Font) Glyph(r rune) (dlexport.Glyph, bool) {
	i, ok := f.index[r]
	if !ok {
		return dlexport.Glyph{}, false
	}
	return f.glyphs[i], true
}

// LineHeight returns the distance between two baselines.
func (f *Font) LineHeight() float64 { return f.lineHeight }

// Ascent returns the distance from the top of a line to its baseline.
func (f *Font) Ascent() float64 { return f.ascent }

// packer places glyph cells, in atlas pixels, row by row.
type packer struct {
	width     int
	x, y      int
	rowHeight int
}

func (p *packer) place(w, h int) (image.Rectangle, error) {
	if w+2*glyphPadding > p.width {
		return image.Rectangle{}, fmt.Errorf("text: glyph of width %d does not fit atlas width %d", w, p.width)
	}
	if p.x+w+glyphPadding > p.width {
		p.x = glyphPadding
		p.y += p.rowHeight + glyphPadding
		p.rowHeight = 0
	}
	c := image.Rect(p.x, p.y, p.x+w, p.y+h)
	p.x += w + glyphPadding
	p.rowHeight = max(p.rowHeight, h)
	return c, nil
}

// packFont measures every rune of ranges at size and reserves atlas cells.
// Runes the font has no glyph for are skipped.
func packFont(f *opentype.Font, size float64, ranges []RuneRange, p *packer) (*Font, []image.Rectangle, error) {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(size * 64)

	metrics, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, nil, fmt.Errorf("text: font metrics at %v px: %w", size, err)
	}

	out := &Font{
		size:       size,
		index:      make(map[rune]int),
		ascent:     fixedToFloat64(metrics.Ascent),
		lineHeight: fixedToFloat64(metrics.Height),
	}
	var cells []image.Rectangle

	for _, rr := range ranges {
		for r := rr.Lo; r <= rr.Hi; r++ {
			gi, err := f.GlyphIndex(&buf, r)
			if err != nil || gi == 0 {
				continue
			}
			bounds, advance, err := f.GlyphBounds(&buf, gi, ppem, font.HintingNone)
			if err != nil {
				continue
			}

			x0 := math.Floor(fixedToFloat64(bounds.Min.X))
			y0 := math.Floor(fixedToFloat64(bounds.Min.Y))
			x1 := math.Ceil(fixedToFloat64(bounds.Max.X))
			y1 := math.Ceil(fixedToFloat64(bounds.Max.Y))

			c, err := p.place(int(x1-x0), int(y1-y0))
			if err != nil {
				return nil, nil, err
			}

			out.index[r] = len(out.glyphs)
			out.glyphs = append(out.glyphs, dlexport.Glyph{
				Codepoint: uint32(r),
				AdvanceX:  fixedToFloat64(advance),
				// Quad offsets are relative to the top of the line.
				X0: x0,
				Y0: out.ascent + y0,
				X1: x1,
				Y1: out.ascent + y1,
			})
			cells = append(cells, c)
		}
	}

	return out, cells, nil
}

// Visible reports whether g covers any pixels.
func Visible(g dlexport.Glyph) bool {
	return g.X1 > g.X0 && g.Y1 > g.Y0
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

// PlacedGlyph is an atlas glyph positioned on a line by Layout.
type PlacedGlyph struct {
	Glyph dlexport.Glyph

	// X is the pen position relative to the start of the line.
	X float64
}

// Layout shapes s and returns the atlas glyph for every rune that has one.
// Runes missing from the atlas keep their advance but produce no glyph.
func (f *Font) Layout(s string) []PlacedGlyph {
	placements := f.shaper.Shape(s, f.size)
	out := make([]PlacedGlyph, 0, len(placements))
	for _, pl := range placements {
		g, ok := f.Glyph(pl.Rune)
		if !ok {
			continue
		}
		out = append(out, PlacedGlyph{Glyph: g, X: pl.X})
	}
	return out
}

// Measure returns the advance width of s.
func (f *Font) Measure(s string) float64 {
	var w float64
	for _, pl := range f.shaper.Shape(s, f.size) {
		w = max(w, pl.X+pl.Advance)
	}
	return w
}
