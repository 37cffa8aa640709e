package dlexport

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// GlyphInfo is what a glyph table lookup yields.
type GlyphInfo struct {
	Text     string
	FontSize float64
	Advance  float64
}

// GlyphTable maps the texture coordinate of a glyph's top-left corner to the
// glyph. It is built once per export and is read-only afterwards.
type GlyphTable struct {
	entries map[string]GlyphInfo
}

// BuildGlyphTable indexes every glyph of every font in the atlas.
//
// Glyphs sharing a UV origin overwrite each other; the last one wins. Atlas
// packers do not place distinct glyphs at the same origin.
func BuildGlyphTable(atlas FontAtlas) *GlyphTable {
	t := &GlyphTable{entries: make(map[string]GlyphInfo)}
	if atlas == nil {
		return t
	}
	for _, font := range atlas.Fonts() {
		size := font.FontSize()
		for _, g := range font.Glyphs() {
			t.entries[uvKey(g.U0, g.V0)] = GlyphInfo{
				Text:     decodeCodepoint(g.Codepoint),
				FontSize: size,
				Advance:  g.AdvanceX,
			}
		}
	}
	return t
}

// Len returns the number of distinct UV origins in the table.
func (t *GlyphTable) Len() int {
	return len(t.entries)
}

// Lookup finds the glyph whose UV origin is (u, v).
func (t *GlyphTable) Lookup(u, v float64) (GlyphInfo, bool) {
	g, ok := t.entries[uvKey(u, v)]
	return g, ok
}

// uvKey stringifies a UV origin using the shortest decimal form that round
// trips, so equal coordinates always produce equal keys.
func uvKey(u, v float64) string {
	return strconv.FormatFloat(u, 'g', -1, 64) + "," + strconv.FormatFloat(v, 'g', -1, 64)
}

// decodeCodepoint turns an atlas codepoint into a single character.
// Surrogates and values past U+10FFFF become one U+FFFD.
func decodeCodepoint(cp uint32) string {
	if cp > utf8.MaxRune || !utf8.ValidRune(rune(cp)) {
		return string(utf8.RuneError)
	}
	return string(rune(cp))
}

// ClassifyGlyphs stamps a TextRun payload on every polygon that is a glyph
// quad from the atlas. polys must belong to a command bound to the atlas
// texture.
//
// A polygon is a glyph when it has exactly four vertices, its first two
// vertices differ in UV (solid fills reuse one UV for all corners), and the
// minimum UV over its corners is the origin of a known glyph. Anything else
// is left untouched.
func ClassifyGlyphs(polys []Polygon, table *GlyphTable) int {
	n := 0
	for i := range polys {
		p := &polys[i]
		if len(p.Vertices) != 4 {
			continue
		}
		if p.Vertices[0].UV == p.Vertices[1].UV {
			continue
		}

		minU, minV := math.Inf(1), math.Inf(1)
		for _, v := range p.Vertices {
			minU = math.Min(minU, v.UV.X)
			minV = math.Min(minV, v.UV.Y)
		}
		info, ok := table.Lookup(minU, minV)
		if !ok {
			continue
		}

		b := p.Bounds()
		run := &TextRun{
			Text:      info.Text,
			FontSize:  info.FontSize,
			Advance:   info.Advance,
			LastCharX: b.LLx,
			LastCharY: b.LLy,
			Vertical:  isRotated(p.Vertices),
		}
		// Rotated glyphs are read bottom to top, so the anchor is at the bottom.
		if run.Vertical {
			run.LastCharY = b.URy
		}
		p.Payload = run
		n++
	}
	return n
}

// isRotated reports whether the corner closest to the origin in screen space
// is a different vertex than the corner closest to the origin in texture
// space. Ties resolve to the first vertex.
func isRotated(vs []Vertex) bool {
	minPos, minUV := 0, 0
	for i := 1; i < len(vs); i++ {
		if sqLen(vs[i].Pos.X, vs[i].Pos.Y) < sqLen(vs[minPos].Pos.X, vs[minPos].Pos.Y) {
			minPos = i
		}
		if sqLen(vs[i].UV.X, vs[i].UV.Y) < sqLen(vs[minUV].UV.X, vs[minUV].UV.Y) {
			minUV = i
		}
	}
	return minPos != minUV
}

func sqLen(x, y float64) float64 {
	return x*x + y*y
}
