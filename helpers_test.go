package dlexport

import (
	"errors"
	"image"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// testDrawList is a DrawList backed by plain slices.
type testDrawList struct {
	cmds    []DrawCommand
	verts   []MeshVertex
	indices []uint32
}

func (d *testDrawList) Cmds() []DrawCommand  { return d.cmds }
func (d *testDrawList) Verts() []MeshVertex  { return d.verts }
func (d *testDrawList) Indices() []uint32    { return d.indices }
func (d *testDrawList) mesh() *RawMesh       { return MeshOf(d) }
func (d *testDrawList) lastCmd() DrawCommand { return d.cmds[len(d.cmds)-1] }

// addQuad appends a quad as the two triangles (0,1,2) and (0,2,3), the way
// renderers emit rectangles and glyphs.
func (d *testDrawList) addQuad(tex TextureID, clip rect.Rect, col uint32, pos, uv [4]vec.Vec2) {
	base := uint32(len(d.verts))
	for i := range 4 {
		d.verts = append(d.verts, MeshVertex{Pos: pos[i], UV: uv[i], Col: col})
	}
	d.appendIndices(tex, clip, base, base+1, base+2, base, base+2, base+3)
}

func (d *testDrawList) appendIndices(tex TextureID, clip rect.Rect, idx ...uint32) {
	n := len(d.cmds)
	if n == 0 || d.cmds[n-1].TextureID != tex || d.cmds[n-1].ClipRect != clip {
		d.cmds = append(d.cmds, DrawCommand{IdxOffset: len(d.indices), TextureID: tex, ClipRect: clip})
		n++
	}
	d.indices = append(d.indices, idx...)
	d.cmds[n-1].ElemCount += len(idx)
}

// glyphQuad returns the corners of an upright glyph at (x, y) with size w×h
// and atlas origin (u, v).
func glyphQuad(x, y, w, h, u, v, du, dv float64) (pos, uv [4]vec.Vec2) {
	pos = [4]vec.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	uv = [4]vec.Vec2{{X: u, Y: v}, {X: u + du, Y: v}, {X: u + du, Y: v + dv}, {X: u, Y: v + dv}}
	return pos, uv
}

// verticalGlyphQuad returns a glyph rotated by -90 degrees: the glyph's
// top-left texel lands on the bottom-left corner of the quad.
func verticalGlyphQuad(x, y, w, h, u, v, du, dv float64) (pos, uv [4]vec.Vec2) {
	pos = [4]vec.Vec2{{X: x, Y: y + h}, {X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}}
	uv = [4]vec.Vec2{{X: u, Y: v}, {X: u + du, Y: v}, {X: u + du, Y: v + dv}, {X: u, Y: v + dv}}
	return pos, uv
}

type testFont struct {
	size   float64
	glyphs []Glyph
}

func (f *testFont) Glyphs() []Glyph   { return f.glyphs }
func (f *testFont) FontSize() float64 { return f.size }

type testAtlas struct {
	tex   TextureID
	fonts []Font
}

func (a *testAtlas) Fonts() []Font        { return a.fonts }
func (a *testAtlas) TextureID() TextureID { return a.tex }

var errNoTexture = errors.New("no such texture")

type testTextures map[TextureID]image.Image

func (t testTextures) Texture(id TextureID) (image.Image, error) {
	img, ok := t[id]
	if !ok {
		return nil, errNoTexture
	}
	return img, nil
}

func v2(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

func vtx(x, y float64) Vertex { return Vertex{Pos: v2(x, y)} }

func triangle(c Color, alpha float64, a, b, d Vertex) Polygon {
	return Polygon{Vertices: []Vertex{a, b, d}, Color: c, Alpha: alpha}
}

var clipAll = rect.Rect{LLx: 0, LLy: 0, URx: 100, URy: 100}
