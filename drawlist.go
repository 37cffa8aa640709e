package dlexport

import (
	"image"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// TextureID identifies a texture bound to a draw command.
type TextureID uint64

// Vertex is a polygon corner: a position and a texture coordinate.
//
// Vertex is a comparable value type. Two vertices are equal when both their
// positions and their texture coordinates are equal, which is what the
// polygon merger relies on to find shared edges.
type Vertex struct {
	Pos vec.Vec2
	UV  vec.Vec2
}

// MeshVertex is a renderer vertex: a Vertex plus a packed RGBA color with red
// in bits 0-7, green in 8-15, blue in 16-23 and alpha in 24-31.
type MeshVertex struct {
	Pos vec.Vec2
	UV  vec.Vec2
	Col uint32
}

// Vertex drops the color.
func (v MeshVertex) Vertex() Vertex {
	return Vertex{Pos: v.Pos, UV: v.UV}
}

// DrawCommand is one renderer-issued batch of triangles.
//
// ClipRect holds the minimum corner in LLx/LLy and the maximum corner in
// URx/URy, in screen coordinates.
type DrawCommand struct {
	IdxOffset int
	ElemCount int
	TextureID TextureID
	ClipRect  rect.Rect
}

// RawMesh is the full vertex and index buffer of a frame. Every three indices
// form one triangle. Draw commands address it by offset; it is never copied.
type RawMesh struct {
	Verts   []MeshVertex
	Indices []uint32
}

// DrawList is the renderer's draw data for one frame.
type DrawList interface {
	Cmds() []DrawCommand
	Verts() []MeshVertex
	Indices() []uint32
}

// Glyph is one font atlas entry.
//
// U0/V0 is the texture coordinate of the glyph's top-left corner and is the
// key glyph matching is done on. X0..Y1 are the quad offsets relative to the
// pen position; the engine itself only reads U0, V0, Codepoint and AdvanceX.
type Glyph struct {
	Codepoint uint32
	AdvanceX  float64

	X0, Y0, X1, Y1 float64
	U0, V0, U1, V1 float64
}

// Font is one font loaded into the atlas at a fixed size.
type Font interface {
	Glyphs() []Glyph
	FontSize() float64
}

// FontAtlas is the single texture packing the glyphs of all loaded fonts.
type FontAtlas interface {
	Fonts() []Font
	TextureID() TextureID
}

// TextureSource fetches the raster contents of a texture.
// Texture must not mutate any render state.
type TextureSource interface {
	Texture(id TextureID) (image.Image, error)
}

// MeshOf returns the vertex and index buffers of dl.
func MeshOf(dl DrawList) *RawMesh {
	return &RawMesh{Verts: dl.Verts(), Indices: dl.Indices()}
}
