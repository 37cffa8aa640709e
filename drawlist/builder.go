package drawlist

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/dlexport"
	icolor "github.com/gogpu/dlexport/internal/color"
	"github.com/gogpu/dlexport/text"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// cornerSegments is the number of arc segments per rounded corner.
const cornerSegments = 4

// Builder records filled shapes, text and images as indexed triangles.
// It mirrors the primitive API of an immediate-mode renderer.
//
// The Builder is not safe for concurrent use.
type Builder struct {
	atlas *text.Atlas
	white vec.Vec2

	cmds    []dlexport.DrawCommand
	verts   []dlexport.MeshVertex
	indices []uint32

	// Clip state
	viewport  rect.Rect
	clip      rect.Rect
	clipStack []rect.Rect
}

// NewBuilder creates a Builder drawing with the given atlas onto a viewport
// of the given size. The initial clip rectangle is the whole viewport.
// atlas must not be nil.
func NewBuilder(atlas *text.Atlas, width, height float64) *Builder {
	viewport := rect.Rect{URx: width, URy: height}
	return &Builder{
		atlas:     atlas,
		white:     atlas.WhiteUV(),
		cmds:      make([]dlexport.DrawCommand, 0, 16),
		verts:     make([]dlexport.MeshVertex, 0, 1024),
		indices:   make([]uint32, 0, 1536),
		viewport:  viewport,
		clip:      viewport,
		clipStack: make([]rect.Rect, 0, 8),
	}
}

// Atlas returns the font atlas the Builder draws text with.
func (b *Builder) Atlas() *text.Atlas {
	return b.atlas
}

// Reset discards everything recorded so far and restores the viewport clip.
// Buffers are kept for reuse.
func (b *Builder) Reset() {
	b.cmds = b.cmds[:0]
	b.verts = b.verts[:0]
	b.indices = b.indices[:0]
	b.clip = b.viewport
	b.clipStack = b.clipStack[:0]
}

// DrawList returns a snapshot of the recorded draw list. Empty trailing
// commands are dropped.
func (b *Builder) DrawList() *DrawList {
	cmds := slices.Clone(b.cmds)
	for len(cmds) > 0 && cmds[len(cmds)-1].ElemCount == 0 {
		cmds = cmds[:len(cmds)-1]
	}
	return &DrawList{
		cmds:    cmds,
		verts:   slices.Clone(b.verts),
		indices: slices.Clone(b.indices),
	}
}

// --------------------------------------------------------------------------
// Clipping
// --------------------------------------------------------------------------

// PushClipRect intersects the clip rectangle with r and saves the previous
// one. Shapes are never cut; the rectangle is recorded on the command.
func (b *Builder) PushClipRect(r rect.Rect) {
	b.clipStack = append(b.clipStack, b.clip)
	b.clip = rect.Rect{
		LLx: math.Max(b.clip.LLx, r.LLx),
		LLy: math.Max(b.clip.LLy, r.LLy),
		URx: math.Min(b.clip.URx, r.URx),
		URy: math.Min(b.clip.URy, r.URy),
	}
	// An empty intersection collapses onto its corner.
	b.clip.URx = math.Max(b.clip.URx, b.clip.LLx)
	b.clip.URy = math.Max(b.clip.URy, b.clip.LLy)
}

// PopClipRect restores the clip rectangle saved by the matching
// PushClipRect. If the stack is empty, this is a no-op.
func (b *Builder) PopClipRect() {
	if len(b.clipStack) == 0 {
		return
	}
	b.clip = b.clipStack[len(b.clipStack)-1]
	b.clipStack = b.clipStack[:len(b.clipStack)-1]
}

// ClipRect returns the current clip rectangle.
func (b *Builder) ClipRect() rect.Rect {
	return b.clip
}

// --------------------------------------------------------------------------
// Primitives
// --------------------------------------------------------------------------

// AddRectFilled fills the axis-aligned rectangle r.
func (b *Builder) AddRectFilled(r rect.Rect, col color.Color) {
	b.primQuad(b.atlas.TextureID(), quad(r), [4]vec.Vec2{b.white, b.white, b.white, b.white}, pack(col))
}

// AddRectFilledRounded fills r with corners rounded by radius. The radius is
// clamped to half the shorter side; zero draws a plain rectangle.
func (b *Builder) AddRectFilledRounded(r rect.Rect, radius float64, col color.Color) {
	radius = math.Min(radius, math.Min(r.URx-r.LLx, r.URy-r.LLy)/2)
	if radius <= 0 {
		b.AddRectFilled(r, col)
		return
	}

	centers := [4]vec.Vec2{
		{X: r.LLx + radius, Y: r.LLy + radius},
		{X: r.URx - radius, Y: r.LLy + radius},
		{X: r.URx - radius, Y: r.URy - radius},
		{X: r.LLx + radius, Y: r.URy - radius},
	}
	points := make([]vec.Vec2, 0, 4*(cornerSegments+1))
	for i, c := range centers {
		start := math.Pi + float64(i)*math.Pi/2
		for s := range cornerSegments + 1 {
			a := start + float64(s)*math.Pi/2/cornerSegments
			points = append(points, vec.Vec2{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)})
		}
	}
	b.AddConvexPolyFilled(points, col)
}

// AddTriangleFilled fills the triangle p0 p1 p2.
func (b *Builder) AddTriangleFilled(p0, p1, p2 vec.Vec2, col color.Color) {
	b.AddConvexPolyFilled([]vec.Vec2{p0, p1, p2}, col)
}

// AddConvexPolyFilled fills a convex polygon as a triangle fan rooted at its
// first point. Fewer than three points draw nothing.
func (b *Builder) AddConvexPolyFilled(points []vec.Vec2, col color.Color) {
	if len(points) < 3 {
		return
	}
	c := pack(col)
	base := b.reserve(b.atlas.TextureID())
	for _, p := range points {
		b.verts = append(b.verts, dlexport.MeshVertex{Pos: p, UV: b.white, Col: c})
	}
	for i := 2; i < len(points); i++ {
		b.addIndices(base, base+uint32(i-1), base+uint32(i))
	}
}

// AddLine draws a straight line of the given thickness as a quad.
func (b *Builder) AddLine(p0, p1 vec.Vec2, thickness float64, col color.Color) {
	d := p1.Sub(p0)
	l := d.Length()
	if l == 0 {
		return
	}
	n := vec.Vec2{X: -d.Y / l, Y: d.X / l}.Mul(thickness / 2)
	pos := [4]vec.Vec2{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)}
	b.primQuad(b.atlas.TextureID(), pos, [4]vec.Vec2{b.white, b.white, b.white, b.white}, pack(col))
}

// AddImage draws texture id stretched over r. uv0 and uv1 select the
// top-left and bottom-right texture coordinates; tint multiplies the texels.
func (b *Builder) AddImage(id dlexport.TextureID, r rect.Rect, uv0, uv1 vec.Vec2, tint color.Color) {
	uv := [4]vec.Vec2{uv0, {X: uv1.X, Y: uv0.Y}, uv1, {X: uv0.X, Y: uv1.Y}}
	b.primQuad(id, quad(r), uv, pack(tint))
}

// AddText draws s left to right with its first line's top-left corner at
// pos. Newlines start a new line.
func (b *Builder) AddText(pos vec.Vec2, size float64, col color.Color, s string) error {
	f, ok := b.atlas.Font(size)
	if !ok {
		return fmt.Errorf("drawlist: text at %v px: %w", size, ErrNoFont)
	}
	c := pack(col)
	for i, line := range strings.Split(s, "\n") {
		y := pos.Y + float64(i)*f.LineHeight()
		for _, pg := range f.Layout(line) {
			g := pg.Glyph
			if !text.Visible(g) {
				continue
			}
			x := pos.X + pg.X
			b.primQuad(b.atlas.TextureID(), quad(rect.Rect{
				LLx: x + g.X0, LLy: y + g.Y0,
				URx: x + g.X1, URy: y + g.Y1,
			}), glyphUV(g), c)
		}
	}
	return nil
}

// AddTextVertical draws s rotated by 90 degrees counterclockwise, reading
// bottom to top, with the bottom-left corner of the column at pos.
func (b *Builder) AddTextVertical(pos vec.Vec2, size float64, col color.Color, s string) error {
	f, ok := b.atlas.Font(size)
	if !ok {
		return fmt.Errorf("drawlist: vertical text at %v px: %w", size, ErrNoFont)
	}
	c := pack(col)
	for _, pg := range f.Layout(s) {
		g := pg.Glyph
		if !text.Visible(g) {
			continue
		}
		// Glyph x runs up the screen, glyph y runs right.
		y := pos.Y - pg.X
		corners := [4]vec.Vec2{
			{X: pos.X + g.Y0, Y: y - g.X0},
			{X: pos.X + g.Y0, Y: y - g.X1},
			{X: pos.X + g.Y1, Y: y - g.X1},
			{X: pos.X + g.Y1, Y: y - g.X0},
		}
		b.primQuad(b.atlas.TextureID(), corners, glyphUV(g), c)
	}
	return nil
}

// --------------------------------------------------------------------------
// Buffers
// --------------------------------------------------------------------------

// reserve makes sure the last command draws with tex under the current clip
// rectangle and returns the index of the next vertex.
func (b *Builder) reserve(tex dlexport.TextureID) uint32 {
	n := len(b.cmds)
	switch {
	case n > 0 && b.cmds[n-1].TextureID == tex && b.cmds[n-1].ClipRect == b.clip:
	case n > 0 && b.cmds[n-1].ElemCount == 0:
		b.cmds[n-1].TextureID = tex
		b.cmds[n-1].ClipRect = b.clip
	default:
		b.cmds = append(b.cmds, dlexport.DrawCommand{
			IdxOffset: len(b.indices),
			TextureID: tex,
			ClipRect:  b.clip,
		})
	}
	// #nosec G115 -- vertex count is bounded well under uint32 max
	return uint32(len(b.verts))
}

func (b *Builder) addIndices(idx ...uint32) {
	b.indices = append(b.indices, idx...)
	b.cmds[len(b.cmds)-1].ElemCount += len(idx)
}

// primQuad appends a quad as the triangles (0,1,2) and (0,2,3).
func (b *Builder) primQuad(tex dlexport.TextureID, pos, uv [4]vec.Vec2, col uint32) {
	base := b.reserve(tex)
	for i := range 4 {
		b.verts = append(b.verts, dlexport.MeshVertex{Pos: pos[i], UV: uv[i], Col: col})
	}
	b.addIndices(base, base+1, base+2, base, base+2, base+3)
}

// quad returns the corners of r clockwise from the top-left.
func quad(r rect.Rect) [4]vec.Vec2 {
	return [4]vec.Vec2{
		{X: r.LLx, Y: r.LLy},
		{X: r.URx, Y: r.LLy},
		{X: r.URx, Y: r.URy},
		{X: r.LLx, Y: r.URy},
	}
}

func glyphUV(g dlexport.Glyph) [4]vec.Vec2 {
	return [4]vec.Vec2{
		{X: g.U0, Y: g.V0},
		{X: g.U1, Y: g.V0},
		{X: g.U1, Y: g.V1},
		{X: g.U0, Y: g.V1},
	}
}

func pack(c color.Color) uint32 {
	if c == nil {
		c = color.White
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return icolor.Pack(icolor.ColorU8{R: n.R, G: n.G, B: n.B, A: n.A})
}

// DrawList is an immutable draw list produced by a Builder.
// It implements dlexport.DrawList.
type DrawList struct {
	cmds    []dlexport.DrawCommand
	verts   []dlexport.MeshVertex
	indices []uint32
}

var _ dlexport.DrawList = (*DrawList)(nil)

// Cmds implements dlexport.DrawList.
func (d *DrawList) Cmds() []dlexport.DrawCommand { return d.cmds }

// Verts implements dlexport.DrawList.
func (d *DrawList) Verts() []dlexport.MeshVertex { return d.verts }

// Indices implements dlexport.DrawList.
func (d *DrawList) Indices() []uint32 { return d.indices }
