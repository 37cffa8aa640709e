package dlexport

import (
	icolor "github.com/gogpu/dlexport/internal/color"
)

// DecodeTriangles converts the index range of one draw command into one flat
// triangle polygon per index triple, in triangle order.
//
// The fill color is taken from the first vertex of each triangle. Alpha is the
// maximum over the three vertices so that anti-aliasing fringes, whose outer
// vertices fade to zero, do not darken the fill. An incomplete trailing triple
// is ignored.
//
// Indices are trusted: an out-of-range index panics.
func DecodeTriangles(cmd DrawCommand, mesh *RawMesh) []Polygon {
	start := cmd.IdxOffset
	end := cmd.IdxOffset + cmd.ElemCount

	if end-start < 3 {
		return nil
	}

	polys := make([]Polygon, 0, (end-start)/3)
	for i := start; i+2 < end; i += 3 {
		v0 := mesh.Verts[mesh.Indices[i]]
		v1 := mesh.Verts[mesh.Indices[i+1]]
		v2 := mesh.Verts[mesh.Indices[i+2]]

		c := icolor.Unpack(v0.Col)
		a := max(c.A, icolor.Unpack(v1.Col).A, icolor.Unpack(v2.Col).A)

		polys = append(polys, Polygon{
			Vertices: []Vertex{v0.Vertex(), v1.Vertex(), v2.Vertex()},
			Color:    Color{R: c.R, G: c.G, B: c.B},
			Alpha:    icolor.AlphaF64(a),
		})
	}
	return polys
}
