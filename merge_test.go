package dlexport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	red   = Color{R: 0xFF}
	green = Color{G: 0xFF}
)

func TestMergeSingleTriangle(t *testing.T) {
	tri := triangle(red, 1, vtx(0, 0), vtx(1, 0), vtx(0, 1))

	got := MergePolygons([]Polygon{tri})
	if len(got) != 1 {
		t.Fatalf("MergePolygons() returned %d polygons, want 1", len(got))
	}
	if len(got[0].Vertices) != 3 {
		t.Errorf("merged polygon has %d vertices, want 3", len(got[0].Vertices))
	}
	if got[0].Color != red {
		t.Errorf("merged color = %v, want %v", got[0].Color, red)
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := MergePolygons(nil); len(got) != 0 {
		t.Errorf("MergePolygons(nil) = %v, want empty", got)
	}
}

func TestMergeSharedEdge(t *testing.T) {
	a, b, c, d := vtx(0, 0), vtx(10, 0), vtx(10, 10), vtx(0, 10)

	tests := []struct {
		name string
		tris []Polygon
		want [][]Vertex
	}{
		{
			name: "quad as (0,1,2)(0,2,3)",
			tris: []Polygon{triangle(red, 1, a, b, c), triangle(red, 1, a, c, d)},
			want: [][]Vertex{{a, b, c, d}},
		},
		{
			name: "shared edge between neighbors inserts",
			tris: []Polygon{triangle(red, 1, a, b, c), triangle(red, 1, b, d, c)},
			want: [][]Vertex{{a, b, d, c}},
		},
		{
			name: "shared vertices not neighbors appends",
			tris: []Polygon{
				triangle(red, 1, a, b, c),
				triangle(red, 1, a, c, d),
				triangle(red, 1, a, d, vtx(-5, 5)),
				// b and d sit at indices 1 and 3 of [a b c d e].
				triangle(red, 1, b, d, vtx(20, 20)),
			},
			want: [][]Vertex{{a, b, c, d, vtx(-5, 5), vtx(20, 20)}},
		},
		{
			name: "one shared vertex",
			tris: []Polygon{triangle(red, 1, a, b, c), triangle(red, 1, c, vtx(20, 20), vtx(20, 10))},
			want: [][]Vertex{{a, b, c}, {c, vtx(20, 20), vtx(20, 10)}},
		},
		{
			name: "no shared vertex",
			tris: []Polygon{triangle(red, 1, a, b, c), triangle(red, 1, vtx(50, 50), vtx(60, 50), vtx(60, 60))},
			want: [][]Vertex{{a, b, c}, {vtx(50, 50), vtx(60, 50), vtx(60, 60)}},
		},
		{
			name: "different color never merges",
			tris: []Polygon{triangle(red, 1, a, b, c), triangle(green, 1, a, c, d)},
			want: [][]Vertex{{a, b, c}, {a, c, d}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergePolygons(tt.tris)
			var outlines [][]Vertex
			for _, p := range got {
				outlines = append(outlines, p.Vertices)
			}
			if diff := cmp.Diff(tt.want, outlines); diff != "" {
				t.Errorf("MergePolygons() outlines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeValueIdentity(t *testing.T) {
	// Same coordinates but a different UV is a different vertex.
	a, b, c, d := vtx(0, 0), vtx(10, 0), vtx(10, 10), vtx(0, 10)
	c2 := c
	c2.UV = v2(0.5, 0.5)

	got := MergePolygons([]Polygon{triangle(red, 1, a, b, c), triangle(red, 1, a, c2, d)})
	if len(got) != 2 {
		t.Errorf("MergePolygons() returned %d polygons, want 2 (UV differs)", len(got))
	}
}

func TestMergeFan(t *testing.T) {
	// Convex hexagon emitted as a fan around vertex 0.
	pts := []Vertex{vtx(0, 5), vtx(3, 0), vtx(8, 0), vtx(11, 5), vtx(8, 10), vtx(3, 10)}
	var tris []Polygon
	for i := 1; i+1 < len(pts); i++ {
		tris = append(tris, triangle(red, 1, pts[0], pts[i], pts[i+1]))
	}

	got := MergePolygons(tris)
	if len(got) != 1 {
		t.Fatalf("MergePolygons() returned %d polygons, want 1", len(got))
	}
	if diff := cmp.Diff(pts, got[0].Vertices); diff != "" {
		t.Errorf("fan outline mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	a, b, c, d := vtx(0, 0), vtx(10, 0), vtx(10, 10), vtx(0, 10)
	tris := []Polygon{triangle(red, 1, a, b, c), triangle(red, 1, a, c, d)}

	MergePolygons(tris)
	if len(tris[0].Vertices) != 3 {
		t.Errorf("input triangle grew to %d vertices", len(tris[0].Vertices))
	}
}

func TestMergeDegenerateTriangle(t *testing.T) {
	a, b, c := vtx(0, 0), vtx(10, 0), vtx(10, 10)
	tris := []Polygon{
		triangle(red, 1, a, b, c),
		triangle(red, 0, a, c, c), // zero-area fringe triangle
	}

	got := MergePolygons(tris)
	if len(got) != 2 {
		t.Fatalf("MergePolygons() returned %d polygons, want 2", len(got))
	}
	if len(got[1].Vertices) != 3 {
		t.Errorf("degenerate triangle has %d vertices, want 3", len(got[1].Vertices))
	}
}
