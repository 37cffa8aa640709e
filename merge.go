package dlexport

import "slices"

// MergePolygons fuses consecutive same-color triangles that share an edge
// into larger polygons.
//
// The fold is greedy and never looks back further than the current
// accumulator. A triangle joins the accumulator when it has the same color and
// exactly two distinct vertices in common with it. Its remaining vertex is
// inserted between the two shared vertices when they are neighbors in the
// accumulator's outline, and appended otherwise. Everything else closes the
// accumulator and starts a new one.
//
// Triangle fans, as produced by renderers for convex shapes, are recovered as
// a single outline in their original winding.
func MergePolygons(tris []Polygon) []Polygon {
	if len(tris) == 0 {
		return nil
	}

	merged := make([]Polygon, 0, len(tris))

	p := startAccumulator(tris[0])
	for _, o := range tris[1:] {
		if o.Color != p.Color {
			merged = append(merged, p)
			p = startAccumulator(o)
			continue
		}

		shared, excluded, ok := sharedEdge(p.Vertices, o.Vertices)
		if !ok {
			merged = append(merged, p)
			p = startAccumulator(o)
			continue
		}

		i0 := slices.Index(p.Vertices, shared[0])
		i1 := slices.Index(p.Vertices, shared[1])
		if i1 < i0 {
			i0, i1 = i1, i0
		}

		if i1-i0 == 1 {
			p.Vertices = slices.Insert(p.Vertices, i1, excluded)
		} else {
			// Also covers the cyclic neighbors first/last: between them is the end.
			p.Vertices = append(p.Vertices, excluded)
		}
	}
	return append(merged, p)
}

// startAccumulator copies the vertex slice so growing the accumulator never
// writes into the caller's triangles.
func startAccumulator(t Polygon) Polygon {
	t.Vertices = slices.Clone(t.Vertices)
	return t
}

// sharedEdge compares the distinct vertices of a polygon and a triangle by
// value. It succeeds when exactly two of them are shared and the triangle has
// a vertex outside the polygon to contribute.
func sharedEdge(poly, tri []Vertex) (shared [2]Vertex, excluded Vertex, ok bool) {
	inPoly := make(map[Vertex]struct{}, len(poly))
	for _, v := range poly {
		inPoly[v] = struct{}{}
	}

	n := 0
	haveExcluded := false
	seen := make(map[Vertex]struct{}, len(tri))
	for _, v := range tri {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}

		if _, in := inPoly[v]; in {
			if n < 2 {
				shared[n] = v
			}
			n++
			continue
		}
		if !haveExcluded {
			excluded = v
			haveExcluded = true
		}
	}

	if n != 2 || !haveExcluded {
		return shared, excluded, false
	}
	return shared, excluded, true
}
