package dlexport

import (
	"time"

	"seehuhn.de/go/geom/vec"
)

// DrawListState is the scratch state of one export. Cmds and Groups are
// parallel: Groups[i] holds the polygons reconstructed from Cmds[i].
//
// A state is created by Vectorize, consumed by a serializer and then
// discarded. It is never reused across frames.
type DrawListState struct {
	Cmds   []DrawCommand
	Groups []PolygonGroup

	CanvasPos  vec.Vec2
	CanvasSize vec.Vec2
}

// Stats summarizes what Vectorize reconstructed.
type Stats struct {
	Commands     int
	Polygons     int
	Runs         int
	Images       int
	Placeholders int // image polygons whose texture could not be fetched
}

// Stats counts the polygons of the state by kind.
func (s *DrawListState) Stats() Stats {
	st := Stats{Commands: len(s.Cmds)}
	for _, g := range s.Groups {
		st.Polygons += len(g)
		for i := range g {
			switch pl := g[i].Payload.(type) {
			case *TextRun:
				st.Runs++
			case *ImageFill:
				st.Images++
				if !pl.Available() {
					st.Placeholders++
				}
			}
		}
	}
	return st
}

// Vectorize reconstructs the vector scene of one frame.
//
// atlas may be nil, in which case no text is recognized and every command is
// treated as image-backed. textures may be nil, in which case every image is
// a placeholder.
func Vectorize(dl DrawList, atlas FontAtlas, textures TextureSource) *DrawListState {
	start := time.Now()

	state := &DrawListState{Cmds: dl.Cmds()}
	mesh := MeshOf(dl)

	var table *GlyphTable
	isAtlas := func(TextureID) bool { return false }
	if atlas != nil {
		atlasTex := atlas.TextureID()
		table = BuildGlyphTable(atlas)
		isAtlas = func(id TextureID) bool { return id == atlasTex }
	}

	triangles, glyphs := 0, 0
	state.Groups = make([]PolygonGroup, len(state.Cmds))
	for i, cmd := range state.Cmds {
		tris := DecodeTriangles(cmd, mesh)
		triangles += len(tris)

		polys := MergePolygons(tris)
		if isAtlas(cmd.TextureID) {
			glyphs += ClassifyGlyphs(polys, table)
			polys = JoinRuns(polys)
		}
		state.Groups[i] = polys
	}

	bindImages(state, isAtlas, textures)
	state.CanvasPos, state.CanvasSize = CanvasBounds(state.Cmds)

	st := state.Stats()
	Logger().Debug("dlexport: vectorized draw list",
		"commands", st.Commands,
		"triangles", triangles,
		"polygons", st.Polygons,
		"glyphs", glyphs,
		"runs", st.Runs,
		"images", st.Images,
		"placeholders", st.Placeholders,
		"elapsed", time.Since(start))

	return state
}
