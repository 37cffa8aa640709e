// Package dlexport reconstructs vector graphics from an immediate-mode draw list.
//
// # Overview
//
// An immediate-mode renderer only hands the GPU flat triangles: every filled
// rectangle, rounded corner and glyph arrives as an indexed triangle list with
// packed vertex colors and texture coordinates. There is no retained notion of
// "this is a polygon" or "this is a word". dlexport recovers those structures
// from geometric and numeric adjacency alone and produces a [DrawListState]
// that can be played back into a vector document (see the recording package).
//
// # Pipeline
//
// [Vectorize] runs the stages in a fixed order over one frame's snapshot:
//
//  1. [DecodeTriangles]: one flat polygon per triangle, color and alpha decoded
//  2. [MergePolygons]: same-color triangles sharing an edge are fused into fans
//  3. [ClassifyGlyphs]: quads textured from the font atlas are matched to glyphs
//  4. [JoinRuns]: adjacent glyphs are joined into text runs
//  5. [BindImages]: polygons of non-atlas commands get their texture attached
//  6. [CanvasBounds]: the document extent is the union of all clip rectangles
//
// Both the merge and the join are greedy, single-pass folds that only look at
// the current accumulator. They are heuristics, not optimal fusion: changing
// them to a global algorithm changes the output.
//
// # Quick Start
//
//	state := dlexport.Vectorize(drawList, atlas, textures)
//
//	svg := recording.MustBackend("svg")
//	if err := recording.Playback(state, svg); err != nil {
//	    // handle error
//	}
//	svg.(recording.FileBackend).SaveToFile("frame.svg")
//
// The export package wraps this sequence together with the per-surface
// "export requested" flag used by interactive hosts.
//
// # Coordinate System
//
// Positions use the renderer's screen coordinates: origin at top-left, X grows
// right, Y grows down. Texture coordinates are normalized to [0, 1].
//
// # Thread Safety
//
// Vectorize is a pure function of its inputs. The returned state is owned by
// the caller and must not be shared while it is being played back.
package dlexport
