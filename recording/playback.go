package recording

import (
	"github.com/gogpu/dlexport"
)

// Playback replays the reconstructed scene to the given backend.
//
// Polygons with an image payload are drawn as images, polygons with a text
// payload as text and everything else as filled polygons.
func Playback(state *dlexport.DrawListState, backend Backend) error {
	// Initialize backend
	if err := backend.Begin(state.CanvasPos, state.CanvasSize); err != nil {
		return err
	}

	for i, cmd := range state.Cmds {
		backend.DefineClip(i, cmd.ClipRect)
	}

	for i, group := range state.Groups {
		backend.BeginLayer(i)
		for j := range group {
			p := &group[j]
			fill := Fill{Color: p.Color, Alpha: p.Alpha}
			switch pl := p.Payload.(type) {
			case *dlexport.ImageFill:
				backend.DrawImage(pl, p.Bounds())
			case *dlexport.TextRun:
				backend.DrawText(pl, p.Bounds(), fill)
			default:
				backend.FillPolygon(p.Vertices, fill)
			}
		}
		backend.EndLayer()
	}

	return backend.End()
}
