package dlexport

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// CanvasBounds returns the origin and size of the smallest box containing the
// clip rectangles of all commands.
//
// Without commands the result is degenerate: origin (+Inf, +Inf) and size
// (-Inf, -Inf). Callers that care must check for an empty draw list.
func CanvasBounds(cmds []DrawCommand) (pos, size vec.Vec2) {
	lo := vec.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := vec.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}

	for _, cmd := range cmds {
		lo.X = math.Min(lo.X, cmd.ClipRect.LLx)
		lo.Y = math.Min(lo.Y, cmd.ClipRect.LLy)
		hi.X = math.Max(hi.X, cmd.ClipRect.URx)
		hi.Y = math.Max(hi.Y, cmd.ClipRect.URy)
	}
	return lo, hi.Sub(lo)
}
