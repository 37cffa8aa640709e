// Package export turns a renderer's draw list into a written document.
//
// An Exporter follows the host's frame loop. A user action calls Request
// for a surface; the next BeginFrame for that surface reports true so the
// host can switch off anti-aliasing; EndFrame for the same surface then
// vectorizes the frame's draw list, serializes it with the configured
// backend and writes the result.
//
//	exp := export.New(
//	    export.WithAtlas(atlas),
//	    export.WithTextures(textures),
//	    export.WithOutput("plot.svg"),
//	)
//
//	exp.Request("main")
//	...
//	aa := !exp.BeginFrame("main")
//	// draw the frame
//	doc, err := exp.EndFrame("main", drawList)
//
// The Exporter is driven from the render loop and is not safe for
// concurrent use.
package export
