// Package drawlist builds draw lists the way an immediate-mode GUI renderer
// does, so they can be vectorized and exported without a live GUI.
//
// A Builder appends triangles to a shared vertex and index buffer and groups
// them into draw commands. A new command starts whenever the texture or the
// clip rectangle changes:
//
//	atlas, _ := text.DefaultAtlas(0)
//	b := drawlist.NewBuilder(atlas, 800, 600)
//	b.AddRectFilled(rect.Rect{LLx: 10, LLy: 10, URx: 110, URy: 60}, color.NRGBA{R: 200, A: 255})
//	_ = b.AddText(vec.Vec2{X: 20, Y: 20}, text.DefaultFontSize, color.White, "Hello")
//	state := dlexport.Vectorize(b.DrawList(), atlas, textures)
//
// Solid fills sample the opaque block at the atlas origin, glyphs sample
// their atlas cells and images sample their own texture, exactly like the
// renderer's output with anti-aliasing disabled.
//
// Textures is an in-memory texture store implementing
// dlexport.TextureSource.
package drawlist
