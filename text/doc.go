// Package text provides a reference font atlas and text shaper for building
// immediate-mode draw lists.
//
// An [Atlas] packs the glyphs of one TrueType/OpenType font, rasterized at one
// or more pixel sizes, into a single virtual texture and records the texture
// coordinates of every glyph, the way immediate-mode GUI libraries do. It
// implements [dlexport.FontAtlas], so the same atlas that lays out text can be
// handed to the vectorizer to recognize it again.
//
// Glyph metrics come from golang.org/x/image/font/opentype. Layout goes
// through a HarfBuzz shaper from github.com/go-text/typesetting, so pen
// positions include kerning.
//
// # Example usage
//
//	atlas, err := text.NewAtlas(1, goregular.TTF, []float64{13, 20})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	font, _ := atlas.Font(13)
//	for _, pg := range font.Layout("Hello") {
//	    // pg.Glyph quad offsets are relative to the pen position pg.X
//	}
package text
