package recording

import (
	"image"
	"io"

	"github.com/gogpu/dlexport"
	"github.com/gogpu/dlexport/cache"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Fill is the color and opacity of a polygon or text run.
type Fill struct {
	Color dlexport.Color
	Alpha float64
}

// Backend is the interface that all export backends must implement.
// Backends receive the reconstructed scene of one frame and translate it to
// their output format (SVG elements, raster pixels, etc.).
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
//
// # Call Order
//
// Playback drives a backend in a fixed order:
//
//	Begin
//	DefineClip for every draw command, in order
//	for every draw command:
//	    BeginLayer
//	    FillPolygon / DrawText / DrawImage for each polygon, in order
//	    EndLayer
//	End
//
// Layer i is clipped by clip i.
//
// # Example Backend Registration
//
//	func init() {
//	    recording.Register("pdf", func() recording.Backend {
//	        return NewPDFBackend()
//	    }, ".pdf")
//	}
type Backend interface {
	// Lifecycle methods

	// Begin starts a document covering the canvas at pos with the given size.
	// A backend may reject a degenerate canvas.
	Begin(pos, size vec.Vec2) error

	// End finalizes the document.
	// After End is called, output methods (WriteTo, SaveToFile) can be used.
	End() error

	// Clipping methods

	// DefineClip declares the clip rectangle of draw command index.
	DefineClip(index int, clip rect.Rect)

	// Layer methods

	// BeginLayer opens the group of polygons of draw command index.
	BeginLayer(index int)

	// EndLayer closes the current group.
	EndLayer()

	// Drawing methods

	// FillPolygon fills a polygon given by its vertices in order.
	FillPolygon(vertices []dlexport.Vertex, fill Fill)

	// DrawText draws a text run in place of the glyph quads it was
	// recognized from. box is the bounding box of those quads.
	DrawText(run *dlexport.TextRun, box rect.Rect, fill Fill)

	// DrawImage draws an image stretched over box. If img is not available,
	// the backend draws a transparent placeholder.
	DrawImage(img *dlexport.ImageFill, box rect.Rect)
}

// WriterBackend extends Backend with the ability to write output to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content to the given writer.
	// This should only be called after End().
	WriteTo(w io.Writer) (int64, error)
}

// FileBackend extends Backend with the ability to save output directly to a file.
type FileBackend interface {
	Backend

	// SaveToFile saves the rendered content to a file at the given path.
	// This should only be called after End().
	SaveToFile(path string) error
}

// ImageBackend extends Backend with access to a rendered bitmap.
// This is implemented by the raster backend.
type ImageBackend interface {
	Backend

	// Image returns the rendered image.
	// This should only be called after End().
	// Returns nil if nothing was rendered.
	Image() image.Image
}

// TextStyle controls how text runs are drawn.
type TextStyle struct {
	// FontFamily names the font in document formats that reference fonts
	// by name.
	FontFamily string

	// SizeScale multiplies the atlas font size to get the drawn size.
	SizeScale float64

	// BaselineOffset places the baseline below the top of the run's box,
	// in units of the atlas font size.
	BaselineOffset float64
}

// DefaultTextStyle matches the proportions of common GUI fonts.
var DefaultTextStyle = TextStyle{
	FontFamily:     "Source Sans Pro",
	SizeScale:      0.8,
	BaselineOffset: 0.55,
}

// TextStyler is implemented by backends whose text appearance can be
// configured. SetTextStyle must be called before Begin.
type TextStyler interface {
	SetTextStyle(style TextStyle)
}

// URICache holds encoded textures keyed by a fingerprint of their pixels.
// Values are data URIs, charged by length.
type URICache = cache.Cache[uint64, string]

// NewURICache creates a URICache holding up to budget bytes of data URIs.
func NewURICache(budget int) *URICache {
	return cache.New[uint64, string](budget, cache.Uint64Hasher, func(uri string) int { return len(uri) })
}

// CacheUser is implemented by backends that embed encoded textures and can
// share a URICache across documents. SetCache must be called before Begin.
type CacheUser interface {
	SetCache(c *URICache)
}
