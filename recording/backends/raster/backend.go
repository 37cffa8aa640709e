// Package raster provides a raster backend for the recording system.
// It renders the reconstructed scene to an RGBA image.
//
// The raster backend serves two purposes:
//   - Previewing an export as PNG next to the vector document
//   - Pixel comparison testing of the reconstruction
//
// # Supported Features
//
//   - Polygon fills with alpha, anti-aliased
//   - Per-command rectangular clipping
//   - Images scaled bilinearly into their bounding box
//   - Horizontal and vertical text set in Go Regular
//   - PNG output
//
// # Limitations
//
// Text is drawn with the Go Regular font regardless of the font the draw
// list was rendered with, so glyph shapes and run widths only approximate
// the original frame. Unavailable textures are left transparent.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/dlexport/recording/backends/raster"
//
//	// Create via registry
//	backend, _ := recording.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend()
//
//	// Playback the scene
//	recording.Playback(state, backend)
//
//	// Get output
//	backend.SavePNG("preview.png")
//	img := backend.Image()
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/gogpu/dlexport"
	iimage "github.com/gogpu/dlexport/internal/image"
	"github.com/gogpu/dlexport/recording"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	}, ".png")
}

var (
	// ErrInvalidCanvas is returned by Begin for an empty, negative or
	// infinite canvas.
	ErrInvalidCanvas = errors.New("raster: invalid canvas size")

	// ErrNoImage is returned when output is requested before Begin.
	ErrNoImage = errors.New("raster: nothing rendered")
)

// MaxDimension bounds the width and height of the rendered image.
const MaxDimension = 16384

// Backend renders the scene to a pixel image.
// It implements recording.Backend, recording.WriterBackend,
// recording.FileBackend, and recording.ImageBackend interfaces.
type Backend struct {
	img    *image.RGBA
	origin vec.Vec2

	clips []image.Rectangle
	clip  image.Rectangle

	ras   *vector.Rasterizer
	faces map[float64]font.Face
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.ImageBackend  = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
// The backend must be initialized with Begin before use.
func NewBackend() *Backend {
	return &Backend{
		ras:   vector.NewRasterizer(0, 0),
		faces: make(map[float64]font.Face),
	}
}

// Begin allocates a transparent image covering the canvas. Canvas
// coordinates are shifted so that pos lands on pixel (0, 0).
func (b *Backend) Begin(pos, size vec.Vec2) error {
	if !finite(pos.X) || !finite(pos.Y) || !finite(size.X) || !finite(size.Y) {
		return fmt.Errorf("%w: %v at %v", ErrInvalidCanvas, size, pos)
	}
	w, h := int(math.Ceil(size.X)), int(math.Ceil(size.Y))
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, w, h)
	}

	b.img = image.NewRGBA(image.Rect(0, 0, w, h))
	b.origin = pos
	b.clips = b.clips[:0]
	b.clip = b.img.Bounds()
	return nil
}

// End finalizes the rendering.
// After End is called, output methods (WriteTo, SaveToFile) can be used.
func (b *Backend) End() error {
	return nil
}

// DefineClip records the clip rectangle of draw command index, rounded
// outward to whole pixels.
func (b *Backend) DefineClip(index int, clip rect.Rect) {
	for len(b.clips) <= index {
		b.clips = append(b.clips, b.img.Bounds())
	}
	r := image.Rect(
		int(math.Floor(clip.LLx-b.origin.X)), int(math.Floor(clip.LLy-b.origin.Y)),
		int(math.Ceil(clip.URx-b.origin.X)), int(math.Ceil(clip.URy-b.origin.Y)),
	)
	b.clips[index] = r.Intersect(b.img.Bounds())
}

// BeginLayer restricts drawing to the clip of draw command index.
func (b *Backend) BeginLayer(index int) {
	if index < len(b.clips) {
		b.clip = b.clips[index]
	} else {
		b.clip = b.img.Bounds()
	}
}

// EndLayer lifts the clip.
func (b *Backend) EndLayer() {
	b.clip = b.img.Bounds()
}

// FillPolygon fills the outline with the non-zero rule.
func (b *Backend) FillPolygon(vertices []dlexport.Vertex, fill recording.Fill) {
	if len(vertices) < 3 {
		return
	}
	src := uniform(fill)
	if src == nil {
		return
	}

	lo := vec.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := vec.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range vertices {
		lo.X, lo.Y = math.Min(lo.X, v.Pos.X), math.Min(lo.Y, v.Pos.Y)
		hi.X, hi.Y = math.Max(hi.X, v.Pos.X), math.Max(hi.Y, v.Pos.Y)
	}
	box := b.pixelRect(lo, hi)
	dst := box.Intersect(b.clip)
	if dst.Empty() {
		return
	}

	// The mask covers the polygon's bounding box; its origin is box.Min.
	b.ras.Reset(box.Dx(), box.Dy())
	b.ras.DrawOp = draw.Src
	off := vec.Vec2{X: b.origin.X + float64(box.Min.X), Y: b.origin.Y + float64(box.Min.Y)}
	for i, v := range vertices {
		p := v.Pos.Sub(off)
		if i == 0 {
			b.ras.MoveTo(float32(p.X), float32(p.Y))
		} else {
			b.ras.LineTo(float32(p.X), float32(p.Y))
		}
	}
	b.ras.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	b.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(b.img, dst, src, image.Point{}, mask, dst.Min.Sub(box.Min), draw.Over)
}

// DrawText sets the run in Go Regular at the run's font size, starting at
// the top left of box. Vertical runs read upward from the bottom left.
func (b *Backend) DrawText(run *dlexport.TextRun, box rect.Rect, fill recording.Fill) {
	src := uniform(fill)
	if src == nil || run.Text == "" {
		return
	}
	face, err := b.face(run.FontSize)
	if err != nil {
		dlexport.Logger().Warn("raster: cannot load font face", "size", run.FontSize, "err", err)
		return
	}

	m := face.Metrics()
	adv := font.MeasureString(face, run.Text)
	w, h := adv.Ceil(), (m.Ascent + m.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	line := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  line,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{Y: m.Ascent},
	}
	d.DrawString(run.Text)

	mask := line
	at := b.pixelPoint(box.LLx, box.LLy)
	if run.Vertical {
		mask = rotateCCW(line)
		at = b.pixelPoint(box.LLx, box.URy).Sub(image.Pt(0, w))
	}

	r := mask.Bounds().Add(at)
	dst := r.Intersect(b.clip)
	if dst.Empty() {
		return
	}
	draw.DrawMask(b.img, dst, src, image.Point{}, mask, dst.Min.Sub(at), draw.Over)
}

// DrawImage scales the texture into box. Unavailable textures draw nothing.
func (b *Backend) DrawImage(img *dlexport.ImageFill, box rect.Rect) {
	if !img.Available() {
		return
	}
	r := b.pixelRect(vec.Vec2{X: box.LLx, Y: box.LLy}, vec.Vec2{X: box.URx, Y: box.URy})
	if r.Empty() || r.Intersect(b.clip).Empty() {
		return
	}
	dst := b.img.SubImage(b.clip).(*image.RGBA)
	xdraw.BiLinear.Scale(dst, r, img.Image, img.Image.Bounds(), draw.Over, nil)
}

// face returns the cached Go Regular face for a pixel size.
func (b *Backend) face(size float64) (font.Face, error) {
	if f, ok := b.faces[size]; ok {
		return f, nil
	}
	goFont, err := parsedGoRegular()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(goFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: face at %v px: %w", size, err)
	}
	b.faces[size] = f
	return f, nil
}

// WriteTo writes the rendered content as PNG to the given writer.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.img == nil {
		return 0, ErrNoImage
	}
	cw := &countingWriter{w: w}
	err := iimage.EncodePNG(cw, b.img)
	return cw.n, err
}

// SaveToFile saves the rendered content as PNG to a file.
func (b *Backend) SaveToFile(path string) error {
	return b.SavePNG(path)
}

// Image returns the rendered image, or nil before Begin.
func (b *Backend) Image() image.Image {
	if b.img == nil {
		return nil
	}
	return b.img
}

// SavePNG is a convenience method to save the image as PNG.
func (b *Backend) SavePNG(path string) error {
	if b.img == nil {
		return ErrNoImage
	}
	return iimage.SavePNG(path, b.img)
}

// Width returns the image width.
func (b *Backend) Width() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dx()
}

// Height returns the image height.
func (b *Backend) Height() int {
	if b.img == nil {
		return 0
	}
	return b.img.Bounds().Dy()
}

// pixelRect converts a canvas box to the pixels it touches.
func (b *Backend) pixelRect(lo, hi vec.Vec2) image.Rectangle {
	return image.Rect(
		int(math.Floor(lo.X-b.origin.X)), int(math.Floor(lo.Y-b.origin.Y)),
		int(math.Ceil(hi.X-b.origin.X)), int(math.Ceil(hi.Y-b.origin.Y)),
	)
}

func (b *Backend) pixelPoint(x, y float64) image.Point {
	return image.Pt(int(math.Round(x-b.origin.X)), int(math.Round(y-b.origin.Y)))
}

// uniform returns the fill as a source image, or nil when it is invisible.
func uniform(fill recording.Fill) *image.Uniform {
	a := math.Round(math.Min(math.Max(fill.Alpha, 0), 1) * 255)
	if a == 0 {
		return nil
	}
	return image.NewUniform(color.NRGBA{R: fill.Color.R, G: fill.Color.G, B: fill.Color.B, A: uint8(a)})
}

// rotateCCW rotates a mask a quarter turn counter-clockwise.
func rotateCCW(src *image.Alpha) *image.Alpha {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewAlpha(image.Rect(0, 0, h, w))
	for y := range h {
		for x := range w {
			dst.Pix[(w-1-x)*dst.Stride+y] = src.Pix[y*src.Stride+x]
		}
	}
	return dst
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
