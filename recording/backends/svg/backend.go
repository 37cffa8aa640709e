// Package svg provides the SVG backend for the recording system.
//
// The document mirrors the draw list: one clip path per draw command in
// <defs>, then one <g> per draw command clipped by it, holding the
// command's polygons in order. Plain polygons become <polygon>, text runs
// become <text> and images become <image> elements with the texture
// embedded as a base64 PNG data URI.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/dlexport/recording/backends/svg"
//
//	backend, _ := recording.NewBackend("svg")
//	recording.Playback(state, backend)
//	backend.(recording.FileBackend).SaveToFile("plot.svg")
package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gogpu/dlexport"
	iimage "github.com/gogpu/dlexport/internal/image"
	"github.com/gogpu/dlexport/recording"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func init() {
	recording.Register("svg", func() recording.Backend {
		return NewBackend()
	}, ".svg")
}

// ErrNotFinished is returned when output is requested before End.
var ErrNotFinished = errors.New("svg: document not finished")

// defaultCache is shared by backends that were not given a cache.
var defaultCache = recording.NewURICache(0)

// Backend writes the scene as an SVG document.
// It implements recording.Backend, recording.WriterBackend,
// recording.FileBackend, recording.TextStyler and recording.CacheUser.
type Backend struct {
	buf   bytes.Buffer
	style recording.TextStyle
	uris  *recording.URICache

	defsOpen bool
	inLayer  bool
	done     bool
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend       = (*Backend)(nil)
	_ recording.WriterBackend = (*Backend)(nil)
	_ recording.FileBackend   = (*Backend)(nil)
	_ recording.TextStyler    = (*Backend)(nil)
	_ recording.CacheUser     = (*Backend)(nil)
)

// NewBackend creates a new SVG backend using recording.DefaultTextStyle.
func NewBackend() *Backend {
	return &Backend{
		style: recording.DefaultTextStyle,
		uris:  defaultCache,
	}
}

// SetTextStyle implements recording.TextStyler.
func (b *Backend) SetTextStyle(style recording.TextStyle) {
	b.style = style
}

// SetCache implements recording.CacheUser. A nil cache restores the
// package-wide default.
func (b *Backend) SetCache(c *recording.URICache) {
	if c == nil {
		c = defaultCache
	}
	b.uris = c
}

// Begin starts a new document, discarding any previous output.
// A degenerate canvas is written as is.
func (b *Backend) Begin(pos, size vec.Vec2) error {
	b.buf.Reset()
	b.done = false
	b.inLayer = false

	fmt.Fprintf(&b.buf, `<svg version="1.1" viewBox="%s %s %s %s" `, num(pos.X), num(pos.Y), num(size.X), num(size.Y))
	b.buf.WriteString(`xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">` + "\n")
	b.buf.WriteString("<defs>\n")
	b.defsOpen = true
	return nil
}

// End closes the document.
func (b *Backend) End() error {
	b.closeDefs()
	if b.inLayer {
		b.EndLayer()
	}
	b.buf.WriteString("</svg>\n")
	b.done = true
	return nil
}

// DefineClip writes the clip path of draw command index.
func (b *Backend) DefineClip(index int, clip rect.Rect) {
	fmt.Fprintf(&b.buf, `<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s" /></clipPath>`+"\n",
		ClipID(index), num(clip.LLx), num(clip.LLy), num(clip.URx-clip.LLx), num(clip.URy-clip.LLy))
}

// BeginLayer opens the group of draw command index.
func (b *Backend) BeginLayer(index int) {
	b.closeDefs()
	fmt.Fprintf(&b.buf, `<g clip-path="url(#%s)">`+"\n", ClipID(index))
	b.inLayer = true
}

// EndLayer closes the current group.
func (b *Backend) EndLayer() {
	b.buf.WriteString("</g>\n")
	b.inLayer = false
}

// FillPolygon writes a <polygon> element.
func (b *Backend) FillPolygon(vertices []dlexport.Vertex, fill recording.Fill) {
	b.buf.WriteString(`<polygon points="`)
	for i, v := range vertices {
		if i > 0 {
			b.buf.WriteByte(' ')
		}
		b.buf.WriteString(num(v.Pos.X))
		b.buf.WriteByte(',')
		b.buf.WriteString(num(v.Pos.Y))
	}
	fmt.Fprintf(&b.buf, `" fill="%s" fill-opacity="%s" />`+"\n", fill.Color.Hex(), short(fill.Alpha))
}

// DrawText writes a <text> element. Horizontal text starts at the left of
// box with its baseline BaselineOffset font sizes below the top. Vertical
// text is rotated to read upward from the bottom of box.
func (b *Backend) DrawText(run *dlexport.TextRun, box rect.Rect, fill recording.Fill) {
	offset := run.FontSize * b.style.BaselineOffset
	if run.Vertical {
		fmt.Fprintf(&b.buf, `<text transform="translate(%s, %s) rotate(-90)" `, num(box.LLx+offset), num(box.URy))
	} else {
		fmt.Fprintf(&b.buf, `<text x="%s" y="%s" `, num(box.LLx), num(box.LLy+offset))
	}

	fmt.Fprintf(&b.buf, `fill="%s" fill-opacity="%s" style="font-family: `, fill.Color.Hex(), short(fill.Alpha))
	escape(&b.buf, b.style.FontFamily)
	fmt.Fprintf(&b.buf, `; font-size: %spx">`, short(run.FontSize*b.style.SizeScale))
	escape(&b.buf, run.Text)
	b.buf.WriteString("</text>\n")
}

// DrawImage writes an <image> element stretched over box.
func (b *Backend) DrawImage(img *dlexport.ImageFill, box rect.Rect) {
	fmt.Fprintf(&b.buf, `<image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" xlink:href="%s" />`+"\n",
		num(box.LLx), num(box.LLy), num(box.URx-box.LLx), num(box.URy-box.LLy), b.dataURI(img))
}

// dataURI returns the embedded form of img. Unavailable or unencodable
// textures become a transparent placeholder.
func (b *Backend) dataURI(img *dlexport.ImageFill) string {
	if !img.Available() {
		return iimage.PlaceholderDataURI()
	}

	uri, err := b.uris.GetOrCreate(Fingerprint(img.Image), func() (string, error) {
		return iimage.DataURI(img.Image)
	})
	if err != nil {
		dlexport.Logger().Warn("svg: cannot encode texture, using placeholder",
			"texture", uint64(img.TextureID), "err", err)
		return iimage.PlaceholderDataURI()
	}
	return uri
}

func (b *Backend) closeDefs() {
	if b.defsOpen {
		b.buf.WriteString("</defs>\n")
		b.defsOpen = false
	}
}

// Bytes returns the finished document. The slice aliases the backend's
// buffer and is valid until the next Begin.
func (b *Backend) Bytes() ([]byte, error) {
	if !b.done {
		return nil, ErrNotFinished
	}
	return b.buf.Bytes(), nil
}

// WriteTo writes the finished document to w.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	data, err := b.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// SaveToFile writes the finished document to a file.
func (b *Backend) SaveToFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("svg: write file: %w", err)
	}
	return nil
}

// ClipID returns the id of the clip path of draw command index.
func ClipID(index int) string {
	return "clip_rect_" + strconv.Itoa(index)
}

// num formats a coordinate with three decimals.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// short formats v in its shortest form after rounding to three decimals.
func short(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func escape(w io.Writer, s string) {
	// bytes.Buffer writes never fail.
	_ = xml.EscapeText(w, []byte(s))
}
