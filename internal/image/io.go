// Package image loads textures and encodes them for embedding in exported
// documents.
package image

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// Extra formats for LoadImage.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrEmptyImage is returned when encoding an image without pixels.
	ErrEmptyImage = errors.New("image: empty image")
)

// PNGDataURIPrefix starts every data URI produced by DataURI.
const PNGDataURIPrefix = "data:image/png;base64,"

// LoadImage loads an image from the given file path, auto-detecting the
// format. Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// LoadImageFromBytes decodes an image from a byte slice, auto-detecting the
// format.
func LoadImageFromBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG to the given writer.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes img as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// DataURI encodes img as a base64 PNG data URI.
func DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}

	out := make([]byte, len(PNGDataURIPrefix)+base64.StdEncoding.EncodedLen(buf.Len()))
	n := copy(out, PNGDataURIPrefix)
	base64.StdEncoding.Encode(out[n:], buf.Bytes())
	return string(out), nil
}

// placeholderURI is computed once; the placeholder never changes.
var placeholderURI = func() string {
	uri, err := DataURI(Placeholder())
	if err != nil {
		panic(err)
	}
	return uri
}()

// Placeholder returns a 1x1 fully transparent image, drawn in place of
// textures that could not be fetched.
func Placeholder() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

// PlaceholderDataURI returns the data URI of Placeholder.
func PlaceholderDataURI() string {
	return placeholderURI
}
