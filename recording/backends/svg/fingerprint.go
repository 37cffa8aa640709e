package svg

import (
	"encoding/binary"
	"hash/fnv"
	"image"
	"io"
)

// Fingerprint hashes the bounds and pixels of img. Images that look the
// same produce the same fingerprint regardless of where they are stored,
// so a texture re-uploaded every frame is encoded only once.
func Fingerprint(img image.Image) uint64 {
	h := fnv.New64a()
	r := img.Bounds()

	var buf [8]byte
	for _, v := range []int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = h.Write(buf[:])
	}

	// Pix layouts differ in meaning, so the type is part of the hash.
	switch m := img.(type) {
	case *image.NRGBA:
		_, _ = h.Write([]byte{'n'})
		writeRows(h, m.Pix, m.Stride, m.PixOffset(r.Min.X, r.Min.Y), 4*r.Dx(), r.Dy())
	case *image.RGBA:
		_, _ = h.Write([]byte{'r'})
		writeRows(h, m.Pix, m.Stride, m.PixOffset(r.Min.X, r.Min.Y), 4*r.Dx(), r.Dy())
	case *image.Gray:
		_, _ = h.Write([]byte{'g'})
		writeRows(h, m.Pix, m.Stride, m.PixOffset(r.Min.X, r.Min.Y), r.Dx(), r.Dy())
	default:
		_, _ = h.Write([]byte{'?'})
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				cr, cg, cb, ca := img.At(x, y).RGBA()
				binary.LittleEndian.PutUint16(buf[0:], uint16(cr))
				binary.LittleEndian.PutUint16(buf[2:], uint16(cg))
				binary.LittleEndian.PutUint16(buf[4:], uint16(cb))
				binary.LittleEndian.PutUint16(buf[6:], uint16(ca))
				_, _ = h.Write(buf[:])
			}
		}
	}
	return h.Sum64()
}

func writeRows(h io.Writer, pix []byte, stride, off, rowLen, rows int) {
	if rowLen <= 0 {
		return
	}
	for range rows {
		_, _ = h.Write(pix[off : off+rowLen])
		off += stride
	}
}
