package artifact

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/go-pdf/fpdf"
)

func solidImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

// pngWithDensity encodes a w x h PNG and, when ppm > 0, inserts a pHYs chunk
// declaring ppm pixels per metre right after IHDR.
func pngWithDensity(t *testing.T, w, h int, ppm uint32, unit byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(w, h)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	data := buf.Bytes()
	if ppm == 0 {
		return data
	}

	body := make([]byte, 9)
	binary.BigEndian.PutUint32(body[0:4], ppm)
	binary.BigEndian.PutUint32(body[4:8], ppm)
	body[8] = unit

	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(body)))
	chunk.WriteString("pHYs")
	chunk.Write(body)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(append([]byte("pHYs"), body...)))

	const ihdrEnd = 8 + 8 + 13 + 4
	out := append([]byte{}, data[:ihdrEnd]...)
	out = append(out, chunk.Bytes()...)
	return append(out, data[ihdrEnd:]...)
}

// jpegWithJFIF encodes a JPEG and prepends a JFIF APP0 segment with the given
// density units and horizontal density.
func jpegWithJFIF(t *testing.T, w, h int, units byte, density uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(w, h), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	data := buf.Bytes()

	seg := []byte{0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, units, 0, 0, 0, 0, 0x00, 0x00}
	binary.BigEndian.PutUint16(seg[12:14], density)
	binary.BigEndian.PutUint16(seg[14:16], density)

	out := append([]byte{}, data[:2]...)
	out = append(out, seg...)
	return append(out, data[2:]...)
}

// pdfWithPages renders a PDF with one page per size, sizes in points.
func pdfWithPages(t *testing.T, sizes ...fpdf.SizeType) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "", "")
	for _, s := range sizes {
		pdf.AddPageFormat("P", s)
		pdf.Rect(10, 10, s.Wd-20, s.Ht-20, "D")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("pdf.Output: %v", err)
	}
	return buf.Bytes()
}
