package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/bmp"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/layout"
)

var artworkColor = color.NRGBA{R: 200, G: 40, B: 40, A: 255}

func solidImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, artworkColor)
		}
	}
	return img
}

// rasterSource returns a decoded 100x50 px PNG (1x0.5 in at 100 ppi).
func rasterSource(t *testing.T) *artifact.Source {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(100, 50)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return mustDecode(t, buf.Bytes())
}

func bmpSource(t *testing.T) *artifact.Source {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, solidImage(100, 50)); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	return mustDecode(t, buf.Bytes())
}

// vectorSource returns a decoded 72x36 pt PDF page (1x0.5 in).
func vectorSource(t *testing.T) *artifact.Source {
	t.Helper()
	pdf := fpdf.New("P", "pt", "", "")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: 72, Ht: 36})
	pdf.SetFillColor(200, 40, 40)
	pdf.Rect(0, 0, 72, 36, "F")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("pdf.Output: %v", err)
	}
	return mustDecode(t, buf.Bytes())
}

// rotatedVectorSource is vectorSource with the page shown a quarter turn,
// so it measures 0.5x1 in.
func rotatedVectorSource(t *testing.T) *artifact.Source {
	t.Helper()
	var out bytes.Buffer
	if err := api.Rotate(bytes.NewReader(vectorSource(t).Data), &out, 90, nil, nil); err != nil {
		t.Fatalf("api.Rotate: %v", err)
	}
	return mustDecode(t, out.Bytes())
}

func mustDecode(t *testing.T, data []byte) *artifact.Source {
	t.Helper()
	src, err := artifact.Decode(data)
	if err != nil {
		t.Fatalf("artifact.Decode() error = %v", err)
	}
	return src
}

// testPlan packs src onto 4x4 in sheets without margin or gap. A 1x0.5 in
// footprint fits 32 per sheet.
func testPlan(t *testing.T, src *artifact.Source, quantity int, rotate bool) layout.Plan {
	t.Helper()
	cfg := layout.DefaultConfig(
		layout.WithSheet(4, 4),
		layout.WithMargin(0),
		layout.WithGap(0),
		layout.WithDefaultDensity(100),
	)
	plan, err := layout.NewPlanner(cfg).Plan(src.Artifact, layout.Request{Quantity: quantity, Rotate: rotate})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return plan
}
