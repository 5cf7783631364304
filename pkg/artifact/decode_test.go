package artifact

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
	"github.com/matzehuels/gangsheet/pkg/layout"
)

func TestDecodeRaster(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		format  string
		w, h    float64
		density float64
	}{
		{"png no density", pngWithDensity(t, 30, 20, 0, 0), FormatPNG, 30, 20, 0},
		{"png 300 ppi", pngWithDensity(t, 30, 20, 11811, 1), FormatPNG, 30, 20, 300},
		{"png aspect only", pngWithDensity(t, 30, 20, 11811, 0), FormatPNG, 30, 20, 0},
		{"jpeg 150 dpi", jpegWithJFIF(t, 16, 8, 1, 150), FormatJPEG, 16, 8, 150},
		{"jpeg dpcm", jpegWithJFIF(t, 16, 8, 2, 118), FormatJPEG, 16, 8, 300},
		{"jpeg aspect only", jpegWithJFIF(t, 16, 8, 0, 1), FormatJPEG, 16, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.Format != tt.format {
				t.Errorf("Format = %q, want %q", src.Format, tt.format)
			}
			if src.IsVector() {
				t.Error("raster decoded as vector")
			}
			a := src.Artifact
			if a.Kind != layout.KindRaster || a.NativeWidth != tt.w || a.NativeHeight != tt.h {
				t.Errorf("Artifact = %+v, want raster %gx%g", a, tt.w, tt.h)
			}
			if a.Density != tt.density {
				t.Errorf("Density = %g, want %g", a.Density, tt.density)
			}
			if len(src.Data) != len(tt.data) {
				t.Error("Source.Data should hold the original bytes")
			}
		})
	}
}

func TestDecodePDF(t *testing.T) {
	data := pdfWithPages(t, fpdf.SizeType{Wd: 612, Ht: 792}, fpdf.SizeType{Wd: 288, Ht: 144})

	src, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !src.IsVector() || src.Format != FormatPDF {
		t.Fatalf("Decode() = %s vector=%v", src.Format, src.IsVector())
	}
	if src.Page != 1 || src.PageCount != 2 {
		t.Errorf("Page/PageCount = %d/%d, want 1/2", src.Page, src.PageCount)
	}
	if src.Artifact.NativeWidth != 612 || src.Artifact.NativeHeight != 792 {
		t.Errorf("page 1 = %gx%g, want 612x792", src.Artifact.NativeWidth, src.Artifact.NativeHeight)
	}

	src, err = Decode(data, WithPage(2))
	if err != nil {
		t.Fatalf("Decode(page 2) error = %v", err)
	}
	if src.Artifact.NativeWidth != 288 || src.Artifact.NativeHeight != 144 {
		t.Errorf("page 2 = %gx%g, want 288x144", src.Artifact.NativeWidth, src.Artifact.NativeHeight)
	}

	if _, err := Decode(data, WithPage(3)); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Decode(page 3) error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestDecodeRotatedPDF(t *testing.T) {
	// A 4x2 in page shown a quarter turn reads as 2x4 in.
	var rotated bytes.Buffer
	data := pdfWithPages(t, fpdf.SizeType{Wd: 288, Ht: 144})
	if err := api.Rotate(bytes.NewReader(data), &rotated, 90, nil, pdfConfig()); err != nil {
		t.Fatalf("api.Rotate: %v", err)
	}

	src, err := Decode(rotated.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.Artifact.NativeWidth != 144 || src.Artifact.NativeHeight != 288 {
		t.Errorf("rotated page = %gx%g, want 144x288", src.Artifact.NativeWidth, src.Artifact.NativeHeight)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		code errs.Code
	}{
		{"empty", nil, errs.ErrCodeInvalidArtifact},
		{"text", []byte("hello, world"), errs.ErrCodeUnsupported},
		{"truncated png", pngWithDensity(t, 4, 4, 0, 0)[:12], errs.ErrCodeInvalidArtifact},
		{"broken pdf", []byte("%PDF-1.4\nnot really"), errs.ErrCodeInvalidArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errs.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want %s", err, tt.code)
			}
		})
	}
}
