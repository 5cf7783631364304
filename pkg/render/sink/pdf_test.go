package sink

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

func TestRenderPDF(t *testing.T) {
	tests := []struct {
		name   string
		source func(*testing.T) *artifact.Source
		rotate bool
		opts   []PDFOption
	}{
		{"png", rasterSource, false, nil},
		{"png rotated", rasterSource, true, nil},
		{"bmp re-encoded", bmpSource, false, nil},
		{"pdf template", vectorSource, false, nil},
		{"pdf template rotated", vectorSource, true, nil},
		{"cut marks and title", rasterSource, false, []PDFOption{WithCutMarks(), WithTitle("order 1042")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.source(t)
			plan := testPlan(t, src, 40, tt.rotate)

			data, err := RenderPDF(context.Background(), plan, src, tt.opts...)
			if err != nil {
				t.Fatalf("RenderPDF() error = %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
			}

			// Read the result back: one 4x4 in page per sheet.
			out, err := artifact.Decode(data)
			if err != nil {
				t.Fatalf("decode rendered pdf: %v", err)
			}
			if out.PageCount != len(plan.Sheets) {
				t.Errorf("PageCount = %d, want %d", out.PageCount, len(plan.Sheets))
			}
			if math.Abs(out.Artifact.NativeWidth-288) > 0.01 || math.Abs(out.Artifact.NativeHeight-288) > 0.01 {
				t.Errorf("page size = %gx%g pt, want 288x288", out.Artifact.NativeWidth, out.Artifact.NativeHeight)
			}
		})
	}
}

func TestRenderPDFEmptyPlan(t *testing.T) {
	src := rasterSource(t)
	data, err := RenderPDF(context.Background(), testPlan(t, src, 0, false), src)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("RenderPDF() = %d bytes, %v, want %s", len(data), err, errs.ErrCodeInvalidInput)
	}
	if data != nil {
		t.Error("empty plan should not produce a document")
	}
}

func TestRenderPDFRotatedPage(t *testing.T) {
	src := rotatedVectorSource(t)
	if src.Artifact.NativeWidth != 36 || src.Artifact.NativeHeight != 72 {
		t.Fatalf("rotated source = %gx%g pt, want 36x72", src.Artifact.NativeWidth, src.Artifact.NativeHeight)
	}
	plan := testPlan(t, src, 40, false)
	if plan.Capacity.PerRow != 8 || plan.Capacity.PerColumn != 4 {
		t.Fatalf("grid = %dx%d, want 8x4", plan.Capacity.PerRow, plan.Capacity.PerColumn)
	}

	data, err := RenderPDF(context.Background(), plan, src)
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	out, err := artifact.Decode(data)
	if err != nil {
		t.Fatalf("decode rendered pdf: %v", err)
	}
	if out.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", out.PageCount)
	}
}

func TestRenderPDFCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := rasterSource(t)
	if _, err := RenderPDF(ctx, testPlan(t, src, 5, false), src); err == nil {
		t.Error("RenderPDF() should fail on a canceled context")
	}
}
