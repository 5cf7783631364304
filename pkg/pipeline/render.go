package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/render/sink"
)

// RenderFormat renders one output format. PNG returns every sheet in pages
// and the first sheet in data.
func RenderFormat(ctx context.Context, src *artifact.Source, plan layout.Plan, format string, opts Options) (data []byte, pages [][]byte, err error) {
	switch format {
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, plan, src, buildPDFOptions(opts)...)
	case FormatPNG:
		pages, err = sink.RenderPNG(ctx, plan, src, sink.WithPreviewDPI(opts.PreviewDPI))
		if len(pages) > 0 {
			data = pages[0]
		}
	case FormatSVG:
		data = sink.RenderSVG(plan)
	case FormatJSON:
		data, err = sink.RenderJSON(plan, sink.WithJSONSource(src), sink.WithJSONIndent())
	default:
		return nil, nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, pages, nil
}

// buildPDFOptions builds PDF rendering options.
func buildPDFOptions(opts Options) []sink.PDFOption {
	var pdfOpts []sink.PDFOption
	if opts.CutMarks {
		pdfOpts = append(pdfOpts, sink.WithCutMarks())
	}
	if opts.Title != "" {
		pdfOpts = append(pdfOpts, sink.WithTitle(opts.Title))
	}
	return pdfOpts
}
