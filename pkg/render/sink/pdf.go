package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/buildinfo"
	errs "github.com/matzehuels/gangsheet/pkg/errors"
	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/render"
)

const (
	artworkName  = "artwork"
	cutMarkWidth = 0.005 // inches
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	cutMarks bool
	title    string
}

// WithCutMarks outlines every placement with a grey hairline.
func WithCutMarks() PDFOption { return func(r *pdfRenderer) { r.cutMarks = true } }

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption { return func(r *pdfRenderer) { r.title = title } }

// RenderPDF renders plan as a PDF with one page per sheet. src supplies the
// artwork bytes drawn at every placement. A plan without sheets is rejected
// with INVALID_INPUT.
func RenderPDF(ctx context.Context, plan layout.Plan, src *artifact.Source, opts ...PDFOption) ([]byte, error) {
	if err := requireSheets(plan, "pdf"); err != nil {
		return nil, err
	}
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	d, err := newPDFDrawer(plan.Spec, src, r)
	if err != nil {
		return nil, err
	}
	if err := render.Render(ctx, plan, d); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// requireSheets rejects plans with nothing to print. Page-per-sheet formats
// cannot represent them.
func requireSheets(plan layout.Plan, format string) error {
	if len(plan.Sheets) == 0 {
		return errs.New(errs.ErrCodeInvalidInput,
			"a %s needs at least one sheet; quantity %d produced none", format, plan.Request.Quantity).
			With("format", format)
	}
	return nil
}

type pdfDrawer struct {
	pdf  *fpdf.Fpdf
	spec layout.SheetSpec
	opts pdfRenderer

	// raster artwork
	imageOpts fpdf.ImageOptions

	// vector artwork
	importer *gofpdi.Importer
	template int
	vector   bool
}

func newPDFDrawer(spec layout.SheetSpec, src *artifact.Source, opts pdfRenderer) (*pdfDrawer, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "in",
		Size:    fpdf.SizeType{Wd: spec.Width, Ht: spec.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("gangsheet "+buildinfo.Get().Version, true)
	if opts.title != "" {
		pdf.SetTitle(opts.title, true)
	}

	d := &pdfDrawer{pdf: pdf, spec: spec, opts: opts}
	if src.IsVector() {
		if err := d.importPage(src); err != nil {
			return nil, err
		}
		return d, nil
	}
	if err := d.registerImage(src); err != nil {
		return nil, err
	}
	return d, nil
}

// registerImage embeds the raster artwork once. Formats the PDF writer
// cannot read are re-encoded to PNG.
func (d *pdfDrawer) registerImage(src *artifact.Source) error {
	imageType := ""
	switch src.Format {
	case artifact.FormatPNG:
		imageType = "PNG"
	case artifact.FormatJPEG:
		imageType = "JPG"
	case artifact.FormatGIF:
		imageType = "GIF"
	}

	if imageType != "" {
		d.imageOpts = fpdf.ImageOptions{ImageType: imageType}
		d.pdf.RegisterImageOptionsReader(artworkName, d.imageOpts, bytes.NewReader(src.Data))
		if !d.pdf.Err() {
			return nil
		}
		d.pdf.ClearError()
	}

	data, err := reencodePNG(src.Data)
	if err != nil {
		return fmt.Errorf("re-encode %s artwork: %w", src.Format, err)
	}
	d.imageOpts = fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(artworkName, d.imageOpts, bytes.NewReader(data))
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("embed artwork: %w", err)
	}
	return nil
}

func reencodePNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// importPage turns the selected PDF page into a reusable template.
func (d *pdfDrawer) importPage(src *artifact.Source) (err error) {
	defer func() {
		// The importer panics on malformed input.
		if p := recover(); p != nil {
			err = fmt.Errorf("import pdf page %d: %v", src.Page, p)
		}
	}()

	page := src.Page
	if page < 1 {
		page = 1
	}
	var rs io.ReadSeeker = bytes.NewReader(src.Data)
	d.importer = gofpdi.NewImporter()
	d.template = d.importer.ImportPageFromStream(d.pdf, &rs, page, "/MediaBox")
	d.vector = true
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("import pdf page %d: %w", page, err)
	}
	return nil
}

func (d *pdfDrawer) BeginSheet(_ context.Context, _ int, spec layout.SheetSpec) error {
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: spec.Width, Ht: spec.Height})
	return d.pdf.Error()
}

func (d *pdfDrawer) Draw(_ context.Context, p layout.Placement) error {
	x, top, w, h := render.PDFRect(d.spec, p)

	if p.Rotated {
		// The unrotated artwork is h wide and w tall. Anchored at the
		// bottom-left corner of the footprint and turned 90° counter-clockwise
		// it covers the footprint exactly.
		d.pdf.TransformBegin()
		d.pdf.TransformRotate(90, x, top+h)
		d.drawArtwork(x, top+h, h, w)
		d.pdf.TransformEnd()
	} else {
		d.drawArtwork(x, top, w, h)
	}

	if d.opts.cutMarks {
		d.pdf.SetLineWidth(cutMarkWidth)
		d.pdf.SetDrawColor(160, 160, 160)
		d.pdf.Rect(x, top, w, h, "D")
	}
	return d.pdf.Error()
}

func (d *pdfDrawer) drawArtwork(x, y, w, h float64) {
	if d.vector {
		d.importer.UseImportedTemplate(d.pdf, d.template, x, y, w, h)
		return
	}
	d.pdf.ImageOptions(artworkName, x, y, w, h, false, d.imageOpts, 0, "")
}

func (d *pdfDrawer) EndSheet(context.Context, int) error { return d.pdf.Error() }
