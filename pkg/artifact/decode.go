package artifact

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
	"github.com/matzehuels/gangsheet/pkg/layout"
)

// Format names reported in Source.Format.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
	FormatPDF  = "pdf"
)

// pdfMagic prefixes every PDF file.
var pdfMagic = []byte("%PDF-")

// Source is a decoded artifact together with its original bytes.
// It is read-only once returned by Decode.
type Source struct {
	Data      []byte
	Format    string
	Artifact  layout.Artifact
	Page      int // selected page, 1-based; PDF only
	PageCount int // PDF only
}

// IsVector reports whether the source is a PDF page.
func (s *Source) IsVector() bool { return s.Artifact.Kind == layout.KindVector }

// DecodeOption configures Decode.
type DecodeOption func(*decoder)

type decoder struct {
	page int
}

// WithPage selects the PDF page to tile (1-based, default 1). Ignored for
// raster input.
func WithPage(page int) DecodeOption {
	return func(d *decoder) { d.page = page }
}

// Decode sniffs data and extracts the artifact dimensions.
func Decode(data []byte, opts ...DecodeOption) (*Source, error) {
	d := decoder{page: 1}
	for _, opt := range opts {
		opt(&d)
	}

	if len(data) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidArtifact, "artifact is empty")
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return decodePDF(data, d.page)
	}
	return decodeRaster(data)
}

func decodeRaster(data []byte) (*Source, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, errs.Wrap(errs.ErrCodeUnsupported, err, "unrecognized artifact format")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidArtifact, err, "decode %s header", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidArtifact, "%s has no pixels (%dx%d)", format, cfg.Width, cfg.Height)
	}

	return &Source{
		Data:   data,
		Format: format,
		Artifact: layout.Artifact{
			Kind:         layout.KindRaster,
			NativeWidth:  float64(cfg.Width),
			NativeHeight: float64(cfg.Height),
			Density:      Density(format, data),
		},
	}, nil
}
