package artifact

import (
	"bytes"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
	"github.com/matzehuels/gangsheet/pkg/layout"
)

var disableConfigDir sync.Once

// pdfConfig returns a pdfcpu configuration that never touches the user's
// config directory.
func pdfConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func decodePDF(data []byte, page int) (*Source, error) {
	dims, err := api.PageDims(bytes.NewReader(data), pdfConfig())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidArtifact, err, "read pdf page boxes")
	}
	if len(dims) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidArtifact, "pdf has no pages")
	}
	if page < 1 || page > len(dims) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "page %d out of range (pdf has %d pages)", page, len(dims))
	}

	dim := dims[page-1]
	return &Source{
		Data:      data,
		Format:    FormatPDF,
		Page:      page,
		PageCount: len(dims),
		Artifact: layout.Artifact{
			Kind:         layout.KindVector,
			NativeWidth:  dim.Width,
			NativeHeight: dim.Height,
		},
	}, nil
}
