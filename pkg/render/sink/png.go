package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/render"
)

// DefaultPreviewDPI is the preview resolution in pixels per inch.
const DefaultPreviewDPI = 10

var (
	sheetColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	vectorColor = color.NRGBA{R: 190, G: 190, B: 190, A: 255}
)

// PNGOption configures PNG preview rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	dpi float64
}

// WithPreviewDPI sets the preview resolution. Non-positive values keep the
// default.
func WithPreviewDPI(dpi float64) PNGOption {
	return func(r *pngRenderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// RenderPNG renders one preview image per sheet. A plan without sheets is
// rejected with INVALID_INPUT.
func RenderPNG(ctx context.Context, plan layout.Plan, src *artifact.Source, opts ...PNGOption) ([][]byte, error) {
	if err := requireSheets(plan, "png"); err != nil {
		return nil, err
	}
	r := pngRenderer{dpi: DefaultPreviewDPI}
	for _, opt := range opts {
		opt(&r)
	}

	d := &pngDrawer{dpi: r.dpi, src: src}
	if err := render.Render(ctx, plan, d); err != nil {
		return nil, err
	}
	return d.pages, nil
}

type pngDrawer struct {
	dpi float64
	src *artifact.Source

	spec   layout.SheetSpec
	canvas *image.NRGBA
	pages  [][]byte

	// tiles holds the scaled artwork, keyed by rotation.
	tiles map[bool]image.Image
	full  image.Image
}

func (d *pngDrawer) px(inches float64) int {
	return int(math.Round(inches * d.dpi))
}

func (d *pngDrawer) BeginSheet(_ context.Context, _ int, spec layout.SheetSpec) error {
	d.spec = spec
	d.canvas = imaging.New(max(d.px(spec.Width), 1), max(d.px(spec.Height), 1), sheetColor)
	return nil
}

func (d *pngDrawer) Draw(_ context.Context, p layout.Placement) error {
	tile, err := d.tile(p)
	if err != nil {
		return err
	}
	x, top, _, _ := render.PDFRect(d.spec, p)
	d.canvas = imaging.Paste(d.canvas, tile, image.Pt(d.px(x), d.px(top)))
	return nil
}

func (d *pngDrawer) EndSheet(context.Context, int) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, d.canvas, imaging.PNG); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	d.pages = append(d.pages, buf.Bytes())
	d.canvas = nil
	return nil
}

// tile returns the artwork scaled to the placement, built once per rotation.
// Every placement of a plan shares one footprint.
func (d *pngDrawer) tile(p layout.Placement) (image.Image, error) {
	if t, ok := d.tiles[p.Rotated]; ok {
		return t, nil
	}
	if d.tiles == nil {
		d.tiles = make(map[bool]image.Image, 2)
	}

	w, h := max(d.px(p.Width), 1), max(d.px(p.Height), 1)
	var t image.Image
	switch {
	case d.src == nil || d.src.IsVector():
		t = imaging.New(w, h, vectorColor)
	case p.Rotated:
		full, err := d.decoded()
		if err != nil {
			return nil, err
		}
		t = imaging.Rotate90(imaging.Resize(full, h, w, imaging.Box))
	default:
		full, err := d.decoded()
		if err != nil {
			return nil, err
		}
		t = imaging.Resize(full, w, h, imaging.Box)
	}
	d.tiles[p.Rotated] = t
	return t, nil
}

func (d *pngDrawer) decoded() (image.Image, error) {
	if d.full != nil {
		return d.full, nil
	}
	img, err := imaging.Decode(bytes.NewReader(d.src.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s artwork: %w", d.src.Format, err)
	}
	d.full = img
	return img, nil
}
