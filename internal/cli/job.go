package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/gangsheet/pkg/pipeline"
)

// jobFlags are the planning flags shared by render, plan and preview.
type jobFlags struct {
	quantity    int
	rotate      bool
	preset      string
	sheetWidth  float64
	sheetHeight float64
	margin      float64
	gap         float64
	density     float64
	maxSheets   int
	page        int
	noCache     bool
}

// register adds the job flags to fs.
func (j *jobFlags) register(fs *pflag.FlagSet) {
	fs.IntVarP(&j.quantity, "quantity", "q", 1, "number of copies to place")
	fs.BoolVar(&j.rotate, "rotate", false, "rotate the artwork 90 degrees")
	fs.StringVarP(&j.preset, "preset", "p", "", "sheet preset (see 'gangsheet presets')")
	fs.Float64Var(&j.sheetWidth, "sheet-width", 0, "sheet width in inches (overrides preset)")
	fs.Float64Var(&j.sheetHeight, "sheet-height", 0, "sheet height in inches (overrides preset)")
	fs.Float64Var(&j.margin, "margin", 0, "margin from every sheet edge in inches")
	fs.Float64Var(&j.gap, "gap", 0, "spacing between copies in inches")
	fs.Float64Var(&j.density, "density", 0, "pixels per inch for rasters without density metadata")
	fs.IntVar(&j.maxSheets, "max-sheets", 0, "maximum number of sheets")
	fs.IntVar(&j.page, "page", 1, "page of a PDF artwork to place")
	fs.BoolVar(&j.noCache, "no-cache", false, "disable caching")
}

// options converts the flags to pipeline options. Margin and gap are only
// set when given so a zero value can override the configured default.
func (j *jobFlags) options(fs *pflag.FlagSet) pipeline.Options {
	opts := pipeline.Options{
		Quantity:       j.quantity,
		Rotate:         j.rotate,
		Preset:         j.preset,
		SheetWidth:     j.sheetWidth,
		SheetHeight:    j.sheetHeight,
		DefaultDensity: j.density,
		MaxSheets:      j.maxSheets,
		Page:           j.page,
	}
	if fs.Changed("margin") {
		opts.Margin = pipeline.Float(j.margin)
	}
	if fs.Changed("gap") {
		opts.Gap = pipeline.Float(j.gap)
	}
	return opts
}
