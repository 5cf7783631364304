package layout

import (
	"math"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDensity is the raster density, in pixels per inch, assumed when an
	// artifact declares none.
	DefaultDensity = 300.0

	// DefaultSheetWidth is the default sheet width in inches.
	DefaultSheetWidth = 22.0

	// DefaultSheetHeight is the default sheet height in inches.
	DefaultSheetHeight = 36.0

	// DefaultMargin is the default inset from every sheet edge in inches.
	DefaultMargin = 0.125

	// DefaultGap is the default spacing between placements in inches.
	DefaultGap = 0.5

	// DefaultMaxSheets caps the sheets a single plan may allocate.
	DefaultMaxSheets = 100
)

// Config holds every tunable that affects planning. The zero value is not
// usable; start from [DefaultConfig].
type Config struct {
	DefaultDensity float64 `json:"default_density" toml:"density"`
	SheetWidth     float64 `json:"sheet_width" toml:"sheet_width"`
	SheetHeight    float64 `json:"sheet_height" toml:"sheet_height"`
	Margin         float64 `json:"margin" toml:"margin"`
	Gap            float64 `json:"gap" toml:"gap"`
	MaxSheets      int     `json:"max_sheets" toml:"max_sheets"`
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the 22x36 in sheet with 0.125 in margins, 0.5 in gaps,
// 300 ppi default density and a 100 sheet ceiling.
func DefaultConfig(opts ...Option) Config {
	c := Config{
		DefaultDensity: DefaultDensity,
		SheetWidth:     DefaultSheetWidth,
		SheetHeight:    DefaultSheetHeight,
		Margin:         DefaultMargin,
		Gap:            DefaultGap,
		MaxSheets:      DefaultMaxSheets,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithSheet sets the sheet size.
func WithSheet(width, height float64) Option {
	return func(c *Config) { c.SheetWidth, c.SheetHeight = width, height }
}

// WithPreset sets the sheet size from a preset.
func WithPreset(p Preset) Option {
	return WithSheet(p.Width, p.Height)
}

// WithMargin sets the uniform sheet margin.
func WithMargin(m float64) Option { return func(c *Config) { c.Margin = m } }

// WithGap sets the spacing between placements.
func WithGap(g float64) Option { return func(c *Config) { c.Gap = g } }

// WithDefaultDensity sets the density used for rasters that declare none.
func WithDefaultDensity(d float64) Option { return func(c *Config) { c.DefaultDensity = d } }

// WithMaxSheets sets the sheet ceiling.
func WithMaxSheets(n int) Option { return func(c *Config) { c.MaxSheets = n } }

// Sheet returns the sheet geometry described by the config.
func (c Config) Sheet() SheetSpec {
	return SheetSpec{
		Width:  c.SheetWidth,
		Height: c.SheetHeight,
		Margin: c.Margin,
		Gap:    c.Gap,
	}
}

// Validate checks the config for values no plan could be built from.
func (c Config) Validate() error {
	if !(c.DefaultDensity > 0) || !finite(c.DefaultDensity) {
		return errs.New(errs.ErrCodeInvalidInput, "default density must be positive and finite, got %g", c.DefaultDensity)
	}
	if c.MaxSheets <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max sheets must be positive, got %d", c.MaxSheets)
	}
	return ValidateSheet(c.Sheet())
}

// ValidateSheet checks that a sheet has a usable area.
func ValidateSheet(s SheetSpec) error {
	if !finite(s.Width, s.Height, s.Margin, s.Gap) {
		return errs.New(errs.ErrCodeInvalidSheetSpec, "sheet values must be finite, got %s", s)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidSheetSpec, "sheet dimensions must be positive, got %gx%g", s.Width, s.Height)
	}
	if s.Margin < 0 {
		return errs.New(errs.ErrCodeInvalidSheetSpec, "margin must not be negative, got %g", s.Margin)
	}
	if s.Gap < 0 {
		return errs.New(errs.ErrCodeInvalidSheetSpec, "gap must not be negative, got %g", s.Gap)
	}
	if 2*s.Margin >= s.Width || 2*s.Margin >= s.Height {
		return errs.New(errs.ErrCodeInvalidSheetSpec, "margin %g leaves no usable area on a %gx%g sheet", s.Margin, s.Width, s.Height)
	}
	return nil
}

// finite reports whether every v is neither NaN nor infinite.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
