// Package pipeline provides the decode → plan → render pipeline for gang
// sheets.
//
// This package implements the complete pipeline that is used by the CLI and
// the HTTP service. By centralizing this logic, both entry points apply the
// same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Sniff the uploaded artwork and read its native size and density
//  2. Plan: Normalize the footprint, compute sheet capacity and pack copies
//  3. Render: Generate output in the requested formats (PDF, PNG, SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Quantity: 50,
//	    Rotate:   true,
//	    Preset:   "22x60",
//	    Formats:  []string{"pdf"},
//	}
//	result, err := runner.Execute(ctx, data, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
//
// Run individual stages:
//
//	// Decode only
//	src, err := runner.Decode(ctx, data, opts)
//
//	// Plan without rendering
//	result, err := runner.Plan(ctx, data, opts)
//
//	// Render an existing plan
//	artifacts, pages, err := runner.Render(ctx, src, plan, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/cache"
	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP service
// =============================================================================

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPDF

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatPDF:  "application/pdf",
	FormatPNG:  "image/png",
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one gang sheet job.
// This struct supports JSON serialization for API requests. Zero values fall
// back to the runner's defaults.
type Options struct {
	// Plan options
	Quantity       int      `json:"quantity" validate:"gte=0"`
	Rotate         bool     `json:"rotate,omitempty"`
	Preset         string   `json:"preset,omitempty" validate:"omitempty,max=64"`
	SheetWidth     float64  `json:"sheet_width,omitempty" validate:"gte=0"`
	SheetHeight    float64  `json:"sheet_height,omitempty" validate:"gte=0"`
	Margin         *float64 `json:"margin,omitempty" validate:"omitempty,gte=0"`
	Gap            *float64 `json:"gap,omitempty" validate:"omitempty,gte=0"`
	DefaultDensity float64  `json:"density,omitempty" validate:"gte=0"`
	MaxSheets      int      `json:"max_sheets,omitempty" validate:"gte=0"`
	Page           int      `json:"page,omitempty" validate:"gte=0"`

	// Render options
	Formats    []string `json:"formats,omitempty" validate:"dive,oneof=pdf png svg json"`
	PreviewDPI float64  `json:"preview_dpi,omitempty" validate:"gte=0,lte=300"`
	CutMarks   bool     `json:"cut_marks,omitempty"`
	Title      string   `json:"title,omitempty" validate:"max=200"`

	// Refresh bypasses cached plans and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Source is the decoded artwork.
	Source *artifact.Source

	// SourceHash is the SHA-256 of the artwork bytes.
	SourceHash string

	// Plan is the computed placement plan.
	Plan layout.Plan

	// Artifacts contains rendered outputs keyed by format. For PNG this is
	// the first sheet's preview.
	Artifacts map[string][]byte

	// Pages holds one PNG preview per sheet when PNG was requested.
	Pages [][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Sheets     int
	Placements int
	DecodeTime time.Duration
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills render defaults. It is idempotent.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Page == 0 {
		o.Page = 1
	}
	if o.PreviewDPI == 0 {
		o.PreviewDPI = sink.DefaultPreviewDPI
	}
}

// Config resolves the planning configuration: base, then the preset, then
// explicit sheet dimensions and overrides. The result is validated.
func (o *Options) Config(base layout.Config, presets layout.Presets) (layout.Config, error) {
	cfg := base
	if o.Preset != "" {
		p, err := presets.Lookup(o.Preset)
		if err != nil {
			return layout.Config{}, err
		}
		cfg.SheetWidth, cfg.SheetHeight = p.Width, p.Height
	}
	if o.SheetWidth > 0 {
		cfg.SheetWidth = o.SheetWidth
	}
	if o.SheetHeight > 0 {
		cfg.SheetHeight = o.SheetHeight
	}
	if o.Margin != nil {
		cfg.Margin = *o.Margin
	}
	if o.Gap != nil {
		cfg.Gap = *o.Gap
	}
	if o.DefaultDensity > 0 {
		cfg.DefaultDensity = o.DefaultDensity
	}
	if o.MaxSheets > 0 {
		cfg.MaxSheets = o.MaxSheets
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

// Request returns the layout request.
func (o *Options) Request() layout.Request {
	return layout.Request{Quantity: o.Quantity, Rotate: o.Rotate}
}

// PlanKeyOpts returns cache key options for plan computation.
func (o *Options) PlanKeyOpts(cfg layout.Config) cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Quantity:       o.Quantity,
		Rotate:         o.Rotate,
		SheetWidth:     cfg.SheetWidth,
		SheetHeight:    cfg.SheetHeight,
		Margin:         cfg.Margin,
		Gap:            cfg.Gap,
		DefaultDensity: cfg.DefaultDensity,
		MaxSheets:      cfg.MaxSheets,
		Page:           o.Page,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. The
// source page is part of every key: pages of one PDF share a source hash and,
// when they have the same size, a plan.
func (o *Options) ArtifactKeyOpts(format, planHash string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, PlanHash: planHash, Page: o.Page}
	switch format {
	case FormatPNG:
		k.PreviewDPI = o.PreviewDPI
	case FormatPDF:
		k.CutMarks = o.CutMarks
		k.Title = o.Title
	}
	return k
}

// Float returns a pointer to v, for Options.Margin and Options.Gap.
func Float(v float64) *float64 { return &v }
