// Package pkg provides the core libraries for Gangsheet print-sheet planning.
//
// # Overview
//
// Gangsheet takes one print artifact (a raster image or a PDF page), a
// quantity and a sheet size, and lays the copies out in a uniform grid across
// as many sheets as needed. The pkg directory is organized into four areas:
//
//  1. [layout] - Domain logic (normalization, capacity, packing, presets)
//  2. [artifact] - Decoding and measuring uploaded artwork
//  3. [render] - Turning plans into PDF, PNG, SVG and JSON outputs
//  4. [pipeline] - Orchestration (decode → plan → render) with caching
//
// # Architecture
//
// The typical data flow through Gangsheet:
//
//	Artwork bytes (PNG, JPEG, GIF, BMP, TIFF, WebP, PDF)
//	         ↓
//	    [artifact] package (sniff format, native size, density)
//	         ↓
//	    [layout] package (footprint → capacity → placements)
//	         ↓
//	    [render] package (walk the plan with a Drawer)
//	         ↓
//	    PDF/PNG/SVG/JSON output
//
// # Quick Start
//
// Plan 50 copies on the default 22x36 in sheet and write a PDF:
//
//	import (
//	    "github.com/matzehuels/gangsheet/pkg/artifact"
//	    "github.com/matzehuels/gangsheet/pkg/layout"
//	    "github.com/matzehuels/gangsheet/pkg/render/sink"
//	)
//
//	// 1. Decode the artwork
//	src, _ := artifact.Decode(data)
//
//	// 2. Plan the sheets
//	plan, _ := layout.NewPlanner(layout.DefaultConfig()).Plan(src.Artifact, layout.Request{Quantity: 50})
//
//	// 3. Render
//	pdf, _ := sink.RenderPDF(ctx, plan, src)
//
// # Main Packages
//
// [layout] - Unit normalization (pixels or points to inches, optional 90°
// rotation), capacity planning (how many copies fit per row, column and
// sheet) and the packer that assigns each copy a sheet and position. Also
// holds the sheet presets and planning configuration.
//
// [artifact] - Format sniffing and measurement. Rasters report pixel size and
// their embedded density (PNG pHYs, JFIF); PDFs report the page's MediaBox in
// points.
//
// [render] - The Drawer interface and the plan walker. [render/sink] holds
// the output formats: print-ready PDF, per-sheet PNG previews, SVG outlines
// and a JSON placement plan.
//
// [pipeline] - The Runner used by both the CLI and the HTTP service: request
// validation, plan and artifact caching, concurrent rendering of formats.
//
// [cache] - Cache backends for plans and rendered outputs: file (CLI), Redis
// (service) and a null cache.
//
// [server] - The HTTP service: multipart uploads in, gang sheets out.
//
// [observability] - Hooks fired around pipeline stages, cache access and HTTP
// requests, with a Prometheus implementation.
//
// [errors] - Structured error codes shared by the CLI and the service.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/layout
// [artifact]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/artifact
// [render]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gangsheet/pkg/errors
package pkg
