// Package render turns placement plans into output documents.
//
// # Overview
//
// A [layout.Plan] is pure geometry. This package walks it and drives a
// [Drawer], the boundary to whatever actually produces output: a PDF writer,
// a raster canvas, an SVG builder. [Render] guarantees the call order
//
//	BeginSheet(0) Draw… EndSheet(0) BeginSheet(1) Draw… EndSheet(1) …
//
// with one Draw per placement in plan order, so a Drawer can emit one page
// per sheet without buffering the plan itself.
//
// Concrete drawers live in the [sink] subpackage:
//
//	pdf, err := sink.RenderPDF(ctx, plan, src, sink.WithCutMarks())
//	pages, err := sink.RenderPNG(ctx, plan, src, sink.WithPreviewDPI(20))
//	svg := sink.RenderSVG(plan)
//	data, err := sink.RenderJSON(plan)
//
// [layout.Plan]: github.com/matzehuels/gangsheet/pkg/layout.Plan
// [sink]: github.com/matzehuels/gangsheet/pkg/render/sink
package render
