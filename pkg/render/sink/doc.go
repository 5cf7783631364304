// Package sink provides output format renderers for gang sheet plans.
//
// # Overview
//
// A "sink" turns a computed [layout.Plan] into a final output format. Every
// sink is a [render.Drawer] driven by [render.Render], so all formats see the
// same sheets and placements in the same order.
//
//   - PDF: print-ready output, one page per sheet, artwork embedded at full
//     resolution (raster) or as an imported page template (vector)
//   - PNG: low-resolution preview images, one per sheet
//   - SVG: schematic view of every sheet with numbered placements
//   - JSON: plan export for external tools
//
// # PDF Output
//
// [RenderPDF] writes pages sized exactly to the sheet, in inches:
//
//	pdf, err := sink.RenderPDF(ctx, plan, src,
//	    sink.WithCutMarks(),
//	    sink.WithTitle("order 1042"),
//	)
//
// PNG, JPEG and GIF artwork is embedded as-is. BMP, TIFF, WebP and PNG
// variants the PDF writer cannot embed directly (interlaced, 16-bit) are
// re-encoded to 8-bit PNG first. Rotated placements draw the artwork turned
// 90° counter-clockwise so it fills the rotated footprint exactly.
//
// # PNG Output
//
// [RenderPNG] produces one image per sheet at [WithPreviewDPI] pixels per
// inch (default [DefaultPreviewDPI]). Vector artwork is shown as grey tiles.
//
// # SVG and JSON Output
//
// [RenderSVG] and [RenderJSON] need only the plan. JSON output can carry the
// decoded source description via [WithJSONSource].
//
// [layout.Plan]: github.com/matzehuels/gangsheet/pkg/layout.Plan
// [render.Drawer]: github.com/matzehuels/gangsheet/pkg/render.Drawer
// [render.Render]: github.com/matzehuels/gangsheet/pkg/render.Render
package sink
