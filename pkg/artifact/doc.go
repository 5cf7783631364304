// Package artifact decodes uploaded print artwork into a [layout.Artifact].
//
// Decoding only reads what planning needs: pixel dimensions and density for
// rasters, the page box for PDFs. Pixels are decoded later, and only by the
// sinks that draw them.
//
// Supported inputs:
//
//   - PNG, JPEG, GIF (standard library)
//   - BMP, TIFF, WebP (golang.org/x/image)
//   - PDF pages (github.com/pdfcpu/pdfcpu)
//
// Density is read from the PNG pHYs chunk and the JPEG JFIF header and is
// rounded to whole pixels per inch. Formats without density metadata report
// zero, which the planner replaces with its configured default.
//
//	src, err := artifact.Decode(data)
//	plan, err := planner.Plan(src.Artifact, layout.Request{Quantity: 10})
//
// [layout.Artifact]: github.com/matzehuels/gangsheet/pkg/layout.Artifact
package artifact
