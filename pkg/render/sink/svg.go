package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/gangsheet/pkg/layout"
)

const (
	// DefaultSVGScale is the number of SVG user units per inch.
	DefaultSVGScale = 10.0
	sheetSpacing    = 1.0 // inches between stacked sheets
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale  float64
	labels bool
}

// WithSVGScale sets the number of SVG units per inch.
func WithSVGScale(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithoutLabels omits the placement sequence numbers.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws a schematic of every sheet, stacked top to bottom.
// Placements are numbered across the whole plan starting at 1.
func RenderSVG(plan layout.Plan, opts ...SVGOption) []byte {
	r := svgRenderer{scale: DefaultSVGScale, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	spec := plan.Spec
	n := max(len(plan.Sheets), 1)
	width := spec.Width * r.scale
	height := (float64(n)*spec.Height + float64(n-1)*sheetSpacing) * r.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <style>.sheet{fill:#fff;stroke:#333}.margin{fill:none;stroke:#999;stroke-dasharray:4 2}` +
		`.placement{fill:#cfe3f7;stroke:#2b6cb0}.placement.rotated{fill:#f7e3cf;stroke:#b06c2b}` +
		`.label{font-family:sans-serif;text-anchor:middle;dominant-baseline:middle;fill:#333}</style>` + "\n")

	seq := 0
	for i, sheet := range plan.Sheets {
		offset := float64(i) * (spec.Height + sheetSpacing) * r.scale
		fmt.Fprintf(&buf, `  <g id="sheet-%d" transform="translate(0 %.2f)">`+"\n", sheet.Index+1, offset)
		fmt.Fprintf(&buf, `    <rect class="sheet" x="0" y="0" width="%.2f" height="%.2f"/>`+"\n", width, spec.Height*r.scale)
		fmt.Fprintf(&buf, `    <rect class="margin" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
			spec.Margin*r.scale, spec.Margin*r.scale, spec.UsableWidth()*r.scale, spec.UsableHeight()*r.scale)
		for _, p := range sheet.Placements {
			seq++
			r.renderPlacement(&buf, spec, p, seq)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) renderPlacement(buf *bytes.Buffer, spec layout.SheetSpec, p layout.Placement, seq int) {
	class := "placement"
	if p.Rotated {
		class += " rotated"
	}
	x := p.X * r.scale
	y := (spec.Height - p.Y - p.Height) * r.scale
	w, h := p.Width*r.scale, p.Height*r.scale

	fmt.Fprintf(buf, `    <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n", class, x, y, w, h)
	if r.labels {
		size := min(w, h) / 3
		fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" font-size="%.1f">%d</text>`+"\n",
			x+w/2, y+h/2, size, seq)
	}
}
