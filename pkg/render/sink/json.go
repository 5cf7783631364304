package sink

import (
	"encoding/json"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	source *artifact.Source
	indent bool
}

// WithJSONSource records the decoded artwork description (format, native
// size, density) in the output.
func WithJSONSource(src *artifact.Source) JSONOption {
	return func(r *jsonRenderer) { r.source = src }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Sheet     jsonSheetSpec  `json:"sheet"`
	Source    *jsonSource    `json:"source,omitempty"`
	Footprint jsonSize       `json:"footprint"`
	Rotate    bool           `json:"rotate"`
	Quantity  int            `json:"quantity"`
	Capacity  jsonCapacity   `json:"capacity"`
	Summary   layout.Summary `json:"summary"`
	Sheets    []jsonSheet    `json:"sheets"`
}

type jsonSheetSpec struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
	Gap    float64 `json:"gap"`
}

type jsonSource struct {
	Format       string  `json:"format"`
	Kind         string  `json:"kind"`
	NativeWidth  float64 `json:"native_width"`
	NativeHeight float64 `json:"native_height"`
	Density      float64 `json:"density,omitempty"`
	Page         int     `json:"page,omitempty"`
}

type jsonSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonCapacity struct {
	PerRow    int `json:"per_row"`
	PerColumn int `json:"per_column"`
	PerSheet  int `json:"per_sheet"`
}

type jsonSheet struct {
	Index      int             `json:"index"`
	Placements []jsonPlacement `json:"placements"`
}

type jsonPlacement struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rotated bool    `json:"rotated,omitempty"`
	Row     int     `json:"row"`
	Column  int     `json:"column"`
}

// RenderJSON exports the plan. Coordinates are inches from the bottom-left
// corner of each sheet.
func RenderJSON(plan layout.Plan, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Sheet: jsonSheetSpec{
			Width:  plan.Spec.Width,
			Height: plan.Spec.Height,
			Margin: plan.Spec.Margin,
			Gap:    plan.Spec.Gap,
		},
		Footprint: jsonSize{Width: plan.Footprint.Width, Height: plan.Footprint.Height},
		Rotate:    plan.Request.Rotate,
		Quantity:  plan.Request.Quantity,
		Capacity: jsonCapacity{
			PerRow:    plan.Capacity.PerRow,
			PerColumn: plan.Capacity.PerColumn,
			PerSheet:  plan.Capacity.PerSheet,
		},
		Summary: plan.Summary(),
		Sheets:  make([]jsonSheet, 0, len(plan.Sheets)),
	}
	if src := r.source; src != nil {
		out.Source = &jsonSource{
			Format:       src.Format,
			Kind:         string(src.Artifact.Kind),
			NativeWidth:  src.Artifact.NativeWidth,
			NativeHeight: src.Artifact.NativeHeight,
			Density:      src.Artifact.Density,
			Page:         src.Page,
		}
	}

	for _, s := range plan.Sheets {
		js := jsonSheet{Index: s.Index, Placements: make([]jsonPlacement, len(s.Placements))}
		for i, p := range s.Placements {
			js.Placements[i] = jsonPlacement{
				X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
				Rotated: p.Rotated, Row: p.Row, Column: p.Column,
			}
		}
		out.Sheets = append(out.Sheets, js)
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
