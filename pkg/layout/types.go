package layout

import "fmt"

// Kind identifies how an artifact's native dimensions are measured.
type Kind string

const (
	// KindRaster artifacts are measured in pixels and converted with a density.
	KindRaster Kind = "raster"
	// KindVector artifacts are PDF pages measured in points.
	KindVector Kind = "vector"
)

// PointsPerInch is the PDF user-space unit: 72 points make one inch.
const PointsPerInch = 72.0

// Artifact describes a decoded print artifact. It is owned by the caller and
// only read by this package.
type Artifact struct {
	Kind         Kind    `json:"kind"`
	NativeWidth  float64 `json:"native_width"`  // pixels (raster) or points (vector)
	NativeHeight float64 `json:"native_height"` // pixels (raster) or points (vector)
	Density      float64 `json:"density,omitempty"`
}

// SheetSpec is the physical geometry of one output sheet, in inches.
type SheetSpec struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"` // uniform inset from all four edges
	Gap    float64 `json:"gap"`    // spacing between adjacent placements
}

// UsableWidth returns the width inside the margins.
func (s SheetSpec) UsableWidth() float64 { return s.Width - 2*s.Margin }

// UsableHeight returns the height inside the margins.
func (s SheetSpec) UsableHeight() float64 { return s.Height - 2*s.Margin }

// String formats the sheet as "22x36 in (margin 0.125, gap 0.5)".
func (s SheetSpec) String() string {
	return fmt.Sprintf("%gx%g in (margin %g, gap %g)", s.Width, s.Height, s.Margin, s.Gap)
}

// Footprint is an artifact's on-sheet bounding box after rotation, in inches.
type Footprint struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns Width * Height.
func (f Footprint) Area() float64 { return f.Width * f.Height }

// Rotate returns the footprint with width and height swapped.
func (f Footprint) Rotate() Footprint { return Footprint{Width: f.Height, Height: f.Width} }

// Request is the number of replicas to place and whether each is turned 90°.
type Request struct {
	Quantity int  `json:"quantity"`
	Rotate   bool `json:"rotate,omitempty"`
}

// Capacity is the grid that fits on one sheet.
type Capacity struct {
	PerRow       int     `json:"per_row"`
	PerColumn    int     `json:"per_column"`
	PerSheet     int     `json:"per_sheet"`
	UsableWidth  float64 `json:"usable_width"`
	UsableHeight float64 `json:"usable_height"`
}

// SheetsFor returns how many sheets hold quantity placements.
func (c Capacity) SheetsFor(quantity int) int {
	if quantity <= 0 || c.PerSheet <= 0 {
		return 0
	}
	return (quantity-1)/c.PerSheet + 1
}

// Placement is one replica on one sheet. X and Y locate its bottom-left corner
// in the sheet's bottom-left-origin coordinate space.
type Placement struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rotated bool    `json:"rotated,omitempty"`
	Row     int     `json:"row"`
	Column  int     `json:"column"`
}

// Right returns X + Width.
func (p Placement) Right() float64 { return p.X + p.Width }

// Top returns Y + Height.
func (p Placement) Top() float64 { return p.Y + p.Height }

// Overlaps reports whether p and o share interior area. Touching edges do not
// count as overlap.
func (p Placement) Overlaps(o Placement) bool {
	return p.X < o.Right() && o.X < p.Right() && p.Y < o.Top() && o.Y < p.Top()
}

// Sheet is one output page of a plan.
type Sheet struct {
	Index      int         `json:"index"`
	Placements []Placement `json:"placements"`
}

// Plan is the complete, ordered result of packing.
type Plan struct {
	Spec      SheetSpec `json:"sheet"`
	Footprint Footprint `json:"footprint"`
	Capacity  Capacity  `json:"capacity"`
	Request   Request   `json:"request"`
	Sheets    []Sheet   `json:"sheets"`
}

// Total returns the number of placements across all sheets.
func (p Plan) Total() int {
	n := 0
	for _, s := range p.Sheets {
		n += len(s.Placements)
	}
	return n
}

// Placements calls fn for every placement in plan order and stops early if fn
// returns false.
func (p Plan) Placements(fn func(sheet int, pl Placement) bool) {
	for _, s := range p.Sheets {
		for _, pl := range s.Placements {
			if !fn(s.Index, pl) {
				return
			}
		}
	}
}

// Summary holds headline numbers for a plan.
type Summary struct {
	Sheets      int     `json:"sheets"`
	Placements  int     `json:"placements"`
	PerSheet    int     `json:"per_sheet"`
	LastSheet   int     `json:"last_sheet"`  // placements on the final sheet
	Utilization float64 `json:"utilization"` // covered fraction of usable area, all sheets
}

// Summary computes headline numbers for the plan.
func (p Plan) Summary() Summary {
	s := Summary{
		Sheets:     len(p.Sheets),
		Placements: p.Total(),
		PerSheet:   p.Capacity.PerSheet,
	}
	if s.Sheets == 0 {
		return s
	}
	s.LastSheet = len(p.Sheets[s.Sheets-1].Placements)
	usable := p.Capacity.UsableWidth * p.Capacity.UsableHeight * float64(s.Sheets)
	if usable > 0 {
		s.Utilization = p.Footprint.Area() * float64(s.Placements) / usable
	}
	return s
}
