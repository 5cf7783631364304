package layout

import "fmt"

// TooLargeError describes a footprint that does not fit a sheet's usable area.
type TooLargeError struct {
	Footprint    Footprint
	UsableWidth  float64
	UsableHeight float64
	PerRow       int
	PerColumn    int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("footprint %.4gx%.4g in, usable area %.4gx%.4g in, grid %dx%d",
		e.Footprint.Width, e.Footprint.Height, e.UsableWidth, e.UsableHeight, e.PerRow, e.PerColumn)
}

// LimitError describes a plan that needs more sheets than allowed.
type LimitError struct {
	Quantity  int
	PerSheet  int
	Required  int
	MaxSheets int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("quantity %d at %d per sheet needs %d sheets, limit %d",
		e.Quantity, e.PerSheet, e.Required, e.MaxSheets)
}

// MaxQuantity returns the largest quantity that fits under the limit.
func (e *LimitError) MaxQuantity() int { return e.PerSheet * e.MaxSheets }
