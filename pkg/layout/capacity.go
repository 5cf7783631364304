package layout

import (
	"math"

	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

// fitTolerance is the slack, in inches per inch of usable length, allowed
// when checking that n items fit. It admits exact fits lost to float
// rounding (three 0.1 in items with 0.2 in gaps in 0.7 in) and nothing more.
const fitTolerance = 1e-12

// MaxPerSheet bounds the cells in one sheet's grid. Footprints small enough
// to exceed it come from a misdeclared density, not real artwork.
const MaxPerSheet = 1 << 20

// PlanCapacity computes how many footprints fit on one sheet.
//
// With n items and n-1 gaps in a row, n*w + (n-1)*g <= usable, which
// rearranges to n = floor((usable + g) / (w + g)). Columns are symmetric.
func PlanCapacity(fp Footprint, spec SheetSpec) (Capacity, error) {
	if err := ValidateSheet(spec); err != nil {
		return Capacity{}, err
	}
	if !(fp.Width > 0 && fp.Height > 0) || !finite(fp.Width, fp.Height) {
		return Capacity{}, errs.New(errs.ErrCodeInvalidArtifact,
			"footprint must be positive and finite, got %gx%g", fp.Width, fp.Height)
	}

	c := Capacity{
		UsableWidth:  spec.UsableWidth(),
		UsableHeight: spec.UsableHeight(),
	}
	rows := fit(c.UsableWidth, fp.Width, spec.Gap)
	cols := fit(c.UsableHeight, fp.Height, spec.Gap)
	c.PerRow = gridInt(rows)
	c.PerColumn = gridInt(cols)

	if c.PerRow == 0 || c.PerColumn == 0 {
		detail := &TooLargeError{
			Footprint:    fp,
			UsableWidth:  c.UsableWidth,
			UsableHeight: c.UsableHeight,
			PerRow:       c.PerRow,
			PerColumn:    c.PerColumn,
		}
		return Capacity{}, errs.Wrap(errs.ErrCodeArtifactTooLarge, detail,
			"artifact %.4gx%.4g in does not fit the %.4gx%.4g in usable area", fp.Width, fp.Height, c.UsableWidth, c.UsableHeight).
			With("footprint_width", fp.Width).
			With("footprint_height", fp.Height).
			With("usable_width", c.UsableWidth).
			With("usable_height", c.UsableHeight)
	}
	if rows*cols > MaxPerSheet {
		return Capacity{}, errs.New(errs.ErrCodeInvalidInput,
			"a %.4gx%.4g in footprint gives %.4g copies per sheet, limit is %d; check the artwork density",
			fp.Width, fp.Height, rows*cols, MaxPerSheet).
			With("per_sheet", rows*cols).
			With("max_per_sheet", MaxPerSheet)
	}
	c.PerSheet = c.PerRow * c.PerColumn
	return c, nil
}

// fit returns how many items of size with gap between them fit in usable:
// the largest n with n*size + (n-1)*gap <= usable. Counts above MaxPerSheet
// are returned unrefined.
func fit(usable, size, gap float64) float64 {
	n := math.Floor((usable + gap) / (size + gap))
	if n > MaxPerSheet {
		return n
	}
	limit := usable + fitTolerance*math.Max(1, usable)
	used := func(n float64) float64 { return n*size + (n-1)*gap }
	for n > 0 && used(n) > limit {
		n--
	}
	for used(n+1) <= limit {
		n++
	}
	return math.Max(n, 0)
}

// gridInt converts a fit count to int, saturating above MaxPerSheet.
func gridInt(n float64) int {
	return int(math.Min(n, MaxPerSheet+1))
}
