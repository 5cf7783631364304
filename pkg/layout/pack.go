package layout

import (
	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

// Pack lays out req.Quantity footprints across as many sheets as needed.
//
// Each sheet is filled row-major: left to right, then top to bottom. The cell
// at row r, column c has its bottom-left corner at
//
//	x = margin + c*(w + gap)
//	y = height - margin - (r+1)*h - r*gap
//
// A new sheet starts at row 0, column 0 once the grid is full. A zero
// quantity yields a plan with no sheets. The sheet count is checked against
// maxSheets before anything is allocated; maxSheets <= 0 disables the check.
func Pack(req Request, fp Footprint, spec SheetSpec, capacity Capacity, maxSheets int) (Plan, error) {
	if req.Quantity < 0 {
		return Plan{}, errs.New(errs.ErrCodeInvalidInput, "quantity must not be negative, got %d", req.Quantity)
	}
	if capacity.PerRow <= 0 || capacity.PerColumn <= 0 {
		return Plan{}, errs.New(errs.ErrCodeInvalidInput,
			"capacity grid must be positive, got %dx%d", capacity.PerRow, capacity.PerColumn)
	}
	if capacity.PerRow > MaxPerSheet/capacity.PerColumn {
		return Plan{}, errs.New(errs.ErrCodeInvalidInput,
			"capacity grid %dx%d exceeds %d cells per sheet", capacity.PerRow, capacity.PerColumn, MaxPerSheet)
	}
	perSheet := capacity.PerRow * capacity.PerColumn
	capacity.PerSheet = perSheet

	plan := Plan{
		Spec:      spec,
		Footprint: fp,
		Capacity:  capacity,
		Request:   req,
		Sheets:    []Sheet{},
	}

	required := capacity.SheetsFor(req.Quantity)
	if maxSheets > 0 && required > maxSheets {
		detail := &LimitError{
			Quantity:  req.Quantity,
			PerSheet:  perSheet,
			Required:  required,
			MaxSheets: maxSheets,
		}
		return Plan{}, errs.Wrap(errs.ErrCodeQuantityExceedsLimit, detail,
			"%d copies need %d sheets, limit is %d (at most %d copies)", req.Quantity, required, maxSheets, detail.MaxQuantity()).
			With("required_sheets", required).
			With("max_sheets", maxSheets).
			With("max_quantity", detail.MaxQuantity())
	}

	remaining := req.Quantity
	for index := 0; index < required; index++ {
		n := min(remaining, perSheet)
		plan.Sheets = append(plan.Sheets, fillSheet(index, n, fp, spec, capacity, req.Rotate))
		remaining -= n
	}
	return plan, nil
}

// fillSheet places n footprints on one sheet in row-major order.
func fillSheet(index, n int, fp Footprint, spec SheetSpec, capacity Capacity, rotated bool) Sheet {
	sheet := Sheet{Index: index, Placements: make([]Placement, 0, n)}
	for r := 0; r < capacity.PerColumn && len(sheet.Placements) < n; r++ {
		y := spec.Height - spec.Margin - float64(r+1)*fp.Height - float64(r)*spec.Gap
		for c := 0; c < capacity.PerRow && len(sheet.Placements) < n; c++ {
			sheet.Placements = append(sheet.Placements, Placement{
				X:       spec.Margin + float64(c)*(fp.Width+spec.Gap),
				Y:       y,
				Width:   fp.Width,
				Height:  fp.Height,
				Rotated: rotated,
				Row:     r,
				Column:  c,
			})
		}
	}
	return sheet
}
