package render

import (
	"context"
	"fmt"

	"github.com/matzehuels/gangsheet/pkg/layout"
)

// Drawer receives a plan one sheet at a time.
type Drawer interface {
	// BeginSheet starts a new output page of the given geometry.
	BeginSheet(ctx context.Context, index int, spec layout.SheetSpec) error
	// Draw places one copy of the artifact on the current page.
	Draw(ctx context.Context, p layout.Placement) error
	// EndSheet finishes the current page.
	EndSheet(ctx context.Context, index int) error
}

// Render drives d through every sheet and placement of plan, in order. It
// stops at the first drawer error or when ctx is done.
func Render(ctx context.Context, plan layout.Plan, d Drawer) error {
	for _, sheet := range plan.Sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.BeginSheet(ctx, sheet.Index, plan.Spec); err != nil {
			return fmt.Errorf("sheet %d: begin: %w", sheet.Index, err)
		}
		for i, p := range sheet.Placements {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.Draw(ctx, p); err != nil {
				return fmt.Errorf("sheet %d: placement %d: %w", sheet.Index, i, err)
			}
		}
		if err := d.EndSheet(ctx, sheet.Index); err != nil {
			return fmt.Errorf("sheet %d: end: %w", sheet.Index, err)
		}
	}
	return nil
}

// PDFRect converts a bottom-left-origin placement to the top-left-origin
// rectangle used by page description APIs that measure y downward.
func PDFRect(spec layout.SheetSpec, p layout.Placement) (x, top, w, h float64) {
	return p.X, spec.Height - p.Y - p.Height, p.Width, p.Height
}
