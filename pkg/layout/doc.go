// Package layout computes gang sheet placement plans.
//
// # Overview
//
// A gang sheet is a single output page holding many tiled copies of one
// artifact. Given an artifact, a replica count and a sheet geometry, this
// package produces a [Plan]: an ordered list of sheets, each with an ordered
// list of [Placement] rectangles. It never touches pixels or PDF objects;
// rendering a plan is the job of [render] and its sinks.
//
// The computation runs in three stages, each depending only on the previous:
//
//  1. [Normalize]: artifact pixels (or PDF points) → physical [Footprint] in inches
//  2. [PlanCapacity]: footprint + [SheetSpec] → per-row / per-column / per-sheet [Capacity]
//  3. [Pack]: quantity + capacity → [Plan], spilling onto new sheets as needed
//
// [Planner] runs all three with a [Config]:
//
//	p := layout.NewPlanner(layout.DefaultConfig())
//	plan, err := p.Plan(layout.Artifact{Kind: layout.KindRaster, NativeWidth: 1200, NativeHeight: 1200}, layout.Request{Quantity: 50})
//	// 4x4 in footprint on a 22x36 in sheet: 32 per sheet, 2 sheets
//
// # Coordinates
//
// All lengths are inches. A sheet's origin is its bottom-left corner with y
// increasing upward, matching PDF user space. A placement's (X, Y) is its own
// bottom-left corner. Rows are filled left to right starting at the top
// margin and stack downward, so the first placement sits in the top-left
// corner of the usable area.
//
// # Rotation
//
// Rotation is a footprint-level transform: the artifact is first converted to
// inches, then width and height are swapped. Rotating a (W, H) artifact
// therefore yields exactly the geometry of an unrotated (H, W) artifact.
//
// # Errors
//
// All failures are terminal and carry a code from pkg/errors:
// INVALID_ARTIFACT, INVALID_SHEET_SPEC, ARTIFACT_TOO_LARGE and
// QUANTITY_EXCEEDS_LIMIT. The latter two wrap [*TooLargeError] and
// [*LimitError] with the numbers needed to diagnose the request.
//
// [render]: github.com/matzehuels/gangsheet/pkg/render
package layout
