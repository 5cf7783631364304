package layout

import (
	errs "github.com/matzehuels/gangsheet/pkg/errors"
)

// Normalize converts an artifact to its physical footprint in inches.
//
// Rasters divide pixels by the declared density, falling back to
// defaultDensity when the artifact has none. Vectors divide points by
// [PointsPerInch]. When rotate is set, width and height are swapped after the
// conversion. A non-positive defaultDensity falls back to [DefaultDensity].
func Normalize(a Artifact, rotate bool, defaultDensity float64) (Footprint, error) {
	if !(a.NativeWidth > 0 && a.NativeHeight > 0) || !finite(a.NativeWidth, a.NativeHeight) {
		return Footprint{}, errs.New(errs.ErrCodeInvalidArtifact,
			"artifact dimensions must be positive and finite, got %gx%g", a.NativeWidth, a.NativeHeight)
	}
	if !finite(a.Density) {
		return Footprint{}, errs.New(errs.ErrCodeInvalidArtifact, "artifact density must be finite, got %g", a.Density)
	}
	if !finite(defaultDensity) {
		return Footprint{}, errs.New(errs.ErrCodeInvalidInput, "default density must be finite, got %g", defaultDensity)
	}

	var fp Footprint
	switch a.Kind {
	case KindRaster:
		density := a.Density
		if density <= 0 {
			density = defaultDensity
		}
		if density <= 0 {
			density = DefaultDensity
		}
		fp = Footprint{Width: a.NativeWidth / density, Height: a.NativeHeight / density}
	case KindVector:
		fp = Footprint{Width: a.NativeWidth / PointsPerInch, Height: a.NativeHeight / PointsPerInch}
	default:
		return Footprint{}, errs.New(errs.ErrCodeInvalidArtifact, "unknown artifact kind %q", a.Kind)
	}

	if rotate {
		fp = fp.Rotate()
	}
	return fp, nil
}
