package layout

import "fmt"

// Planner runs the normalize, capacity and pack stages with one Config.
// It holds no mutable state and is safe for concurrent use.
type Planner struct {
	cfg Config
}

// NewPlanner creates a planner. The config is validated on every Plan call so
// a bad config surfaces as a coded error rather than a panic.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Config returns the planner's configuration.
func (p *Planner) Config() Config { return p.cfg }

// Plan computes the full placement plan for an artifact.
func (p *Planner) Plan(a Artifact, req Request) (Plan, error) {
	if err := p.cfg.Validate(); err != nil {
		return Plan{}, err
	}
	fp, err := Normalize(a, req.Rotate, p.cfg.DefaultDensity)
	if err != nil {
		return Plan{}, fmt.Errorf("normalize: %w", err)
	}
	return p.PlanFootprint(fp, req)
}

// PlanFootprint packs an already normalized footprint. The footprint is taken
// as-is: req.Rotate only marks placements as rotated.
func (p *Planner) PlanFootprint(fp Footprint, req Request) (Plan, error) {
	spec := p.cfg.Sheet()
	capacity, err := PlanCapacity(fp, spec)
	if err != nil {
		return Plan{}, fmt.Errorf("capacity: %w", err)
	}
	plan, err := Pack(req, fp, spec, capacity, p.cfg.MaxSheets)
	if err != nil {
		return Plan{}, fmt.Errorf("pack: %w", err)
	}
	return plan, nil
}
