// Package cache stores rendered plans and output documents between runs.
//
// # Overview
//
// Planning is cheap but rendering a PDF with a few hundred embedded copies of
// a large image is not. The pipeline keys every result by the SHA-256 of the
// uploaded artwork plus the options that influence it, so re-running the same
// order hits the cache.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//     (CLI default)
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: never stores anything
//
// # Keys
//
// Keys come from a [Keyer] so callers can namespace them. [DefaultKeyer]
// produces "plan:<sha256>" and "artifact:<sha256>" keys; [ScopedKeyer]
// prepends a fixed prefix for multi-tenant deployments.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLPlan     = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached value and whether it was found. A miss is not an
	// error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// PlanKeyOpts are the inputs that change a placement plan.
type PlanKeyOpts struct {
	Quantity       int     `json:"quantity"`
	Rotate         bool    `json:"rotate"`
	SheetWidth     float64 `json:"sheet_width"`
	SheetHeight    float64 `json:"sheet_height"`
	Margin         float64 `json:"margin"`
	Gap            float64 `json:"gap"`
	DefaultDensity float64 `json:"default_density"`
	MaxSheets      int     `json:"max_sheets"`
	Page           int     `json:"page"`
}

// ArtifactKeyOpts are the inputs that change a rendered document.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	PlanHash   string  `json:"plan_hash"`
	PreviewDPI float64 `json:"preview_dpi,omitempty"`
	CutMarks   bool    `json:"cut_marks,omitempty"`
	Page       int     `json:"page,omitempty"`
	Title      string  `json:"title,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// PlanKey identifies the plan for an artwork and planning options.
	PlanKey(sourceHash string, opts PlanKeyOpts) string
	// ArtifactKey identifies a rendered document.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey implements Keyer.
func (DefaultKeyer) PlanKey(sourceHash string, opts PlanKeyOpts) string {
	return hashKey("plan", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
