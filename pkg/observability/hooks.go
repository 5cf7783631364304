// Package observability reports what the gang sheet pipeline, its cache and
// the HTTP service are doing.
//
// Libraries emit typed events through process-wide hook sets; nothing is
// recorded until main installs a backend. [Metrics] is the bundled
// Prometheus backend and implements every hook interface:
//
//	reg := prometheus.NewRegistry()
//	observability.NewMetrics(reg).Register()
//
// Emitting an event:
//
//	observability.Pipeline().OnPlan(ctx, observability.PlanEvent{
//	    Quantity: 50, Sheets: 2, Placements: 50, PerSheet: 32,
//	})
//
// Hooks are called synchronously on the caller's goroutine, including from
// concurrent render workers, so implementations must be safe for concurrent
// use and must not block.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Events
// =============================================================================

// DecodeEvent describes one artwork decode.
type DecodeEvent struct {
	Bytes    int    // size of the uploaded artwork
	Format   string // png, jpeg, pdf, ...; empty when decoding failed
	Vector   bool
	Duration time.Duration
	Err      error
}

// PlanEvent describes one planning run. Cached plans are reported with
// Cached set and a zero Duration.
type PlanEvent struct {
	Quantity    int
	Sheets      int
	Placements  int
	PerSheet    int
	Utilization float64 // covered fraction of the usable sheet area
	Cached      bool
	Duration    time.Duration
	Err         error
}

// RenderEvent describes rendering a plan into one output format.
type RenderEvent struct {
	Format   string
	Sheets   int
	Bytes    int
	Duration time.Duration
	Err      error
}

// Cache entry kinds passed to CacheHooks.
const (
	KindPlan     = "plan"
	KindArtifact = "artifact"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// PipelineHooks receives one event per pipeline stage.
type PipelineHooks interface {
	OnDecode(ctx context.Context, ev DecodeEvent)
	OnPlan(ctx context.Context, ev PlanEvent)
	OnRender(ctx context.Context, ev RenderEvent)
}

// CacheHooks receives cache lookups and writes. kind is KindPlan or
// KindArtifact; format is empty for plans.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind, format string)
	OnCacheMiss(ctx context.Context, kind, format string)
	OnCacheSet(ctx context.Context, kind, format string, size int)
}

// HTTPHooks receives events from the HTTP service. route is the matched
// route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecode(context.Context, DecodeEvent) {}
func (NoopPipelineHooks) OnPlan(context.Context, PlanEvent)     {}
func (NoopPipelineHooks) OnRender(context.Context, RenderEvent) {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// hookSet boxes an interface value so it can live in an atomic.Pointer.
type hookSet[T any] struct{ hooks T }

var (
	pipelineHooks atomic.Pointer[hookSet[PipelineHooks]]
	cacheHooks    atomic.Pointer[hookSet[CacheHooks]]
	httpHooks     atomic.Pointer[hookSet[HTTPHooks]]
)

func init() { Reset() }

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(&hookSet[PipelineHooks]{h})
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(&hookSet[CacheHooks]{h})
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.Store(&hookSet[HTTPHooks]{h})
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.Load().hooks }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheHooks.Load().hooks }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.Load().hooks }

// Reset restores the no-op hooks.
func Reset() {
	pipelineHooks.Store(&hookSet[PipelineHooks]{NoopPipelineHooks{}})
	cacheHooks.Store(&hookSet[CacheHooks]{NoopCacheHooks{}})
	httpHooks.Store(&hookSet[HTTPHooks]{NoopHTTPHooks{}})
}
