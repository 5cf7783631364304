package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnDecode(ctx, DecodeEvent{Bytes: 4096, Format: "png"})
	p.OnPlan(ctx, PlanEvent{Quantity: 50, Sheets: 2, Placements: 50})
	p.OnRender(ctx, RenderEvent{Format: "pdf", Bytes: 1024})

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, KindPlan, "")
	c.OnCacheMiss(ctx, KindArtifact, "pdf")
	c.OnCacheSet(ctx, KindArtifact, "pdf", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/merge")
	h.OnResponse(ctx, "POST", "/merge", 200, time.Second)
	h.OnError(ctx, "POST", "/merge", nil)
}

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)
	if Pipeline() != PipelineHooks(rec) || Cache() != CacheHooks(rec) || HTTP() != HTTPHooks(rec) {
		t.Error("setters should install the recorder")
	}

	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(rec) {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestRecorderReceivesEvents(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recorder{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	var wg sync.WaitGroup
	for _, f := range []string{"pdf", "png", "svg", "json"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Pipeline().OnRender(ctx, RenderEvent{Format: f})
		}()
	}
	wg.Wait()

	if got := len(rec.renders()); got != 4 {
		t.Errorf("recorded %d render events, want 4", got)
	}
}

// recorder keeps render events and ignores everything else.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu     sync.Mutex
	render []RenderEvent
}

func (r *recorder) OnRender(_ context.Context, ev RenderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render = append(r.render, ev)
}

func (r *recorder) renders() []RenderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RenderEvent(nil), r.render...)
}
