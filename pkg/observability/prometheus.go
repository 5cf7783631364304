package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gangsheet"

// Metrics records hook events as Prometheus collectors. It implements
// PipelineHooks, CacheHooks and HTTPHooks and is safe for concurrent use.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	decoded       *prometheus.CounterVec

	planSheets      prometheus.Histogram
	planUtilization prometheus.Histogram
	placements      prometheus.Counter
	plansServed     *prometheus.CounterVec

	renderBytes *prometheus.CounterVec

	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages; render is labelled by output format.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "format"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures.",
		}, []string{"stage", "format"}),
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_decoded_total",
			Help:      "Decoded artworks by format and kind.",
		}, []string{"format", "kind"}),
		planSheets: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_sheets",
			Help:      "Sheets per successful plan.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		planUtilization: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_utilization_ratio",
			Help:      "Fraction of usable sheet area covered by artwork.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Artwork copies placed across all plans.",
		}),
		plansServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Plans served, by source (computed or cached).",
		}, []string{"source"}),
		renderBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rendered_bytes_total",
			Help:      "Bytes of rendered output by format.",
		}, []string{"format"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by entry kind, format and result.",
		}, []string{"kind", "format", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by entry kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}

	reg.MustRegister(
		m.stageDuration, m.stageErrors, m.decoded,
		m.planSheets, m.planUtilization, m.placements, m.plansServed,
		m.renderBytes,
		m.cacheRequests, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpInFlight,
	)
	return m
}

// Register installs m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

func (m *Metrics) stage(name, format string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name, format).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name, format).Inc()
	}
}

func (m *Metrics) OnDecode(_ context.Context, ev DecodeEvent) {
	m.stage("decode", "", ev.Duration, ev.Err)
	if ev.Err != nil {
		return
	}
	kind := "raster"
	if ev.Vector {
		kind = "vector"
	}
	m.decoded.WithLabelValues(ev.Format, kind).Inc()
}

func (m *Metrics) OnPlan(_ context.Context, ev PlanEvent) {
	if ev.Cached {
		m.plansServed.WithLabelValues("cached").Inc()
		return
	}
	m.stage("plan", "", ev.Duration, ev.Err)
	if ev.Err != nil {
		return
	}
	m.plansServed.WithLabelValues("computed").Inc()
	m.planSheets.Observe(float64(ev.Sheets))
	m.placements.Add(float64(ev.Placements))
	if ev.Sheets > 0 {
		m.planUtilization.Observe(ev.Utilization)
	}
}

func (m *Metrics) OnRender(_ context.Context, ev RenderEvent) {
	m.stage("render", ev.Format, ev.Duration, ev.Err)
	if ev.Err == nil {
		m.renderBytes.WithLabelValues(ev.Format).Add(float64(ev.Bytes))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, kind, format string) {
	m.cacheRequests.WithLabelValues(kind, format, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind, format string) {
	m.cacheRequests.WithLabelValues(kind, format, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind, _ string, size int) {
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) { m.httpInFlight.Inc() }

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(context.Context, string, string, error) {}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
