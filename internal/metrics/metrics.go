package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineCollector exposes Prometheus metrics for batch pipeline runs.
// A nil collector is valid and records nothing, so wiring stays optional.
type PipelineCollector struct {
	registry          *prometheus.Registry
	articlesTotal     *prometheus.CounterVec
	summarizeDuration *prometheus.HistogramVec
	summarizeRetries  prometheus.Counter
	fetchErrors       *prometheus.CounterVec
	transformsTotal   *prometheus.CounterVec
}

// NewPipelineCollector constructs a collector with default counters/histograms.
func NewPipelineCollector() (*PipelineCollector, error) {
	registry := prometheus.NewRegistry()

	articlesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefwire",
		Subsystem: "pipeline",
		Name:      "articles_total",
		Help:      "Articles resolved by the pipeline, by outcome.",
	}, []string{"outcome"})

	summarizeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "briefwire",
		Subsystem: "summarizer",
		Name:      "call_duration_seconds",
		Help:      "Latency distribution for completion service calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	summarizeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "briefwire",
		Subsystem: "summarizer",
		Name:      "retries_total",
		Help:      "Total number of retried completion service calls.",
	})

	fetchErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefwire",
		Subsystem: "fetch",
		Name:      "source_errors_total",
		Help:      "Per-source fetch failures that were skipped.",
	}, []string{"source"})

	transformsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "briefwire",
		Subsystem: "format",
		Name:      "transforms_total",
		Help:      "Platform transforms, by platform and status.",
	}, []string{"platform", "status"})

	collectors := []prometheus.Collector{
		articlesTotal, summarizeDuration, summarizeRetries, fetchErrors, transformsTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &PipelineCollector{
		registry:          registry,
		articlesTotal:     articlesTotal,
		summarizeDuration: summarizeDuration,
		summarizeRetries:  summarizeRetries,
		fetchErrors:       fetchErrors,
		transformsTotal:   transformsTotal,
	}, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *PipelineCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ArticleResolved records the final outcome of one article pipeline.
func (c *PipelineCollector) ArticleResolved(outcome string) {
	if c == nil {
		return
	}
	c.articlesTotal.WithLabelValues(outcome).Inc()
}

// SummarizeObserved records one completion service call.
func (c *PipelineCollector) SummarizeObserved(duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.summarizeDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// SummarizeRetried counts a retried completion service call.
func (c *PipelineCollector) SummarizeRetried() {
	if c == nil {
		return
	}
	c.summarizeRetries.Inc()
}

// FetchSourceError counts a skipped source fetch failure.
func (c *PipelineCollector) FetchSourceError(source string) {
	if c == nil {
		return
	}
	c.fetchErrors.WithLabelValues(source).Inc()
}

// TransformObserved records one platform transform result.
func (c *PipelineCollector) TransformObserved(platform, status string) {
	if c == nil {
		return
	}
	c.transformsTotal.WithLabelValues(platform, status).Inc()
}
