// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

// Enrichment steps used as the "step" label.
const (
	StepTagResolve  = "tag_resolve"
	StepTagLink     = "tag_link"
	StepImages      = "images"
	StepAttachments = "attachments"
)

// Metrics 服务内全部指标
type Metrics struct {
	registry prometheus.Gatherer

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	ContentOps         *prometheus.CounterVec
	EnrichmentFailures *prometheus.CounterVec
	TagsResolved       prometheus.Counter
	UploadedBytes      prometheus.Counter
}

// New registers the collectors on reg. A nil reg uses a fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ContentOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_operations_total",
			Help:      "Content operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		EnrichmentFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_enrichment_failures_total",
			Help:      "Best-effort side-effect writes that failed after the content record was stored.",
		}, []string{"step"}),
		TagsResolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_resolved_total",
			Help:      "Tag names resolved through find-or-create during ingestion.",
		}),
		UploadedBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes accepted by the upload endpoint.",
		}),
	}
}

// NewWithRuntime is New plus the Go runtime and process collectors, used by the server.
func NewWithRuntime() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer gives tests access to the collected values.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Nop returns collectors bound to a throwaway registry.
func Nop() *Metrics {
	return New(nil)
}

// CounterValue reads the current value of a counter series; 0 when absent.
func (m *Metrics) CounterValue(name string, labels map[string]string) float64 {
	families, err := m.registry.Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metricLoop:
		for _, metric := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metricLoop
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}
