// Package prom implements observability hooks backed by Prometheus metrics.
//
// solver-project-url runs as a batch job, so metrics are collected into a
// private registry and pushed to a Pushgateway once the run finishes instead
// of being scraped.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/thoth-station/solver-project-url/pkg/observability"
)

// Metrics collects run metrics and implements [observability.Hooks].
type Metrics struct {
	registry *prometheus.Registry

	documents     *prometheus.CounterVec
	candidates    *prometheus.CounterVec
	probes        *prometheus.CounterVec
	probeErrors   *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	packages      *prometheus.GaugeVec
	runDuration   *prometheus.GaugeVec
	lastSuccess   *prometheus.GaugeVec
}

var _ observability.Hooks = (*Metrics)(nil)

// New creates a Metrics set whose metric names start with namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Solver documents read from the result store",
		}, []string{"skipped"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "url_candidates_total",
			Help:      "URL candidates checked, by outcome",
		}, []string{"outcome"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Repository probes by host and HTTP status code",
		}, []string{"host", "status_code"}),
		probeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_errors_total",
			Help:      "Repository probes that failed before a response was received",
		}, []string{"host"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of repository probes in seconds",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"host"}),
		packages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "packages",
			Help:      "Packages present in the final output",
		}, []string{"variant"}),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last run",
		}, []string{"variant"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}, []string{"variant"}),
	}
	m.registry.MustRegister(
		m.documents, m.candidates, m.probes, m.probeErrors,
		m.probeDuration, m.packages, m.runDuration, m.lastSuccess,
	)
	return m
}

// Registry returns the registry holding all run metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) OnDocument(_ context.Context, skipped bool) {
	label := "false"
	if skipped {
		label = "true"
	}
	m.documents.WithLabelValues(label).Inc()
}

func (m *Metrics) OnCandidate(_ context.Context, outcome string) {
	m.candidates.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OnRunComplete(_ context.Context, variant string, packages int, duration time.Duration, err error) {
	m.runDuration.WithLabelValues(variant).Set(duration.Seconds())
	if err != nil {
		return
	}
	m.packages.WithLabelValues(variant).Set(float64(packages))
	m.lastSuccess.WithLabelValues(variant).SetToCurrentTime()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, statusCode int, duration time.Duration) {
	m.probes.WithLabelValues(host, statusLabel(statusCode)).Inc()
	m.probeDuration.WithLabelValues(host).Observe(duration.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.probeErrors.WithLabelValues(host).Inc()
}

// Push sends all collected metrics to the Pushgateway at url under job,
// replacing any metrics previously pushed for the same job.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(m.registry).PushContext(ctx)
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}
