// Package metrics defines the Prometheus collectors of extraction runs and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for termex.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	DocsProcessedTotal prometheus.Counter
	DocsSkippedTotal   prometheus.Counter
	SequencesTotal     prometheus.Counter
	CandidatesTotal    prometheus.Counter
	TermsAcceptedTotal prometheus.Counter
	LastRunTerms       prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
// A nil reg uses a fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termex_runs_total",
				Help: "Total extraction runs by status (ok, empty, error).",
			},
			[]string{"status"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termex_stage_duration_seconds",
				Help:    "Duration of each extraction stage in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"stage"},
		),
		DocsProcessedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termex_docs_processed_total",
				Help: "Total documents tokenized.",
			},
		),
		DocsSkippedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termex_docs_skipped_total",
				Help: "Total documents skipped as invalid or untaggable.",
			},
		),
		SequencesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termex_sequences_total",
				Help: "Total token sequences extracted for counting.",
			},
		),
		CandidatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termex_candidates_total",
				Help: "Total candidate terms scored.",
			},
		),
		TermsAcceptedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termex_terms_accepted_total",
				Help: "Total terms kept after thresholds and post filters.",
			},
		),
		LastRunTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "termex_last_run_terms",
				Help: "Number of terms produced by the most recent run.",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.RunsTotal,
		m.StageDuration,
		m.DocsProcessedTotal,
		m.DocsSkippedTotal,
		m.SequencesTotal,
		m.CandidatesTotal,
		m.TermsAcceptedTotal,
		m.LastRunTerms,
	)

	return m
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
