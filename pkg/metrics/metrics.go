// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingest holds the collectors the ingest service reports into.
type Ingest struct {
	Uploads       *prometheus.CounterVec
	Rows          *prometheus.CounterVec
	ParseDuration prometheus.Histogram
}

// NewIngest registers the ingest collectors on reg.
func NewIngest(reg prometheus.Registerer) *Ingest {
	factory := promauto.With(reg)
	return &Ingest{
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clarityboard_ingest_uploads_total",
			Help: "Uploads processed, labelled by file type and outcome.",
		}, []string{"file_type", "outcome"}),
		Rows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clarityboard_ingest_rows_total",
			Help: "Rows seen by the parser, labelled by what happened to them.",
		}, []string{"outcome"}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clarityboard_ingest_parse_duration_seconds",
			Help:    "Wall time spent parsing one uploaded file.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}
