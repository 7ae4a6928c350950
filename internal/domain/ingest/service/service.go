// Package service runs the ingestion pipeline: raw upload bytes in,
// extracted transactions or storable dataset rows out.
package service

import (
	"log/slog"

	"github.com/shahbi72/Clarity-board/internal/domain/ingest/normalizer"
	"github.com/shahbi72/Clarity-board/pkg/metrics"
)

// Limits are the ingestion ceilings. They are policy, not format
// restrictions, and come from configuration.
type Limits struct {
	MaxUploadBytes int64
	MaxRows        int
	MaxColumns     int
	PreviewRows    int
}

// DefaultLimits mirrors the production defaults: 25 MiB uploads, 100k rows
// after cleaning, 200 columns, 50 preview rows.
func DefaultLimits() Limits {
	return Limits{
		MaxUploadBytes: 25 * 1024 * 1024,
		MaxRows:        100_000,
		MaxColumns:     200,
		PreviewRows:    50,
	}
}

// Service is the ingestion entry point used by the HTTP layer.
type Service struct {
	limits  Limits
	amounts normalizer.AmountParser
	logger  *slog.Logger
	ingest  *metrics.Ingest
}

// Option customises a Service.
type Option func(*Service)

// WithAmountParser swaps the amount heuristics, e.g. for locale-specific
// parsing rules.
func WithAmountParser(p normalizer.AmountParser) Option {
	return func(s *Service) { s.amounts = p }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Ingest) Option {
	return func(s *Service) { s.ingest = m }
}

func NewService(limits Limits, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		limits:  limits,
		amounts: normalizer.HeuristicParser{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) observeParse(res *ParseResult) {
	if s.ingest == nil {
		return
	}
	s.ingest.Rows.WithLabelValues("valid").Add(float64(res.Meta.ValidRows))
	s.ingest.Rows.WithLabelValues("skipped").Add(float64(res.Meta.SkippedRows))
	s.ingest.Rows.WithLabelValues("normalized").Add(float64(res.Meta.NormalizedRows))
}
