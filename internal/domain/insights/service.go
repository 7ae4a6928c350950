package insights

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
)

// RowSource is the slice of dataset storage the insights service needs.
type RowSource interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*dataset.Dataset, error)
	Active(ctx context.Context, userID uuid.UUID) (*dataset.Dataset, error)
	Rows(ctx context.Context, id uuid.UUID, limit int) ([]dataset.Row, error)
}

// Service resolves a dataset and runs the aggregation over its rows.
type Service struct {
	source RowSource
	logger *slog.Logger
}

func NewService(source RowSource, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Summary computes the dashboard for the given dataset, or the user's
// active dataset when datasetID is nil.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, datasetID *uuid.UUID) (*SummaryResponse, error) {
	ds, rows, err := s.load(ctx, userID, datasetID)
	if err != nil {
		return nil, err
	}
	resp := BuildSummary(ds, rows)
	s.logger.Debug("summary built",
		"dataset_id", ds.ID, "rows", len(rows), "fallbacks", len(resp.Fallbacks))
	return resp, nil
}

// Suggestions computes data-quality checks for the given dataset, or the
// user's active dataset when datasetID is nil.
func (s *Service) Suggestions(ctx context.Context, userID uuid.UUID, datasetID *uuid.UUID) (*SuggestionsResponse, error) {
	ds, rows, err := s.load(ctx, userID, datasetID)
	if err != nil {
		return nil, err
	}
	return BuildSuggestions(ds, rows), nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID, datasetID *uuid.UUID) (*dataset.Dataset, []dataset.Row, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	if datasetID != nil {
		ds, err = s.source.Get(ctx, userID, *datasetID)
	} else {
		ds, err = s.source.Active(ctx, userID)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.source.Rows(ctx, ds.ID, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("load rows for dataset %s: %w", ds.ID, err)
	}
	return ds, rows, nil
}
