package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPreviewRows = 50
	maxPreviewRows     = 200
)

// Service exposes the dataset lifecycle: create from a parsed upload, list,
// inspect, activate, delete. Creating a dataset makes it active.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateInput is the already-parsed upload handed over by the ingest layer.
type CreateInput struct {
	UserID    uuid.UUID
	Name      string
	FileType  string
	SizeBytes int64
	Columns   []string
	Rows      []Row
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Dataset, error) {
	now := time.Now().UTC()
	d := &Dataset{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Name:      in.Name,
		FileType:  in.FileType,
		SizeBytes: in.SizeBytes,
		RowCount:  len(in.Rows),
		Columns:   in.Columns,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, d, in.Rows); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	s.logger.Info("dataset created",
		"dataset_id", d.ID, "rows", d.RowCount, "columns", len(d.Columns), "file_type", d.FileType)
	return d, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Dataset, error) {
	return s.repo.List(ctx, userID)
}

// Details returns a dataset with a row preview. previewRows is clamped to
// 1..200 and defaults to 50 when non-positive.
func (s *Service) Details(ctx context.Context, userID, id uuid.UUID, previewRows int) (*Details, error) {
	d, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if previewRows <= 0 {
		previewRows = defaultPreviewRows
	}
	if previewRows > maxPreviewRows {
		previewRows = maxPreviewRows
	}
	rows, err := s.repo.Rows(ctx, id, previewRows)
	if err != nil {
		return nil, fmt.Errorf("load preview rows: %w", err)
	}
	return &Details{Dataset: *d, PreviewRows: rows}, nil
}

func (s *Service) Activate(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Activate(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("dataset activated", "dataset_id", id)
	return nil
}

func (s *Service) Active(ctx context.Context, userID uuid.UUID) (*Dataset, error) {
	return s.repo.Active(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("dataset deleted", "dataset_id", id)
	return nil
}
