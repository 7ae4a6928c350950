// Package dataset owns uploaded dataset storage: metadata, row payloads and
// the single-active-dataset invariant per user.
package dataset

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("dataset not found")
	ErrNoActiveDataset = errors.New("no active dataset")
)

// Row is one normalized data row. Values are string, float64, bool or nil,
// exactly what the ingest normalizer produces, and round-trip through jsonb.
type Row map[string]any

// Dataset is the stored metadata for one upload.
type Dataset struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	FileType  string    `json:"fileType"`
	SizeBytes int64     `json:"sizeBytes"`
	RowCount  int       `json:"rowCount"`
	Columns   []string  `json:"columns"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Details is a dataset plus a bounded preview of its rows.
type Details struct {
	Dataset
	PreviewRows []Row `json:"previewRows"`
}
