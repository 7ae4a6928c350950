package insights

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahbi72/Clarity-board/internal/domain/dataset"
)

type fakeSource struct {
	active  *dataset.Dataset
	byID    map[uuid.UUID]*dataset.Dataset
	rows    map[uuid.UUID][]dataset.Row
	lastGet uuid.UUID
}

func (f *fakeSource) Get(_ context.Context, _, id uuid.UUID) (*dataset.Dataset, error) {
	f.lastGet = id
	ds, ok := f.byID[id]
	if !ok {
		return nil, dataset.ErrNotFound
	}
	return ds, nil
}

func (f *fakeSource) Active(context.Context, uuid.UUID) (*dataset.Dataset, error) {
	if f.active == nil {
		return nil, dataset.ErrNoActiveDataset
	}
	return f.active, nil
}

func (f *fakeSource) Rows(_ context.Context, id uuid.UUID, _ int) ([]dataset.Row, error) {
	return f.rows[id], nil
}

func TestServiceSummary(t *testing.T) {
	cols, rows := salesRows()
	ds := testDataset(cols, rows)
	src := &fakeSource{
		active: ds,
		byID:   map[uuid.UUID]*dataset.Dataset{ds.ID: ds},
		rows:   map[uuid.UUID][]dataset.Row{ds.ID: rows},
	}
	svc := NewService(src, slog.New(slog.DiscardHandler))
	userID := uuid.New()

	t.Run("active dataset by default", func(t *testing.T) {
		resp, err := svc.Summary(context.Background(), userID, nil)
		require.NoError(t, err)
		assert.Equal(t, ds.ID, resp.Dataset.ID)
		assert.Equal(t, 3100.0, resp.Metrics.TotalRevenue)
	})

	t.Run("explicit dataset id", func(t *testing.T) {
		resp, err := svc.Summary(context.Background(), userID, &ds.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.ID, src.lastGet)
		assert.Equal(t, ds.ID, resp.Dataset.ID)
	})

	t.Run("unknown dataset id", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.Summary(context.Background(), userID, &missing)
		assert.ErrorIs(t, err, dataset.ErrNotFound)
	})

	t.Run("no active dataset", func(t *testing.T) {
		empty := NewService(&fakeSource{}, slog.New(slog.DiscardHandler))
		_, err := empty.Summary(context.Background(), userID, nil)
		assert.ErrorIs(t, err, dataset.ErrNoActiveDataset)
	})
}

func TestServiceSuggestions(t *testing.T) {
	cols, rows := salesRows()
	ds := testDataset(cols, rows)
	src := &fakeSource{
		active: ds,
		rows:   map[uuid.UUID][]dataset.Row{ds.ID: rows},
	}
	svc := NewService(src, slog.New(slog.DiscardHandler))

	resp, err := svc.Suggestions(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, ds.ID, resp.Dataset.ID)
	assert.Equal(t, "amount", resp.PrimaryMetric)
}
