package dataset

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps datasets in process memory. It backs handler tests
// and local development without Postgres.
type MemoryRepository struct {
	mu       sync.RWMutex
	datasets map[uuid.UUID]*Dataset
	rows     map[uuid.UUID][]Row
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		datasets: make(map[uuid.UUID]*Dataset),
		rows:     make(map[uuid.UUID][]Row),
	}
}

func (m *MemoryRepository) Create(_ context.Context, d *Dataset, rows []Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.datasets {
		if other.UserID == d.UserID {
			other.IsActive = false
		}
	}
	cp := *d
	cp.IsActive = true
	m.datasets[cp.ID] = &cp
	m.rows[cp.ID] = append([]Row(nil), rows...)
	return nil
}

func (m *MemoryRepository) List(_ context.Context, userID uuid.UUID) ([]Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Dataset
	for _, d := range m.datasets {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, userID, id uuid.UUID) (*Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.datasets[id]
	if !ok || d.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryRepository) Rows(_ context.Context, id uuid.UUID, limit int) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.rows[id]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return append([]Row(nil), rows...), nil
}

func (m *MemoryRepository) Activate(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.datasets[id]
	if !ok || target.UserID != userID {
		return ErrNotFound
	}
	for _, d := range m.datasets {
		if d.UserID == userID {
			d.IsActive = false
		}
	}
	target.IsActive = true
	return nil
}

func (m *MemoryRepository) Active(_ context.Context, userID uuid.UUID) (*Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.datasets {
		if d.UserID == userID && d.IsActive {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNoActiveDataset
}

func (m *MemoryRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.datasets[id]
	if !ok || d.UserID != userID {
		return ErrNotFound
	}
	delete(m.datasets, id)
	delete(m.rows, id)
	return nil
}
