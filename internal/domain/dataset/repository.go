package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowInsertBatchSize bounds the number of rows per insert batch so large
// uploads do not build one giant statement.
const rowInsertBatchSize = 500

// Repository is the storage contract the dataset and insights services
// depend on.
type Repository interface {
	Create(ctx context.Context, d *Dataset, rows []Row) error
	List(ctx context.Context, userID uuid.UUID) ([]Dataset, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Dataset, error)
	Rows(ctx context.Context, id uuid.UUID, limit int) ([]Row, error)
	Activate(ctx context.Context, userID, id uuid.UUID) error
	Active(ctx context.Context, userID uuid.UUID) (*Dataset, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PostgresRepository implements Repository on a pgx pool. Row payloads are
// stored as jsonb keyed by the dataset's sanitized column names.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts the dataset and its rows in one transaction and makes it
// the user's active dataset.
func (r *PostgresRepository) Create(ctx context.Context, d *Dataset, rows []Row) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	columnsJSON, err := json.Marshal(d.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO datasets (id, user_id, name, file_type, size_bytes, row_count, columns, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)`,
		d.ID, d.UserID, d.Name, d.FileType, d.SizeBytes, d.RowCount, columnsJSON)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE datasets SET is_active = false, updated_at = now() WHERE user_id = $1 AND id <> $2`,
		d.UserID, d.ID)
	if err != nil {
		return fmt.Errorf("deactivate previous datasets: %w", err)
	}

	for start := 0; start < len(rows); start += rowInsertBatchSize {
		end := start + rowInsertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := &pgx.Batch{}
		for i, row := range rows[start:end] {
			payload, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshal row %d: %w", start+i, err)
			}
			batch.Queue(
				`INSERT INTO dataset_rows (dataset_id, row_index, data) VALUES ($1, $2, $3)`,
				d.ID, start+i, payload)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) List(ctx context.Context, userID uuid.UUID) ([]Dataset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, file_type, size_bytes, row_count, columns, is_active, created_at, updated_at
		FROM datasets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id uuid.UUID) (*Dataset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, file_type, size_bytes, row_count, columns, is_active, created_at, updated_at
		FROM datasets WHERE user_id = $1 AND id = $2`, userID, id)
	d, err := scanDataset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// Rows returns the dataset's rows in upload order. A limit of 0 means all
// rows.
func (r *PostgresRepository) Rows(ctx context.Context, id uuid.UUID, limit int) ([]Row, error) {
	q := `SELECT data FROM dataset_rows WHERE dataset_id = $1 ORDER BY row_index`
	args := []any{id}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var row Row
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Activate(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE datasets SET is_active = true, updated_at = now() WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return fmt.Errorf("activate dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE datasets SET is_active = false, updated_at = now() WHERE user_id = $1 AND id <> $2 AND is_active`,
		userID, id)
	if err != nil {
		return fmt.Errorf("deactivate others: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) Active(ctx context.Context, userID uuid.UUID) (*Dataset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, file_type, size_bytes, row_count, columns, is_active, created_at, updated_at
		FROM datasets WHERE user_id = $1 AND is_active ORDER BY updated_at DESC LIMIT 1`, userID)
	d, err := scanDataset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveDataset
	}
	return d, err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM datasets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDataset(row pgx.Row) (*Dataset, error) {
	var d Dataset
	var columnsJSON []byte
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.FileType, &d.SizeBytes, &d.RowCount,
		&columnsJSON, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(columnsJSON, &d.Columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	return &d, nil
}
