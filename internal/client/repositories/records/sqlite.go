package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkraev/mycolog/internal/client/models"
	"github.com/dkraev/mycolog/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
//
// Photos are stored as raw blobs; extra photos and meta are serialized to
// JSON text columns (JSON encodes []byte as base64, which keeps arbitrary
// binary content intact across the round trip).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put upserts a record by id. On conflict every mutable column is replaced.
func (r *SQLiteRepository) Put(ctx context.Context, rec *models.Record) error {
	extra, err := json.Marshal(rec.ExtraPhotos)
	if err != nil {
		return fmt.Errorf("failed to marshal extra photos: %w", err)
	}
	meta, err := json.Marshal(rec.Meta)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}

	query := `INSERT INTO records (id, created_at, photo, extra_photos, view, meta)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				photo = excluded.photo,
				extra_photos = excluded.extra_photos,
				view = excluded.view,
				meta = excluded.meta
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.CreatedAt, rec.Photo, string(extra), rec.View, string(meta))
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// Get returns one record by id, or nil when it does not exist.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT id, created_at, photo, extra_photos, view, meta FROM records WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

// List returns all stored records.
func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := `SELECT id, created_at, photo, extra_photos, view, meta FROM records`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a record by id. Absent ids are a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	rec := &models.Record{}
	var extra, meta string

	if err := scan(&rec.ID, &rec.CreatedAt, &rec.Photo, &extra, &rec.View, &meta); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(extra), &rec.ExtraPhotos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extra photos: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &rec.Meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
	}
	return rec, nil
}
