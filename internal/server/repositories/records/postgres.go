package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/dbx"
	"github.com/dkraev/mycolog/internal/server/models"
)

const recordColumns = `id, user_id, local_id, created_at, updated_at, photo_base64, extra_photos_base64, view, meta`

// PostgresRepository implements Repository over a DBTX. Extra photos and
// meta live in JSONB columns and are (un)marshalled here.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.Record) (*models.Record, error) {
	extra, meta, err := marshalPayload(rec)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO records (user_id, local_id, created_at, updated_at, photo_base64, extra_photos_base64, view, meta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.LocalID, rec.CreatedAt, rec.UpdatedAt,
		rec.PhotoBase64, extra, rec.View, meta).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	extra, meta, err := marshalPayload(rec)
	if err != nil {
		return err
	}

	query :=
		`UPDATE records
		 SET updated_at = $1, photo_base64 = $2, extra_photos_base64 = $3, view = $4, meta = $5
		 WHERE id = $6 AND user_id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		rec.UpdatedAt, rec.PhotoBase64, extra, rec.View, meta, rec.ID, rec.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByLocalID(ctx context.Context, userID, localID string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE user_id = $1 AND local_id = $2`
	return r.getOne(ctx, query, userID, localID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id int64) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE user_id = $1 AND id = $2`
	return r.getOne(ctx, query, userID, id)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx, query, args...)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func marshalPayload(rec *models.Record) (extra, meta []byte, err error) {
	if extra, err = json.Marshal(rec.ExtraPhotosBase64); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal extra photos: %w", err)
	}
	if meta, err = json.Marshal(rec.Meta); err != nil {
		return nil, nil, fmt.Errorf("failed to marshal meta: %w", err)
	}
	return extra, meta, nil
}

func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	rec := &models.Record{}
	var extra, meta []byte

	if err := scan(&rec.ID, &rec.UserID, &rec.LocalID, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.PhotoBase64, &extra, &rec.View, &meta); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(extra, &rec.ExtraPhotosBase64); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extra photos: %w", err)
	}
	if err := json.Unmarshal(meta, &rec.Meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meta: %w", err)
	}
	return rec, nil
}
