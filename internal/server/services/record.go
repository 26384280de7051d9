package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/server/models"
	"github.com/dkraev/mycolog/internal/server/repositories/records"
	"github.com/jackc/pgx/v5/pgconn"
)

// RecordService owns the tenant-scoped record operations. The caller passes
// the authenticated user id with every call; no operation can reach another
// user's rows.
type RecordService struct {
	records records.Repository
}

func NewRecordService(repo records.Repository) *RecordService {
	return &RecordService{records: repo}
}

// List returns every record owned by the user.
func (s *RecordService) List(ctx context.Context, userID string) ([]*models.Record, error) {
	recs, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}
	return recs, nil
}

// Lookup returns the user's record with the given client-side id, or
// common.ErrNotFound.
func (s *RecordService) Lookup(ctx context.Context, userID, localID string) (*models.Record, error) {
	return s.records.GetByLocalID(ctx, userID, localID)
}

// Create inserts a new record for the user. An existing (user, localID) row
// yields common.ErrDuplicateRecord; the client is expected to update instead.
func (s *RecordService) Create(ctx context.Context, userID string, rec *models.Record) (*models.Record, error) {
	if rec.LocalID == "" {
		return nil, fmt.Errorf("%w: local_id is required", common.ErrInternal)
	}
	rec.UserID = userID

	created, err := s.records.Insert(ctx, rec)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrDuplicateRecord
		}
		return nil, fmt.Errorf("error creating record: %w", err)
	}
	return created, nil
}

// Update replaces the row addressed by its server id, provided the user owns
// it. A foreign or absent row is common.ErrNotFound either way.
func (s *RecordService) Update(ctx context.Context, userID string, id int64, rec *models.Record) error {
	rec.ID = id
	rec.UserID = userID

	if err := s.records.Update(ctx, rec); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error updating record: %w", err)
	}
	return nil
}
