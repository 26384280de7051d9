package records

import (
	"context"

	"github.com/dkraev/mycolog/internal/server/models"
)

// Repository is the tenant-scoped record table. Every method takes the
// owning user id explicitly; rows of other users must never leak through.
type Repository interface {
	Insert(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, rec *models.Record) error
	GetByLocalID(ctx context.Context, userID, localID string) (*models.Record, error)
	GetByID(ctx context.Context, userID string, id int64) (*models.Record, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Record, error)
}
