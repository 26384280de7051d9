package records

import (
	"context"

	"github.com/dkraev/mycolog/internal/client/models"
)

// Repository describes CRUD and query operations for local observation
// records. Implementations are typically backed by a local SQLite database.
//
// Put accepts an explicit id, so the sync engine can materialize a record
// downloaded from the cloud without a side-channel into storage internals.
type Repository interface {
	// Put inserts a new record or fully replaces an existing one by ID.
	Put(ctx context.Context, record *models.Record) error

	// Get returns a record by id, or nil when no such record exists.
	Get(ctx context.Context, id string) (*models.Record, error)

	// List returns all records in unspecified order.
	List(ctx context.Context) ([]*models.Record, error)

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}
