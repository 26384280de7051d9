// Package remote gives the sync engine access to the cloud record store.
package remote

import "context"

// Record is the wire form of one cloud row. Photo payloads travel as base64
// text; ServerID is assigned by the server and is only used to target updates.
type Record struct {
	ServerID          int64          `json:"id,omitempty"`
	UserID            string         `json:"user_id,omitempty"`
	LocalID           string         `json:"local_id"`
	CreatedAt         int64          `json:"created_at"`
	UpdatedAt         int64          `json:"updated_at"`
	PhotoBase64       string         `json:"photo_base64"`
	ExtraPhotosBase64 []string       `json:"extra_photos_base64"`
	View              string         `json:"view,omitempty"`
	Meta              map[string]any `json:"meta"`
}

// Store describes the remote record table scoped to the authenticated user.
// All calls carry the caller's credentials; rows of other users are never
// visible through this interface.
type Store interface {
	// Configured reports whether a remote backend is set up at all. When it
	// returns false the sync engine stays idle without error.
	Configured() bool

	// Lookup returns the row for one local record id, or common.ErrNotFound.
	Lookup(ctx context.Context, localID string) (*Record, error)

	// List returns every row owned by the current user.
	List(ctx context.Context) ([]*Record, error)

	// Insert creates a new row. The server assigns the row id. A row that
	// already exists for (owner, localID) yields common.ErrDuplicateRecord.
	Insert(ctx context.Context, rec *Record) error

	// Update replaces the row addressed by its server-assigned id.
	Update(ctx context.Context, serverID int64, rec *Record) error
}
