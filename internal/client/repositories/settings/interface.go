package settings

import "context"

// Keys persisted in the settings table.
const (
	KeySyncEnabled = "sync_enabled"
	KeyLastSyncMs  = "last_sync_ms"
	KeyAuthToken   = "auth_token"
)

// Repository is a small persisted key/value store for client preferences
// that must survive process restarts (the cloud-sync toggle, the last sync
// timestamp, the auth token).
type Repository interface {
	// Get returns the stored value, or "" when the key was never set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key string, value string) error

	// Delete removes a key. Absent keys are a no-op.
	Delete(ctx context.Context, key string) error
}
