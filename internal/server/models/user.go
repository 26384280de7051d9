package models

import "time"

// User is one cloud account. Tier is the subscription level baked into the
// access token at login; see internal/quota for its meaning.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	Tier         string
	CreatedAt    time.Time
}
