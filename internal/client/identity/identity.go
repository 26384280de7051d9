// Package identity resolves the current cloud identity of this device.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/dkraev/mycolog/internal/client/repositories/settings"
	"github.com/dkraev/mycolog/internal/quota"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated cloud user as this device knows it.
type Identity struct {
	UserID string
	Tier   quota.Tier
}

// Provider resolves the current identity. A nil identity with a nil error
// means "not logged in", which is the expected steady state for users who
// never opted into cloud sync; errors are reserved for genuine failures.
type Provider interface {
	Resolve(ctx context.Context) (*Identity, error)
}

// tokenClaims mirrors the claim set the server signs into access tokens.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Tier   string `json:"tier"`
}

// TokenProvider reads the stored access token and extracts the identity from
// its claims. The signature is not verified here: the server is the
// authority and rejects bad tokens on every call; the client only needs the
// subject and tier for local decisions.
type TokenProvider struct {
	settings settings.Repository
	now      func() time.Time
}

func NewTokenProvider(s settings.Repository) *TokenProvider {
	return &TokenProvider{settings: s, now: time.Now}
}

func (p *TokenProvider) Resolve(ctx context.Context) (*Identity, error) {
	token, err := p.settings.Get(ctx, settings.KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse auth token: %w", err)
	}

	// An expired token is the same as being logged out.
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(p.now()) {
		return nil, nil
	}
	if claims.UserID == "" {
		return nil, nil
	}

	return &Identity{UserID: claims.UserID, Tier: quota.Tier(claims.Tier)}, nil
}
