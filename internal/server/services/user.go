// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and issuing JWTs.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/server/auth"
	"github.com/dkraev/mycolog/internal/server/models"
	"github.com/dkraev/mycolog/internal/server/repositories/users"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// New accounts start on the plus plan. Tier changes are an operator action
// directly on the users table; there is no self-service upgrade endpoint.
const defaultTier = "plus"

const pgUniqueViolation = "23505"

// UserService provides authentication-related operations:
// - Register: create accounts
// - Login: verify credentials and mint an access token
type UserService struct {
	users         users.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(repo users.Repository, jwtSecret []byte, tokenValidity time.Duration) *UserService {
	return &UserService{
		users:         repo,
		jwtSecret:     jwtSecret,
		tokenValidity: tokenValidity,
	}
}

// Register creates a new account with a bcrypt-hashed password. A taken
// username yields common.ErrUserExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrInternal)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{UserName: username, PasswordHash: hash, Tier: defaultTier}
	u, err := s.users.Create(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and returns a signed access token carrying
// the account id and tier. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Tier, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrInternal
	}
	return token, nil
}

// ValidateToken parses and verifies an access token.
func (s *UserService) ValidateToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}
