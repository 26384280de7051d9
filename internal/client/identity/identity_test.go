package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkraev/mycolog/internal/quota"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	values map[string]string
	err    error
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], f.err
}
func (f *fakeSettings) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}
func (f *fakeSettings) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func signToken(t *testing.T, userID, tier string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		UserID:           userID,
		Tier:             tier,
	})
	s, err := token.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)
	return s
}

func TestResolve_NoToken(t *testing.T) {
	p := NewTokenProvider(&fakeSettings{values: map[string]string{}})

	id, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestResolve_ValidToken(t *testing.T) {
	tok := signToken(t, "user-7", "plus", time.Now().Add(time.Hour))
	p := NewTokenProvider(&fakeSettings{values: map[string]string{"auth_token": tok}})

	id, err := p.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "user-7", id.UserID)
	assert.Equal(t, quota.TierPlus, id.Tier)
}

func TestResolve_ExpiredTokenMeansLoggedOut(t *testing.T) {
	tok := signToken(t, "user-7", "plus", time.Now().Add(-time.Hour))
	p := NewTokenProvider(&fakeSettings{values: map[string]string{"auth_token": tok}})

	id, err := p.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestResolve_MalformedToken(t *testing.T) {
	p := NewTokenProvider(&fakeSettings{values: map[string]string{"auth_token": "garbage"}})

	_, err := p.Resolve(context.Background())
	assert.Error(t, err)
}

func TestResolve_StoreFailurePropagates(t *testing.T) {
	p := NewTokenProvider(&fakeSettings{values: map[string]string{}, err: errors.New("disk gone")})

	_, err := p.Resolve(context.Background())
	assert.Error(t, err)
}
