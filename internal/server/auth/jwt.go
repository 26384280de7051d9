// Package auth mints and verifies the HS256 access tokens the API uses.
// The tier claim rides in the token so clients can evaluate the upload
// quota locally without an extra round trip.
package auth

import (
	"time"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered claims with the account id and tier. The
// JSON keys are part of the wire contract with the client identity reader.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Tier   string `json:"tier"`
}

func GenerateToken(userID, tier string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Tier:   tier,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
