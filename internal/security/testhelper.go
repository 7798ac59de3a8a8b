package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testSigningKey signs tokens produced by SignTestToken. Unit tests only.
var testSigningKey = []byte("nexus-test-signing-key")

// SignTestToken returns an HS256 token shaped like the backend's, expiring at expiresAt.
// For unit tests only.
func SignTestToken(userID, role string, expiresAt time.Time) string {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Role:   role,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		panic(err)
	}
	return s
}
