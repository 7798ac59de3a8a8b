// Package security inspects the bearer tokens the backend issues.
// Signatures are never verified here; the client does not hold the signing key and the backend remains the authority.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is not a well-formed JWT.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the subset of the backend's token claims the client reads.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`
}

// TokenInfo summarizes an unverified token.
type TokenInfo struct {
	UserID    string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Inspect decodes token without verifying its signature.
func Inspect(token string) (*TokenInfo, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	info := &TokenInfo{UserID: claims.UserID, Role: claims.Role}
	if info.UserID == "" {
		info.UserID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Expired reports whether token is a JWT whose exp is at or before now.
// Opaque tokens and tokens without exp are never reported expired; the backend decides for those.
func Expired(token string, now time.Time) bool {
	info, err := Inspect(token)
	if err != nil || info.ExpiresAt.IsZero() {
		return false
	}
	return !info.ExpiresAt.After(now)
}
