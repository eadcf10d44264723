// Package auth authenticates institutions and issues access tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// Claims carried in access tokens.
type Claims struct {
	InstitutionID string `json:"institutionId"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	IsAdmin       bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer with an HMAC secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for an authenticated institution.
func (t *TokenIssuer) Issue(institutionID id.ID, username, name string, isAdmin bool) (string, time.Time, error) {
	now := t.now().UTC()
	expires := now.Add(t.ttl)

	claims := Claims{
		InstitutionID: institutionID.String(),
		Username:      username,
		Name:          name,
		IsAdmin:       isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   institutionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses a token and returns its claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperror.NewUnauthorized("invalid token claims")
	}
	return claims, nil
}
