package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claim names carried by tokens from the authentication endpoint.
const (
	claimEntityNumber = "entityNumber"
	claimName         = "name"
)

// Defaults used when a token omits an expected claim.
const (
	DefaultUserID      = "0"
	DefaultDisplayName = "User"
)

// TokenClaims is the subset of token claims the portal reads.
type TokenClaims struct {
	EntityNumber string
	Name         string
}

// ParseClaims decodes token without checking its signature; the API validates
// signatures. Missing claims fall back to DefaultUserID and DefaultDisplayName.
func ParseClaims(token string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("decode token: %w", err)
	}
	return TokenClaims{
		EntityNumber: claimString(claims, claimEntityNumber, DefaultUserID),
		Name:         claimString(claims, claimName, DefaultDisplayName),
	}, nil
}

func claimString(claims jwt.MapClaims, name, fallback string) string {
	switch v := claims[name].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fallback
}

// TokenIssuer signs the development tokens handed out by the offline operator.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds a new issuer.
func NewTokenIssuer(secret string, ttlMinutes int) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret required")
	}
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenIssuer{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}, nil
}

type issuedClaims struct {
	EntityNumber string `json:"entityNumber"`
	Name         string `json:"name"`
	jwt.RegisteredClaims
}

// Issue signs a token carrying the same claims the API puts in its tokens.
func (ti *TokenIssuer) Issue(entityNumber, name string) (string, error) {
	now := time.Now()
	claims := &issuedClaims{
		EntityNumber: entityNumber,
		Name:         name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   entityNumber,
			Issuer:    "hospital-portal-offline",
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}
