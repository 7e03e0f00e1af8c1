package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default lifetimes, overridable through configuration.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims are carried by short-lived access tokens. The identity id
// travels in the registered "sub" claim.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`

	// Role is the id of the identity's role, encoded as null when the
	// identity has none.
	Role *string `json:"role"`

	// Type is the identity type, e.g. "CUSTOMER".
	Type string `json:"type"`
}

// RefreshClaims deliberately carry nothing beyond the registered claims.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// NewAccessClaims builds access claims valid from now for ttl.
func NewAccessClaims(
	identityID, email string,
	roleID *string,
	identityType string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) AccessClaims {
	return AccessClaims{
		RegisteredClaims: registered(identityID, issuer, ttl, now),
		Email:            email,
		Role:             roleID,
		Type:             identityType,
	}
}

// NewRefreshClaims builds refresh claims valid from now for ttl.
func NewRefreshClaims(identityID, issuer string, ttl time.Duration, now time.Time) RefreshClaims {
	return RefreshClaims{RegisteredClaims: registered(identityID, issuer, ttl, now)}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a unique token id. Two tokens minted for the same identity
// in the same second would otherwise be byte-identical.
func NewJTI() string {
	return uuid.NewString()
}
