package domain

import (
	"strings"
	"time"
)

// BearerPrefix is stored in front of every refresh token in the history.
const BearerPrefix = "Bearer "

// TokenPair is what signup, signin and refresh hand back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration // access token lifetime
}

// StoredRefreshToken is the form a refresh token takes in the history.
func StoredRefreshToken(token string) string {
	return BearerPrefix + token
}

// StripBearer removes a single leading "Bearer " if present.
func StripBearer(s string) string {
	s = strings.TrimSpace(s)
	if s == strings.TrimSpace(BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(s, BearerPrefix))
}
