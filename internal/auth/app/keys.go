package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/pkg/cryptox"
	"github.com/aussiebroadwan/gatekeeper/pkg/jwtx"
)

// ErrSharedSecret is returned when access and refresh tokens would be
// signed with the same secret, letting one pass as the other.
var ErrSharedSecret = errors.New("access and refresh token secrets must differ")

// TokenKeys are the two independent HS256 keys.
type TokenKeys struct {
	Access  *jwtx.HS256
	Refresh *jwtx.HS256
}

// InitTokenKeys builds the signing keys from configuration.
//
// Unset secrets are replaced by random ones generated for this process.
// Tokens issued in that mode become invalid when the service restarts.
func InitTokenKeys(cfg Config, logger *slog.Logger) (*TokenKeys, error) {
	accessSecret, err := secretOrEphemeral(cfg.AccessTokenSecret, "ACCESS_TOKEN_SECRET", logger)
	if err != nil {
		return nil, err
	}
	refreshSecret, err := secretOrEphemeral(cfg.RefreshTokenSecret, "REFRESH_TOKEN_SECRET", logger)
	if err != nil {
		return nil, err
	}
	if accessSecret == refreshSecret {
		return nil, ErrSharedSecret
	}

	access, err := jwtx.NewHS256([]byte(accessSecret), cfg.Issuer, 0)
	if err != nil {
		return nil, fmt.Errorf("access token key: %w", err)
	}
	refresh, err := jwtx.NewHS256([]byte(refreshSecret), cfg.Issuer, 0)
	if err != nil {
		return nil, fmt.Errorf("refresh token key: %w", err)
	}

	logger.Info("token keys ready",
		slog.String("algorithm", access.Alg()),
		slog.String("issuer", cfg.Issuer),
	)
	return &TokenKeys{Access: access, Refresh: refresh}, nil
}

func secretOrEphemeral(secret, envName string, logger *slog.Logger) (string, error) {
	if secret != "" {
		return secret, nil
	}
	generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", envName, err)
	}
	logger.Warn("token secret not configured, using an ephemeral one; tokens will not survive a restart",
		slog.String("env", envName),
	)
	return generated, nil
}

// UserTypes validates the configured identity types. The first entry is the
// elevated type.
func UserTypes(cfg Config) (domain.UserTypes, error) {
	if len(cfg.UserTypes) == 0 {
		return domain.UserTypes{}, errors.New("USER_TYPES must name at least one type")
	}

	types := domain.UserTypes{
		All:      cfg.UserTypes,
		Elevated: cfg.UserTypes[0],
		Default:  cfg.DefaultUserType,
		Staff:    cfg.StaffUserType,
	}
	if !types.Valid(types.Default) {
		return domain.UserTypes{}, fmt.Errorf("DEFAULT_USER_TYPE %q is not in USER_TYPES", types.Default)
	}
	if types.Default == types.Elevated {
		return domain.UserTypes{}, fmt.Errorf("DEFAULT_USER_TYPE %q must not be the elevated type", types.Default)
	}
	if types.Staff != "" && !types.Valid(types.Staff) {
		return domain.UserTypes{}, fmt.Errorf("STAFF_USER_TYPE %q is not in USER_TYPES", types.Staff)
	}
	return types, nil
}
