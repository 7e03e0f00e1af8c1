package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

type SettingsService struct {
	Store store.Store
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.Store.Settings().GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Settings{}, authsdk.NotFound("Settings not found")
	}
	return settings, err
}

// Update applies a partial update; unset fields keep their value or the
// defaults on first save. Field validation happens at the boundary.
func (s *SettingsService) Update(ctx context.Context, siteName, primaryColor *string) (domain.Settings, error) {
	if siteName != nil {
		trimmed := strings.TrimSpace(*siteName)
		siteName = &trimmed
	}
	return s.Store.Settings().UpsertSettings(ctx, siteName, primaryColor)
}
