package sqlite

import (
	"context"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite/gen"
)

type settingsRepo struct {
	q *gen.Queries
}

func (r *settingsRepo) GetSettings(ctx context.Context) (domain.Settings, error) {
	row, err := r.q.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, mapNotFound(err)
	}
	return domain.Settings{
		SiteName:     row.SiteName,
		PrimaryColor: row.PrimaryColor,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func (r *settingsRepo) UpsertSettings(
	ctx context.Context,
	siteName, primaryColor *string,
) (domain.Settings, error) {
	err := r.q.UpsertSettings(ctx, gen.UpsertSettingsParams{
		SiteName:            mapOptionalString(siteName),
		PrimaryColor:        mapOptionalString(primaryColor),
		DefaultSiteName:     domain.DefaultSiteName,
		DefaultPrimaryColor: domain.DefaultPrimaryColor,
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return r.GetSettings(ctx)
}
