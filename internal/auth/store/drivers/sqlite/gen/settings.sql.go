package gen

import (
	"context"
	"database/sql"
	"time"
)

const getSettings = `-- name: GetSettings :one
SELECT site_name, primary_color, updated_at FROM settings WHERE id = 1
`

type GetSettingsRow struct {
	SiteName     string
	PrimaryColor string
	UpdatedAt    time.Time
}

func (q *Queries) GetSettings(ctx context.Context) (GetSettingsRow, error) {
	row := q.db.QueryRowContext(ctx, getSettings)
	var i GetSettingsRow
	err := row.Scan(&i.SiteName, &i.PrimaryColor, &i.UpdatedAt)
	return i, err
}

const upsertSettings = `-- name: UpsertSettings :exec
INSERT INTO settings (id, site_name, primary_color, updated_at)
VALUES (1, COALESCE(?1, ?3), COALESCE(?2, ?4), CURRENT_TIMESTAMP)
ON CONFLICT (id) DO UPDATE SET
    site_name     = COALESCE(?1, settings.site_name),
    primary_color = COALESCE(?2, settings.primary_color),
    updated_at    = CURRENT_TIMESTAMP
`

type UpsertSettingsParams struct {
	SiteName            sql.NullString
	PrimaryColor        sql.NullString
	DefaultSiteName     string
	DefaultPrimaryColor string
}

// Partial upsert: NULL arguments keep the stored value, or fall back to the
// defaults when no row exists yet.
func (q *Queries) UpsertSettings(ctx context.Context, arg UpsertSettingsParams) error {
	_, err := q.db.ExecContext(ctx, upsertSettings,
		arg.SiteName,
		arg.PrimaryColor,
		arg.DefaultSiteName,
		arg.DefaultPrimaryColor,
	)
	return err
}
