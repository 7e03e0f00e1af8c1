package sqlite

import (
	"context"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite/gen"
)

type permissionsRepo struct {
	q *gen.Queries
}

func (r *permissionsRepo) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	rows, err := r.q.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	perms := make([]domain.Permission, len(rows))
	for i, row := range rows {
		perms[i] = domain.Permission{ID: row.ID, Name: row.Name, Label: row.Label, Module: row.Module}
	}
	return perms, nil
}

func (r *permissionsRepo) GetPermissionByName(ctx context.Context, name string) (domain.Permission, error) {
	row, err := r.q.GetPermissionByName(ctx, name)
	if err != nil {
		return domain.Permission{}, mapNotFound(err)
	}
	return domain.Permission{ID: row.ID, Name: row.Name, Label: row.Label, Module: row.Module}, nil
}
