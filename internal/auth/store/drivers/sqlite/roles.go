package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite/gen"
)

type rolesRepo struct {
	q *gen.Queries

	// db is set outside transactions so multi-statement writes can open
	// their own. Inside a txStore it is nil and q is already transactional.
	db *sql.DB
}

// atomic runs fn in a transaction unless the repo is already in one.
func (r *rolesRepo) atomic(ctx context.Context, fn func(q *gen.Queries) error) error {
	if r.db == nil {
		return fn(r.q)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(r.q.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	return r.atomic(ctx, func(q *gen.Queries) error {
		if err := q.CreateRole(ctx, gen.CreateRoleParams{ID: role.ID, Name: role.Name}); err != nil {
			return mapConstraint(err)
		}
		return addPermissions(ctx, q, role.ID, permissionIDs(role.Permissions))
	})
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row, err := r.q.GetRoleByID(ctx, id)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return r.expand(ctx, row)
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row, err := r.q.GetRoleByName(ctx, name)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return r.expand(ctx, row)
}

func (r *rolesRepo) expand(ctx context.Context, row gen.Role) (domain.Role, error) {
	rows, err := r.q.ListRolePermissions(ctx, row.ID)
	if err != nil {
		return domain.Role{}, err
	}

	perms := make([]domain.Permission, len(rows))
	for i, p := range rows {
		perms[i] = domain.Permission{ID: p.ID, Name: p.Name, Label: p.Label, Module: p.Module}
	}
	return mapRole(row, perms), nil
}

// ListRoles expands permissions with one join instead of a query per role.
func (r *rolesRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.q.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	links, err := r.q.ListAllRolePermissions(ctx)
	if err != nil {
		return nil, err
	}
	byRole := make(map[string][]domain.Permission, len(rows))
	for _, l := range links {
		byRole[l.RoleID] = append(byRole[l.RoleID], domain.Permission{
			ID:     l.ID,
			Name:   l.Name,
			Label:  l.Label,
			Module: l.Module,
		})
	}

	roles := make([]domain.Role, len(rows))
	for i, row := range rows {
		roles[i] = mapRole(row, byRole[row.ID])
	}
	return roles, nil
}

func (r *rolesRepo) UpdateRole(ctx context.Context, id, name string, permissionIDs []string) error {
	return r.atomic(ctx, func(q *gen.Queries) error {
		n, err := q.UpdateRoleName(ctx, gen.UpdateRoleNameParams{Name: name, ID: id})
		if err := requireRow(n, mapConstraint(err)); err != nil {
			return err
		}
		if permissionIDs == nil {
			return nil
		}
		if err := q.ClearRolePermissions(ctx, id); err != nil {
			return err
		}
		return addPermissions(ctx, q, id, permissionIDs)
	})
}

func (r *rolesRepo) DeleteRole(ctx context.Context, id string) error {
	// role_permissions rows cascade.
	return requireRow(r.q.DeleteRole(ctx, id))
}

func addPermissions(ctx context.Context, q *gen.Queries, roleID string, ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, pid := range ids {
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}

		err := q.AddRolePermission(ctx, gen.AddRolePermissionParams{RoleID: roleID, PermissionID: pid})
		if err != nil {
			return err
		}
	}
	return nil
}

func permissionIDs(perms []domain.Permission) []string {
	ids := make([]string, len(perms))
	for i, p := range perms {
		ids[i] = p.ID
	}
	return ids
}
