package gen

import (
	"context"
)

const addRolePermission = `-- name: AddRolePermission :exec
INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)
`

type AddRolePermissionParams struct {
	RoleID       string
	PermissionID string
}

func (q *Queries) AddRolePermission(ctx context.Context, arg AddRolePermissionParams) error {
	_, err := q.db.ExecContext(ctx, addRolePermission, arg.RoleID, arg.PermissionID)
	return err
}

const clearRolePermissions = `-- name: ClearRolePermissions :exec
DELETE FROM role_permissions WHERE role_id = ?
`

func (q *Queries) ClearRolePermissions(ctx context.Context, roleID string) error {
	_, err := q.db.ExecContext(ctx, clearRolePermissions, roleID)
	return err
}

const createRole = `-- name: CreateRole :exec
INSERT INTO roles (id, name) VALUES (?, ?)
`

type CreateRoleParams struct {
	ID   string
	Name string
}

func (q *Queries) CreateRole(ctx context.Context, arg CreateRoleParams) error {
	_, err := q.db.ExecContext(ctx, createRole, arg.ID, arg.Name)
	return err
}

const deleteRole = `-- name: DeleteRole :execrows
DELETE FROM roles WHERE id = ?
`

func (q *Queries) DeleteRole(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteRole, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getRoleByID = `-- name: GetRoleByID :one
SELECT id, name, created_at, updated_at FROM roles WHERE id = ?
`

func (q *Queries) GetRoleByID(ctx context.Context, id string) (Role, error) {
	row := q.db.QueryRowContext(ctx, getRoleByID, id)
	var i Role
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getRoleByName = `-- name: GetRoleByName :one
SELECT id, name, created_at, updated_at FROM roles WHERE name = ?
`

func (q *Queries) GetRoleByName(ctx context.Context, name string) (Role, error) {
	row := q.db.QueryRowContext(ctx, getRoleByName, name)
	var i Role
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAllRolePermissions = `-- name: ListAllRolePermissions :many
SELECT rp.role_id, p.id, p.name, p.label, p.module
FROM role_permissions rp
JOIN permissions p ON p.id = rp.permission_id
ORDER BY rp.role_id, p.name
`

type ListAllRolePermissionsRow struct {
	RoleID string
	ID     string
	Name   string
	Label  string
	Module string
}

func (q *Queries) ListAllRolePermissions(ctx context.Context) ([]ListAllRolePermissionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listAllRolePermissions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListAllRolePermissionsRow{}
	for rows.Next() {
		var i ListAllRolePermissionsRow
		if err := rows.Scan(
			&i.RoleID,
			&i.ID,
			&i.Name,
			&i.Label,
			&i.Module,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRolePermissions = `-- name: ListRolePermissions :many
SELECT p.id, p.name, p.label, p.module
FROM permissions p
JOIN role_permissions rp ON rp.permission_id = p.id
WHERE rp.role_id = ?
ORDER BY p.name
`

type ListRolePermissionsRow struct {
	ID     string
	Name   string
	Label  string
	Module string
}

func (q *Queries) ListRolePermissions(ctx context.Context, roleID string) ([]ListRolePermissionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listRolePermissions, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListRolePermissionsRow{}
	for rows.Next() {
		var i ListRolePermissionsRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Label,
			&i.Module,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRoles = `-- name: ListRoles :many
SELECT id, name, created_at, updated_at FROM roles ORDER BY name
`

func (q *Queries) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := q.db.QueryContext(ctx, listRoles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Role{}
	for rows.Next() {
		var i Role
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateRoleName = `-- name: UpdateRoleName :execrows
UPDATE roles SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

type UpdateRoleNameParams struct {
	Name string
	ID   string
}

func (q *Queries) UpdateRoleName(ctx context.Context, arg UpdateRoleNameParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateRoleName, arg.Name, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
