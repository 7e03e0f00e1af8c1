package gen

import (
	"context"
)

const getPermissionByID = `-- name: GetPermissionByID :one
SELECT id, name, label, module FROM permissions WHERE id = ?
`

type GetPermissionByIDRow struct {
	ID     string
	Name   string
	Label  string
	Module string
}

func (q *Queries) GetPermissionByID(ctx context.Context, id string) (GetPermissionByIDRow, error) {
	row := q.db.QueryRowContext(ctx, getPermissionByID, id)
	var i GetPermissionByIDRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Label,
		&i.Module,
	)
	return i, err
}

const getPermissionByName = `-- name: GetPermissionByName :one
SELECT id, name, label, module FROM permissions WHERE name = ?
`

type GetPermissionByNameRow struct {
	ID     string
	Name   string
	Label  string
	Module string
}

func (q *Queries) GetPermissionByName(ctx context.Context, name string) (GetPermissionByNameRow, error) {
	row := q.db.QueryRowContext(ctx, getPermissionByName, name)
	var i GetPermissionByNameRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Label,
		&i.Module,
	)
	return i, err
}

const listPermissions = `-- name: ListPermissions :many
SELECT id, name, label, module FROM permissions ORDER BY module, name
`

type ListPermissionsRow struct {
	ID     string
	Name   string
	Label  string
	Module string
}

func (q *Queries) ListPermissions(ctx context.Context) ([]ListPermissionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPermissions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListPermissionsRow{}
	for rows.Next() {
		var i ListPermissionsRow
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
