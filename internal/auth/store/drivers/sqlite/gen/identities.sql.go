package gen

import (
	"context"
	"database/sql"
)

const countIdentities = `-- name: CountIdentities :one
SELECT COUNT(*) FROM identities
`

func (q *Queries) CountIdentities(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countIdentities)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countIdentitiesByRole = `-- name: CountIdentitiesByRole :one
SELECT COUNT(*) FROM identities WHERE role_id = ?
`

func (q *Queries) CountIdentitiesByRole(ctx context.Context, roleID sql.NullString) (int64, error) {
	row := q.db.QueryRowContext(ctx, countIdentitiesByRole, roleID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createIdentity = `-- name: CreateIdentity :exec
INSERT INTO identities (id, email, name, password_hash, role_id, type, suspended)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateIdentityParams struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	RoleID       sql.NullString
	Type         string
	Suspended    bool
}

func (q *Queries) CreateIdentity(ctx context.Context, arg CreateIdentityParams) error {
	_, err := q.db.ExecContext(ctx, createIdentity,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.PasswordHash,
		arg.RoleID,
		arg.Type,
		arg.Suspended,
	)
	return err
}

const getIdentityByEmail = `-- name: GetIdentityByEmail :one
SELECT id, email, name, password_hash, role_id, type, suspended, created_at, updated_at
FROM identities
WHERE email = ?
`

func (q *Queries) GetIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	row := q.db.QueryRowContext(ctx, getIdentityByEmail, email)
	var i Identity
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.RoleID,
		&i.Type,
		&i.Suspended,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getIdentityByID = `-- name: GetIdentityByID :one
SELECT id, email, name, password_hash, role_id, type, suspended, created_at, updated_at
FROM identities
WHERE id = ?
`

func (q *Queries) GetIdentityByID(ctx context.Context, id string) (Identity, error) {
	row := q.db.QueryRowContext(ctx, getIdentityByID, id)
	var i Identity
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.RoleID,
		&i.Type,
		&i.Suspended,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateIdentityName = `-- name: UpdateIdentityName :execrows
UPDATE identities SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

type UpdateIdentityNameParams struct {
	Name string
	ID   string
}

func (q *Queries) UpdateIdentityName(ctx context.Context, arg UpdateIdentityNameParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateIdentityName, arg.Name, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateIdentityRole = `-- name: UpdateIdentityRole :execrows
UPDATE identities SET role_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

type UpdateIdentityRoleParams struct {
	RoleID sql.NullString
	ID     string
}

func (q *Queries) UpdateIdentityRole(ctx context.Context, arg UpdateIdentityRoleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateIdentityRole, arg.RoleID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateIdentitySuspended = `-- name: UpdateIdentitySuspended :execrows
UPDATE identities SET suspended = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

type UpdateIdentitySuspendedParams struct {
	Suspended bool
	ID        string
}

func (q *Queries) UpdateIdentitySuspended(ctx context.Context, arg UpdateIdentitySuspendedParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateIdentitySuspended, arg.Suspended, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
