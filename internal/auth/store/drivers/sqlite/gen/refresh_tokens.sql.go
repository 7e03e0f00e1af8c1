package gen

import (
	"context"
)

const appendRefreshToken = `-- name: AppendRefreshToken :execrows
INSERT INTO refresh_tokens (identity_id, token, expires_at)
SELECT id, ?, ? FROM identities WHERE id = ?
`

type AppendRefreshTokenParams struct {
	Token      string
	ExpiresAt  int64
	IdentityID string
}

// Appends to the history only if the identity exists. The
// refresh_tokens_keep_last_10 trigger truncates within the same statement.
func (q *Queries) AppendRefreshToken(ctx context.Context, arg AppendRefreshTokenParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, appendRefreshToken, arg.Token, arg.ExpiresAt, arg.IdentityID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpiredRefreshTokens = `-- name: DeleteExpiredRefreshTokens :execrows
DELETE FROM refresh_tokens WHERE expires_at <= ?
`

func (q *Queries) DeleteExpiredRefreshTokens(ctx context.Context, expiresAt int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredRefreshTokens, expiresAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const hasRefreshToken = `-- name: HasRefreshToken :one
SELECT EXISTS (
    SELECT 1 FROM refresh_tokens WHERE identity_id = ? AND token = ?
)
`

type HasRefreshTokenParams struct {
	IdentityID string
	Token      string
}

func (q *Queries) HasRefreshToken(ctx context.Context, arg HasRefreshTokenParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, hasRefreshToken, arg.IdentityID, arg.Token)
	var column_1 int64
	err := row.Scan(&column_1)
	return column_1, err
}

const listRefreshTokens = `-- name: ListRefreshTokens :many
SELECT token FROM refresh_tokens WHERE identity_id = ? ORDER BY id
`

func (q *Queries) ListRefreshTokens(ctx context.Context, identityID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listRefreshTokens, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		items = append(items, token)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
