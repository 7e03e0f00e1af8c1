package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite"
)

func newMockStore(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.FromDB(db), mock
}

func TestAppendRefreshTokenIsOneStatement(t *testing.T) {
	ctx := context.Background()
	exp := time.Unix(1_700_000_000, 0)

	t.Run("appended", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO refresh_tokens .* SELECT id, \?, \? FROM identities WHERE id = \?`).
			WithArgs("Bearer tok", exp.Unix(), "u1").
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, s.Identities().AppendRefreshToken(ctx, "u1", "Bearer tok", exp))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown identity", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO refresh_tokens`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Identities().AppendRefreshToken(ctx, "ghost", "Bearer tok", exp)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error passes through", func(t *testing.T) {
		s, mock := newMockStore(t)
		boom := errors.New("disk I/O error")
		mock.ExpectExec(`INSERT INTO refresh_tokens`).WillReturnError(boom)

		err := s.Identities().AppendRefreshToken(ctx, "u1", "Bearer tok", exp)
		require.ErrorIs(t, err, boom)
	})
}

func TestUpdateRoleRollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("constraint")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE roles SET name`).
		WithArgs("Lead", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM role_permissions`).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO role_permissions`).
		WithArgs("r1", "p1").
		WillReturnError(boom)
	mock.ExpectRollback()

	err := s.Roles().UpdateRole(context.Background(), "r1", "Lead", []string{"p1"})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
