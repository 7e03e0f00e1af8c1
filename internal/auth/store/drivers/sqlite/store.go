package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. Foreign keys are enabled through the
// DSN so every pooled connection gets them. In-memory databases are pinned
// to one connection, since each connection would otherwise see its own
// empty database.
//
// File databases run in WAL mode with a busy timeout, and transactions take
// the write lock on BEGIN. A deferred transaction that reads and then writes
// cannot wait for a concurrent writer and fails with SQLITE_BUSY instead.
func NewStore(dsn string) (*Store, error) {
	dsn = withPragma(dsn, "foreign_keys(1)")
	memory := isMemoryDSN(dsn)
	if !memory {
		dsn = withPragma(dsn, "busy_timeout(5000)")
		dsn = withPragma(dsn, "journal_mode(WAL)")
		dsn = withParam(dsn, "_txlock", "immediate")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := FromDB(db)
	s.dsn = dsn
	return s, nil
}

// FromDB wraps an already open database handle.
func FromDB(db *sql.DB) *Store {
	return &Store{db: db, q: gen.New(db)}
}

// withPragma adds a _pragma parameter unless the same pragma name is already
// set, so a caller's explicit value wins.
func withPragma(dsn, pragma string) string {
	name, _, _ := strings.Cut(pragma, "(")
	if strings.Contains(dsn, "_pragma="+name+"(") {
		return dsn
	}
	return appendQuery(dsn, "_pragma="+pragma)
}

func withParam(dsn, key, value string) string {
	if strings.Contains(dsn, key+"=") {
		return dsn
	}
	return appendQuery(dsn, key+"="+value)
}

func appendQuery(dsn, kv string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + kv
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") ||
		strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Safe after commit; covers early returns and panics.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Identities() store.Identities   { return &identitiesRepo{q: s.q} }
func (s *Store) Roles() store.Roles             { return &rolesRepo{q: s.q, db: s.db} }
func (s *Store) Permissions() store.Permissions { return &permissionsRepo{q: s.q} }
func (s *Store) Settings() store.Settings       { return &settingsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns UNIQUE and PRIMARY KEY violations into ErrAlreadyExists.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// requireRow maps an :execrows result of zero to ErrNotFound.
func requireRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapIdentity(row gen.Identity) domain.Identity {
	return domain.Identity{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		RoleID:       mapNullStringPtr(row.RoleID),
		Type:         row.Type,
		Suspended:    row.Suspended,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func mapRole(row gen.Role, perms []domain.Permission) domain.Role {
	if perms == nil {
		perms = []domain.Permission{}
	}
	return domain.Role{
		ID:          row.ID,
		Name:        row.Name,
		Permissions: perms,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
