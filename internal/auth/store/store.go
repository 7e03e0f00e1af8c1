package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories; a Tx exposes the same repositories bound to one
// transaction and refuses to nest.
type Store interface {
	Identities() Identities
	Roles() Roles
	Permissions() Permissions
	Settings() Settings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// CreateIdentity inserts a new identity. A duplicate email returns
	// ErrAlreadyExists.
	CreateIdentity(ctx context.Context, i domain.Identity) error

	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail expects an already normalised (lowercased) email.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	UpdateName(ctx context.Context, id, name string) error

	// UpdateRole sets or, with nil, clears the identity's role.
	UpdateRole(ctx context.Context, id string, roleID *string) error

	UpdateSuspended(ctx context.Context, id string, suspended bool) error

	// CountByRole reports how many identities reference roleID.
	CountByRole(ctx context.Context, roleID string) (int64, error)

	// IsEmpty returns true if there are no identities.
	IsEmpty(ctx context.Context) (bool, error)

	// AppendRefreshToken adds token to the identity's history and truncates
	// it to the newest domain.RefreshHistoryLimit entries in one atomic
	// statement. Returns ErrNotFound if the identity does not exist.
	AppendRefreshToken(ctx context.Context, identityID, token string, expiresAt time.Time) error

	// HasRefreshToken reports whether token is still in the history.
	HasRefreshToken(ctx context.Context, identityID, token string) (bool, error)

	// ListRefreshTokens returns the history oldest first.
	ListRefreshTokens(ctx context.Context, identityID string) ([]string, error)

	// DeleteExpiredRefreshTokens is housekeeping. Returns the rows removed.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Roles interface {
	// CreateRole inserts the role together with its permission links, taken
	// from r.Permissions by id. A duplicate name returns ErrAlreadyExists.
	CreateRole(ctx context.Context, r domain.Role) error

	// GetRoleByID returns the role with permissions expanded.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListRoles returns every role with permissions expanded, by name.
	ListRoles(ctx context.Context) ([]domain.Role, error)

	// UpdateRole renames the role and, when permissionIDs is non-nil,
	// replaces its permission set.
	UpdateRole(ctx context.Context, id, name string, permissionIDs []string) error

	DeleteRole(ctx context.Context, id string) error
}

type Permissions interface {
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
	GetPermissionByName(ctx context.Context, name string) (domain.Permission, error)
}

type Settings interface {
	// GetSettings returns ErrNotFound until settings were first saved.
	GetSettings(ctx context.Context) (domain.Settings, error)

	// UpsertSettings applies a partial update; nil fields keep their stored
	// value, or take the defaults when no settings exist yet.
	UpsertSettings(ctx context.Context, siteName, primaryColor *string) (domain.Settings, error)
}
