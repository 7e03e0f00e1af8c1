package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/store/drivers/sqlite/gen"
)

type identitiesRepo struct {
	q *gen.Queries
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	err := r.q.CreateIdentity(ctx, gen.CreateIdentityParams{
		ID:           i.ID,
		Email:        i.Email,
		Name:         i.Name,
		PasswordHash: i.PasswordHash,
		RoleID:       mapOptionalString(i.RoleID),
		Type:         i.Type,
		Suspended:    i.Suspended,
	})
	return mapConstraint(err)
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByID(ctx, id)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) UpdateName(ctx context.Context, id, name string) error {
	return requireRow(r.q.UpdateIdentityName(ctx, gen.UpdateIdentityNameParams{Name: name, ID: id}))
}

func (r *identitiesRepo) UpdateRole(ctx context.Context, id string, roleID *string) error {
	return requireRow(r.q.UpdateIdentityRole(ctx, gen.UpdateIdentityRoleParams{
		RoleID: mapOptionalString(roleID),
		ID:     id,
	}))
}

func (r *identitiesRepo) UpdateSuspended(ctx context.Context, id string, suspended bool) error {
	return requireRow(r.q.UpdateIdentitySuspended(ctx, gen.UpdateIdentitySuspendedParams{
		Suspended: suspended,
		ID:        id,
	}))
}

func (r *identitiesRepo) CountByRole(ctx context.Context, roleID string) (int64, error) {
	return r.q.CountIdentitiesByRole(ctx, sql.NullString{String: roleID, Valid: true})
}

func (r *identitiesRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.q.CountIdentities(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *identitiesRepo) AppendRefreshToken(
	ctx context.Context,
	identityID, token string,
	expiresAt time.Time,
) error {
	return requireRow(r.q.AppendRefreshToken(ctx, gen.AppendRefreshTokenParams{
		Token:      token,
		ExpiresAt:  expiresAt.Unix(),
		IdentityID: identityID,
	}))
}

func (r *identitiesRepo) HasRefreshToken(ctx context.Context, identityID, token string) (bool, error) {
	n, err := r.q.HasRefreshToken(ctx, gen.HasRefreshTokenParams{IdentityID: identityID, Token: token})
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func (r *identitiesRepo) ListRefreshTokens(ctx context.Context, identityID string) ([]string, error) {
	return r.q.ListRefreshTokens(ctx, identityID)
}

func (r *identitiesRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredRefreshTokens(ctx, now.Unix())
}
