package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/pkg/authsdk"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &UserService{Store: s}

	alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)
	admin := seedIdentity(t, s, "owner@example.com", "BUSINESS-OWNER", nil)
	role := seedRole(t, s, "Cashier", "order_view")

	t.Run("update name", func(t *testing.T) {
		got, err := svc.UpdateName(ctx, alice.ID, "  Alice ")
		require.NoError(t, err)
		require.Equal(t, "Alice", got.Name)

		_, err = svc.UpdateName(ctx, alice.ID, " ")
		require.ErrorIs(t, err, authsdk.ErrValidation)
	})

	t.Run("set and clear role", func(t *testing.T) {
		got, err := svc.SetRole(ctx, alice.ID, &role.ID)
		require.NoError(t, err)
		require.Equal(t, &role.ID, got.RoleID)

		got, err = svc.SetRole(ctx, alice.ID, ptr(""))
		require.NoError(t, err)
		require.Nil(t, got.RoleID)
	})

	t.Run("set role errors", func(t *testing.T) {
		_, err := svc.SetRole(ctx, alice.ID, ptr("missing"))
		require.ErrorIs(t, err, authsdk.ErrNotFound)
		require.Contains(t, err.Error(), "Role not found")

		_, err = svc.SetRole(ctx, "missing", &role.ID)
		require.ErrorIs(t, err, authsdk.ErrNotFound)
		require.Contains(t, err.Error(), "User not found")
	})

	t.Run("suspension", func(t *testing.T) {
		got, err := svc.SetSuspended(ctx, admin.ID, alice.ID, true)
		require.NoError(t, err)
		require.True(t, got.Suspended)

		got, err = svc.SetSuspended(ctx, admin.ID, alice.ID, false)
		require.NoError(t, err)
		require.False(t, got.Suspended)

		_, err = svc.SetSuspended(ctx, admin.ID, admin.ID, true)
		require.ErrorIs(t, err, authsdk.ErrInvalidRequest)

		_, err = svc.SetSuspended(ctx, admin.ID, "missing", true)
		require.ErrorIs(t, err, authsdk.ErrNotFound)
	})
}

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	svc := &SettingsService{Store: newTestStore(t)}

	_, err := svc.Get(ctx)
	require.ErrorIs(t, err, authsdk.ErrNotFound)

	got, err := svc.Update(ctx, ptr("  Shop  "), nil)
	require.NoError(t, err)
	require.Equal(t, "Shop", got.SiteName)
	require.Equal(t, "#cd0269", got.PrimaryColor)

	got, err = svc.Update(ctx, nil, ptr("#000"))
	require.NoError(t, err)
	require.Equal(t, "Shop", got.SiteName)
	require.Equal(t, "#000", got.PrimaryColor)

	read, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, got, read)
}
