package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHousekeepingPurgesExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := seedIdentity(t, s, "alice@example.com", "CUSTOMER", nil)

	now := time.Now()
	require.NoError(t, s.Identities().AppendRefreshToken(ctx, alice.ID, "Bearer old", now.Add(-time.Hour)))
	require.NoError(t, s.Identities().AppendRefreshToken(ctx, alice.ID, "Bearer live", now.Add(time.Hour)))

	hk := NewHousekeepingService(s, discardLogger(), time.Hour)
	hk.Now = func() time.Time { return now }
	require.EqualValues(t, 1, hk.Cleanup(ctx))

	history, err := s.Identities().ListRefreshTokens(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Bearer live"}, history)
}

func TestHousekeepingStartStop(t *testing.T) {
	hk := NewHousekeepingService(newTestStore(t), discardLogger(), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
