package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
)

type countingLister struct {
	calls atomic.Int32
	delay time.Duration

	mu    sync.Mutex
	perms []domain.Permission
	err   error
}

func (l *countingLister) ListPermissions(context.Context) ([]domain.Permission, error) {
	l.calls.Add(1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.perms, l.err
}

func (l *countingLister) set(perms []domain.Permission, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.perms, l.err = perms, err
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var catalog = []domain.Permission{
	{ID: "2", Name: "role_view", Label: "View", Module: "role"},
	{ID: "1", Name: "role_edit", Label: "Edit", Module: "role"},
}

func newCache(l PermissionLister, clock *fakeClock) *PermissionCache {
	return NewPermissionCache(l, 5*time.Minute, discardLogger(), WithClock(clock.Now))
}

func TestPermissionCacheWindow(t *testing.T) {
	ctx := context.Background()
	lister := &countingLister{perms: catalog}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := newCache(lister, clock)

	require.False(t, cache.Stats().Loaded)

	first, err := cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"role_edit", "role_view"}, names(first))

	clock.Advance(4 * time.Minute)
	second, err := cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, lister.calls.Load(), "no second read inside the window")

	clock.Advance(time.Minute)
	_, err = cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, lister.calls.Load(), "still fresh at exactly the window")

	clock.Advance(time.Second)
	_, err = cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, lister.calls.Load(), "exactly one refresh after the window")

	stats := cache.Stats()
	require.True(t, stats.Loaded)
	require.Equal(t, 2, stats.Size)
	require.Equal(t, clock.Now(), stats.RefreshedAt)
}

func TestPermissionCacheLookups(t *testing.T) {
	ctx := context.Background()
	cache := newCache(&countingLister{perms: catalog}, &fakeClock{now: time.Now()})

	p, ok, err := cache.GetPermissionByName(ctx, "role_edit")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", p.ID)

	ok, err = cache.HasPermission(ctx, "role_delete")
	require.NoError(t, err)
	require.False(t, ok)

	ids, unknown, err := cache.Resolve(ctx, []string{"role_view", "nope", "role_edit"})
	require.NoError(t, err)
	require.Equal(t, []string{"2", "1"}, ids)
	require.Equal(t, []string{"nope"}, unknown)
}

func TestPermissionCacheFailureKeepsContents(t *testing.T) {
	ctx := context.Background()
	lister := &countingLister{perms: catalog}
	clock := &fakeClock{now: time.Now()}
	cache := newCache(lister, clock)

	_, err := cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	loadedAt := cache.Stats().RefreshedAt

	lister.set(nil, errors.New("database is locked"))
	clock.Advance(10 * time.Minute)

	perms, err := cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	require.Equal(t, loadedAt, cache.Stats().RefreshedAt)

	// Still stale, so the next read retries and recovers.
	lister.set(catalog[:1], nil)
	perms, err = cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	require.EqualValues(t, 3, lister.calls.Load())
}

func TestPermissionCacheFailureBeforeFirstLoad(t *testing.T) {
	boom := errors.New("no such table: permissions")
	cache := newCache(&countingLister{err: boom}, &fakeClock{now: time.Now()})

	_, err := cache.GetAllPermissions(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, cache.Stats().Loaded)
}

func TestPermissionCacheClear(t *testing.T) {
	ctx := context.Background()
	lister := &countingLister{perms: catalog}
	cache := newCache(lister, &fakeClock{now: time.Now()})

	_, err := cache.GetAllPermissions(ctx)
	require.NoError(t, err)

	cache.Clear()
	require.Equal(t, CacheStats{}, cache.Stats())

	_, err = cache.GetAllPermissions(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, lister.calls.Load())
}

func TestPermissionCacheCoalescesConcurrentRefresh(t *testing.T) {
	lister := &countingLister{perms: catalog, delay: 50 * time.Millisecond}
	cache := newCache(lister, &fakeClock{now: time.Now()})

	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			perms, err := cache.GetAllPermissions(context.Background())
			assert.NoError(t, err)
			assert.Len(t, perms, 2)
		})
	}
	wg.Wait()

	require.EqualValues(t, 1, lister.calls.Load())
}

func TestPermissionCacheAgainstStore(t *testing.T) {
	s := newTestStore(t)
	cache := NewPermissionCache(s.Permissions(), time.Minute, discardLogger())

	perms, err := cache.GetAllPermissions(context.Background())
	require.NoError(t, err)
	require.Len(t, perms, 28)
}

func names(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = p.Name
	}
	return out
}
