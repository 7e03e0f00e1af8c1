package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aussiebroadwan/gatekeeper/internal/auth/domain"
	"github.com/aussiebroadwan/gatekeeper/internal/auth/obs"
	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
)

// DefaultPermissionCacheWindow bounds how stale the cache may get.
const DefaultPermissionCacheWindow = 5 * time.Minute

// PermissionLister is the store read the cache sits in front of.
type PermissionLister interface {
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
}

// CacheStats is a point-in-time view of the cache.
type CacheStats struct {
	Loaded      bool
	Size        int
	RefreshedAt time.Time
}

// PermissionCache is a process-wide read-through cache of the permission
// catalog. It starts empty, loads on first read, reloads wholesale once the
// window has passed since the last successful refresh, and empties only on
// Clear. Concurrent readers that find it stale share one store read.
type PermissionCache struct {
	source  PermissionLister
	window  time.Duration
	logger  *slog.Logger
	metrics *obs.Metrics
	now     func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	all         []domain.Permission
	byName      map[string]domain.Permission
	loaded      bool
	refreshedAt time.Time
}

type CacheOption func(*PermissionCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *PermissionCache) { c.now = now }
}

func WithCacheMetrics(m *obs.Metrics) CacheOption {
	return func(c *PermissionCache) { c.metrics = m }
}

func NewPermissionCache(
	source PermissionLister,
	window time.Duration,
	logger *slog.Logger,
	opts ...CacheOption,
) *PermissionCache {
	if window <= 0 {
		window = DefaultPermissionCacheWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &PermissionCache{
		source: source,
		window: window,
		logger: logger,
		now:    time.Now,
		byName: map[string]domain.Permission{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAllPermissions returns the catalog ordered by name.
func (c *PermissionCache) GetAllPermissions(ctx context.Context) ([]domain.Permission, error) {
	if perms, ok := c.fresh(); ok {
		return perms, nil
	}

	// The flight outlives any single caller's cancellation.
	v, err, _ := c.group.Do("refresh", func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.Permission)), nil
}

// GetPermissionByName reports the permission called name, if any.
func (c *PermissionCache) GetPermissionByName(ctx context.Context, name string) (domain.Permission, bool, error) {
	if _, err := c.GetAllPermissions(ctx); err != nil {
		return domain.Permission{}, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byName[name]
	return p, ok, nil
}

func (c *PermissionCache) HasPermission(ctx context.Context, name string) (bool, error) {
	_, ok, err := c.GetPermissionByName(ctx, name)
	return ok, err
}

// Resolve maps permission names to ids. Names not in the catalog are
// returned in unknown, in input order.
func (c *PermissionCache) Resolve(ctx context.Context, names []string) (ids, unknown []string, err error) {
	if _, err := c.GetAllPermissions(ctx); err != nil {
		return nil, nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range names {
		p, ok := c.byName[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids, unknown, nil
}

// Clear drops the contents; the next read reloads.
func (c *PermissionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = nil
	c.byName = map[string]domain.Permission{}
	c.loaded = false
	c.refreshedAt = time.Time{}
}

func (c *PermissionCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Loaded: c.loaded, Size: len(c.all), RefreshedAt: c.refreshedAt}
}

func (c *PermissionCache) fresh() ([]domain.Permission, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded || c.now().Sub(c.refreshedAt) > c.window {
		return nil, false
	}
	return slices.Clone(c.all), true
}

// refresh reloads from the source. On failure a previously loaded catalog is
// kept and served, and refreshedAt is left alone so the next read retries.
// A cache that never loaded has nothing to fall back on and returns the
// error.
func (c *PermissionCache) refresh(ctx context.Context) ([]domain.Permission, error) {
	// A flight that finished just before this one started may have done
	// the work already.
	if perms, ok := c.fresh(); ok {
		return perms, nil
	}

	perms, err := c.source.ListPermissions(ctx)
	c.metrics.CacheRefreshed(err)
	if err != nil {
		c.mu.RLock()
		prev, loaded := c.all, c.loaded
		c.mu.RUnlock()

		c.logger.Warn("permission cache refresh failed",
			slogx.Err(err),
			slog.Bool("serving_stale", loaded),
		)
		if !loaded {
			return nil, err
		}
		return prev, nil
	}

	sorted := slices.Clone(perms)
	slices.SortFunc(sorted, func(a, b domain.Permission) int {
		return strings.Compare(a.Name, b.Name)
	})
	byName := make(map[string]domain.Permission, len(sorted))
	for _, p := range sorted {
		byName[p.Name] = p
	}

	c.mu.Lock()
	c.all = sorted
	c.byName = byName
	c.loaded = true
	c.refreshedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("permission cache refreshed", slog.Int("size", len(sorted)))
	return sorted, nil
}
