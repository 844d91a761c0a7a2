package tenancy

import (
	"context"
	"sync"
	"time"
)

// Cache is the interface for tenant caching implementations.
type Cache interface {
	// Get retrieves a tenant from cache by ID.
	Get(ctx context.Context, id int64) (*Tenant, bool)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, tenant *Tenant, ttl time.Duration)

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, id int64)
}

// DefaultCacheSize is the default maximum number of cached tenants.
const DefaultCacheSize = 1000

type cacheItem struct {
	tenant    *Tenant
	expiresAt time.Time
}

// memoryCache is the default in-memory cache. Entries expire by TTL and
// the oldest entry is evicted when the size limit is reached.
type memoryCache struct {
	mu      sync.Mutex
	items   map[int64]cacheItem
	order   []int64
	maxSize int
}

// NewMemoryCache creates an in-memory tenant cache with the default size.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory tenant cache holding at most
// maxSize entries.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &memoryCache{
		items:   make(map[int64]cacheItem),
		maxSize: maxSize,
	}
}

func (c *memoryCache) Get(ctx context.Context, id int64) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, id)
		c.dropOrder(id)
		return nil, false
	}
	return item.tenant, true
}

func (c *memoryCache) Set(ctx context.Context, tenant *Tenant, ttl time.Duration) {
	if tenant == nil || tenant.ID == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[tenant.ID]; !exists && len(c.items) >= c.maxSize {
		if len(c.order) > 0 {
			evict := c.order[0]
			c.order = c.order[1:]
			delete(c.items, evict)
		}
	}

	c.items[tenant.ID] = cacheItem{
		tenant:    tenant,
		expiresAt: time.Now().Add(ttl),
	}
	c.dropOrder(tenant.ID)
	c.order = append(c.order, tenant.ID)
}

func (c *memoryCache) Delete(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, id)
	c.dropOrder(id)
}

func (c *memoryCache) dropOrder(id int64) {
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// noOpCache disables caching, useful for testing or when caching is
// unwanted.
type noOpCache struct{}

// NewNoOpCache creates a cache that never caches.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (noOpCache) Get(ctx context.Context, id int64) (*Tenant, bool) { return nil, false }

func (noOpCache) Set(ctx context.Context, tenant *Tenant, ttl time.Duration) {}

func (noOpCache) Delete(ctx context.Context, id int64) {}

// CachedRepository is a read-through Repository decorator that caches
// FindByID lookups. All other operations hit the inner repository
// directly; SetCurrentTenant passes through untouched because it affects
// users, not tenants.
type CachedRepository struct {
	Repository

	cache Cache
	ttl   time.Duration
}

// NewCachedRepository wraps a repository with the cache. A zero ttl
// defaults to five minutes.
func NewCachedRepository(inner Repository, cache Cache, ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{
		Repository: inner,
		cache:      cache,
		ttl:        ttl,
	}
}

// FindByID serves cached tenants, falling back to the inner repository and
// populating the cache on miss.
func (r *CachedRepository) FindByID(ctx context.Context, id int64) (*Tenant, error) {
	if tenant, ok := r.cache.Get(ctx, id); ok {
		return tenant, nil
	}

	tenant, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, tenant, r.ttl)
	return tenant, nil
}

// Invalidate evicts one tenant, for callers that mutate tenant records
// out of band.
func (r *CachedRepository) Invalidate(ctx context.Context, id int64) {
	r.cache.Delete(ctx, id)
}
