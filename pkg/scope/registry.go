package scope

import (
	"context"
	"sync"
)

// Registry records which entity types participate in tenant scoping.
// Registration happens once per type at startup; repositories then route
// their read and create pathways through the registry so scoping applies
// without every query author remembering to filter.
//
// The registry holds no per-request state. Query-time methods take the
// request's Filter explicitly.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tables: make(map[string]struct{}),
	}
}

// Register enrolls an entity type, keyed by its table. Registering the
// same type again is a no-op.
func (r *Registry) Register(entity Scopable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[entity.Table()] = struct{}{}
}

// Registered reports whether the entity type participates in scoping.
func (r *Registry) Registered(entity Scopable) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tables[entity.Table()]
	return ok
}

// Query builds a read operation for the entity, applying the tenant
// restriction when the type is registered. Unregistered types read
// unscoped.
func (r *Registry) Query(ctx context.Context, f *Filter, entity Scopable) (*Query, error) {
	q := NewQuery(entity.Table())
	if !r.Registered(entity) {
		return q, nil
	}
	if err := f.Apply(ctx, q, entity); err != nil {
		return nil, err
	}
	return q, nil
}

// Creating runs the registered create hook for the entity, populating its
// tenant column when the type participates in scoping.
func (r *Registry) Creating(ctx context.Context, f *Filter, entity Scopable, opts ...CreateOption) error {
	if !r.Registered(entity) {
		return nil
	}
	return f.OnCreating(ctx, entity, opts...)
}
