package scope

import (
	"context"

	"github.com/tenantkit/tenantkit/pkg/tenancy"
)

// Filter injects the active tenant's restriction into read operations and
// populates the tenant column on writes. It consults the per-request
// tenancy manager, so each request builds its own Filter around its own
// Manager.
type Filter struct {
	manager *tenancy.Manager
}

// NewFilter creates a filter bound to the request's tenancy manager.
func NewFilter(manager *tenancy.Manager) *Filter {
	return &Filter{manager: manager}
}

// FilterFromContext builds a filter around the manager the tenancy
// middleware placed in the request context. Fails with
// ErrNoManagerInContext when the middleware did not run.
func FilterFromContext(ctx context.Context) (*Filter, error) {
	m, err := tenancy.RequireManager(ctx)
	if err != nil {
		return nil, err
	}
	return NewFilter(m), nil
}

// CreateOption adjusts a single create call.
type CreateOption func(*createConfig)

type createConfig struct {
	unscoped bool
}

// WithoutScope removes tenant scoping from one create call, leaving the
// entity's tenant column exactly as the caller set it.
func WithoutScope() CreateOption {
	return func(c *createConfig) {
		c.unscoped = true
	}
}

// Apply injects the tenant restriction for the entity into the query.
//
// When the manager is disabled the query is left untouched; this is the
// explicit bypass path for administrative code. Queries whose scope was
// removed stay unscoped. Exactly one tenant predicate is ever present:
// re-applying to an already scoped query is a no-op. Failures from tenant
// resolution (ErrTenantNotSet and friends) propagate unchanged.
func (f *Filter) Apply(ctx context.Context, q *Query, entity Scopable) error {
	if f.manager == nil || !f.manager.IsEnabled() {
		return nil
	}
	if q.unscoped || q.HasTenantPredicate() {
		return nil
	}

	tenant, err := f.manager.Tenant(ctx)
	if err != nil {
		return err
	}

	q.predicates = append(q.predicates, entity.TenantPredicate(entity.Table(), f.column(entity), tenant.ID))
	return nil
}

// column resolves the entity's tenant column, deferring to the manager's
// configured default when the entity reports none.
func (f *Filter) column(entity Scopable) string {
	if c := entity.TenantColumn(); c != "" {
		return c
	}
	if f.manager != nil {
		return f.manager.TenantColumn()
	}
	return DefaultTenantColumn
}

// Remove strips the filter-generated tenant predicate from the query and
// marks it unscoped, turning it into an explicit all-tenants operation.
//
// Only predicates carrying the tenant-scope tag for this entity's table
// and column are considered; when the active tenant resolves, the value
// must also match the constraint Apply would generate now. Caller-authored
// predicates on the same column are never touched. When no matching
// predicate exists, Remove is a silent no-op.
func (f *Filter) Remove(ctx context.Context, q *Query, entity Scopable) {
	var tenantID int64
	haveTenant := false
	if f.manager != nil {
		if tenant, err := f.manager.Tenant(ctx); err == nil {
			tenantID = tenant.ID
			haveTenant = true
		}
	}

	generated := entity.TenantPredicate(entity.Table(), f.column(entity), tenantID)

	for i, p := range q.predicates {
		if !p.tenantScope {
			continue
		}
		if p.Table != generated.Table || p.Column != generated.Column {
			continue
		}
		if haveTenant && !p.equal(generated) {
			continue
		}

		q.predicates = append(q.predicates[:i], q.predicates[i+1:]...)
		break
	}

	q.unscoped = true
}

// AllTenants returns a fresh query for the entity with the tenant scope
// removed, the escape hatch for cross-tenant reads.
func (f *Filter) AllTenants(entity Scopable) *Query {
	q := NewQuery(entity.Table())
	q.unscoped = true
	return q
}

// OnCreating populates the entity's tenant column from the active tenant
// immediately before it is persisted.
//
// A column the caller pre-set is preserved, including values belonging to
// other tenants; that is how administrative cross-tenant provisioning
// works. Calls carrying WithoutScope, and filters whose manager is
// disabled, leave the entity untouched.
func (f *Filter) OnCreating(ctx context.Context, entity Scopable, opts ...CreateOption) error {
	var cfg createConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.unscoped {
		return nil
	}
	if f.manager == nil || !f.manager.IsEnabled() {
		return nil
	}
	if entity.TenantID() != 0 {
		return nil
	}

	tenant, err := f.manager.Tenant(ctx)
	if err != nil {
		return err
	}

	entity.SetTenantID(tenant.ID)
	return nil
}
