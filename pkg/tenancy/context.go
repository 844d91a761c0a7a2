package tenancy

import (
	"context"
	"log/slog"
)

// managerKey and tenantKey are private types to prevent collisions with
// other context keys.
type (
	managerKey struct{}
	tenantKey  struct{}
)

// WithManager binds the request's manager to the context. The middleware
// does this once per request; handlers retrieve it with ManagerFromContext.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// ManagerFromContext retrieves the request's manager.
func ManagerFromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(managerKey{}).(*Manager)
	return m, ok
}

// RequireManager retrieves the request's manager, failing with
// ErrNoManagerInContext when the middleware did not run.
func RequireManager(ctx context.Context) (*Manager, error) {
	m, ok := ManagerFromContext(ctx)
	if !ok || m == nil {
		return nil, ErrNoManagerInContext
	}
	return m, nil
}

// WithTenant adds a resolved tenant to the context.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// FromContext retrieves the resolved tenant from the context.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(tenantKey{}).(*Tenant)
	return tenant, ok
}

// IDFromContext retrieves just the tenant ID from the context.
// Returns zero and false if no tenant is present.
func IDFromContext(ctx context.Context) (int64, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return 0, false
	}
	return tenant.ID, true
}

// MustFromContext retrieves the tenant from the context and panics when
// none is present. Use only in handlers behind RequireTenant.
func MustFromContext(ctx context.Context) *Tenant {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		panic("tenancy: no tenant in context")
	}
	return tenant
}

// LogExtractor returns a logger context extractor that adds the active
// tenant's ID to every record logged under a tenant-bearing context.
func LogExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.Int64("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}
