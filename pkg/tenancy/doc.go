// Package tenancy resolves which tenant a request belongs to and keeps
// that decision consistent for the lifetime of the session.
//
// The package is built around the Manager, a per-request/session context
// that answers "which tenant is active right now". The manager persists
// the active tenant's ID into a session store under a fixed key, lazily
// re-resolves the full tenant record through a Repository on the first
// access of a new request, and caches it in memory for the rest of the
// request. Setting, reading, and clearing the tenant all go through the
// manager, so the in-memory view and the session store never disagree.
//
// Two flags gate the machinery. The global active flag comes from
// configuration, is captured at construction, and never changes: with it
// off, every activation-gated operation fails with ErrNotActive. The
// per-instance enabled flag is the scoping bypass used by administrative
// tooling; see the scope package for how it is consulted.
//
// # Collaborators
//
// Persistence of tenants and memberships sits behind the Repository
// interface; the session sits behind session.Store; the authenticated
// user behind UserProvider. The package ships postgres and mongodb
// Repository implementations as subpackages, plus a read-through
// CachedRepository decorator.
//
// # Usage
//
//	cfg := tenancy.Config{Active: true, SessionKey: "tenant_id"}
//
//	// Per request (usually via Middleware):
//	m := tenancy.NewManager(cfg, repo, store)
//
//	if err := m.SetTenantByID(ctx, 42); err != nil {
//		// ErrInvalidTenant, ErrNotActive, ...
//	}
//
//	tenant, err := m.Tenant(ctx)
//
// The HTTP middleware constructs one manager per request, resolves the
// session's tenant, and places both in the request context:
//
//	r.Use(tenancy.Middleware(cfg, repo, binder))
//	r.With(tenancy.RequireTenant(nil)).Get("/dashboard", dashboard)
//
// # Errors
//
// Every failure mode is a sentinel error (ErrNotActive, ErrInvalidTenant,
// ErrTenantNotBound, ErrTenantNotSet, ErrUnauthorized, ErrUserHasNoTenant)
// matched with errors.Is. They signal configuration or data-integrity
// conditions, not transient faults: callers branch on the kind and produce
// a user-facing response, they do not retry.
package tenancy
