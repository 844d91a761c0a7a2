package tenancy

import "errors"

var (
	// ErrNotActive is returned when multi-tenancy is globally disabled
	// and an activation-gated operation was attempted.
	ErrNotActive = errors.New("multi-tenancy is not active")

	// ErrInvalidTenant is returned when a tenant ID does not resolve
	// to a real, identified tenant.
	ErrInvalidTenant = errors.New("invalid tenant id")

	// ErrTenantNotBound is returned when the tenant repository
	// collaborator is missing or misconfigured.
	ErrTenantNotBound = errors.New("tenant repository is not bound")

	// ErrTenantNotSet is returned when no active tenant exists for the
	// current session or user and one was required.
	ErrTenantNotSet = errors.New("tenant is not set")

	// ErrTenantNotFound is returned by Repository implementations when
	// a lookup matches no tenant or membership.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrUnauthorized is returned when no acting user is resolvable for
	// an operation that requires one.
	ErrUnauthorized = errors.New("no authenticated user")

	// ErrUserHasNoTenant is returned when a user has zero tenant
	// associations. It is wrapped with the user's ID.
	ErrUserHasNoTenant = errors.New("user has no tenants")

	// ErrNoManagerInContext is returned when a request context carries
	// no tenancy manager.
	ErrNoManagerInContext = errors.New("no tenancy manager in context")
)
