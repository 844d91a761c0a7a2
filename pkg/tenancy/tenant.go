package tenancy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated logical owner of a partition of application data.
// Identity is immutable once created; DeletedAt marks soft deletion.
type Tenant struct {
	ID        int64      `json:"id" bson:"id"`
	UUID      uuid.UUID  `json:"uuid" bson:"uuid"`
	Name      string     `json:"name" bson:"name"`
	Slug      string     `json:"slug,omitempty" bson:"slug,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// IsDeleted reports whether the tenant has been soft-deleted.
func (t *Tenant) IsDeleted() bool {
	return t != nil && t.DeletedAt != nil
}

// Membership associates a user with a tenant. The (TenantID, UserID)
// pair is unique per association.
type Membership struct {
	TenantID  int64     `json:"tenant_id" bson:"tenant_id"`
	UserID    int64     `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// User is the minimal acting-user projection the tenancy layer needs.
// CurrentTenantID is zero when the user has no default tenant.
type User struct {
	ID              int64 `json:"id" bson:"id"`
	CurrentTenantID int64 `json:"current_tenant_id,omitempty" bson:"current_tenant_id,omitempty"`
}

// Repository loads tenant and membership records from a data source.
// Implementations return ErrTenantNotFound when a lookup matches nothing.
type Repository interface {
	// FindByID retrieves a tenant by its numeric ID.
	FindByID(ctx context.Context, id int64) (*Tenant, error)

	// All lists every tenant (administrative use, not scoped to a user).
	All(ctx context.Context) ([]Tenant, error)

	// Membership retrieves the membership row for (userID, tenantID).
	Membership(ctx context.Context, userID, tenantID int64) (*Membership, error)

	// TenantForUser retrieves a tenant the user is a member of.
	TenantForUser(ctx context.Context, userID, tenantID int64) (*Tenant, error)

	// TenantsForUser lists all tenants the user belongs to, in a stable order.
	TenantsForUser(ctx context.Context, userID int64) ([]Tenant, error)

	// SetCurrentTenant persists the user's default tenant pointer.
	SetCurrentTenant(ctx context.Context, userID, tenantID int64) error
}

// UserProvider resolves the acting user for the current request.
// Implementations typically wrap the application's auth layer.
type UserProvider interface {
	// CurrentUser returns the authenticated user, or ErrUnauthorized
	// when no user is resolvable.
	CurrentUser(ctx context.Context) (*User, error)
}
