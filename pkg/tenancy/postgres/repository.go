// Package postgres implements tenancy.Repository on PostgreSQL via pgx.
//
// The schema it expects is shipped in the module's migrations directory:
// a tenants table with a unique uuid and soft-delete marker, a
// tenant_users membership table unique per (tenant_id, user_id), and a
// current_tenant_id column on the application's users table.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenantkit/tenantkit/pkg/pg"
	"github.com/tenantkit/tenantkit/pkg/tenancy"
)

// Repository is the pgx-backed tenancy.Repository. Soft-deleted tenants
// are invisible through every lookup.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository on the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTenant(row pgx.Row) (*tenancy.Tenant, error) {
	var t tenancy.Tenant
	err := row.Scan(&t.ID, &t.UUID, &t.Name, &t.Slug, &t.DeletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenancy.ErrTenantNotFound
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}

func scanTenants(rows pgx.Rows) ([]tenancy.Tenant, error) {
	defer rows.Close()

	var tenants []tenancy.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

// FindByID retrieves a tenant by its numeric ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*tenancy.Tenant, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, uuid, name, COALESCE(slug, ''), deleted_at, created_at, updated_at
		 FROM tenants
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanTenant(row)
}

// All lists every live tenant ordered by creation time.
func (r *Repository) All(ctx context.Context) ([]tenancy.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, uuid, name, COALESCE(slug, ''), deleted_at, created_at, updated_at
		 FROM tenants
		 WHERE deleted_at IS NULL
		 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return scanTenants(rows)
}

// Membership retrieves the membership row for (userID, tenantID).
func (r *Repository) Membership(ctx context.Context, userID, tenantID int64) (*tenancy.Membership, error) {
	var m tenancy.Membership
	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, user_id, created_at
		 FROM tenant_users
		 WHERE user_id = $1 AND tenant_id = $2`,
		userID, tenantID).Scan(&m.TenantID, &m.UserID, &m.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenancy.ErrTenantNotFound
		}
		return nil, fmt.Errorf("load membership: %w", err)
	}
	return &m, nil
}

// TenantForUser retrieves a tenant through the membership table, so a
// tenant the user does not belong to reads as not found.
func (r *Repository) TenantForUser(ctx context.Context, userID, tenantID int64) (*tenancy.Tenant, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT t.id, t.uuid, t.name, COALESCE(t.slug, ''), t.deleted_at, t.created_at, t.updated_at
		 FROM tenants t
		 JOIN tenant_users tu ON tu.tenant_id = t.id
		 WHERE tu.user_id = $1 AND t.id = $2 AND t.deleted_at IS NULL`,
		userID, tenantID)
	return scanTenant(row)
}

// TenantsForUser lists all live tenants the user belongs to, oldest
// membership first.
func (r *Repository) TenantsForUser(ctx context.Context, userID int64) ([]tenancy.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.uuid, t.name, COALESCE(t.slug, ''), t.deleted_at, t.created_at, t.updated_at
		 FROM tenants t
		 JOIN tenant_users tu ON tu.tenant_id = t.id
		 WHERE tu.user_id = $1 AND t.deleted_at IS NULL
		 ORDER BY tu.created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list user tenants: %w", err)
	}
	return scanTenants(rows)
}

// SetCurrentTenant persists the user's default tenant pointer.
func (r *Repository) SetCurrentTenant(ctx context.Context, userID, tenantID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET current_tenant_id = $1 WHERE id = $2`, tenantID, userID)
	if err != nil {
		return fmt.Errorf("set current tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenancy.ErrTenantNotFound
	}
	return nil
}
