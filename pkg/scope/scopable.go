package scope

import (
	"context"
	"fmt"

	"github.com/tenantkit/tenantkit/pkg/tenancy"
)

// DefaultTenantColumn is the conventional tenant column name used when an
// entity type does not override it.
const DefaultTenantColumn = "tenant_id"

// Scopable is the capability a persisted entity type implements to
// participate in tenant scoping. Embed TenantOwned to pick up the default
// column, accessor, and predicate behavior; entities supply Table.
type Scopable interface {
	// Table names the entity's backing table.
	Table() string

	// TenantColumn names the column holding the owning tenant's ID.
	// An empty string defers to the manager's configured default.
	TenantColumn() string

	// TenantID returns the entity's tenant column value; zero means unset.
	TenantID() int64

	// SetTenantID populates the entity's tenant column.
	SetTenantID(id int64)

	// TenantPredicate builds the constraint the filter injects for this
	// entity. Override to customize how the tenant restriction is
	// expressed.
	TenantPredicate(table, column string, tenantID int64) Predicate
}

// TenantOwned is the embeddable default implementation of the Scopable
// capability, minus Table which each entity supplies.
type TenantOwned struct {
	OwnerTenantID int64 `json:"tenant_id" db:"tenant_id"`
}

// TenantColumn returns DefaultTenantColumn. Entity types with a different
// column name shadow this method.
func (o *TenantOwned) TenantColumn() string {
	return DefaultTenantColumn
}

// TenantID returns the owning tenant's ID, zero when unset.
func (o *TenantOwned) TenantID() int64 {
	return o.OwnerTenantID
}

// SetTenantID populates the owning tenant's ID.
func (o *TenantOwned) SetTenantID(id int64) {
	o.OwnerTenantID = id
}

// TenantPredicate builds the table-qualified equality constraint injected
// by the filter, tagged as tenant-scope-generated.
func (o *TenantOwned) TenantPredicate(table, column string, tenantID int64) Predicate {
	return Predicate{
		Table:       table,
		Column:      column,
		Value:       tenantID,
		tenantScope: true,
	}
}

// Tenant loads the entity's owning tenant through the repository.
func (o *TenantOwned) Tenant(ctx context.Context, repo tenancy.Repository) (*tenancy.Tenant, error) {
	if o.OwnerTenantID == 0 {
		return nil, tenancy.ErrTenantNotSet
	}
	tenant, err := repo.FindByID(ctx, o.OwnerTenantID)
	if err != nil {
		return nil, fmt.Errorf("load owning tenant %d: %w", o.OwnerTenantID, err)
	}
	return tenant, nil
}
