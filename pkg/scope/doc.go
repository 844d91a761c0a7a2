// Package scope makes every tenant-scoped data operation implicitly
// respect the active tenant, and makes bypassing that restriction explicit
// and auditable.
//
// The package is built around three pieces:
//
//  1. A structured query model - Query holds table-qualified Predicate
//     values and renders them to parameterized SQL, or evaluates them
//     against in-memory records. Predicates injected by the filter carry
//     an origin tag, so stripping the tenant restriction is a typed
//     lookup rather than string comparison against generated SQL.
//  2. Filter - consults the per-request tenancy manager and injects
//     exactly one tenant predicate into reads (Apply), strips it again
//     (Remove, AllTenants), and fills the tenant column on writes
//     (OnCreating).
//  3. The Scopable contract plus Registry - entity types opt in by
//     implementing Scopable (usually by embedding TenantOwned) and being
//     registered once at startup; repositories route reads and creates
//     through the registry so scoping needs no per-query discipline.
//
// # Usage
//
//	type Invoice struct {
//		scope.TenantOwned
//		ID     int64
//		Number string
//	}
//
//	func (Invoice) Table() string { return "invoices" }
//
//	// At startup:
//	registry := scope.NewRegistry()
//	registry.Register(&Invoice{})
//
//	// Per request:
//	filter := scope.NewFilter(manager)
//
//	q, err := registry.Query(ctx, filter, &Invoice{})
//	// q now carries: invoices.tenant_id = <active tenant ID>
//
//	where, args := q.SQL()
//	rows, err := pool.Query(ctx, "SELECT id, number FROM invoices "+where, args...)
//
// # Escape hatch
//
// Cross-tenant reads are spelled out at the call site:
//
//	all := filter.AllTenants(&Invoice{})
//
// or, for a query already scoped, filter.Remove strips the generated
// predicate and marks the query unscoped. Caller-authored predicates on
// the tenant column are never removed; only the filter's own tagged
// predicate matches.
//
// # Writes
//
// OnCreating fills an unset tenant column from the active tenant. A
// pre-set value is always preserved, which is how administrative
// cross-tenant provisioning writes rows for other tenants. Passing
// WithoutScope skips the hook for one call.
package scope
