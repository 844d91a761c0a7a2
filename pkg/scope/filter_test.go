package scope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenantkit/tenantkit/pkg/scope"
	"github.com/tenantkit/tenantkit/pkg/session"
	"github.com/tenantkit/tenantkit/pkg/tenancy"
)

// project is a minimal tenant-owned entity for tests.
type project struct {
	scope.TenantOwned
	Name string
}

func (p *project) Table() string { return "projects" }

// legacyRow defers its tenant column to configuration.
type legacyRow struct {
	scope.TenantOwned
}

func (l *legacyRow) Table() string        { return "legacy_rows" }
func (l *legacyRow) TenantColumn() string { return "" }

// stubRepo serves a fixed set of tenants to the manager.
type stubRepo struct {
	tenants map[int64]tenancy.Tenant
}

func newStubRepo(ids ...int64) *stubRepo {
	r := &stubRepo{tenants: make(map[int64]tenancy.Tenant)}
	for _, id := range ids {
		r.tenants[id] = tenancy.Tenant{ID: id, Name: "tenant"}
	}
	return r
}

func (r *stubRepo) FindByID(ctx context.Context, id int64) (*tenancy.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, tenancy.ErrTenantNotFound
	}
	return &t, nil
}

func (r *stubRepo) All(ctx context.Context) ([]tenancy.Tenant, error) { return nil, nil }

func (r *stubRepo) Membership(ctx context.Context, userID, tenantID int64) (*tenancy.Membership, error) {
	return nil, tenancy.ErrTenantNotFound
}

func (r *stubRepo) TenantForUser(ctx context.Context, userID, tenantID int64) (*tenancy.Tenant, error) {
	return nil, tenancy.ErrTenantNotFound
}

func (r *stubRepo) TenantsForUser(ctx context.Context, userID int64) ([]tenancy.Tenant, error) {
	return nil, nil
}

func (r *stubRepo) SetCurrentTenant(ctx context.Context, userID, tenantID int64) error {
	return nil
}

// managerWithTenant builds a manager with the given tenant active.
func managerWithTenant(t *testing.T, tenantID int64) *tenancy.Manager {
	t.Helper()

	m := tenancy.NewManager(
		tenancy.Config{Active: true},
		newStubRepo(tenantID),
		session.NewMemoryStore(),
	)
	require.NoError(t, m.SetTenantByID(context.Background(), tenantID))
	return m
}

func TestFilterFromContext(t *testing.T) {
	t.Parallel()

	t.Run("builds from the middleware-bound manager", func(t *testing.T) {
		t.Parallel()

		m := managerWithTenant(t, 5)
		ctx := tenancy.WithManager(context.Background(), m)

		f, err := scope.FilterFromContext(ctx)
		require.NoError(t, err)

		q := scope.NewQuery("projects")
		require.NoError(t, f.Apply(ctx, q, &project{}))
		assert.Len(t, q.Predicates(), 1)
	})

	t.Run("fails without a manager", func(t *testing.T) {
		t.Parallel()

		_, err := scope.FilterFromContext(context.Background())
		assert.ErrorIs(t, err, tenancy.ErrNoManagerInContext)
	})
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	t.Run("injects tenant predicate", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		q := scope.NewQuery("projects")

		require.NoError(t, f.Apply(context.Background(), q, &project{}))

		preds := q.Predicates()
		require.Len(t, preds, 1)
		assert.Equal(t, "projects", preds[0].Table)
		assert.Equal(t, "tenant_id", preds[0].Column)
		assert.Equal(t, int64(5), preds[0].Value)
		assert.True(t, preds[0].IsTenantScope())
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		q := scope.NewQuery("projects")
		ctx := context.Background()

		require.NoError(t, f.Apply(ctx, q, &project{}))
		require.NoError(t, f.Apply(ctx, q, &project{}))

		assert.Len(t, q.Predicates(), 1)
	})

	t.Run("skips disabled manager", func(t *testing.T) {
		t.Parallel()

		m := managerWithTenant(t, 5)
		m.Disable()
		f := scope.NewFilter(m)
		q := scope.NewQuery("projects")

		require.NoError(t, f.Apply(context.Background(), q, &project{}))
		assert.Empty(t, q.Predicates())
	})

	t.Run("resumes after re-enable", func(t *testing.T) {
		t.Parallel()

		m := managerWithTenant(t, 5)
		f := scope.NewFilter(m)
		ctx := context.Background()

		m.Disable()
		q := scope.NewQuery("projects")
		require.NoError(t, f.Apply(ctx, q, &project{}))
		assert.Empty(t, q.Predicates())

		m.Enable()
		q = scope.NewQuery("projects")
		require.NoError(t, f.Apply(ctx, q, &project{}))
		assert.Len(t, q.Predicates(), 1)
	})

	t.Run("propagates unset tenant", func(t *testing.T) {
		t.Parallel()

		m := tenancy.NewManager(tenancy.Config{Active: true}, newStubRepo(), session.NewMemoryStore())
		f := scope.NewFilter(m)

		err := f.Apply(context.Background(), scope.NewQuery("projects"), &project{})
		assert.ErrorIs(t, err, tenancy.ErrTenantNotSet)
	})

	t.Run("defers to the configured column", func(t *testing.T) {
		t.Parallel()

		m := tenancy.NewManager(
			tenancy.Config{Active: true, TenantColumn: "org_id"},
			newStubRepo(5),
			session.NewMemoryStore(),
		)
		require.NoError(t, m.SetTenantByID(context.Background(), 5))
		f := scope.NewFilter(m)

		q := scope.NewQuery("legacy_rows")
		require.NoError(t, f.Apply(context.Background(), q, &legacyRow{}))

		preds := q.Predicates()
		require.Len(t, preds, 1)
		assert.Equal(t, "org_id", preds[0].Column)
	})

	t.Run("leaves unscoped queries untouched", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		q := f.AllTenants(&project{})

		require.NoError(t, f.Apply(context.Background(), q, &project{}))
		assert.Empty(t, q.Predicates())
		assert.True(t, q.Unscoped())
	})
}

func TestFilter_Remove(t *testing.T) {
	t.Parallel()

	t.Run("strips the generated predicate only", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		ctx := context.Background()

		q := scope.NewQuery("projects").Where("name", "alpha")
		require.NoError(t, f.Apply(ctx, q, &project{}))
		// Caller-authored predicate on the same column as the scope.
		q.Where("tenant_id", int64(5))
		require.Len(t, q.Predicates(), 3)

		f.Remove(ctx, q, &project{})

		preds := q.Predicates()
		require.Len(t, preds, 2)
		for _, p := range preds {
			assert.False(t, p.IsTenantScope())
		}
		assert.True(t, q.Unscoped())
	})

	t.Run("is a no-op without a scope predicate", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		q := scope.NewQuery("projects").Where("name", "alpha")

		f.Remove(context.Background(), q, &project{})

		assert.Len(t, q.Predicates(), 1)
		assert.True(t, q.Unscoped())
	})

	t.Run("removed queries stay unscoped on re-apply", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		ctx := context.Background()

		q := scope.NewQuery("projects")
		require.NoError(t, f.Apply(ctx, q, &project{}))
		f.Remove(ctx, q, &project{})
		require.NoError(t, f.Apply(ctx, q, &project{}))

		assert.Empty(t, q.Predicates())
	})
}

func TestFilter_OnCreating(t *testing.T) {
	t.Parallel()

	t.Run("fills unset tenant column", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		p := &project{Name: "alpha"}

		require.NoError(t, f.OnCreating(context.Background(), p))
		assert.Equal(t, int64(5), p.TenantID())
	})

	t.Run("preserves explicit tenant column", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		p := &project{Name: "alpha"}
		p.SetTenantID(7)

		require.NoError(t, f.OnCreating(context.Background(), p))
		assert.Equal(t, int64(7), p.TenantID())
	})

	t.Run("without scope leaves entity untouched", func(t *testing.T) {
		t.Parallel()

		f := scope.NewFilter(managerWithTenant(t, 5))
		p := &project{Name: "alpha"}

		require.NoError(t, f.OnCreating(context.Background(), p, scope.WithoutScope()))
		assert.Zero(t, p.TenantID())
	})

	t.Run("disabled manager leaves entity untouched", func(t *testing.T) {
		t.Parallel()

		m := managerWithTenant(t, 5)
		m.Disable()
		f := scope.NewFilter(m)
		p := &project{Name: "alpha"}

		require.NoError(t, f.OnCreating(context.Background(), p))
		assert.Zero(t, p.TenantID())
	})

	t.Run("propagates unset tenant", func(t *testing.T) {
		t.Parallel()

		m := tenancy.NewManager(tenancy.Config{Active: true}, newStubRepo(), session.NewMemoryStore())
		f := scope.NewFilter(m)

		err := f.OnCreating(context.Background(), &project{Name: "alpha"})
		assert.ErrorIs(t, err, tenancy.ErrTenantNotSet)
	})
}

// TestFilter_RoundTrip drives scoped reads against an in-memory record set,
// checking that scoping isolates tenants and removal restores full
// visibility.
func TestFilter_RoundTrip(t *testing.T) {
	t.Parallel()

	records := []map[string]any{
		{"tenant_id": int64(1), "name": "alpha"},
		{"tenant_id": int64(1), "name": "beta"},
		{"tenant_id": int64(2), "name": "gamma"},
	}
	match := func(q *scope.Query) []map[string]any {
		var out []map[string]any
		for _, r := range records {
			if q.Match(r) {
				out = append(out, r)
			}
		}
		return out
	}

	f := scope.NewFilter(managerWithTenant(t, 1))
	ctx := context.Background()

	q := scope.NewQuery("projects")
	require.NoError(t, f.Apply(ctx, q, &project{}))
	scoped := match(q)
	require.Len(t, scoped, 2)
	for _, r := range scoped {
		assert.Equal(t, int64(1), r["tenant_id"])
	}

	f.Remove(ctx, q, &project{})
	assert.Len(t, match(q), 3)
}
