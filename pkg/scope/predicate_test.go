package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenantkit/tenantkit/pkg/scope"
)

func TestQuery_SQL(t *testing.T) {
	t.Parallel()

	t.Run("empty query renders nothing", func(t *testing.T) {
		t.Parallel()

		clause, args := scope.NewQuery("projects").SQL()
		assert.Empty(t, clause)
		assert.Nil(t, args)
	})

	t.Run("renders qualified placeholders in order", func(t *testing.T) {
		t.Parallel()

		q := scope.NewQuery("projects").
			Where("name", "alpha").
			WhereTable("teams", "region", "eu")

		clause, args := q.SQL()
		assert.Equal(t, "WHERE projects.name = $1 AND teams.region = $2", clause)
		assert.Equal(t, []any{"alpha", "eu"}, args)
	})
}

func TestQuery_Match(t *testing.T) {
	t.Parallel()

	q := scope.NewQuery("projects").Where("name", "alpha")

	assert.True(t, q.Match(map[string]any{"name": "alpha"}))
	assert.True(t, q.Match(map[string]any{"projects.name": "alpha"}))
	assert.False(t, q.Match(map[string]any{"name": "beta"}))
	assert.False(t, q.Match(map[string]any{"title": "alpha"}))
}

func TestQuery_HasTenantPredicate(t *testing.T) {
	t.Parallel()

	q := scope.NewQuery("projects").Where("tenant_id", int64(5))
	assert.False(t, q.HasTenantPredicate(), "caller-authored predicates carry no scope tag")

	p := &project{}
	pred := p.TenantPredicate(p.Table(), p.TenantColumn(), 5)
	require.True(t, pred.IsTenantScope())
}
