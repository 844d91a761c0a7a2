package scope

import (
	"fmt"
	"strings"
)

// Predicate is one equality constraint in a query, qualified by table to
// stay unambiguous in joined statements. Predicates generated by the
// tenant filter carry an origin tag so removal is a typed lookup instead
// of string matching; a user-authored predicate on the same column is
// never confused with the generated one.
type Predicate struct {
	Table  string
	Column string
	Value  any

	// tenantScope marks predicates injected by Filter.Apply.
	tenantScope bool
}

// IsTenantScope reports whether the predicate was generated by the tenant
// filter rather than authored by the caller.
func (p Predicate) IsTenantScope() bool {
	return p.tenantScope
}

// equal compares predicates structurally, including the origin tag.
// Values are expected to be comparable scalars.
func (p Predicate) equal(other Predicate) bool {
	return p.tenantScope == other.tenantScope &&
		p.Table == other.Table &&
		p.Column == other.Column &&
		p.Value == other.Value
}

// Matches evaluates the predicate against a record keyed by column name.
// Both the qualified ("table.column") and bare column keys are consulted.
func (p Predicate) Matches(record map[string]any) bool {
	value, ok := record[p.Table+"."+p.Column]
	if !ok {
		value, ok = record[p.Column]
	}
	if !ok {
		return false
	}
	return value == p.Value
}

// Query is a read operation under construction: a target table plus a
// conjunction of predicates. It renders to parameterized SQL for database
// execution and evaluates records in memory for stores without SQL.
type Query struct {
	table      string
	predicates []Predicate
	unscoped   bool
}

// NewQuery starts a query against the given table.
func NewQuery(table string) *Query {
	return &Query{table: table}
}

// Table returns the query's target table.
func (q *Query) Table() string {
	return q.table
}

// Where adds a caller-authored equality predicate on the query's own table.
func (q *Query) Where(column string, value any) *Query {
	q.predicates = append(q.predicates, Predicate{
		Table:  q.table,
		Column: column,
		Value:  value,
	})
	return q
}

// WhereTable adds a caller-authored predicate against another table, for
// use in joined statements.
func (q *Query) WhereTable(table, column string, value any) *Query {
	q.predicates = append(q.predicates, Predicate{
		Table:  table,
		Column: column,
		Value:  value,
	})
	return q
}

// Predicates returns the query's predicates in order of addition.
func (q *Query) Predicates() []Predicate {
	return q.predicates
}

// Unscoped reports whether the tenant scope was explicitly removed from
// this query.
func (q *Query) Unscoped() bool {
	return q.unscoped
}

// HasTenantPredicate reports whether a filter-generated predicate is
// present.
func (q *Query) HasTenantPredicate() bool {
	for _, p := range q.predicates {
		if p.tenantScope {
			return true
		}
	}
	return false
}

// SQL renders the predicate conjunction as a WHERE clause with positional
// placeholders, plus the matching argument slice. An empty string is
// returned when the query has no predicates.
func (q *Query) SQL() (string, []any) {
	if len(q.predicates) == 0 {
		return "", nil
	}

	var b strings.Builder
	args := make([]any, 0, len(q.predicates))

	b.WriteString("WHERE ")
	for i, p := range q.predicates {
		if i > 0 {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s.%s = $%d", p.Table, p.Column, i+1)
		args = append(args, p.Value)
	}

	return b.String(), args
}

// Match evaluates the full predicate conjunction against a record.
func (q *Query) Match(record map[string]any) bool {
	for _, p := range q.predicates {
		if !p.Matches(record) {
			return false
		}
	}
	return true
}
