package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tenantkit/tenantkit/pkg/session"
)

// Manager is the single source of truth for which tenant is active in the
// current session. It lazily resolves the tenant from the session store,
// caches it in memory for the lifetime of the request, and owns the
// per-instance enabled toggle used to bypass query scoping.
//
// One Manager is constructed per request/session. It is not safe for
// concurrent use; concurrent requests must each build their own instance.
type Manager struct {
	repo         Repository
	store        session.Store
	users        UserProvider
	sessionKey   string
	tenantColumn string
	active       bool
	enabled      bool
	tenant       *Tenant
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithUserProvider sets the collaborator that resolves the acting user.
func WithUserProvider(users UserProvider) ManagerOption {
	return func(m *Manager) {
		m.users = users
	}
}

// NewManager creates a per-session manager. The global active flag and the
// session key are captured from cfg at construction and never change.
func NewManager(cfg Config, repo Repository, store session.Store, opts ...ManagerOption) *Manager {
	key := cfg.SessionKey
	if key == "" {
		key = "tenant_id"
	}
	column := cfg.TenantColumn
	if column == "" {
		column = "tenant_id"
	}

	m := &Manager{
		repo:         repo,
		store:        store,
		sessionKey:   key,
		tenantColumn: column,
		active:       cfg.Active,
		enabled:      true,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// SetTenantByID resolves a tenant through the repository and makes it the
// active tenant for this session.
//
// Returns ErrNotActive when multi-tenancy is globally disabled,
// ErrTenantNotBound when no repository is configured, and ErrInvalidTenant
// when the ID does not resolve to an identified tenant.
func (m *Manager) SetTenantByID(ctx context.Context, id int64) error {
	if !m.active {
		return ErrNotActive
	}
	if m.repo == nil {
		return ErrTenantNotBound
	}

	tenant, err := m.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return fmt.Errorf("%w: %d", ErrInvalidTenant, id)
		}
		return err
	}
	if tenant == nil || tenant.ID == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTenant, id)
	}

	return m.SetTenant(ctx, tenant)
}

// SetTenant makes an already-resolved tenant the active one. The session
// store is updated first; the in-memory cache is only mutated on success so
// a store failure never leaves the two inconsistent.
func (m *Manager) SetTenant(ctx context.Context, tenant *Tenant) error {
	if !m.active {
		return ErrNotActive
	}
	if tenant == nil || tenant.ID == 0 {
		return ErrInvalidTenant
	}

	if err := m.store.Put(ctx, m.sessionKey, strconv.FormatInt(tenant.ID, 10)); err != nil {
		return err
	}

	m.tenant = tenant
	return nil
}

// Tenant returns the active tenant for this session.
//
// When the in-memory cache is empty but the session store holds a tenant ID
// (a new request reusing an existing session), the tenant is resolved once
// through the repository and cached. Returns ErrTenantNotSet when neither
// the cache nor the session store holds a tenant.
func (m *Manager) Tenant(ctx context.Context) (*Tenant, error) {
	if !m.IsTenantSet(ctx) {
		return nil, ErrTenantNotSet
	}

	if !m.tenantLoaded() {
		raw, err := m.store.Get(ctx, m.sessionKey)
		if err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTenant, raw)
		}
		if err := m.SetTenantByID(ctx, id); err != nil {
			return nil, err
		}
	}

	return m.tenant, nil
}

// IsTenantSet reports whether a tenant is active for this session, either
// loaded in memory or pointed to by the session store. It never fails; a
// broken session store reads as "not set".
func (m *Manager) IsTenantSet(ctx context.Context) bool {
	if m.tenantLoaded() {
		return true
	}
	ok, err := m.store.Has(ctx, m.sessionKey)
	return err == nil && ok
}

// IsTenantNotSet is the negation of IsTenantSet.
func (m *Manager) IsTenantNotSet(ctx context.Context) bool {
	return !m.IsTenantSet(ctx)
}

func (m *Manager) tenantLoaded() bool {
	return m.tenant != nil && m.tenant.ID != 0
}

// ClearTenant drops the in-memory tenant and removes the session-store
// entry. Calling it on an already-clear manager is a no-op.
func (m *Manager) ClearTenant(ctx context.Context) error {
	m.tenant = nil
	return m.store.Remove(ctx, m.sessionKey)
}

// Enable turns query scoping back on for this manager instance.
func (m *Manager) Enable() {
	m.enabled = true
}

// Disable turns query scoping off for this manager instance. This is the
// escape hatch for administrative code paths; it does not touch session
// state or the global active flag.
func (m *Manager) Disable() {
	m.enabled = false
}

// IsEnabled reports the per-instance scoping toggle.
func (m *Manager) IsEnabled() bool {
	return m.enabled
}

// Active reports the global multi-tenancy flag captured at construction.
func (m *Manager) Active() bool {
	return m.active
}

// TenantColumn returns the configured default column name on scoped
// tables, for entity types that defer to configuration.
func (m *Manager) TenantColumn() string {
	return m.tenantColumn
}

// AllTenants lists every tenant. Administrative use only; the result is
// not scoped to the current user or session.
func (m *Manager) AllTenants(ctx context.Context) ([]Tenant, error) {
	if !m.active {
		return nil, ErrNotActive
	}
	if m.repo == nil {
		return nil, ErrTenantNotBound
	}
	return m.repo.All(ctx)
}

// BelongsToTenant reports whether the user is a member of the tenant.
// When user is nil the acting user is resolved through the user provider;
// ErrUnauthorized is returned when none is resolvable.
func (m *Manager) BelongsToTenant(ctx context.Context, tenantID int64, user *User) (bool, error) {
	user, err := m.resolveUser(ctx, user)
	if err != nil {
		return false, err
	}
	if m.repo == nil {
		return false, ErrTenantNotBound
	}

	membership, err := m.repo.Membership(ctx, user.ID, tenantID)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return false, nil
		}
		return false, err
	}
	return membership != nil, nil
}

// CurrentTenantForUser returns the user's default tenant, validated through
// the membership table. Returns ErrTenantNotSet when the user has no
// default tenant pointer.
func (m *Manager) CurrentTenantForUser(ctx context.Context, user *User) (*Tenant, error) {
	user, err := m.resolveUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if m.repo == nil {
		return nil, ErrTenantNotBound
	}

	if user.CurrentTenantID == 0 {
		return nil, fmt.Errorf("%w: user %d has no default tenant", ErrTenantNotSet, user.ID)
	}

	return m.repo.TenantForUser(ctx, user.ID, user.CurrentTenantID)
}

// ClosestTenantForUser returns the user's default tenant when one resolves,
// otherwise falls back to the user's first associated tenant and persists
// it as the new default. A user with zero tenants fails with
// ErrUserHasNoTenant carrying the user's ID.
func (m *Manager) ClosestTenantForUser(ctx context.Context, user *User) (*Tenant, error) {
	user, err := m.resolveUser(ctx, user)
	if err != nil {
		return nil, err
	}

	tenant, err := m.CurrentTenantForUser(ctx, user)
	if err == nil && tenant != nil {
		return tenant, nil
	}
	if err != nil && !errors.Is(err, ErrTenantNotSet) && !errors.Is(err, ErrTenantNotFound) {
		return nil, err
	}

	tenants, err := m.repo.TenantsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, fmt.Errorf("%w: user %d", ErrUserHasNoTenant, user.ID)
	}

	first := tenants[0]
	if err := m.repo.SetCurrentTenant(ctx, user.ID, first.ID); err != nil {
		return nil, err
	}
	user.CurrentTenantID = first.ID

	return &first, nil
}

func (m *Manager) resolveUser(ctx context.Context, user *User) (*User, error) {
	if user != nil {
		return user, nil
	}
	if m.users == nil {
		return nil, ErrUnauthorized
	}
	resolved, err := m.users.CurrentUser(ctx)
	if err != nil || resolved == nil {
		return nil, errors.Join(ErrUnauthorized, err)
	}
	return resolved, nil
}
