package tenancy

type Config struct {
	Active       bool   `env:"MULTITENANCY_ACTIVE" envDefault:"true"`              // Active is the global multi-tenancy switch, fixed at startup.
	SessionKey   string `env:"MULTITENANCY_SESSION_KEY" envDefault:"tenant_id"`    // SessionKey is the session-store key holding the active tenant ID.
	TenantColumn string `env:"MULTITENANCY_TENANT_COLUMN" envDefault:"tenant_id"`  // TenantColumn is the default column name on scoped tables.
	SelectURL    string `env:"MULTITENANCY_SELECT_URL" envDefault:"/tenants/select"` // SelectURL is where the middleware redirects when no tenant is set.
}
