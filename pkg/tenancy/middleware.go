package tenancy

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tenantkit/tenantkit/pkg/session"
)

// StoreBinder returns the session store bound to the request's session.
// Applications plug in whatever session transport they use; the middleware
// only needs the resulting per-session key-value view.
type StoreBinder func(r *http.Request) session.Store

// Middleware builds one Manager per request, resolves the active tenant
// from the session store when one is set, and injects both into the
// request context. Requests without a tenant proceed without one; guarding
// routes is RequireTenant's job.
func Middleware(cfg Config, repo Repository, binder StoreBinder, opts ...Option) func(http.Handler) http.Handler {
	c := &config{
		errorHandler: defaultErrorHandler(cfg.SelectURL),
	}
	for _, opt := range opts {
		opt(c)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range c.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			m := NewManager(cfg, repo, binder(r), c.managerOpts...)
			ctx := WithManager(r.Context(), m)

			if m.IsTenantSet(ctx) {
				tenant, err := m.Tenant(ctx)
				if err != nil {
					if c.logger != nil {
						c.logger.ErrorContext(ctx, "tenant resolution failed", "error", err, "path", r.URL.Path)
					}
					c.errorHandler(w, r, err)
					return
				}
				ctx = WithTenant(ctx, tenant)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant ensures an active tenant is present in the request
// context, for routes that only make sense inside a tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler("")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tenant, ok := FromContext(r.Context()); !ok || tenant == nil {
				errorHandler(w, r, ErrTenantNotSet)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// defaultErrorHandler maps tenancy error kinds to HTTP responses. A
// missing tenant redirects to the tenant selection page when one is
// configured, so browser flows recover without custom wiring.
func defaultErrorHandler(selectURL string) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case errors.Is(err, ErrTenantNotSet):
			if selectURL != "" {
				http.Redirect(w, r, selectURL, http.StatusFound)
				return
			}
			http.Error(w, "Tenant is not set", http.StatusForbidden)
		case errors.Is(err, ErrUnauthorized):
			http.Error(w, "Authentication required", http.StatusUnauthorized)
		case errors.Is(err, ErrInvalidTenant), errors.Is(err, ErrTenantNotFound):
			http.Error(w, "Tenant not found", http.StatusNotFound)
		case errors.Is(err, ErrNotActive):
			http.Error(w, "Multi-tenancy is disabled", http.StatusNotFound)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
