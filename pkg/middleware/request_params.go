package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/atlas/pkg/composables"
	"github.com/iota-uz/atlas/pkg/configuration"
)

const (
	userIDHeader   = "X-User-ID"
	tenantIDHeader = "X-Tenant-ID"
)

// Provide stores a static value in the request context under the given key.
func Provide(key any, value any) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestParams captures client parameters and the identity headers set
// by the authenticating gateway. Authentication itself is an external
// collaborator; the console trusts the gateway headers.
func RequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			realIP := r.Header.Get(conf.RealIPHeader)
			if realIP == "" {
				realIP = r.RemoteAddr
			}

			ctx := r.Context()
			authenticated := false
			if raw := r.Header.Get(userIDHeader); raw != "" {
				if userID, err := uuid.Parse(raw); err == nil {
					ctx = composables.WithUserID(ctx, userID)
					authenticated = true
				}
			}
			if raw := r.Header.Get(tenantIDHeader); raw != "" {
				if tenantID, err := uuid.Parse(raw); err == nil {
					ctx = composables.WithTenantID(ctx, tenantID)
				}
			}

			ctx = composables.WithParams(ctx, &composables.Params{
				IP:            realIP,
				UserAgent:     r.UserAgent(),
				Authenticated: authenticated,
				Request:       r,
				Writer:        w,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
