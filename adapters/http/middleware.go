package http

import (
	"net/http"

	"github.com/confscope/confscope/domain/scope"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tenancy returns middleware that establishes the ambient tenant id on the
// request context for downstream resolvers, and threads a request-scoped
// logger tagged with a request id. Requests without a resolvable tenant id
// pass through unchanged; a resolver asked for the ambient tenant will then
// fail with scope.ErrContextMissing.
func Tenancy(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().Str("request_id", uuid.NewString()).Logger()
			ctx := reqLogger.WithContext(r.Context())

			if id, err := NewRequestContext(r).TenantID(); err == nil {
				ctx = scope.WithTenantID(ctx, id)
			} else {
				reqLogger.Debug().Err(err).Msg("no tenant id on request")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
