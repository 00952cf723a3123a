package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/orcidgate/internal/http/errors"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// WithRecover catches panics and answers with a 500 instead of crashing.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := logger.From(r.Context())
					log.Error("panic recovered",
						logger.Op("recover"),
						logger.Any("panic", rec),
					)

					errors.WriteError(w, errors.ErrInternalServerError.WithDetail("panic recovered"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
