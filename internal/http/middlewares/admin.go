package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/orcidgate/internal/http/errors"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
	"github.com/dropDatabas3/orcidgate/internal/security/password"
)

// WithAdminAuth gates the admin surface behind a static bearer token.
// tokenHash is the argon2id hash of the expected token; an empty hash
// rejects everything.
func WithAdminAuth(tokenHash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("admin surface disabled"))
				return
			}

			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}

			if !password.Verify(token, tokenHash) {
				logger.From(r.Context()).Warn("admin token rejected",
					logger.ClientIP(clientIP(r)),
				)
				errors.WriteError(w, errors.ErrTokenInvalid)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
