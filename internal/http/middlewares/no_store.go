package middlewares

import "net/http"

// WithNoStore adds Cache-Control: no-store to the response.
// The callback pages must never be served from a cache.
func WithNoStore() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
