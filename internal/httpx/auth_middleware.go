package httpx

import (
	"net/http"

	"gamehub/internal/apperr"
	"gamehub/internal/identity"
)

// IdentityMiddleware attaches the caller's identity when the provider resolves
// one. Anonymous requests pass through; routes decide what they need.
func IdentityMiddleware(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := provider.Current(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := identity.NewContext(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFrom(r).Present() {
			WriteError(w, r, apperr.Unauthenticated())
			return
		}
		next.ServeHTTP(w, r)
	})
}
