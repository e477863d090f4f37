package httpx

import (
	"net/http"

	"gamehub/internal/identity"
	"gamehub/internal/logging"
)

// UserIDFrom returns the id of the identity attached to the request, or "".
func UserIDFrom(r *http.Request) string {
	id, _ := identity.FromContext(r.Context())
	return id.ID
}

// IdentityFrom returns the identity attached by IdentityMiddleware. The zero
// Identity means the caller is anonymous.
func IdentityFrom(r *http.Request) identity.Identity {
	id, _ := identity.FromContext(r.Context())
	return id
}

// RequestIDFrom returns the request id assigned by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}
