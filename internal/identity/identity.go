// Package identity is the boundary to the external identity collaborator.
// Credentials are issued elsewhere; this package only resolves who is calling.
package identity

import (
	"context"
	"net/http"
)

// Identity is an authenticated caller.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Present reports whether the identity refers to a caller at all.
func (i Identity) Present() bool {
	return i.ID != ""
}

// Provider resolves the identity attached to a request.
type Provider interface {
	Current(r *http.Request) (Identity, bool)
}

type contextKey struct{}

// NewContext stores id in ctx.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok && id.Present()
}
