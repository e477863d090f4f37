// Package authz decides whether an identity may mutate a per-user resource.
// The gate is stateless: ownership is plain identity equality.
package authz

import (
	"gamehub/internal/apperr"
	"gamehub/internal/identity"
)

type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Unauthorized
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Decide applies the owner-only rule. An absent identity is Unauthenticated
// whatever the owner is.
func Decide(acting identity.Identity, owner string) Decision {
	if !acting.Present() {
		return Unauthenticated
	}
	if acting.ID != owner {
		return Unauthorized
	}
	return Allowed
}

// Check is Decide expressed as an error.
func Check(acting identity.Identity, owner string) error {
	switch Decide(acting, owner) {
	case Unauthenticated:
		return apperr.Unauthenticated()
	case Unauthorized:
		return apperr.Unauthorized()
	default:
		return nil
	}
}

// Authenticated rejects absent identities on routes that need a session but
// not ownership.
func Authenticated(acting identity.Identity) error {
	if !acting.Present() {
		return apperr.Unauthenticated()
	}
	return nil
}
