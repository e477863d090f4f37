package authz

import (
	"gamehub/internal/apperr"
	"gamehub/internal/identity"
)

// Owned is a resource whose mutation is restricted to a single identity.
type Owned interface {
	OwnerID() string
}

// Patch is a partial update of an owned resource.
type Patch[T Owned] interface {
	// Empty reports that no field is set.
	Empty() bool
	// Validate checks the set fields only.
	Validate() error
	// Apply returns r with the set fields replaced.
	Apply(r T) T
}

// Prepare runs the checks every owner-only update shares, in order: gate,
// empty patch, field validation. Nothing has touched the store when it fails.
func Prepare[T Owned](acting identity.Identity, owner string, p Patch[T]) error {
	if err := Check(acting, owner); err != nil {
		return err
	}
	if p.Empty() {
		return apperr.InvalidArgument("No valid fields to update")
	}
	return p.Validate()
}
