package authz

import (
	"errors"
	"testing"

	"gamehub/internal/apperr"
	"gamehub/internal/identity"

	"github.com/stretchr/testify/assert"
)

var (
	owner    = identity.Identity{ID: "owner-id", Username: "owner"}
	stranger = identity.Identity{ID: "stranger-id", Username: "stranger"}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		acting identity.Identity
		owner  string
		want   Decision
	}{
		{name: "owner", acting: owner, owner: owner.ID, want: Allowed},
		{name: "stranger", acting: stranger, owner: owner.ID, want: Unauthorized},
		{name: "anonymous", acting: identity.Identity{}, owner: owner.ID, want: Unauthenticated},
		{name: "anonymous on unknown owner", acting: identity.Identity{}, owner: "", want: Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.acting, tt.owner))
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(owner, owner.ID))
	assert.True(t, apperr.IsKind(Check(stranger, owner.ID), apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(Check(identity.Identity{}, owner.ID), apperr.KindUnauthenticated))
}

func TestAuthenticated(t *testing.T) {
	assert.NoError(t, Authenticated(stranger))
	assert.True(t, apperr.IsKind(Authenticated(identity.Identity{}), apperr.KindUnauthenticated))
}

type note struct {
	owner string
	text  string
}

func (n note) OwnerID() string { return n.owner }

type notePatch struct {
	text *string
}

func (p notePatch) Empty() bool { return p.text == nil }

func (p notePatch) Validate() error {
	if len(*p.text) > 5 {
		return apperr.InvalidArgument("text too long")
	}
	return nil
}

func (p notePatch) Apply(n note) note {
	if p.text != nil {
		n.text = *p.text
	}
	return n
}

func TestPrepare(t *testing.T) {
	short, long := "hey", "too long"

	t.Run("owner with valid patch", func(t *testing.T) {
		err := Prepare[note](owner, owner.ID, notePatch{text: &short})
		assert.NoError(t, err)
	})

	t.Run("gate runs before validation", func(t *testing.T) {
		err := Prepare[note](stranger, owner.ID, notePatch{text: &long})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

		err = Prepare[note](identity.Identity{}, owner.ID, notePatch{})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})

	t.Run("empty patch", func(t *testing.T) {
		err := Prepare[note](owner, owner.ID, notePatch{})
		var appErr *apperr.Error
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, "No valid fields to update", appErr.Message)
	})

	t.Run("invalid field", func(t *testing.T) {
		err := Prepare[note](owner, owner.ID, notePatch{text: &long})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("apply keeps unpatched owner", func(t *testing.T) {
		n := notePatch{text: &short}.Apply(note{owner: owner.ID, text: "old"})
		assert.Equal(t, note{owner: owner.ID, text: short}, n)
	})
}
