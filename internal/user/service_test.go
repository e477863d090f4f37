package user

import (
	"context"
	"strings"
	"testing"

	"gamehub/internal/apperr"
	"gamehub/internal/identity"
	"gamehub/internal/paging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, svc *Service, names ...string) []User {
	t.Helper()
	out := make([]User, 0, len(names))
	for _, name := range names {
		u, err := svc.Create(context.Background(), NewInput{Username: name, Bio: "hi, I'm " + name})
		require.NoError(t, err)
		out = append(out, u)
	}
	return out
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())

	u, err := svc.Create(ctx, NewInput{Username: "  ness  "})
	require.NoError(t, err)
	assert.Equal(t, "ness", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = svc.Create(ctx, NewInput{Username: "NESS"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Create(ctx, NewInput{Username: "ab"})
	require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	users := seed(t, svc, "ness", "paula")
	ness := identity.Identity{ID: users[0].ID, Username: "ness"}

	self, err := svc.Get(ctx, ness, users[0].ID)
	require.NoError(t, err)
	assert.True(t, self.IsCurrentUser)

	other, err := svc.Get(ctx, ness, users[1].ID)
	require.NoError(t, err)
	assert.False(t, other.IsCurrentUser)

	_, err = svc.Get(ctx, ness, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	users := seed(t, svc, "ness", "paula")
	ness := identity.Identity{ID: users[0].ID, Username: "ness"}
	paula := identity.Identity{ID: users[1].ID, Username: "paula"}

	t.Run("owner", func(t *testing.T) {
		u, err := svc.Update(ctx, ness, ness.ID, Patch{Username: strPtr("ness2"), Bio: strPtr("Updated bio")})
		require.NoError(t, err)
		assert.Equal(t, "ness2", u.Username)
		assert.Equal(t, "Updated bio", u.Bio)
		assert.True(t, u.IsCurrentUser)
	})

	tests := []struct {
		name   string
		acting identity.Identity
		patch  Patch
		want   apperr.Kind
		msg    string
	}{
		{"other user", paula, Patch{Username: strPtr("hijack")}, apperr.KindUnauthorized, "Unauthorized"},
		{"anonymous", identity.Identity{}, Patch{Bio: strPtr("x")}, apperr.KindUnauthenticated, "Unauthenticated"},
		{"empty", ness, Patch{}, apperr.KindInvalidArgument, "No valid fields to update"},
		{"short username", ness, Patch{Username: strPtr("a")}, apperr.KindInvalidArgument, "at least 3 characters"},
		{"long bio", ness, Patch{Bio: strPtr(strings.Repeat("a", 201))}, apperr.KindInvalidArgument, "bio must be 200 characters or less"},
		{"taken username", ness, Patch{Username: strPtr("Paula")}, apperr.KindConflict, "Username already taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.acting, ness.ID, tt.patch)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	users := seed(t, svc, "ness", "paula")
	ness := identity.Identity{ID: users[0].ID}
	paula := identity.Identity{ID: users[1].ID}

	assert.True(t, apperr.IsKind(svc.Delete(ctx, paula, ness.ID), apperr.KindUnauthorized))
	require.NoError(t, svc.Delete(ctx, ness, ness.ID))

	_, err := svc.Get(ctx, paula, ness.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_OnDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo(User{ID: "u1", Username: "ness"})

	var removed []string
	repo.OnDelete(func(_ context.Context, id string) { removed = append(removed, id) })

	require.NoError(t, repo.Delete(ctx, "u1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1"), ErrNotFound)
	assert.Equal(t, []string{"u1"}, removed, "hooks run once, only for deleted users")
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	users := seed(t, svc, "poo", "paula", "jeff", "ness")
	ness := identity.Identity{ID: users[3].ID}

	res, err := svc.List(ctx, ness, Filter{}, paging.Request{Page: 1, Size: 10}, paging.Sort{})
	require.NoError(t, err)
	names := make([]string, 0, len(res.Items))
	for _, u := range res.Items {
		names = append(names, u.Username)
		assert.Equal(t, u.ID == ness.ID, u.IsCurrentUser)
	}
	assert.Equal(t, []string{"jeff", "ness", "paula", "poo"}, names)

	res, err = svc.List(ctx, ness, Filter{Search: "P"}, paging.Request{Page: 1, Size: 1}, paging.Sort{Field: "username", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "poo", res.Items[0].Username)

	_, err = svc.List(ctx, ness, Filter{}, paging.Request{Page: 0, Size: 10}, paging.Sort{})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}
