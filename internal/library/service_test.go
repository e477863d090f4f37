package library

import (
	"context"
	"strings"
	"sync"
	"testing"

	"gamehub/internal/apperr"
	"gamehub/internal/game"
	"gamehub/internal/identity"
	"gamehub/internal/paging"
	"gamehub/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID   = "11111111-1111-4111-8111-111111111111"
	bobID     = "22222222-2222-4222-8222-222222222222"
	celesteID = "aaaaaaaa-0000-4000-8000-000000000001"
	hollowID  = "aaaaaaaa-0000-4000-8000-000000000002"
	portalID  = "aaaaaaaa-0000-4000-8000-000000000003"
	missingID = "aaaaaaaa-0000-4000-8000-0000000000ff"
)

var (
	alice = identity.Identity{ID: aliceID, Username: "alice"}
	bob   = identity.Identity{ID: bobID, Username: "bob"}
	anon  = identity.Identity{}
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog := game.NewMemoryRepo(
		game.Game{ID: celesteID, Title: "Celeste", Genres: []string{"Platform"}, Platforms: []string{"PC"}},
		game.Game{ID: hollowID, Title: "Hollow Knight", Genres: []string{"Adventure"}, Platforms: []string{"PC"}},
		game.Game{ID: portalID, Title: "Portal 2", Genres: []string{"Puzzle"}, Platforms: []string{"PC"}},
	)
	users := user.NewMemoryRepo(
		user.User{ID: aliceID, Username: "alice"},
		user.User{ID: bobID, Username: "bob"},
	)
	return NewService(NewMemoryRepo(catalog, users))
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	rec, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: hollowID, Status: StatusOwned, Notes: "  One of my favorites!  "})
	require.NoError(t, err)
	assert.Equal(t, StatusOwned, rec.Status)
	assert.Equal(t, "One of my favorites!", rec.Notes)
	require.NotNil(t, rec.Game)
	assert.Equal(t, "Hollow Knight", rec.Game.Title)

	t.Run("status defaults to Not Owned", func(t *testing.T) {
		rec, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: celesteID})
		require.NoError(t, err)
		assert.Equal(t, StatusNotOwned, rec.Status)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: hollowID, Status: StatusOwned})
		assert.ErrorIs(t, err, ErrAlreadyAdded)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("notes too long", func(t *testing.T) {
		_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: portalID, Notes: strings.Repeat("!", 401)})
		require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
		assert.Contains(t, err.Error(), "400 characters or less")
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: portalID, Status: "Borrowed"})
		require.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
		assert.Contains(t, err.Error(), "Invalid status")
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: missingID})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost := identity.Identity{ID: missingID, Username: "ghost"}
		_, err := svc.Add(ctx, ghost, missingID, AddInput{GameID: portalID})
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("someone else's library", func(t *testing.T) {
		_, err := svc.Add(ctx, bob, aliceID, AddInput{GameID: portalID})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Add(ctx, anon, aliceID, AddInput{GameID: portalID})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
	})
}

func TestService_ConcurrentDuplicateAdds(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: portalID, Status: StatusWishlisted})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperr.IsKind(err, apperr.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestService_UpdateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	added, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: celesteID, Status: StatusOwned, Notes: "strawberries"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, alice, aliceID, celesteID, Patch{Status: strPtr(StatusWishlisted)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, aliceID, celesteID)
	require.NoError(t, err)

	assert.Equal(t, StatusWishlisted, got.Status)
	assert.Equal(t, "strawberries", got.Notes, "unpatched field must be unchanged")
	assert.Equal(t, added.ID, got.ID)
	assert.Equal(t, added.CreatedAt, got.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(added.UpdatedAt))
	assert.Equal(t, updated, got)
}

func TestService_UpdateChecks(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: celesteID, Status: StatusOwned})
	require.NoError(t, err)

	tests := []struct {
		name   string
		acting identity.Identity
		gameID string
		patch  Patch
		want   apperr.Kind
	}{
		{"non-owner", bob, celesteID, Patch{Status: strPtr(StatusOwned)}, apperr.KindUnauthorized},
		{"anonymous", anon, celesteID, Patch{Status: strPtr(StatusOwned)}, apperr.KindUnauthenticated},
		{"non-owner on missing record", bob, missingID, Patch{Status: strPtr(StatusOwned)}, apperr.KindUnauthorized},
		{"anonymous on missing record", anon, missingID, Patch{}, apperr.KindUnauthenticated},
		{"empty patch", alice, celesteID, Patch{}, apperr.KindInvalidArgument},
		{"invalid status", alice, celesteID, Patch{Status: strPtr("Borrowed")}, apperr.KindInvalidArgument},
		{"empty status", alice, celesteID, Patch{Status: strPtr("")}, apperr.KindInvalidArgument},
		{"notes too long", alice, celesteID, Patch{Notes: strPtr(strings.Repeat("x", 401))}, apperr.KindInvalidArgument},
		{"missing record", alice, missingID, Patch{Notes: strPtr("hi")}, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.acting, aliceID, tt.gameID, tt.patch)
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}

	_, err = svc.Update(ctx, alice, aliceID, celesteID, Patch{})
	assert.EqualError(t, err, "INVALID_ARGUMENT: No valid fields to update")
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Add(ctx, alice, aliceID, AddInput{GameID: portalID})
	require.NoError(t, err)

	assert.True(t, apperr.IsKind(svc.Remove(ctx, bob, aliceID, portalID), apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(svc.Remove(ctx, anon, aliceID, portalID), apperr.KindUnauthenticated))

	require.NoError(t, svc.Remove(ctx, alice, aliceID, portalID))

	_, err = svc.Get(ctx, aliceID, portalID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, alice, aliceID, portalID), ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, in := range []AddInput{
		{GameID: celesteID, Status: StatusOwned},
		{GameID: hollowID, Status: StatusOwned},
		{GameID: portalID, Status: StatusWishlisted},
	} {
		_, err := svc.Add(ctx, alice, aliceID, in)
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, bob, bobID, AddInput{GameID: celesteID})
	require.NoError(t, err)

	page := paging.Request{Page: 1, Size: 10}

	t.Run("only the user's records", func(t *testing.T) {
		res, err := svc.List(ctx, aliceID, Filter{}, page, paging.Sort{})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := svc.List(ctx, aliceID, Filter{Status: StatusOwned}, page, paging.Sort{})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		for _, rec := range res.Items {
			assert.Equal(t, StatusOwned, rec.Status)
		}
	})

	t.Run("title search", func(t *testing.T) {
		res, err := svc.List(ctx, aliceID, Filter{Search: "cel"}, page, paging.Sort{})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Celeste", res.Items[0].Game.Title)
	})

	t.Run("sorted by title with pagination", func(t *testing.T) {
		res, err := svc.List(ctx, aliceID, Filter{}, paging.Request{Page: 2, Size: 2}, paging.Sort{Field: "title"})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "Portal 2", res.Items[0].Game.Title)
		assert.Equal(t, 2, res.TotalPages)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		_, err := svc.List(ctx, aliceID, Filter{Status: "Borrowed"}, page, paging.Sort{})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})
}
