// Package seed fills a store with demo users and a generated catalog.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"gamehub/internal/game"
	"gamehub/internal/identity"
	"gamehub/internal/logging"
	"gamehub/internal/paging"
	"gamehub/internal/user"
)

var (
	genres    = []string{"Action", "Adventure", "Platformer", "Puzzle", "RPG", "Roguelike", "Shooter", "Strategy", "Simulation", "Racing"}
	platforms = []string{"PC", "PlayStation 5", "Xbox Series X|S", "Nintendo Switch", "iOS", "Android"}
	words     = []string{
		"Hollow", "Crimson", "Star", "Echo", "Iron", "Silent", "Neon", "Frost", "Ember", "Wild",
		"Knight", "Frontier", "Garden", "Signal", "Tower", "Harbor", "Odyssey", "Drift", "Forge", "Tide",
	}
)

// DemoUsers are created by Run. Re-running keeps the existing accounts.
var DemoUsers = []user.NewInput{
	{Username: "alice", Bio: "Platformer completionist."},
	{Username: "bob", Bio: "Mostly strategy games."},
	{Username: "carol"},
}

// Catalog generates n games. Output depends only on n and seed; external ids
// run from 1 to n so repeated upserts update instead of duplicating.
func Catalog(n int, seed uint64) []game.Game {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

	out := make([]game.Game, 0, n)
	for i := range n {
		ext := int64(i + 1)
		title := fmt.Sprintf("%s %s %d", pick(rng, words), pick(rng, words), i+1)
		summary := fmt.Sprintf("A %s game set in the %s.", strings.ToLower(pick(rng, genres)), strings.ToLower(pick(rng, words)))
		g := game.Game{
			ExternalID:  &ext,
			Title:       title,
			Summary:     &summary,
			Genres:      sample(rng, genres, 1+rng.IntN(3)),
			Platforms:   sample(rng, platforms, 1+rng.IntN(4)),
			ReleaseDate: base.AddDate(0, 0, rng.IntN(35*365)),
		}
		if rng.IntN(4) > 0 {
			rating := float64(rng.IntN(1000)) / 10
			count := rng.IntN(5000)
			g.Rating, g.TotalRating, g.RatingCount = &rating, &rating, &count
		}
		if rng.IntN(3) == 0 {
			hype := rng.IntN(500)
			g.HypeCount = &hype
		}
		out = append(out, g)
	}
	return out
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}

func sample(rng *rand.Rand, from []string, n int) []string {
	idx := rng.Perm(len(from))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, from[i])
	}
	return out
}

// Result summarises a Run.
type Result struct {
	Games int
	Users []user.User
}

// Run upserts the catalog and ensures the demo users exist.
func Run(ctx context.Context, games game.Repository, users *user.Service, catalog []game.Game) (Result, error) {
	for i := range catalog {
		if err := games.Upsert(ctx, &catalog[i]); err != nil {
			return Result{}, fmt.Errorf("upsert game %q: %w", catalog[i].Title, err)
		}
	}
	logging.Info().Int("games", len(catalog)).Msg("catalog seeded")

	res := Result{Games: len(catalog)}
	for _, in := range DemoUsers {
		u, err := users.Create(ctx, in)
		if errors.Is(err, user.ErrUsernameTaken) {
			u, err = findUser(ctx, users, in.Username)
		}
		if err != nil {
			return Result{}, fmt.Errorf("seed user %s: %w", in.Username, err)
		}
		res.Users = append(res.Users, u)
	}
	logging.Info().Int("users", len(res.Users)).Msg("users seeded")
	return res, nil
}

func findUser(ctx context.Context, users *user.Service, username string) (user.User, error) {
	page, err := users.List(ctx, identity.Identity{}, user.Filter{Search: username}, paging.Request{Page: 1, Size: 100}, paging.Sort{})
	if err != nil {
		return user.User{}, err
	}
	for _, u := range page.Items {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// Tokens signs a bearer token per seeded user.
func Tokens(secret string, users []user.User, ttl time.Duration) (map[string]string, error) {
	out := make(map[string]string, len(users))
	for _, u := range users {
		tok, err := identity.Sign(secret, identity.Identity{ID: u.ID, Username: u.Username}, ttl)
		if err != nil {
			return nil, err
		}
		out[u.Username] = tok
	}
	return out, nil
}
