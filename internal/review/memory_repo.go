package review

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"gamehub/internal/game"
	"gamehub/internal/paging"
	"gamehub/internal/user"

	"github.com/google/uuid"
)

// Catalog resolves games for the join.
type Catalog interface {
	GetByID(ctx context.Context, id string) (game.Game, error)
}

// Directory resolves authors for the join.
type Directory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type pair struct {
	userID string
	gameID string
}

// MemoryRepo keeps reviews unjoined and resolves author and game on read, the
// way the SQL join does.
type MemoryRepo struct {
	catalog Catalog
	users   Directory

	mu      sync.Mutex
	reviews map[string]Review
	byPair  map[pair]string
}

func NewMemoryRepo(catalog Catalog, users Directory) *MemoryRepo {
	return &MemoryRepo{
		catalog: catalog,
		users:   users,
		reviews: make(map[string]Review),
		byPair:  make(map[pair]string),
	}
}

func (r *MemoryRepo) join(ctx context.Context, rev Review) (Review, error) {
	g, err := r.catalog.GetByID(ctx, rev.GameID)
	if err != nil {
		return Review{}, err
	}
	u, err := r.users.GetByID(ctx, rev.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Review{}, ErrUserNotFound
		}
		return Review{}, err
	}
	brief := g.Brief()
	rev.Game = &brief
	rev.User = &Author{ID: u.ID, Username: u.Username}
	return rev, nil
}

func (r *MemoryRepo) Insert(ctx context.Context, rev Review) (Review, error) {
	if _, err := r.join(ctx, rev); err != nil {
		return Review{}, err
	}

	r.mu.Lock()
	k := pair{rev.UserID, rev.GameID}
	if _, exists := r.byPair[k]; exists {
		r.mu.Unlock()
		return Review{}, ErrAlreadyReviewed
	}
	now := time.Now().UTC()
	rev.ID = uuid.NewString()
	rev.CreatedAt = now
	rev.UpdatedAt = now
	rev.User, rev.Game = nil, nil
	r.reviews[rev.ID] = rev
	r.byPair[k] = rev.ID
	r.mu.Unlock()

	return r.join(ctx, rev)
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Review, error) {
	r.mu.Lock()
	rev, ok := r.reviews[id]
	r.mu.Unlock()
	if !ok {
		return Review{}, ErrNotFound
	}
	return r.join(ctx, rev)
}

func (r *MemoryRepo) Update(ctx context.Context, id, userID string, p Patch) (Review, error) {
	r.mu.Lock()
	rev, ok := r.reviews[id]
	if !ok || rev.UserID != userID {
		r.mu.Unlock()
		return Review{}, ErrNotFound
	}
	rev = p.Apply(rev)
	rev.UpdatedAt = time.Now().UTC()
	r.reviews[id] = rev
	r.mu.Unlock()

	return r.join(ctx, rev)
}

func (r *MemoryRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rev, ok := r.reviews[id]
	if !ok || rev.UserID != userID {
		return ErrNotFound
	}
	delete(r.reviews, id)
	delete(r.byPair, pair{rev.UserID, rev.GameID})
	return nil
}

// DeleteUser drops every review written by userID.
func (r *MemoryRepo) DeleteUser(ctx context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rev := range r.reviews {
		if rev.UserID == userID {
			delete(r.reviews, id)
			delete(r.byPair, pair{rev.UserID, rev.GameID})
		}
	}
}

func (r *MemoryRepo) List(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) ([]Review, int, error) {
	if f.GameID == "" && f.UserID == "" {
		return nil, 0, ErrNoScope
	}

	r.mu.Lock()
	matched := make([]Review, 0)
	for _, rev := range r.reviews {
		if f.GameID != "" && rev.GameID != f.GameID {
			continue
		}
		if f.UserID != "" && rev.UserID != f.UserID {
			continue
		}
		matched = append(matched, rev)
	}
	r.mu.Unlock()

	slices.SortFunc(matched, func(a, b Review) int {
		c := compareField(a, b, sort.Field)
		if sort.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	window := paging.Window(matched, page)
	out := make([]Review, 0, len(window))
	for _, rev := range window {
		joined, err := r.join(ctx, rev)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, joined)
	}
	return out, len(matched), nil
}

func compareField(a, b Review, field string) int {
	switch field {
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "rating":
		return cmp.Compare(a.Rating, b.Rating)
	default:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
}
