package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process catalog used by the memory driver and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	games []Game
	byID  map[string]int
}

func NewMemoryRepo(games ...Game) *MemoryRepo {
	r := &MemoryRepo{byID: make(map[string]int)}
	for i := range games {
		_ = r.Upsert(context.Background(), &games[i])
	}
	return r
}

func (r *MemoryRepo) Search(ctx context.Context, p Plan) ([]Game, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, total := p.Apply(r.games)
	return items, total, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	return r.games[i], nil
}

// Upsert matches on ExternalID when set, otherwise on ID.
func (r *MemoryRepo) Upsert(ctx context.Context, g *Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if i, ok := r.find(g); ok {
		g.ID = r.games[i].ID
		g.CreatedAt = r.games[i].CreatedAt
		g.UpdatedAt = now
		r.games[i] = *g
		return nil
	}

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	r.byID[g.ID] = len(r.games)
	r.games = append(r.games, *g)
	return nil
}

func (r *MemoryRepo) find(g *Game) (int, bool) {
	if g.ExternalID != nil {
		for i, existing := range r.games {
			if existing.ExternalID != nil && *existing.ExternalID == *g.ExternalID {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := r.byID[g.ID]
	return i, ok
}
