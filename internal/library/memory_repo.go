package library

import (
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

// Directory resolves library owners.
type Directory interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type key struct {
	userID string
	gameID string
}

// MemoryRepo keeps records in a map guarded by one mutex, so the existence
// check and the write in Insert are a single atomic step.
type MemoryRepo struct {
	catalog Catalog
	users   Directory

	mu      sync.Mutex
	records map[key]Record
}

func NewMemoryRepo(catalog Catalog, users Directory) *MemoryRepo {
	return &MemoryRepo{catalog: catalog, users: users, records: make(map[key]Record)}
}

func (r *MemoryRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	g, err := r.catalog.GetByID(ctx, rec.GameID)
	if err != nil {
		return Record{}, err
	}
	if _, err := r.users.GetByID(ctx, rec.UserID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Record{}, ErrUserNotFound
		}
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{rec.UserID, rec.GameID}
	if _, exists := r.records[k]; exists {
		return Record{}, ErrAlreadyAdded
	}

	now := time.Now().UTC()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	brief := g.Brief()
	rec.Game = &brief
	r.records[k] = rec
	return rec, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, gameID string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key{userID, gameID}]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID, gameID string, p Patch) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{userID, gameID}
	rec, ok := r.records[k]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec = p.Apply(rec)
	rec.UpdatedAt = time.Now().UTC()
	r.records[k] = rec
	return rec, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{userID, gameID}
	if _, ok := r.records[k]; !ok {
		return ErrNotFound
	}
	delete(r.records, k)
	return nil
}

// DeleteUser drops every record owned by userID.
func (r *MemoryRepo) DeleteUser(ctx context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.records {
		if k.userID == userID {
			delete(r.records, k)
		}
	}
}

func (r *MemoryRepo) List(ctx context.Context, userID string, f Filter, page paging.Request, sort paging.Sort) ([]Record, int, error) {
	r.mu.Lock()
	matched := make([]Record, 0)
	for k, rec := range r.records {
		if k.userID != userID {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(rec.Game.Title), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.Unlock()

	slices.SortFunc(matched, func(a, b Record) int {
		c := compareField(a, b, sort.Field)
		if sort.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return paging.Window(matched, page), len(matched), nil
}

func compareField(a, b Record, field string) int {
	switch field {
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "status":
		return strings.Compare(a.Status, b.Status)
	case "title":
		return strings.Compare(a.Game.Title, b.Game.Title)
	default:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
}
