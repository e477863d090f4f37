package user

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"gamehub/internal/paging"

	"github.com/google/uuid"
)

// MemoryRepo is the in-process directory used by the memory driver and tests.
// Usernames are unique case-insensitively, matching the users_username_key
// index.
type MemoryRepo struct {
	mu       sync.RWMutex
	users    map[string]User
	onDelete []func(ctx context.Context, userID string)
}

// OnDelete registers hooks run after a user is removed. The memory driver uses
// them to drop the user's library and reviews, as the foreign keys do in
// Postgres.
func (r *MemoryRepo) OnDelete(hooks ...func(ctx context.Context, userID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onDelete = append(r.onDelete, hooks...)
}

func NewMemoryRepo(users ...User) *MemoryRepo {
	r := &MemoryRepo{users: make(map[string]User, len(users))}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *MemoryRepo) taken(username, except string) bool {
	for id, u := range r.users {
		if id != except && strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(u.Username, "") {
		return ErrUsernameTaken
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) List(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) ([]User, int, error) {
	r.mu.RLock()
	matched := make([]User, 0, len(r.users))
	for _, u := range r.users {
		if f.Search != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(f.Search)) {
			continue
		}
		matched = append(matched, u)
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b User) int {
		var c int
		if sort.Field == "created_at" {
			c = a.CreatedAt.Compare(b.CreatedAt)
		} else {
			c = strings.Compare(a.Username, b.Username)
		}
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

func (r *MemoryRepo) Update(ctx context.Context, id string, p Patch) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if p.Username != nil && r.taken(*p.Username, id) {
		return User{}, ErrUsernameTaken
	}
	u = p.Apply(u)
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return u, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.users, id)
	hooks := slices.Clone(r.onDelete)
	r.mu.Unlock()

	for _, h := range hooks {
		h(ctx, id)
	}
	return nil
}
