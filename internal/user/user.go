// Package user is the public projection of an account: id, username and bio.
// Credentials live with whatever issues the tokens; this package never sees
// them.
package user

import (
	"strings"
	"time"

	"gamehub/internal/apperr"
	"gamehub/internal/paging"
	"gamehub/internal/validation"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MaxBioLength      = 200
)

var (
	ErrNotFound      = apperr.NotFound("User not found")
	ErrUsernameTaken = apperr.Conflict("Username already taken")
)

var SortFields = []string{"username", "created_at"}

var DefaultSort = paging.Sort{Field: "username"}

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Bio           string    `json:"bio"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsCurrentUser bool      `json:"is_current_user"`
}

func (u User) OwnerID() string { return u.ID }

// NewInput registers a username. Used by the seed tool and tests.
type NewInput struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Bio      string `json:"bio" validate:"max=200"`
}

func (in *NewInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Bio = strings.TrimSpace(in.Bio)
}

// Patch edits the profile. Nil fields are left unchanged.
type Patch struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=20"`
	Bio      *string `json:"bio" validate:"omitnil,max=200"`
}

func (p Patch) Empty() bool {
	return p.Username == nil && p.Bio == nil
}

func (p Patch) Validate() error {
	return validation.Struct(p)
}

func (p Patch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	return u
}

func (p *Patch) normalize() {
	if p.Username != nil {
		v := strings.TrimSpace(*p.Username)
		p.Username = &v
	}
	if p.Bio != nil {
		v := strings.TrimSpace(*p.Bio)
		p.Bio = &v
	}
}

// Filter narrows the directory listing.
type Filter struct {
	Search string
}
