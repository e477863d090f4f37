// Package review is the per-user review ledger: at most one rated write-up
// per (user, game), editable only by its author.
package review

import (
	"strings"
	"time"

	"gamehub/internal/apperr"
	"gamehub/internal/game"
	"gamehub/internal/paging"
	"gamehub/internal/validation"
)

const (
	MaxTitleLength = 40
	MaxBodyLength  = 400
)

var (
	ErrNotFound        = apperr.NotFound("Review not found")
	ErrAlreadyReviewed = apperr.Conflict("Game already reviewed")
	ErrUserNotFound    = apperr.NotFound("User not found")
	ErrNoScope         = apperr.NotFound("Reviews are only available by game or user")
)

var SortFields = []string{"updated_at", "created_at", "title", "rating"}

var DefaultSort = paging.Sort{Field: "updated_at", Desc: true}

// Author is the joined author projection.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Review struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	GameID    string      `json:"game_id"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	Rating    float64     `json:"rating"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	User      *Author     `json:"user,omitempty"`
	Game      *game.Brief `json:"game,omitempty"`
}

func (r Review) OwnerID() string { return r.UserID }

type CreateInput struct {
	GameID string   `json:"game" validate:"required,uuid"`
	Title  string   `json:"title" validate:"required,max=40"`
	Body   string   `json:"body" validate:"required,max=400"`
	Rating *float64 `json:"rating" validate:"required,rating"`
}

func (in *CreateInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
}

// Patch edits title, body and rating. Nil fields are left unchanged; a set
// title or body may not be blank.
type Patch struct {
	Title  *string  `json:"title" validate:"omitnil,min=1,max=40"`
	Body   *string  `json:"body" validate:"omitnil,min=1,max=400"`
	Rating *float64 `json:"rating" validate:"omitnil,rating"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Rating == nil
}

func (p Patch) Validate() error {
	return validation.Struct(p)
}

func (p Patch) Apply(r Review) Review {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Body != nil {
		r.Body = *p.Body
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	return r
}

func (p *Patch) normalize() {
	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		p.Title = &v
	}
	if p.Body != nil {
		v := strings.TrimSpace(*p.Body)
		p.Body = &v
	}
}

// Filter scopes a listing. At least one of GameID and UserID is set.
type Filter struct {
	GameID string
	UserID string
}
