// Package library is the per-user game ledger: one record per (user, game)
// holding an ownership status and free-text notes.
package library

import (
	"strings"
	"time"

	"gamehub/internal/apperr"
	"gamehub/internal/game"
	"gamehub/internal/validation"
)

const (
	StatusOwned      = "Owned"
	StatusWishlisted = "Wishlisted"
	StatusNotOwned   = "Not Owned"

	MaxNotesLength = 400
)

var (
	ErrNotFound     = apperr.NotFound("Game not found in user profile")
	ErrAlreadyAdded = apperr.Conflict("Game already added to user profile")
	ErrUserNotFound = apperr.NotFound("User not found")
)

// SortFields are the declared list sort keys.
var SortFields = []string{"updated_at", "created_at", "status", "title"}

// Record is a user's entry for one game.
type Record struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	GameID    string      `json:"game_id"`
	Status    string      `json:"status"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Game      *game.Brief `json:"game,omitempty"`
}

func (r Record) OwnerID() string { return r.UserID }

// AddInput is the body of an add-to-library request.
type AddInput struct {
	GameID string `json:"game_id" validate:"required,uuid"`
	Status string `json:"status" validate:"library_status"`
	Notes  string `json:"notes" validate:"max=400"`
}

func (in *AddInput) normalize() {
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Status == "" {
		in.Status = StatusNotOwned
	}
}

// Patch updates status and/or notes. Nil fields are left unchanged.
type Patch struct {
	Status *string `json:"status" validate:"omitnil,library_status"`
	Notes  *string `json:"notes" validate:"omitnil,max=400"`
}

func (p Patch) Empty() bool {
	return p.Status == nil && p.Notes == nil
}

func (p Patch) Validate() error {
	return validation.Struct(p)
}

func (p Patch) Apply(r Record) Record {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}

func (p *Patch) normalize() {
	if p.Notes != nil {
		trimmed := strings.TrimSpace(*p.Notes)
		p.Notes = &trimmed
	}
}

// Filter narrows a user's list. Zero values mean no filter.
type Filter struct {
	Status string
	Search string
}

func (f Filter) Validate() error {
	if f.Status != "" && !validation.IsLibraryStatus(f.Status) {
		return apperr.InvalidArgument("Invalid status",
			apperr.FieldError{Field: "status", Message: "Invalid status"})
	}
	return nil
}
