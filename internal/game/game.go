package game

import (
	"time"

	"gamehub/internal/apperr"
)

// ErrNotFound is returned when a game id does not resolve.
var ErrNotFound = apperr.NotFound("Game not found")

// Game is a catalog item. The catalog is read-only to the rest of the service.
type Game struct {
	ID          string    `json:"id"`
	ExternalID  *int64    `json:"external_id,omitempty"`
	Title       string    `json:"title"`
	Summary     *string   `json:"summary,omitempty"`
	Genres      []string  `json:"genres"`
	Platforms   []string  `json:"platforms"`
	Thumbnail   *string   `json:"thumbnail_url,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
	Rating      *float64  `json:"rating,omitempty"`
	TotalRating *float64  `json:"total_rating,omitempty"`
	RatingCount *int      `json:"rating_count,omitempty"`
	HypeCount   *int      `json:"hype_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Brief is the slice of a game joined into library and review listings.
type Brief struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Thumbnail *string `json:"thumbnail_url,omitempty"`
}

func (g Game) Brief() Brief {
	return Brief{ID: g.ID, Title: g.Title, Thumbnail: g.Thumbnail}
}
