package game

import (
	"slices"
	"strings"

	"gamehub/internal/paging"
)

// Match tiers for a title search, best first.
const (
	TierExact = iota
	TierPrefix
	TierSubstring
)

// Plan is a fully resolved catalog query. Build it with NewPlan; the zero
// filters mean "no filter".
type Plan struct {
	Text     string
	Genre    string
	Platform string
	Page     paging.Request
}

// Option sets one filter on a Plan.
type Option func(*Plan)

// WithText narrows to titles containing text, case-insensitively, and ranks
// exact and prefix matches first. Blank text is no filter.
func WithText(text string) Option {
	return func(p *Plan) { p.Text = strings.TrimSpace(text) }
}

// WithGenre keeps games having a genre that contains genre.
func WithGenre(genre string) Option {
	return func(p *Plan) { p.Genre = strings.TrimSpace(genre) }
}

// WithPlatform keeps games having a platform that contains platform.
func WithPlatform(platform string) Option {
	return func(p *Plan) { p.Platform = strings.TrimSpace(platform) }
}

// NewPlan validates page and applies opts. Page sizes are not clamped.
func NewPlan(page paging.Request, opts ...Option) (Plan, error) {
	if err := page.Validate(); err != nil {
		return Plan{}, err
	}
	p := Plan{Page: page}
	for _, opt := range opts {
		opt(&p)
	}
	return p, nil
}

// Searching reports whether the text filter is active.
func (p Plan) Searching() bool {
	return p.Text != ""
}

// Matches reports whether g passes every active filter. Tiering plays no part.
func (p Plan) Matches(g Game) bool {
	if p.Searching() && !containsFold(g.Title, p.Text) {
		return false
	}
	if p.Genre != "" && !anyContainsFold(g.Genres, p.Genre) {
		return false
	}
	if p.Platform != "" && !anyContainsFold(g.Platforms, p.Platform) {
		return false
	}
	return true
}

// Tier ranks a matching title against the search text.
func (p Plan) Tier(g Game) int {
	title, text := strings.ToLower(g.Title), strings.ToLower(p.Text)
	switch {
	case title == text:
		return TierExact
	case strings.HasPrefix(title, text):
		return TierPrefix
	default:
		return TierSubstring
	}
}

// Compare orders two matching games: tier (when searching), rating count
// descending with absent counts last, title by bytes, then id.
func (p Plan) Compare(a, b Game) int {
	if p.Searching() {
		if c := p.Tier(a) - p.Tier(b); c != 0 {
			return c
		}
	}
	if c := compareCountDesc(a.RatingCount, b.RatingCount); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// Apply evaluates the plan over an in-memory catalog and returns the page
// window plus the number of matching games.
func (p Plan) Apply(catalog []Game) ([]Game, int) {
	matched := make([]Game, 0, len(catalog))
	for _, g := range catalog {
		if p.Matches(g) {
			matched = append(matched, g)
		}
	}
	slices.SortFunc(matched, p.Compare)
	return paging.Window(matched, p.Page), len(matched)
}

func compareCountDesc(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyContainsFold(values []string, substr string) bool {
	for _, v := range values {
		if containsFold(v, substr) {
			return true
		}
	}
	return false
}
