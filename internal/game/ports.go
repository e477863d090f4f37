package game

import (
	"context"
)

// Repository is the catalog store.
type Repository interface {
	Search(ctx context.Context, p Plan) ([]Game, int, error)
	GetByID(ctx context.Context, id string) (Game, error)
	Upsert(ctx context.Context, g *Game) error
}
