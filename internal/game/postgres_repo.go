package game

import (
	"context"
	"errors"
	"fmt"

	"gamehub/internal/store"

	"github.com/jackc/pgx/v5"
)

type PostgresRepo struct {
	db *store.DB
}

func NewPostgresRepo(db *store.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (Game, error) {
	var g Game
	err := row.Scan(
		&g.ID, &g.ExternalID, &g.Title, &g.Summary, &g.Genres, &g.Platforms, &g.Thumbnail,
		&g.ReleaseDate, &g.Rating, &g.TotalRating, &g.RatingCount, &g.HypeCount,
		&g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

func (r *PostgresRepo) Search(ctx context.Context, p Plan) ([]Game, int, error) {
	stmt := p.SQL()

	var (
		total int
		out   []Game
	)
	err := r.db.Do(ctx, "game.search", func(ctx context.Context, q store.Querier) error {
		if err := q.QueryRow(ctx, stmt.CountSQL, stmt.CountArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count games: %w", err)
		}

		rows, err := q.Query(ctx, stmt.DataSQL, stmt.DataArgs...)
		if err != nil {
			return fmt.Errorf("query games: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			g, err := scanGame(rows)
			if err != nil {
				return fmt.Errorf("scan game: %w", err)
			}
			out = append(out, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Game, error) {
	query := `SELECT ` + selectColumns + ` FROM games g WHERE g.id = $1`

	var g Game
	err := r.db.Do(ctx, "game.get", func(ctx context.Context, q store.Querier) error {
		var err error
		g, err = scanGame(q.QueryRow(ctx, query, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Game{}, ErrNotFound
	}
	return g, err
}

// Upsert inserts or refreshes a game keyed by its external catalog id and
// fills in the stored id and timestamps.
func (r *PostgresRepo) Upsert(ctx context.Context, g *Game) error {
	const query = `
		INSERT INTO games (external_id, title, summary, genres, platforms, thumbnail_url,
		                   release_date, rating, total_rating, rating_count, hype_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			genres = EXCLUDED.genres,
			platforms = EXCLUDED.platforms,
			thumbnail_url = EXCLUDED.thumbnail_url,
			release_date = EXCLUDED.release_date,
			rating = EXCLUDED.rating,
			total_rating = EXCLUDED.total_rating,
			rating_count = EXCLUDED.rating_count,
			hype_count = EXCLUDED.hype_count,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return r.db.Do(ctx, "game.upsert", func(ctx context.Context, q store.Querier) error {
		return q.QueryRow(ctx, query,
			g.ExternalID, g.Title, g.Summary, g.Genres, g.Platforms, g.Thumbnail,
			g.ReleaseDate, g.Rating, g.TotalRating, g.RatingCount, g.HypeCount,
		).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	})
}
