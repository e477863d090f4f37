package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gamehub/internal/apperr"
	"gamehub/internal/game"
	"gamehub/internal/paging"
	"gamehub/internal/store"

	"github.com/jackc/pgx/v5"
)

const reviewColumns = `v.id, v.user_id, v.game_id, v.title, v.body, v.rating, v.created_at, v.updated_at,
	u.username, g.title, g.thumbnail_url`

const reviewJoins = `JOIN users u ON u.id = v.user_id JOIN games g ON g.id = v.game_id`

var sortColumns = map[string]string{
	"updated_at": "v.updated_at",
	"created_at": "v.created_at",
	"title":      `v.title COLLATE "C"`,
	"rating":     "v.rating",
}

type PostgresRepo struct {
	db *store.DB
}

func NewPostgresRepo(db *store.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(row scanner) (Review, error) {
	var (
		rev    Review
		author Author
		brief  game.Brief
	)
	err := row.Scan(
		&rev.ID, &rev.UserID, &rev.GameID, &rev.Title, &rev.Body, &rev.Rating, &rev.CreatedAt, &rev.UpdatedAt,
		&author.Username, &brief.Title, &brief.Thumbnail,
	)
	if err != nil {
		return Review{}, err
	}
	author.ID = rev.UserID
	brief.ID = rev.GameID
	rev.User = &author
	rev.Game = &brief
	return rev, nil
}

// Insert relies on UNIQUE (user_id, game_id); the losing side of a race gets
// ErrAlreadyReviewed.
func (r *PostgresRepo) Insert(ctx context.Context, rev Review) (Review, error) {
	const query = `
		WITH v AS (
			INSERT INTO reviews (user_id, game_id, title, body, rating)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id, game_id, title, body, rating, created_at, updated_at
		)
		SELECT ` + reviewColumns + `
		FROM v ` + reviewJoins

	var out Review
	err := r.db.Do(ctx, "review.insert", func(ctx context.Context, q store.Querier) error {
		var err error
		out, err = scanReview(q.QueryRow(ctx, query, rev.UserID, rev.GameID, rev.Title, rev.Body, rev.Rating))
		return err
	})
	if err != nil {
		return Review{}, translateWrite(err)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews v ` + reviewJoins + ` WHERE v.id = $1`

	var out Review
	err := r.db.Do(ctx, "review.get", func(ctx context.Context, q store.Querier) error {
		var err error
		out, err = scanReview(q.QueryRow(ctx, query, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return out, err
}

func (r *PostgresRepo) Update(ctx context.Context, id, userID string, p Patch) (Review, error) {
	const query = `
		WITH v AS (
			UPDATE reviews
			SET title = COALESCE($3, title),
			    body = COALESCE($4, body),
			    rating = COALESCE($5, rating),
			    updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, game_id, title, body, rating, created_at, updated_at
		)
		SELECT ` + reviewColumns + `
		FROM v ` + reviewJoins

	var out Review
	err := r.db.Do(ctx, "review.update", func(ctx context.Context, q store.Querier) error {
		var err error
		out, err = scanReview(q.QueryRow(ctx, query, id, userID, p.Title, p.Body, p.Rating))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return out, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id, userID string) error {
	return r.db.Do(ctx, "review.delete", func(ctx context.Context, q store.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepo) List(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) ([]Review, int, error) {
	clauses := []string{}
	args := []any{}
	argn := 1

	if f.GameID != "" {
		clauses = append(clauses, fmt.Sprintf("v.game_id = $%d", argn))
		args = append(args, f.GameID)
		argn++
	}

	if f.UserID != "" {
		clauses = append(clauses, fmt.Sprintf("v.user_id = $%d", argn))
		args = append(args, f.UserID)
		argn++
	}

	if len(clauses) == 0 {
		return nil, 0, ErrNoScope
	}
	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol, ok := sortColumns[sort.Field]
	if !ok {
		sortCol = sortColumns[DefaultSort.Field]
	}
	order := "ASC"
	if sort.Desc {
		order = "DESC"
	}

	countSQL := "SELECT COUNT(*) FROM reviews v " + where
	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM reviews v %s
		%s
		ORDER BY %s %s, v.id ASC
		LIMIT $%d OFFSET $%d`,
		reviewColumns, reviewJoins, where, sortCol, order, argn, argn+1)

	var (
		total int
		out   []Review
	)
	err := r.db.Do(ctx, "review.list", func(ctx context.Context, q store.Querier) error {
		if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
			return fmt.Errorf("count reviews: %w", err)
		}

		pageArgs := append(append([]any{}, args...), page.Size, page.Offset())
		rows, err := q.Query(ctx, dataSQL, pageArgs...)
		if err != nil {
			return fmt.Errorf("query reviews: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			rev, err := scanReview(rows)
			if err != nil {
				return fmt.Errorf("scan review: %w", err)
			}
			out = append(out, rev)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func translateWrite(err error) error {
	switch {
	case apperr.IsKind(err, apperr.KindConflict):
		return ErrAlreadyReviewed
	case apperr.IsKind(err, apperr.KindNotFound):
		if strings.Contains(store.Constraint(err), "user_id") {
			return ErrUserNotFound
		}
		return game.ErrNotFound
	}
	return err
}
