package library

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

const recordColumns = `r.id, r.user_id, r.game_id, r.status, r.notes, r.created_at, r.updated_at, g.title, g.thumbnail_url`

var sortColumns = map[string]string{
	"updated_at": "r.updated_at",
	"created_at": "r.created_at",
	"status":     "r.status",
	"title":      `g.title COLLATE "C"`,
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

func scanRecord(row scanner) (Record, error) {
	var (
		rec   Record
		brief game.Brief
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.GameID, &rec.Status, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&brief.Title, &brief.Thumbnail,
	)
	if err != nil {
		return Record{}, err
	}
	brief.ID = rec.GameID
	rec.Game = &brief
	return rec, nil
}

// Insert relies on the UNIQUE (user_id, game_id) constraint, so two
// concurrent adds cannot both succeed.
func (r *PostgresRepo) Insert(ctx context.Context, rec Record) (Record, error) {
	const query = `
		WITH r AS (
			INSERT INTO user_games (user_id, game_id, status, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, game_id, status, notes, created_at, updated_at
		)
		SELECT ` + recordColumns + `
		FROM r JOIN games g ON g.id = r.game_id`

	var out Record
	err := r.db.Do(ctx, "library.insert", func(ctx context.Context, q store.Querier) error {
		var err error
		out, err = scanRecord(q.QueryRow(ctx, query, rec.UserID, rec.GameID, rec.Status, rec.Notes))
		return err
	})
	if err != nil {
		return Record{}, translateWrite(err)
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, userID, gameID string) (Record, error) {
	const query = `
		SELECT ` + recordColumns + `
		FROM user_games r JOIN games g ON g.id = r.game_id
		WHERE r.user_id = $1 AND r.game_id = $2`

	var out Record
	err := r.db.Do(ctx, "library.get", func(ctx context.Context, q store.Querier) error {
		var err error
		out, err = scanRecord(q.QueryRow(ctx, query, userID, gameID))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return out, err
}

// Update writes only the fields set in p, in a single statement.
func (r *PostgresRepo) Update(ctx context.Context, userID, gameID string, p Patch) (Record, error) {
	const query = `
		WITH r AS (
			UPDATE user_games
			SET status = COALESCE($3, status),
			    notes = COALESCE($4, notes),
			    updated_at = NOW()
			WHERE user_id = $1 AND game_id = $2
			RETURNING id, user_id, game_id, status, notes, created_at, updated_at
		)
		SELECT ` + recordColumns + `
		FROM r JOIN games g ON g.id = r.game_id`

	var out Record
	err := r.db.Do(ctx, "library.update", func(ctx context.Context, q store.Querier) error {
		var err error
		out, err = scanRecord(q.QueryRow(ctx, query, userID, gameID, p.Status, p.Notes))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return out, err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, gameID string) error {
	const query = `DELETE FROM user_games WHERE user_id = $1 AND game_id = $2`

	return r.db.Do(ctx, "library.delete", func(ctx context.Context, q store.Querier) error {
		tag, err := q.Exec(ctx, query, userID, gameID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepo) List(ctx context.Context, userID string, f Filter, page paging.Request, sort paging.Sort) ([]Record, int, error) {
	clauses := []string{"r.user_id = $1"}
	args := []any{userID}
	argn := 2

	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("r.status = $%d", argn))
		args = append(args, f.Status)
		argn++
	}

	if f.Search != "" {
		clauses = append(clauses, fmt.Sprintf("g.title ILIKE $%d", argn))
		args = append(args, "%"+store.EscapeLike(f.Search)+"%")
		argn++
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

	countSQL := "SELECT COUNT(*) FROM user_games r JOIN games g ON g.id = r.game_id " + where
	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM user_games r JOIN games g ON g.id = r.game_id
		%s
		ORDER BY %s %s, r.id ASC
		LIMIT $%d OFFSET $%d`,
		recordColumns, where, sortCol, order, argn, argn+1)

	var (
		total int
		out   []Record
	)
	err := r.db.Do(ctx, "library.list", func(ctx context.Context, q store.Querier) error {
		if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
			return fmt.Errorf("count library: %w", err)
		}

		pageArgs := append(append([]any{}, args...), page.Size, page.Offset())
		rows, err := q.Query(ctx, dataSQL, pageArgs...)
		if err != nil {
			return fmt.Errorf("query library: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return fmt.Errorf("scan library record: %w", err)
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// translateWrite names constraint violations after the resource involved.
func translateWrite(err error) error {
	switch {
	case apperr.IsKind(err, apperr.KindConflict):
		return ErrAlreadyAdded
	case apperr.IsKind(err, apperr.KindNotFound):
		if strings.Contains(store.Constraint(err), "user_id") {
			return ErrUserNotFound
		}
		return game.ErrNotFound
	}
	return err
}
