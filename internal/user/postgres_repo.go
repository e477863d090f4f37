package user

import (
	"context"
	"errors"
	"fmt"

	"gamehub/internal/apperr"
	"gamehub/internal/paging"
	"gamehub/internal/store"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, bio, created_at, updated_at`

var sortColumns = map[string]string{
	"username":   `username COLLATE "C"`,
	"created_at": "created_at",
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

func scanUser(row scanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (username, bio)
	VALUES ($1, $2)
	RETURNING ` + userColumns

	err := r.db.Do(ctx, "user.create", func(ctx context.Context, q store.Querier) error {
		created, err := scanUser(q.QueryRow(ctx, query, u.Username, u.Bio))
		if err != nil {
			return err
		}
		*u = created
		return nil
	})
	if apperr.IsKind(err, apperr.KindConflict) {
		return ErrUsernameTaken
	}
	return err
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := r.db.Do(ctx, "user.get", func(ctx context.Context, q store.Querier) error {
		var err error
		u, err = scanUser(q.QueryRow(ctx, query, id))
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepo) List(ctx context.Context, f Filter, page paging.Request, sort paging.Sort) ([]User, int, error) {
	where := ""
	args := []any{}
	argn := 1

	if f.Search != "" {
		where = fmt.Sprintf("WHERE username ILIKE $%d", argn)
		args = append(args, "%"+store.EscapeLike(f.Search)+"%")
		argn++
	}

	sortCol, ok := sortColumns[sort.Field]
	if !ok {
		sortCol = sortColumns[DefaultSort.Field]
	}
	order := "ASC"
	if sort.Desc {
		order = "DESC"
	}

	countSQL := "SELECT COUNT(*) FROM users " + where
	dataSQL := fmt.Sprintf(`
	SELECT %s FROM users
	%s
	ORDER BY %s %s, id ASC
	LIMIT $%d OFFSET $%d`, userColumns, where, sortCol, order, argn, argn+1)

	var (
		total int
		out   []User
	)
	err := r.db.Do(ctx, "user.list", func(ctx context.Context, q store.Querier) error {
		if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
			return fmt.Errorf("count users: %w", err)
		}

		rows, err := q.Query(ctx, dataSQL, append(args, page.Size, page.Offset())...)
		if err != nil {
			return fmt.Errorf("query users: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("scan user: %w", err)
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, p Patch) (User, error) {
	const query = `
	UPDATE users
	SET username = COALESCE($2, username),
	    bio = COALESCE($3, bio),
	    updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	var u User
	err := r.db.Do(ctx, "user.update", func(ctx context.Context, q store.Querier) error {
		var err error
		u, err = scanUser(q.QueryRow(ctx, query, id, p.Username, p.Bio))
		return err
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return User{}, ErrNotFound
	case apperr.IsKind(err, apperr.KindConflict):
		return User{}, ErrUsernameTaken
	}
	return u, err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	return r.db.Do(ctx, "user.delete", func(ctx context.Context, q store.Querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
