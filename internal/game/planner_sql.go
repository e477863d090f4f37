package game

import (
	"fmt"
	"strings"

	"gamehub/internal/store"
)

const selectColumns = `g.id, g.external_id, g.title, g.summary, g.genres, g.platforms, g.thumbnail_url, g.release_date, g.rating, g.total_rating, g.rating_count, g.hype_count, g.created_at, g.updated_at`

// Statement is a plan rendered for Postgres. The count statement only sees
// the hard filters; the data statement adds tiering and the page window.
type Statement struct {
	CountSQL  string
	CountArgs []any
	DataSQL   string
	DataArgs  []any
}

// SQL renders the plan. Text is bound as LIKE patterns with metacharacters
// escaped, so user input never widens the match.
func (p Plan) SQL() Statement {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if p.Searching() {
		clauses = append(clauses, fmt.Sprintf("g.title ILIKE $%d", argn))
		args = append(args, "%"+store.EscapeLike(p.Text)+"%")
		argn++
	}

	if p.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(g.genres) AS x(v) WHERE x.v ILIKE $%d)", argn))
		args = append(args, "%"+store.EscapeLike(p.Genre)+"%")
		argn++
	}

	if p.Platform != "" {
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(g.platforms) AS x(v) WHERE x.v ILIKE $%d)", argn))
		args = append(args, "%"+store.EscapeLike(p.Platform)+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, "\n  AND ")
	dataArgs := append([]any{}, args...)

	var order []string
	if p.Searching() {
		order = append(order, fmt.Sprintf(
			"CASE WHEN lower(g.title) = lower($%d) THEN %d WHEN g.title ILIKE $%d THEN %d ELSE %d END",
			argn, TierExact, argn+1, TierPrefix, TierSubstring))
		dataArgs = append(dataArgs, p.Text, store.EscapeLike(p.Text)+"%")
		argn += 2
	}
	order = append(order, "g.rating_count DESC NULLS LAST", `g.title COLLATE "C" ASC`, "g.id ASC")

	dataArgs = append(dataArgs, p.Page.Size, p.Page.Offset())

	return Statement{
		CountSQL:  "SELECT COUNT(*)\nFROM games g\n" + where,
		CountArgs: args,
		DataSQL: fmt.Sprintf("SELECT %s\nFROM games g\n%s\nORDER BY %s\nLIMIT $%d OFFSET $%d",
			selectColumns, where, strings.Join(order, ", "), argn, argn+1),
		DataArgs: dataArgs,
	}
}
