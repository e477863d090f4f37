package game

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"gamehub/internal/paging"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func renderStatement(stmt Statement) []byte {
	var b strings.Builder
	b.WriteString("-- count\n" + stmt.CountSQL + "\n-- count args\n")
	writeArgs(&b, stmt.CountArgs)
	b.WriteString("-- data\n" + stmt.DataSQL + "\n-- data args\n")
	writeArgs(&b, stmt.DataArgs)
	return []byte(b.String())
}

func writeArgs(b *strings.Builder, args []any) {
	for i, a := range args {
		fmt.Fprintf(b, "$%d = %v\n", i+1, a)
	}
}

func TestPlanSQL_Golden(t *testing.T) {
	tests := []struct {
		name string
		page paging.Request
		opts []Option
	}{
		{"planner_no_filters", paging.Request{Page: 1, Size: 10}, nil},
		{"planner_text_search", paging.Request{Page: 2, Size: 5}, []Option{WithText("stardew")}},
		{"planner_genre_platform", paging.Request{Page: 1, Size: 10}, []Option{WithGenre("Strategy"), WithPlatform("PC")}},
		{"planner_escaped_text", paging.Request{Page: 1, Size: 10}, []Option{WithText("100%"), WithGenre("rpg")}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlan(tt.page, tt.opts...)
			require.NoError(t, err)
			g.Assert(t, tt.name, renderStatement(plan.SQL()))
		})
	}
}

func TestPlanSQL_CountIgnoresTierAndWindow(t *testing.T) {
	plan, err := NewPlan(paging.Request{Page: 4, Size: 3}, WithText("zelda"))
	require.NoError(t, err)

	stmt := plan.SQL()
	require.NotContains(t, stmt.CountSQL, "CASE")
	require.NotContains(t, stmt.CountSQL, "LIMIT")
	require.Len(t, stmt.CountArgs, 1)
	require.Len(t, stmt.DataArgs, 5)
	require.Equal(t, 9, stmt.DataArgs[4])
}

func TestPlanSQL_OffsetSaturates(t *testing.T) {
	plan, err := NewPlan(paging.Request{Page: math.MaxInt/10 + 2, Size: 10})
	require.NoError(t, err)

	args := plan.SQL().DataArgs
	require.Equal(t, math.MaxInt, args[len(args)-1])
}
