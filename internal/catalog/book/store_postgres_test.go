// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

/*
TestCompileWhere_Default verifies that an empty filter still excludes
discontinued books, with the status bound as a positional argument.
*/
func TestCompileWhere_Default(t *testing.T) {
	where, args := compileWhere(Filter{})

	assert.Equal(t, "WHERE status <> $1", where)
	assert.Equal(t, []any{string(StatusDiscontinued)}, args)
}

/*
TestCompileWhere_IncludeDiscontinued verifies that the admin listing's
filter compiles to no WHERE clause at all.
*/
func TestCompileWhere_IncludeDiscontinued(t *testing.T) {
	where, args := compileWhere(Filter{IncludeDiscontinued: true})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

/*
TestCompileWhere_Categories verifies the membership semantics: a single
name compiles to equality, several names to = ANY over the whole set.
*/
func TestCompileWhere_Categories(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		where, args := compileWhere(Filter{
			IncludeDiscontinued: true,
			Categories:          []string{"Fiction"},
		})

		assert.Equal(t, "WHERE category = $1", where)
		assert.Equal(t, []any{"Fiction"}, args)
	})

	t.Run("multiple combine as OR", func(t *testing.T) {
		where, args := compileWhere(Filter{
			IncludeDiscontinued: true,
			Categories:          []string{"Fiction", "Poetry", "History"},
		})

		assert.Equal(t, "WHERE category = ANY($1)", where)
		require.Len(t, args, 1)
		assert.Equal(t, []string{"Fiction", "Poetry", "History"}, args[0])
	})
}

/*
TestCompileWhere_PriceBounds verifies that both bounds compile inclusively
and independently of each other.
*/
func TestCompileWhere_PriceBounds(t *testing.T) {
	where, args := compileWhere(Filter{
		IncludeDiscontinued: true,
		MinPrice:            floatPtr(100),
		MaxPrice:            floatPtr(500),
	})

	assert.Equal(t, "WHERE price >= $1 AND price <= $2", where)
	assert.Equal(t, []any{100.0, 500.0}, args)

	where, args = compileWhere(Filter{IncludeDiscontinued: true, MinPrice: floatPtr(100)})
	assert.Equal(t, "WHERE price >= $1", where)
	assert.Equal(t, []any{100.0}, args)
}

/*
TestCompileWhere_Search verifies that the search term spans title, author,
and description through one shared placeholder, and that the LIKE
metacharacters in user input are escaped so they match literally.
*/
func TestCompileWhere_Search(t *testing.T) {
	where, args := compileWhere(Filter{IncludeDiscontinued: true, Search: "himu"})

	assert.Equal(t, "WHERE (title ILIKE $1 OR author ILIKE $1 OR description ILIKE $1)", where)
	assert.Equal(t, []any{"%himu%"}, args)

	_, args = compileWhere(Filter{IncludeDiscontinued: true, Search: "100% _original_"})
	require.Len(t, args, 1)
	assert.Equal(t, `%100\% \_original\_%`, args[0])
}

/*
TestCompileWhere_Flags verifies the boolean toggles and that every
condition joins with AND.
*/
func TestCompileWhere_Flags(t *testing.T) {
	where, args := compileWhere(Filter{
		Featured:   true,
		Bestseller: true,
		MinRating:  floatPtr(4),
	})

	assert.Equal(t, "WHERE status <> $1 AND rating >= $2 AND featured = TRUE AND bestseller = TRUE", where)
	assert.Equal(t, []any{string(StatusDiscontinued), 4.0}, args)
}

/*
TestBuildListQuery_DefaultSortColumn verifies that a hand-built filter with
no sort column renders a valid ORDER BY on recency. The admin listing
constructs its filter this way, bypassing the request compiler.
*/
func TestBuildListQuery_DefaultSortColumn(t *testing.T) {
	query, args := buildListQuery(Filter{IncludeDiscontinued: true}, 1000, 0)

	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.NotContains(t, query, "ORDER BY  ")
	assert.Equal(t, []any{1000, 0}, args)
}

/*
TestBuildListQuery_Shape verifies the assembled listing query: window count,
compiled WHERE, resolved sort, and limit/offset placeholders numbered after
the filter arguments.
*/
func TestBuildListQuery_Shape(t *testing.T) {
	query, args := buildListQuery(Filter{
		Categories: []string{"Fiction"},
		SortColumn: "price",
		SortAsc:    true,
	}, 12, 24)

	assert.Contains(t, query, "COUNT(*) OVER() AS total_count")
	assert.Contains(t, query, "WHERE status <> $1 AND category = $2")
	assert.Contains(t, query, "ORDER BY price ASC")
	assert.Contains(t, query, fmt.Sprintf("LIMIT $%d OFFSET $%d", 3, 4))
	assert.Equal(t, []any{string(StatusDiscontinued), "Fiction", 12, 24}, args)
}
