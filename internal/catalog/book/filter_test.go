// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidhoque/boighor/internal/catalog/book"
)

func filterFor(t *testing.T, rawQuery string) book.Filter {
	t.Helper()
	request := httptest.NewRequest("GET", "/api/v1/books", nil)
	request.URL.RawQuery = rawQuery
	return book.FilterFromRequest(request)
}

/*
TestFilter_Defaults verifies that an empty query compiles to the storefront
defaults: no constraints, discontinued excluded, newest first.
*/
func TestFilter_Defaults(t *testing.T) {
	filter := filterFor(t, "")

	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Categories)
	assert.Nil(t, filter.MinPrice)
	assert.Nil(t, filter.MaxPrice)
	assert.Nil(t, filter.MinRating)
	assert.False(t, filter.Featured)
	assert.False(t, filter.Bestseller)
	assert.False(t, filter.IncludeDiscontinued)
	assert.Equal(t, "created_at", filter.SortColumn)
	assert.False(t, filter.SortAsc)
}

/*
TestFilter_SortAllowList verifies that only allow-listed sort fields map to
storage columns and that everything else falls back to createdAt.
*/
func TestFilter_SortAllowList(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"created at", "createdAt", "created_at"},
		{"price", "price", "price"},
		{"title", "title", "title"},
		{"rating", "rating", "rating"},
		{"legacy average rating alias", "averageRating", "rating"},
		{"sold count", "soldCount", "sold_count"},
		{"unknown field", "publisher", "created_at"},
		{"raw column injection", "created_at; DROP TABLE books", "created_at"},
		{"prototype pollution attempt", "__proto__", "created_at"},
		{"empty", "", "created_at"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filter := filterFor(t, "sortBy="+tc.sortBy)
			assert.Equal(t, tc.want, filter.SortColumn)
		})
	}
}

/*
TestFilter_SortOrder verifies that ascending order activates only on the
literal value "asc" (case-insensitive).
*/
func TestFilter_SortOrder(t *testing.T) {
	assert.True(t, filterFor(t, "order=asc").SortAsc)
	assert.True(t, filterFor(t, "order=ASC").SortAsc)
	assert.False(t, filterFor(t, "order=desc").SortAsc)
	assert.False(t, filterFor(t, "order=ascending").SortAsc)
	assert.False(t, filterFor(t, "").SortAsc)
}

/*
TestFilter_Categories verifies comma-separated category parsing with
whitespace trimming and empty-element removal.
*/
func TestFilter_Categories(t *testing.T) {
	filter := filterFor(t, "category=Fiction,Science,%20Poetry%20,")

	require.Len(t, filter.Categories, 3)
	assert.Equal(t, []string{"Fiction", "Science", "Poetry"}, filter.Categories)
}

/*
TestFilter_PriceBounds verifies that the price bounds parse independently
and that malformed values leave their constraint unset rather than failing
the whole request.
*/
func TestFilter_PriceBounds(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		filter := filterFor(t, "minPrice=100&maxPrice=500.50")

		require.NotNil(t, filter.MinPrice)
		require.NotNil(t, filter.MaxPrice)
		assert.Equal(t, 100.0, *filter.MinPrice)
		assert.Equal(t, 500.50, *filter.MaxPrice)
	})

	t.Run("min only", func(t *testing.T) {
		filter := filterFor(t, "minPrice=250")

		require.NotNil(t, filter.MinPrice)
		assert.Equal(t, 250.0, *filter.MinPrice)
		assert.Nil(t, filter.MaxPrice)
	})

	t.Run("malformed value is ignored", func(t *testing.T) {
		filter := filterFor(t, "minPrice=cheap&maxPrice=400")

		assert.Nil(t, filter.MinPrice)
		require.NotNil(t, filter.MaxPrice)
		assert.Equal(t, 400.0, *filter.MaxPrice)
	})
}

/*
TestFilter_MinRatingClamped verifies that the rating bound clamps into the
valid [0, 5] range.
*/
func TestFilter_MinRatingClamped(t *testing.T) {
	filter := filterFor(t, "minRating=9.5")
	require.NotNil(t, filter.MinRating)
	assert.Equal(t, 5.0, *filter.MinRating)

	filter = filterFor(t, "minRating=-2")
	require.NotNil(t, filter.MinRating)
	assert.Equal(t, 0.0, *filter.MinRating)
}

/*
TestFilter_BooleanFlags verifies that flag filters activate only on the
literal value "true".
*/
func TestFilter_BooleanFlags(t *testing.T) {
	assert.True(t, filterFor(t, "featured=true").Featured)
	assert.False(t, filterFor(t, "featured=1").Featured)
	assert.False(t, filterFor(t, "featured=yes").Featured)
	assert.True(t, filterFor(t, "bestseller=true").Bestseller)
	assert.False(t, filterFor(t, "bestseller=false").Bestseller)
}

/*
TestFilter_SearchTrimmed verifies whitespace handling on the search term.
*/
func TestFilter_SearchTrimmed(t *testing.T) {
	assert.Equal(t, "himu", filterFor(t, "search=%20himu%20").Search)
	assert.Empty(t, filterFor(t, "search=%20%20").Search)
}
