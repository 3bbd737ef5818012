// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book

import (
	"net/http"
	"strings"

	"github.com/rafidhoque/boighor/pkg/query"
)

// # Filter Compilation

// Filter is the compiled, validated form of the storefront's listing
// parameters. Zero values mean "no constraint"; a malformed optional
// parameter compiles to its zero value rather than an error.
type Filter struct {
	// Search matches as a case-insensitive substring across title, author,
	// and description. Whitespace-only input is treated as absent.
	Search string

	// Categories holds one or more category names; multiple names combine
	// as set membership (OR), never intersection.
	Categories []string

	// Price bounds are inclusive and independently optional.
	MinPrice *float64
	MaxPrice *float64

	// MinRating is clamped into [0, 5] when present.
	MinRating *float64

	// Flag filters activate only on the literal query value "true".
	Featured   bool
	Bestseller bool

	// IncludeDiscontinued lifts the storefront's default exclusion of
	// discontinued books. Only the admin listing sets it.
	IncludeDiscontinued bool

	// SortColumn is a member of the sort allow-list, already mapped to its
	// storage column. SortAsc is true only for the literal order "asc".
	SortColumn string
	SortAsc    bool
}

// sortColumns is the allow-list of sortable fields, mapped to storage
// columns. It exists to prevent constructing a sort on an arbitrary or
// attacker-controlled field; anything else falls back to createdAt.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"rating":    "rating",
	"title":     "title",
	// averageRating is a legacy alias the storefront still sends.
	"averageRating": "rating",
	"soldCount":     "sold_count",
}

// defaultSortColumn is the fallback for absent or unlisted sortBy values.
const defaultSortColumn = "created_at"

// FilterFromRequest compiles the request's query parameters into a [Filter].
//
// # Leniency
//
// Every optional parameter is parsed independently; a value that fails to
// parse leaves its constraint unset. The whole request is never rejected
// for a bad optional filter value.
func FilterFromRequest(r *http.Request) Filter {
	params := r.URL.Query()

	filter := Filter{
		Search:     strings.TrimSpace(params.Get("search")),
		Categories: query.StringSlice(params.Get("category")),
		Featured:   query.Bool(params.Get("featured")),
		Bestseller: query.Bool(params.Get("bestseller")),
	}

	if min, ok := query.Float(params.Get("minPrice")); ok {
		filter.MinPrice = &min
	}
	if max, ok := query.Float(params.Get("maxPrice")); ok {
		filter.MaxPrice = &max
	}

	if rating, ok := query.Float(params.Get("minRating")); ok {
		clamped := clamp(rating, 0, 5)
		filter.MinRating = &clamped
	}

	filter.SortColumn = compileSort(params.Get("sortBy"))
	filter.SortAsc = strings.ToLower(params.Get("order")) == "asc"

	return filter
}

// compileSort maps sortBy onto the allow-list, falling back to createdAt.
func compileSort(sortBy string) string {
	if column, ok := sortColumns[sortBy]; ok {
		return column
	}
	return defaultSortColumn
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
