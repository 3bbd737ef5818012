// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

/*
Package stats assembles the storefront's monthly activity snapshot.

The snapshot aggregates the live book collection (totals, promotion counts,
month-over-month growth, most active categories, trending titles) and is
served from a short-lived Redis cache keyed by calendar month.
*/
package stats

import (
	"time"

	"github.com/rafidhoque/boighor/internal/platform/media"
)

// # Snapshot Types

// Statistics holds the collection-wide aggregate figures.
type Statistics struct {
	TotalBooks       int     `json:"totalBooks"`
	TotalSold        int     `json:"totalSold"`
	AvgRating        float64 `json:"avgRating"`
	TotalFeatured    int     `json:"totalFeatured"`
	TotalBestsellers int     `json:"totalBestsellers"`
	TotalThisMonth   int     `json:"totalThisMonth"`
	// GrowthRate compares this month's new titles to last month's, as a
	// percentage rounded to one decimal. A silent prior month reads as 100.
	GrowthRate float64 `json:"growthRate"`
}

// CategoryActivity is one category's share of the month's new titles.
type CategoryActivity struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avgRating"`
	TotalSold int     `json:"totalSold"`
}

// TrendingBook is the reduced book view in the trending list.
type TrendingBook struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	Price      float64       `json:"price"`
	Rating     float64       `json:"rating"`
	Images     []media.Image `json:"images"`
	Category   string        `json:"category"`
	Featured   bool          `json:"featured"`
	Bestseller bool          `json:"bestseller"`
	SoldCount  int           `json:"soldCount"`
}

// Timeframe is the half-open month window the snapshot covers, reported
// with an inclusive end for the storefront.
type Timeframe struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Snapshot is the full monthly stats payload.
type Snapshot struct {
	CurrentMonth  string             `json:"currentMonth"`
	Statistics    Statistics         `json:"statistics"`
	TopCategories []CategoryActivity `json:"topCategories"`
	TrendingBooks []TrendingBook     `json:"trendingBooks"`
	Timeframe     Timeframe          `json:"timeframe"`
}
