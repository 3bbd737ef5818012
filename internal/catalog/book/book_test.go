// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidhoque/boighor/internal/catalog/book"
)

/*
TestApplyDerivedFields_OriginalPriceDefaults verifies that a missing
original price falls back to the selling price.
*/
func TestApplyDerivedFields_OriginalPriceDefaults(t *testing.T) {
	record := book.Book{Price: 350, Stock: 5, Status: book.StatusActive}
	record.ApplyDerivedFields(time.Now())

	assert.Equal(t, 350.0, record.OriginalPrice)
	assert.Equal(t, 0, record.Discount)
}

/*
TestApplyDerivedFields_DiscountComputed verifies the discount percentage
derivation from the price pair, rounded to the nearest whole percent.
*/
func TestApplyDerivedFields_DiscountComputed(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		originalPrice float64
		want          int
	}{
		{"half off", 200, 400, 50},
		{"one third off rounds", 200, 300, 33},
		{"two thirds off rounds up", 100, 300, 67},
		{"no markdown", 400, 400, 0},
		{"price above original leaves discount alone", 500, 400, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record := book.Book{Price: tc.price, OriginalPrice: tc.originalPrice, Stock: 1, Status: book.StatusActive}
			record.ApplyDerivedFields(time.Now())
			assert.Equal(t, tc.want, record.Discount)
		})
	}
}

/*
TestApplyDerivedFields_ZeroStock verifies the stock/status couplings: zero
stock forces out_of_stock, but a discontinued book stays discontinued.
*/
func TestApplyDerivedFields_ZeroStock(t *testing.T) {
	record := book.Book{Price: 100, Stock: 0, Status: book.StatusActive}
	record.ApplyDerivedFields(time.Now())
	assert.Equal(t, book.StatusOutOfStock, record.Status)

	record = book.Book{Price: 100, Stock: 0, Status: book.StatusDiscontinued}
	record.ApplyDerivedFields(time.Now())
	assert.Equal(t, book.StatusDiscontinued, record.Status)

	record = book.Book{Price: 100, Stock: 7, Status: book.StatusActive}
	record.ApplyDerivedFields(time.Now())
	assert.Equal(t, book.StatusActive, record.Status)
}

/*
TestApplyDerivedFields_BestOfMonthDate verifies the selection date
stamping: gaining the flag stamps the date once, losing it clears the date.
*/
func TestApplyDerivedFields_BestOfMonthDate(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	record := book.Book{Price: 100, Stock: 1, Status: book.StatusActive, BestOfMonth: true}
	record.ApplyDerivedFields(now)
	require.NotNil(t, record.BestOfMonthDate)
	assert.Equal(t, now, *record.BestOfMonthDate)

	// A second derivation pass must not restamp.
	later := now.Add(48 * time.Hour)
	record.ApplyDerivedFields(later)
	assert.Equal(t, now, *record.BestOfMonthDate)

	// Clearing the flag clears the date.
	record.BestOfMonth = false
	record.ApplyDerivedFields(later)
	assert.Nil(t, record.BestOfMonthDate)
}

/*
TestPatch_ApplyTo verifies that only non-nil patch fields overwrite the
target and that explicit zero values are honoured.
*/
func TestPatch_ApplyTo(t *testing.T) {
	target := book.Book{
		Title:    "পথের পাঁচালী",
		Author:   "Bibhutibhushan Bandyopadhyay",
		Category: "Fiction",
		Price:    450,
		Stock:    12,
		Featured: true,
		Status:   book.StatusActive,
	}

	newPrice := 0.0
	newStock := 0
	newFeatured := false
	patch := book.Patch{
		Price:    &newPrice,
		Stock:    &newStock,
		Featured: &newFeatured,
	}

	patch.ApplyTo(&target)

	// Patched fields take the explicit zero values.
	assert.Equal(t, 0.0, target.Price)
	assert.Equal(t, 0, target.Stock)
	assert.False(t, target.Featured)

	// Untouched fields survive.
	assert.Equal(t, "পথের পাঁচালী", target.Title)
	assert.Equal(t, "Fiction", target.Category)
	assert.Equal(t, book.StatusActive, target.Status)
}
