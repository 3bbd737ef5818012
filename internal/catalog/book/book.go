// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

/*
Package book defines the core domain entities for the Boighor catalog.

It manages the lifecycle of books sold through the storefront, including
pricing, stock, image descriptors, and the best-of-month selection.

Core Responsibility:

  - Catalog: Defines statuses (Active, Out of stock, Discontinued) and pricing rules.
  - Discovery: Compiles storefront filter parameters into bounded, deterministic queries.
  - Promotion: Enforces the single best-of-month invariant across the collection.

This package acts as the source of truth for all book-related data models.
*/
package book

import (
	"time"

	"github.com/rafidhoque/boighor/internal/platform/media"
)

// # Domain Enums

// Status represents the availability of a book in the storefront.
type Status string

const (
	// StatusActive indicates the book is purchasable.
	StatusActive Status = "active"

	// StatusOutOfStock indicates the book is listed but temporarily unavailable.
	StatusOutOfStock Status = "out_of_stock"

	// StatusDiscontinued indicates the book is permanently withdrawn; the
	// storefront never lists it.
	StatusDiscontinued Status = "discontinued"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOutOfStock, StatusDiscontinued:
		return true
	}
	return false
}

// # Core Entities

// Book is the central aggregate of the Boighor domain.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	// Category is the referenced category's name, not its id. Renaming a
	// category bulk-rewrites this field across the collection.
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	// OriginalPrice is the pre-discount price; it defaults to Price.
	OriginalPrice float64 `json:"originalPrice"`
	// Discount is a whole percentage in [0, 100], derived from the price pair
	// whenever OriginalPrice exceeds Price.
	Discount int           `json:"discount"`
	Stock    int           `json:"stock"`
	Images   []media.Image `json:"images"`
	Rating   float64       `json:"rating"`
	// TotalRatings counts the submissions behind Rating.
	TotalRatings int `json:"totalRatings"`
	// SoldCount feeds category aggregation; absent values count as zero.
	SoldCount  int  `json:"soldCount"`
	Featured   bool `json:"featured"`
	Bestseller bool `json:"bestseller"`
	// BestOfMonth is true for at most one book across the whole collection.
	BestOfMonth     bool       `json:"bestOfMonth"`
	BestOfMonthDate *time.Time `json:"bestOfMonthDate,omitempty"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ApplyDerivedFields enforces the write-path derivation rules on the record.
//
// # Rules
//
//   - OriginalPrice defaults to Price.
//   - Discount is recomputed from the price pair when OriginalPrice > Price.
//   - Zero stock forces StatusOutOfStock unless the book is discontinued.
//   - Gaining the best-of-month flag stamps BestOfMonthDate.
func (b *Book) ApplyDerivedFields(now time.Time) {
	if b.OriginalPrice <= 0 {
		b.OriginalPrice = b.Price
	}

	if b.OriginalPrice > b.Price {
		ratio := (b.OriginalPrice - b.Price) / b.OriginalPrice
		b.Discount = int(ratio*100 + 0.5)
	}

	if b.Stock == 0 && b.Status != StatusDiscontinued {
		b.Status = StatusOutOfStock
	}

	if b.BestOfMonth && b.BestOfMonthDate == nil {
		stamp := now
		b.BestOfMonthDate = &stamp
	}
	if !b.BestOfMonth {
		b.BestOfMonthDate = nil
	}
}

// Patch carries a partial update; nil fields are left untouched.
//
// Both PATCH and PUT decode into a Patch — the storefront dashboard always
// sends field subsets, never whole records.
type Patch struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Discount      *int     `json:"discount"`
	Stock         *int     `json:"stock"`
	Rating        *float64 `json:"rating"`
	TotalRatings  *int     `json:"totalRatings"`
	SoldCount     *int     `json:"soldCount"`
	Featured      *bool    `json:"featured"`
	Bestseller    *bool    `json:"bestseller"`
	BestOfMonth   *bool    `json:"bestOfMonth"`
	Status        *Status  `json:"status"`
}

// ApplyTo copies the non-nil patch fields onto the target book.
func (p Patch) ApplyTo(target *Book) {
	if p.Title != nil {
		target.Title = *p.Title
	}
	if p.Author != nil {
		target.Author = *p.Author
	}
	if p.Category != nil {
		target.Category = *p.Category
	}
	if p.Description != nil {
		target.Description = *p.Description
	}
	if p.Price != nil {
		target.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		target.OriginalPrice = *p.OriginalPrice
	}
	if p.Discount != nil {
		target.Discount = *p.Discount
	}
	if p.Stock != nil {
		target.Stock = *p.Stock
	}
	if p.Rating != nil {
		target.Rating = *p.Rating
	}
	if p.TotalRatings != nil {
		target.TotalRatings = *p.TotalRatings
	}
	if p.SoldCount != nil {
		target.SoldCount = *p.SoldCount
	}
	if p.Featured != nil {
		target.Featured = *p.Featured
	}
	if p.Bestseller != nil {
		target.Bestseller = *p.Bestseller
	}
	if p.BestOfMonth != nil {
		target.BestOfMonth = *p.BestOfMonth
	}
	if p.Status != nil {
		target.Status = *p.Status
	}
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID            = "id"
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldCategory      = "category"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldOriginalPrice = "originalPrice"
	FieldDiscount      = "discount"
	FieldStock         = "stock"
	FieldImages        = "images"
	FieldRating        = "rating"
	FieldStatus        = "status"
	FieldFeatured      = "featured"
	FieldBestseller    = "bestseller"
	FieldBestOfMonth   = "bestOfMonth"
	FieldBookID        = "bookId"
)
