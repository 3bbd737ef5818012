// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

/*
Package category manages the hierarchical classification of the catalog.

Categories carry bilingual (English/Bangla) naming, storefront presentation
attributes, and denormalized aggregates (bookCount, totalSold, avgRating)
refreshed from the book collection after every relevant write.

Core Responsibility:

  - Taxonomy: Parent/child hierarchy with cycle protection.
  - Identity: URL slugs generated from names, Bengali script preserved.
  - Aggregation: Keeps per-category sales and rating figures current.
*/
package category

import (
	"time"
)

// # Core Entities

// Summary is the reduced parent view embedded in category responses.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BanglaName string `json:"banglaName,omitempty"`
	Slug       string `json:"slug"`
}

// Category is a catalog classification node.
//
// Books reference a category by Name, not by id. Renames therefore rewrite
// the book collection in the same transaction as the category row.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BanglaName string `json:"banglaName"`
	// Slug is derived from Name and unique across the collection.
	Slug              string `json:"slug"`
	Description       string `json:"description"`
	BanglaDescription string `json:"banglaDescription"`
	Image             string `json:"image"`
	Icon              string `json:"icon"`
	Color             string `json:"color"`
	// ParentID is nil for root categories.
	ParentID        *string  `json:"-"`
	Parent          *Summary `json:"parentCategory"`
	Order           int      `json:"order"`
	IsActive        bool     `json:"isActive"`
	Featured        bool     `json:"featured"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`

	// Aggregates are derived from the book collection; they are never
	// written directly by API clients.
	BookCount int     `json:"bookCount"`
	TotalSold int     `json:"totalSold"`
	AvgRating float64 `json:"avgRating"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Display fields resolve the lang preference server-side so the
	// storefront renders one field regardless of language.
	DisplayName        string `json:"displayName,omitempty"`
	DisplayDescription string `json:"displayDescription,omitempty"`
}

// Localize fills the display fields for the requested language. Bangla
// falls back to the English fields when no translation exists.
func (c *Category) Localize(lang string) {
	if lang == "bn" && c.BanglaName != "" {
		c.DisplayName = c.BanglaName
	} else {
		c.DisplayName = c.Name
	}
	if lang == "bn" && c.BanglaDescription != "" {
		c.DisplayDescription = c.BanglaDescription
	} else {
		c.DisplayDescription = c.Description
	}
}

// # Presentation Defaults

const (
	// DefaultIcon decorates categories created without one.
	DefaultIcon = "\U0001F4DA"

	// DefaultColor is the storefront accent for categories without one.
	DefaultColor = "#3B82F6"
)

// ApplyDefaults fills the presentation attributes left empty on creation.
func (c *Category) ApplyDefaults() {
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
}

// Patch carries a partial category update; nil fields are left untouched.
//
// ParentID uses a double pointer so the JSON null ("detach from parent")
// stays distinguishable from an absent field.
type Patch struct {
	Name              *string  `json:"name"`
	BanglaName        *string  `json:"banglaName"`
	Description       *string  `json:"description"`
	BanglaDescription *string  `json:"banglaDescription"`
	Image             *string  `json:"image"`
	Icon              *string  `json:"icon"`
	Color             *string  `json:"color"`
	ParentID          **string `json:"parentCategory"`
	Order             *int     `json:"order"`
	IsActive          *bool    `json:"isActive"`
	Featured          *bool    `json:"featured"`
	MetaTitle         *string  `json:"metaTitle"`
	MetaDescription   *string  `json:"metaDescription"`
}

// ApplyTo copies the non-nil patch fields onto the target category.
// The slug is not touched here; renames regenerate it in the service.
func (p Patch) ApplyTo(target *Category) {
	if p.Name != nil {
		target.Name = *p.Name
	}
	if p.BanglaName != nil {
		target.BanglaName = *p.BanglaName
	}
	if p.Description != nil {
		target.Description = *p.Description
	}
	if p.BanglaDescription != nil {
		target.BanglaDescription = *p.BanglaDescription
	}
	if p.Image != nil {
		target.Image = *p.Image
	}
	if p.Icon != nil {
		target.Icon = *p.Icon
	}
	if p.Color != nil {
		target.Color = *p.Color
	}
	if p.ParentID != nil {
		target.ParentID = *p.ParentID
		target.Parent = nil
	}
	if p.Order != nil {
		target.Order = *p.Order
	}
	if p.IsActive != nil {
		target.IsActive = *p.IsActive
	}
	if p.Featured != nil {
		target.Featured = *p.Featured
	}
	if p.MetaTitle != nil {
		target.MetaTitle = *p.MetaTitle
	}
	if p.MetaDescription != nil {
		target.MetaDescription = *p.MetaDescription
	}
}

// # Listing Filter

// Filter is the compiled form of the category listing parameters.
type Filter struct {
	// Search matches case-insensitively across both language name and
	// description fields.
	Search string

	// Featured activates only on the literal query value "true".
	Featured bool

	// IsActive filters on activation state when present.
	IsActive *bool

	// ParentID restricts to children of one category; RootOnly restricts
	// to categories without a parent (query value "null").
	ParentID string
	RootOnly bool

	// Sort is one of the allow-listed keys; unknown keys fall back to
	// recency.
	Sort string

	// Limit truncates the result set when positive.
	Limit int
}

// # Field Identifiers

// Global field names for validation and JSON payloads.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldBanglaName = "banglaName"
	FieldSlug       = "slug"
	FieldParent     = "parentCategory"
	FieldOrder      = "order"
	FieldColor      = "color"
	FieldMoveTo     = "moveTo"
)
