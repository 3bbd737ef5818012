// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package category

import "context"

// # Persistence Contract

// Repository defines the persistence boundary for the category taxonomy.
type Repository interface {
	/*
		List retrieves categories matching the filter.

		Parameters:
		  - context: Request-scoped context
		  - filter: Compiled listing constraints

		Returns:
		  - []*Category: Matches with parent summaries populated
		  - error: System level errors
	*/
	List(context context.Context, filter Filter) ([]*Category, error)

	/*
		FindByID retrieves one category by primary key.

		Returns:
		  - *Category: The record with its parent summary populated
		  - error: ErrNotFound when the id does not exist
	*/
	FindByID(context context.Context, id string) (*Category, error)

	/*
		FindByName retrieves one category by exact name, case-insensitively.

		Returns:
		  - *Category: The matching record
		  - error: ErrNotFound when no category carries the name
	*/
	FindByName(context context.Context, name string) (*Category, error)

	/*
		NameOrSlugTaken reports whether another category already claims the
		name (case-insensitively) or the slug. excludeID skips the category
		being renamed; pass "" on creation.
	*/
	NameOrSlugTaken(context context.Context, name, slug, excludeID string) (bool, error)

	/*
		Create persists a new category row.

		Returns:
		  - error: ErrConflict on name/slug collision
	*/
	Create(context context.Context, category *Category) error

	/*
		Update rewrites a category row without touching the book collection.
		Renames must go through Rename instead.
	*/
	Update(context context.Context, category *Category) error

	/*
		Rename rewrites the category row and bulk-reassigns every book from
		oldName to the category's new name, then refreshes the aggregates of
		both names. The whole operation is one transaction.

		Returns:
		  - error: ErrConflict on slug collision, system level errors
	*/
	Rename(context context.Context, category *Category, oldName string) error

	/*
		Delete removes a category row with no book reassignment.

		Returns:
		  - error: ErrNotFound when the id does not exist
	*/
	Delete(context context.Context, id string) error

	/*
		DeleteAndReassign removes the category and moves its books to
		targetName inside one transaction, then refreshes the target's
		aggregates.

		Returns:
		  - int: Number of books moved
		  - error: System level errors
	*/
	DeleteAndReassign(context context.Context, category *Category, targetName string) (int, error)

	/*
		CountChildren returns the number of direct sub-categories.
	*/
	CountChildren(context context.Context, id string) (int, error)

	/*
		CountBooks returns the number of books referencing the name,
		regardless of status.
	*/
	CountBooks(context context.Context, name string) (int, error)

	/*
		RecomputeStats refreshes one category's denormalized aggregates from
		the live book collection. Unknown names are a no-op.
	*/
	RecomputeStats(context context.Context, name string) error

	/*
		AncestorIDs walks the parent chain upward from the given category.

		Returns:
		  - []string: Ancestor ids, nearest first
		  - error: System level errors
	*/
	AncestorIDs(context context.Context, id string) ([]string, error)
}
