// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package book

import "context"

// # Book Data Access

// Repository defines the data access contract for the book domain.
type Repository interface {
	/*
		List returns a filtered, paginated slice of books and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (compiled storefront parameters)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: Slice of matching records in sort order
		  - int: Total count of records matching the filter (ignoring pagination)
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error)

	/*
		FindByID returns the book with the given ID.

		Returns:
		  - *Book: The hydrated domain entity
		  - error: NOT_FOUND if missing
	*/
	FindByID(context context.Context, id string) (*Book, error)

	/*
		FindBestOfMonth returns the current best-of-month pick, excluding
		discontinued books.

		Returns:
		  - *Book: The current pick
		  - error: NOT_FOUND when no pick is set
	*/
	FindBestOfMonth(context context.Context) (*Book, error)

	/*
		Create persists a new book.

		When the record carries BestOfMonth=true, every other flag in the
		collection is cleared within the same transaction so the singleton
		invariant holds at commit.
	*/
	Create(context context.Context, book *Book) error

	/*
		Update persists all mutable fields of an existing book. The same
		best-of-month transactional clearing applies as for Create.

		Returns:
		  - error: NOT_FOUND if the id does not exist
	*/
	Update(context context.Context, book *Book) error

	/*
		Delete removes the record.

		Returns:
		  - error: NOT_FOUND if the id does not exist
	*/
	Delete(context context.Context, id string) error

	/*
		SetBestOfMonth atomically clears every best-of-month flag and sets it
		on the target book. A missing target rolls the clear back.

		Returns:
		  - *Book: The newly promoted book
		  - error: NOT_FOUND if the target id does not exist
	*/
	SetBestOfMonth(context context.Context, id string) (*Book, error)

	/*
		ClearBestOfMonth removes the flag from every book.

		Returns:
		  - int: Number of books whose flag was cleared
		  - error: Database failures
	*/
	ClearBestOfMonth(context context.Context) (int, error)
}
