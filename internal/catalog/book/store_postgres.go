// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

/*
Package book provides the PostgreSQL implementation for the catalog's data access.

The listing query builds its WHERE clause dynamically from the compiled
[Filter], runs a window-function count alongside the page fetch, and keeps
image descriptors in a JSONB column so the document-shaped image list from
the upload pipeline round-trips without a join.
*/
package book

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafidhoque/boighor/internal/platform/dberr"
	"github.com/rafidhoque/boighor/internal/platform/media"
	"github.com/rafidhoque/boighor/internal/platform/postgres"
)

// bookColumns is the full projection for book rows, in scan order.
// Internal bookkeeping (xmin etc.) is never selected.
const bookColumns = `id, title, author, category, description, price, original_price,
	discount, stock, images, rating, total_ratings, sold_count,
	featured, bestseller, best_of_month, best_of_month_date, status,
	created_at, updated_at`

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed book store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Listing

/*
List returns a filtered, paginated slice of books and the total count.

Description: The WHERE clause is assembled from the compiled filter with
positional arguments only — filter values never reach the SQL text. The
total count uses COUNT(*) OVER() so a single round-trip serves both the
page and its pagination metadata; an empty page falls back to a bare count
so out-of-range pages still report the true total.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	query, args := buildListQuery(filter, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var books []*Book
	var total int

	for rows.Next() {
		book, imagesRaw := &Book{}, []byte(nil)
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
			&book.Price, &book.OriginalPrice, &book.Discount, &book.Stock, &imagesRaw,
			&book.Rating, &book.TotalRatings, &book.SoldCount,
			&book.Featured, &book.Bestseller, &book.BestOfMonth, &book.BestOfMonthDate,
			&book.Status, &book.CreatedAt, &book.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		if err := unmarshalImages(imagesRaw, &book.Images); err != nil {
			return nil, 0, dberr.Wrap(err, "decode_images")
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}

	// Out-of-range page: the window count never materialized, so count
	// separately to keep the pagination envelope truthful.
	if len(books) == 0 {
		where, whereArgs := compileWhere(filter)
		countQuery := "SELECT count(*) FROM books " + where
		if err := repository.db.QueryRow(context, countQuery, whereArgs...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_books")
		}
	}

	return books, total, nil
}

// buildListQuery assembles the listing SQL and its positional arguments.
// An unset sort column falls back to recency so callers building a [Filter]
// by hand get the same ordering the compiled storefront filter defaults to.
func buildListQuery(filter Filter, limit, offset int) (string, []any) {
	where, args := compileWhere(filter)

	column := filter.SortColumn
	if column == "" {
		column = defaultSortColumn
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM books
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, bookColumns, where, column, direction, len(args)+1, len(args)+2)

	return query, append(args, limit, offset)
}

// compileWhere translates the filter into a WHERE clause with positional args.
func compileWhere(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	// The storefront never shows discontinued books unless explicitly asked.
	if !filter.IncludeDiscontinued {
		conditions = append(conditions, fmt.Sprintf("status <> %s", arg(string(StatusDiscontinued))))
	}

	if filter.Search != "" {
		placeholder := arg(postgres.LikePattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %[1]s OR author ILIKE %[1]s OR description ILIKE %[1]s)", placeholder))
	}

	switch len(filter.Categories) {
	case 0:
	case 1:
		conditions = append(conditions, fmt.Sprintf("category = %s", arg(filter.Categories[0])))
	default:
		conditions = append(conditions, fmt.Sprintf("category = ANY(%s)", arg(filter.Categories)))
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= %s", arg(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= %s", arg(*filter.MaxPrice)))
	}

	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= %s", arg(*filter.MinRating)))
	}

	if filter.Featured {
		conditions = append(conditions, "featured = TRUE")
	}
	if filter.Bestseller {
		conditions = append(conditions, "bestseller = TRUE")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// # Lookups

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	return repository.scanOne(repository.db.QueryRow(context, query, id), "get_book")
}

func (repository *PostgresRepository) FindBestOfMonth(context context.Context) (*Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE best_of_month = TRUE AND status <> $1
		LIMIT 1
	`, bookColumns)
	return repository.scanOne(repository.db.QueryRow(context, query, string(StatusDiscontinued)), "get_best_of_month")
}

// # Mutations

func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	imagesRaw, err := json.Marshal(book.Images)
	if err != nil {
		return dberr.Wrap(err, "encode_images")
	}

	query := `
		INSERT INTO books (
			id, title, author, category, description, price, original_price,
			discount, stock, images, rating, total_ratings, sold_count,
			featured, bestseller, best_of_month, best_of_month_date, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	args := []any{
		book.ID, book.Title, book.Author, book.Category, book.Description,
		book.Price, book.OriginalPrice, book.Discount, book.Stock, imagesRaw,
		book.Rating, book.TotalRatings, book.SoldCount,
		book.Featured, book.Bestseller, book.BestOfMonth, book.BestOfMonthDate, string(book.Status),
	}

	// A new best-of-month pick must demote the previous one atomically.
	if book.BestOfMonth {
		return repository.inTx(context, func(tx pgx.Tx) error {
			if _, err := tx.Exec(context, clearBestOfMonthSQL); err != nil {
				return dberr.Wrap(err, "clear_best_of_month")
			}
			err := tx.QueryRow(context, query, args...).Scan(&book.CreatedAt, &book.UpdatedAt)
			return dberr.Wrap(err, "create_book")
		})
	}

	err = repository.db.QueryRow(context, query, args...).Scan(&book.CreatedAt, &book.UpdatedAt)
	return dberr.Wrap(err, "create_book")
}

func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	imagesRaw, err := json.Marshal(book.Images)
	if err != nil {
		return dberr.Wrap(err, "encode_images")
	}

	query := `
		UPDATE books SET
			title = $2, author = $3, category = $4, description = $5,
			price = $6, original_price = $7, discount = $8, stock = $9,
			images = $10, rating = $11, total_ratings = $12, sold_count = $13,
			featured = $14, bestseller = $15, best_of_month = $16,
			best_of_month_date = $17, status = $18, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	args := []any{
		book.ID, book.Title, book.Author, book.Category, book.Description,
		book.Price, book.OriginalPrice, book.Discount, book.Stock, imagesRaw,
		book.Rating, book.TotalRatings, book.SoldCount,
		book.Featured, book.Bestseller, book.BestOfMonth, book.BestOfMonthDate, string(book.Status),
	}

	if book.BestOfMonth {
		return repository.inTx(context, func(tx pgx.Tx) error {
			if _, err := tx.Exec(context, clearBestOfMonthExceptSQL, book.ID); err != nil {
				return dberr.Wrap(err, "clear_best_of_month")
			}
			err := tx.QueryRow(context, query, args...).Scan(&book.UpdatedAt)
			return dberr.Wrap(err, "update_book")
		})
	}

	err = repository.db.QueryRow(context, query, args...).Scan(&book.UpdatedAt)
	return dberr.Wrap(err, "update_book")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Best-of-Month

const (
	clearBestOfMonthSQL = `
		UPDATE books SET best_of_month = FALSE, best_of_month_date = NULL, updated_at = NOW()
		WHERE best_of_month = TRUE`

	clearBestOfMonthExceptSQL = `
		UPDATE books SET best_of_month = FALSE, best_of_month_date = NULL, updated_at = NOW()
		WHERE best_of_month = TRUE AND id <> $1`
)

/*
SetBestOfMonth atomically clears every best-of-month flag and promotes the
target id. Both steps run in one transaction: if the target does not exist,
the clear rolls back and the previous pick survives.
*/
func (repository *PostgresRepository) SetBestOfMonth(context context.Context, id string) (*Book, error) {
	var promoted *Book

	err := repository.inTx(context, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, clearBestOfMonthExceptSQL, id); err != nil {
			return dberr.Wrap(err, "clear_best_of_month")
		}

		query := fmt.Sprintf(`
			UPDATE books
			SET best_of_month = TRUE, best_of_month_date = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING %s
		`, bookColumns)

		book, err := repository.scanOne(tx.QueryRow(context, query, id), "set_best_of_month")
		if err != nil {
			return err
		}
		promoted = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	return promoted, nil
}

// ClearBestOfMonth removes the flag from every book and reports how many
// were cleared.
func (repository *PostgresRepository) ClearBestOfMonth(context context.Context) (int, error) {
	cmd, err := repository.db.Exec(context, clearBestOfMonthSQL)
	if err != nil {
		return 0, dberr.Wrap(err, "clear_best_of_month")
	}
	return int(cmd.RowsAffected()), nil
}

// # Scan Helpers

func (repository *PostgresRepository) scanOne(row pgx.Row, action string) (*Book, error) {
	book, imagesRaw := &Book{}, []byte(nil)
	err := row.Scan(
		&book.ID, &book.Title, &book.Author, &book.Category, &book.Description,
		&book.Price, &book.OriginalPrice, &book.Discount, &book.Stock, &imagesRaw,
		&book.Rating, &book.TotalRatings, &book.SoldCount,
		&book.Featured, &book.Bestseller, &book.BestOfMonth, &book.BestOfMonthDate,
		&book.Status, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	if err := unmarshalImages(imagesRaw, &book.Images); err != nil {
		return nil, dberr.Wrap(err, "decode_images")
	}
	return book, nil
}

func unmarshalImages(raw []byte, target *[]media.Image) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

// inTx runs fn inside a transaction, committing on nil and rolling back on error.
func (repository *PostgresRepository) inTx(context context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_tx")
	}
	defer func() { _ = tx.Rollback(context) }()

	if err := fn(tx); err != nil {
		return err
	}

	return dberr.Wrap(tx.Commit(context), "commit_tx")
}
