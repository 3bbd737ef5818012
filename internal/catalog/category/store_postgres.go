// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafidhoque/boighor/internal/platform/dberr"
	"github.com/rafidhoque/boighor/internal/platform/postgres"
)

// categoryColumns is the full projection for category rows joined with the
// parent summary, in scan order. The categories table aliases to c and the
// parent join to p.
const categoryColumns = `c.id, c.name, c.bangla_name, c.slug, c.description, c.bangla_description,
	c.image, c.icon, c.color, c.parent_id, c.sort_order, c.is_active, c.featured,
	c.meta_title, c.meta_description, c.book_count, c.total_sold, c.avg_rating,
	c.created_at, c.updated_at,
	p.id, p.name, p.bangla_name, p.slug`

const categoryFrom = `FROM categories c LEFT JOIN categories p ON p.id = c.parent_id`

// recomputeStatsSQL refreshes one category's aggregates from the book
// collection. The average rounds half away from zero to one decimal, and a
// category with no live books zeroes out. Unknown names match no row.
const recomputeStatsSQL = `
	UPDATE categories SET
		book_count = agg.book_count,
		total_sold = agg.total_sold,
		avg_rating = agg.avg_rating,
		updated_at = NOW()
	FROM (
		SELECT
			COUNT(*) AS book_count,
			COALESCE(SUM(sold_count), 0) AS total_sold,
			COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS avg_rating
		FROM books
		WHERE category = $1 AND status <> 'discontinued'
	) agg
	WHERE lower(categories.name) = lower($1)`

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed category store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Listing

// sortClauses maps the public sort keys onto ORDER BY clauses. Anything
// outside the map falls back to recency.
var sortClauses = map[string]string{
	"name":      "c.name ASC",
	"nameDesc":  "c.name DESC",
	"bookCount": "c.book_count DESC",
	"order":     "c.sort_order ASC, c.name ASC",
}

const defaultSortClause = "c.created_at DESC"

func (repository *PostgresRepository) List(context context.Context, filter Filter) ([]*Category, error) {
	var conditions []string
	var args []any

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		placeholder := arg(postgres.LikePattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf(
			"(c.name ILIKE %[1]s OR c.bangla_name ILIKE %[1]s OR c.description ILIKE %[1]s OR c.bangla_description ILIKE %[1]s)",
			placeholder))
	}
	if filter.Featured {
		conditions = append(conditions, "c.featured = TRUE")
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("c.is_active = %s", arg(*filter.IsActive)))
	}
	if filter.RootOnly {
		conditions = append(conditions, "c.parent_id IS NULL")
	} else if filter.ParentID != "" {
		conditions = append(conditions, fmt.Sprintf("c.parent_id = %s", arg(filter.ParentID)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = defaultSortClause
	}

	limit := ""
	if filter.Limit > 0 {
		limit = fmt.Sprintf("LIMIT %s", arg(filter.Limit))
	}

	query := fmt.Sprintf("SELECT %s %s %s ORDER BY %s %s",
		categoryColumns, categoryFrom, where, orderBy, limit)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}

	return categories, nil
}

// # Lookups

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", categoryColumns, categoryFrom)
	category, err := scanCategory(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	return category, nil
}

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Category, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE lower(c.name) = lower($1)", categoryColumns, categoryFrom)
	category, err := scanCategory(repository.db.QueryRow(context, query, name))
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	return category, nil
}

func (repository *PostgresRepository) NameOrSlugTaken(context context.Context, name, slug, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE (lower(name) = lower($1) OR slug = $2)
			AND ($3 = '' OR id::text <> $3)
		)`

	var taken bool
	if err := repository.db.QueryRow(context, query, name, slug, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_category_identity")
	}
	return taken, nil
}

func (repository *PostgresRepository) CountChildren(context context.Context, id string) (int, error) {
	var count int
	err := repository.db.QueryRow(context,
		`SELECT count(*) FROM categories WHERE parent_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "count_children")
	}
	return count, nil
}

func (repository *PostgresRepository) CountBooks(context context.Context, name string) (int, error) {
	var count int
	err := repository.db.QueryRow(context,
		`SELECT count(*) FROM books WHERE category = $1`, name).Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "count_category_books")
	}
	return count, nil
}

/*
AncestorIDs walks the parent chain upward, nearest ancestor first.

Description: The walk is iterative and bounded; a chain longer than the
bound indicates a pre-existing cycle and stops rather than looping forever.
*/
func (repository *PostgresRepository) AncestorIDs(context context.Context, id string) ([]string, error) {
	const maxDepth = 32

	var ancestors []string
	current := id

	for range maxDepth {
		var parent *string
		err := repository.db.QueryRow(context,
			`SELECT parent_id::text FROM categories WHERE id = $1`, current).Scan(&parent)
		if err != nil {
			if err == pgx.ErrNoRows {
				break
			}
			return nil, dberr.Wrap(err, "walk_ancestors")
		}
		if parent == nil {
			break
		}
		ancestors = append(ancestors, *parent)
		current = *parent
	}

	return ancestors, nil
}

// # Mutations

const insertCategorySQL = `
	INSERT INTO categories (
		id, name, bangla_name, slug, description, bangla_description,
		image, icon, color, parent_id, sort_order, is_active, featured,
		meta_title, meta_description, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	RETURNING created_at, updated_at`

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	err := repository.db.QueryRow(context, insertCategorySQL,
		category.ID, category.Name, category.BanglaName, category.Slug,
		category.Description, category.BanglaDescription,
		category.Image, category.Icon, category.Color, category.ParentID,
		category.Order, category.IsActive, category.Featured,
		category.MetaTitle, category.MetaDescription,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	return dberr.Wrap(err, "create_category")
}

const updateCategorySQL = `
	UPDATE categories SET
		name = $2, bangla_name = $3, slug = $4, description = $5,
		bangla_description = $6, image = $7, icon = $8, color = $9,
		parent_id = $10, sort_order = $11, is_active = $12, featured = $13,
		meta_title = $14, meta_description = $15, updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at`

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	err := repository.db.QueryRow(context, updateCategorySQL,
		category.ID, category.Name, category.BanglaName, category.Slug,
		category.Description, category.BanglaDescription,
		category.Image, category.Icon, category.Color, category.ParentID,
		category.Order, category.IsActive, category.Featured,
		category.MetaTitle, category.MetaDescription,
	).Scan(&category.UpdatedAt)
	return dberr.Wrap(err, "update_category")
}

/*
Rename rewrites the category row, bulk-reassigns its books, and refreshes
the aggregates of both names in one transaction.

Description: After the bulk reassign the old name references no books, so
its recompute is a harmless no-op against a now-missing row. The new name's
recompute lands on the renamed row.
*/
func (repository *PostgresRepository) Rename(context context.Context, category *Category, oldName string) error {
	return repository.inTx(context, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, updateCategorySQL,
			category.ID, category.Name, category.BanglaName, category.Slug,
			category.Description, category.BanglaDescription,
			category.Image, category.Icon, category.Color, category.ParentID,
			category.Order, category.IsActive, category.Featured,
			category.MetaTitle, category.MetaDescription,
		).Scan(&category.UpdatedAt)
		if err != nil {
			return dberr.Wrap(err, "rename_category")
		}

		if _, err := tx.Exec(context,
			`UPDATE books SET category = $1, updated_at = NOW() WHERE category = $2`,
			category.Name, oldName); err != nil {
			return dberr.Wrap(err, "reassign_books")
		}

		for _, name := range []string{oldName, category.Name} {
			if _, err := tx.Exec(context, recomputeStatsSQL, name); err != nil {
				return dberr.Wrap(err, "recompute_category_stats")
			}
		}
		return nil
	})
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteAndReassign(context context.Context, category *Category, targetName string) (int, error) {
	var moved int

	err := repository.inTx(context, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(context,
			`UPDATE books SET category = $1, updated_at = NOW() WHERE category = $2`,
			targetName, category.Name)
		if err != nil {
			return dberr.Wrap(err, "reassign_books")
		}
		moved = int(cmd.RowsAffected())

		if _, err := tx.Exec(context, `DELETE FROM categories WHERE id = $1`, category.ID); err != nil {
			return dberr.Wrap(err, "delete_category")
		}

		if _, err := tx.Exec(context, recomputeStatsSQL, targetName); err != nil {
			return dberr.Wrap(err, "recompute_category_stats")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return moved, nil
}

func (repository *PostgresRepository) RecomputeStats(context context.Context, name string) error {
	_, err := repository.db.Exec(context, recomputeStatsSQL, name)
	return dberr.Wrap(err, "recompute_category_stats")
}

// # Scan Helpers

// scanCategory reads one joined row into a [Category], folding the nullable
// parent summary columns into Parent.
func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	var parentID, parentName, parentBanglaName, parentSlug *string

	err := row.Scan(
		&category.ID, &category.Name, &category.BanglaName, &category.Slug,
		&category.Description, &category.BanglaDescription,
		&category.Image, &category.Icon, &category.Color, &category.ParentID,
		&category.Order, &category.IsActive, &category.Featured,
		&category.MetaTitle, &category.MetaDescription,
		&category.BookCount, &category.TotalSold, &category.AvgRating,
		&category.CreatedAt, &category.UpdatedAt,
		&parentID, &parentName, &parentBanglaName, &parentSlug,
	)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		category.Parent = &Summary{ID: *parentID, Slug: *parentSlug}
		if parentName != nil {
			category.Parent.Name = *parentName
		}
		if parentBanglaName != nil {
			category.Parent.BanglaName = *parentBanglaName
		}
	}

	return category, nil
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
