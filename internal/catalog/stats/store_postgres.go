// Copyright (c) 2026 Boighor. All rights reserved.
// Author: rafid.hoque.bd@gmail.com

package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafidhoque/boighor/internal/platform/dberr"
)

// # Persistence Contract

// Repository reads the aggregate figures behind the monthly snapshot.
// All windows are half-open: [start, end).
type Repository interface {
	/*
		Overview returns the collection-wide figures, counting new titles
		inside the given month window.
	*/
	Overview(context context.Context, monthStart, monthEnd time.Time) (Statistics, error)

	/*
		CreatedInWindow returns how many live books were created inside the
		window. Used for the prior-month growth comparison.
	*/
	CreatedInWindow(context context.Context, start, end time.Time) (int, error)

	/*
		TopCategories returns the categories with the most new titles inside
		the window, busiest first, capped at limit.
	*/
	TopCategories(context context.Context, start, end time.Time, limit int) ([]CategoryActivity, error)

	/*
		TrendingBooks returns the window's new titles ordered by sales then
		rating, capped at limit.
	*/
	TrendingBooks(context context.Context, start, end time.Time, limit int) ([]TrendingBook, error)
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed stats reader.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Overview runs the collection-wide aggregate in one round-trip.

Description: FILTER clauses fold the promotion counters and the
this-month counter into the same scan as the totals. The average rounds
half away from zero to one decimal.
*/
func (repository *PostgresRepository) Overview(context context.Context, monthStart, monthEnd time.Time) (Statistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(sold_count), 0),
			COALESCE(ROUND(AVG(rating)::numeric, 1), 0),
			COUNT(*) FILTER (WHERE featured),
			COUNT(*) FILTER (WHERE bestseller),
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2)
		FROM books
		WHERE status <> 'discontinued'`

	var statistics Statistics
	err := repository.db.QueryRow(context, query, monthStart, monthEnd).Scan(
		&statistics.TotalBooks,
		&statistics.TotalSold,
		&statistics.AvgRating,
		&statistics.TotalFeatured,
		&statistics.TotalBestsellers,
		&statistics.TotalThisMonth,
	)
	if err != nil {
		return Statistics{}, dberr.Wrap(err, "stats_overview")
	}
	return statistics, nil
}

func (repository *PostgresRepository) CreatedInWindow(context context.Context, start, end time.Time) (int, error) {
	query := `
		SELECT count(*) FROM books
		WHERE status <> 'discontinued' AND created_at >= $1 AND created_at < $2`

	var count int
	if err := repository.db.QueryRow(context, query, start, end).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "stats_window_count")
	}
	return count, nil
}

func (repository *PostgresRepository) TopCategories(context context.Context, start, end time.Time, limit int) ([]CategoryActivity, error) {
	query := `
		SELECT
			category,
			COUNT(*),
			COALESCE(ROUND(AVG(rating)::numeric, 1), 0),
			COALESCE(SUM(sold_count), 0)
		FROM books
		WHERE status <> 'discontinued' AND created_at >= $1 AND created_at < $2
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
		LIMIT $3`

	rows, err := repository.db.Query(context, query, start, end, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "stats_top_categories")
	}
	defer rows.Close()

	var activity []CategoryActivity
	for rows.Next() {
		var entry CategoryActivity
		if err := rows.Scan(&entry.Name, &entry.Count, &entry.AvgRating, &entry.TotalSold); err != nil {
			return nil, dberr.Wrap(err, "scan_category_activity")
		}
		activity = append(activity, entry)
	}
	return activity, dberr.Wrap(rows.Err(), "stats_top_categories")
}

func (repository *PostgresRepository) TrendingBooks(context context.Context, start, end time.Time, limit int) ([]TrendingBook, error) {
	query := `
		SELECT id, title, author, price, rating, images, category,
			featured, bestseller, sold_count
		FROM books
		WHERE status <> 'discontinued' AND created_at >= $1 AND created_at < $2
		ORDER BY sold_count DESC, rating DESC
		LIMIT $3`

	rows, err := repository.db.Query(context, query, start, end, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "stats_trending_books")
	}
	defer rows.Close()

	var trending []TrendingBook
	for rows.Next() {
		var entry TrendingBook
		var imagesRaw []byte
		if err := rows.Scan(
			&entry.ID, &entry.Title, &entry.Author, &entry.Price, &entry.Rating,
			&imagesRaw, &entry.Category, &entry.Featured, &entry.Bestseller, &entry.SoldCount,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_trending_book")
		}
		if len(imagesRaw) > 0 {
			if err := json.Unmarshal(imagesRaw, &entry.Images); err != nil {
				return nil, dberr.Wrap(err, "decode_images")
			}
		}
		trending = append(trending, entry)
	}
	return trending, dberr.Wrap(rows.Err(), "stats_trending_books")
}
