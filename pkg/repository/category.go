package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/newswire/pkg/domain"
)

// CategoryRepository handles category-related database operations
type CategoryRepository struct {
	db sqlx.ExtContext
}

// categorySummarySQL is a category joined with its feed count
type categorySummarySQL struct {
	Key        string  `db:"key"`
	Name       string  `db:"name"`
	LastUpdate timeSQL `db:"last_update"`
	FeedsCount int     `db:"feeds_count"`
}

// NewCategoryRepository creates a new category repository, db can be a transaction
func NewCategoryRepository(db sqlx.ExtContext) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// UpsertCategory inserts a category or refreshes the existing one, last_update is always
// set to the given cycle time. Returns the category id.
func (r *CategoryRepository) UpsertCategory(ctx context.Context, key, name string, updated time.Time) (int64, error) {
	query := `
		INSERT INTO categories (key, name, last_update) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET name = excluded.name, last_update = excluded.last_update
		RETURNING id
	`
	var id int64
	if err := sqlx.GetContext(ctx, r.db, &id, query, key, name, timeSQL{updated}); err != nil {
		return 0, fmt.Errorf("upsert category %s: %w", key, err)
	}
	return id, nil
}

// GetCategories returns all categories with their feed counts, ordered by key
func (r *CategoryRepository) GetCategories(ctx context.Context) ([]domain.CategorySummary, error) {
	query := `
		SELECT c.key, c.name, c.last_update, COUNT(f.id) AS feeds_count
		FROM categories c
		LEFT JOIN feeds f ON f.category_id = c.id
		GROUP BY c.id
		ORDER BY c.key
	`
	var rows []categorySummarySQL
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}

	res := make([]domain.CategorySummary, len(rows))
	for i, row := range rows {
		res[i] = domain.CategorySummary{
			Key:        row.Key,
			Name:       row.Name,
			LastUpdate: row.LastUpdate.Time,
			FeedsCount: row.FeedsCount,
		}
	}
	return res, nil
}

// CountCategories returns the number of stored categories
func (r *CategoryRepository) CountCategories(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, "SELECT COUNT(*) FROM categories"); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// LastUpdate returns the most recent category refresh time, nil if nothing stored yet
func (r *CategoryRepository) LastUpdate(ctx context.Context) (*time.Time, error) {
	var last timeSQL
	if err := sqlx.GetContext(ctx, r.db, &last, "SELECT MAX(last_update) FROM categories"); err != nil {
		return nil, fmt.Errorf("get last update: %w", err)
	}
	if last.IsZero() {
		return nil, nil
	}
	return &last.Time, nil
}
