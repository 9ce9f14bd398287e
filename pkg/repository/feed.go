package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/newswire/pkg/domain"
)

// FeedRepository handles feed-related database operations
type FeedRepository struct {
	db sqlx.ExtContext
}

// NewFeedRepository creates a new feed repository, db can be a transaction
func NewFeedRepository(db sqlx.ExtContext) *FeedRepository {
	return &FeedRepository{db: db}
}

// UpsertFeed inserts a feed or overwrites name, url and type of the existing one.
// Returns the feed id.
func (r *FeedRepository) UpsertFeed(ctx context.Context, categoryID int64, key string, info domain.FeedInfo) (int64, error) {
	query := `
		INSERT INTO feeds (category_id, key, name, url, type) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category_id, key) DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			type = excluded.type
		RETURNING id
	`
	var id int64
	if err := sqlx.GetContext(ctx, r.db, &id, query, categoryID, key, info.Name, info.URL, info.Type); err != nil {
		return 0, fmt.Errorf("upsert feed %s: %w", key, err)
	}
	return id, nil
}

// CountFeeds returns the number of stored feeds
func (r *FeedRepository) CountFeeds(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, "SELECT COUNT(*) FROM feeds"); err != nil {
		return 0, fmt.Errorf("count feeds: %w", err)
	}
	return count, nil
}
