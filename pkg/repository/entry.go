package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/newswire/pkg/domain"
)

// EntryRepository handles entry-related database operations
type EntryRepository struct {
	db sqlx.ExtContext
}

// latestEntrySQL is an entry joined with its feed and category
type latestEntrySQL struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Link        string  `db:"link"`
	Summary     string  `db:"summary"`
	Author      string  `db:"author"`
	Published   timeSQL `db:"published"`
	Category    string  `db:"category"`
	CategoryKey string  `db:"category_key"`
	FeedName    string  `db:"feed_name"`
	FeedType    string  `db:"feed_type"`
}

// NewEntryRepository creates a new entry repository, db can be a transaction
func NewEntryRepository(db sqlx.ExtContext) *EntryRepository {
	return &EntryRepository{db: db}
}

// InsertEntryIfAbsent stores the entry unless (feed_id, entry_id) already exists.
// Returns true only when a new row was written, existing rows are never modified.
// Zero CreatedAt is replaced by the current time.
func (r *EntryRepository) InsertEntryIfAbsent(ctx context.Context, feedID int64, entry domain.Entry) (bool, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO entries (feed_id, entry_id, title, link, summary, author, published, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(feed_id, entry_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, feedID, entry.EntryID, entry.Title, entry.Link,
		entry.Summary, entry.Author, timeSQL{entry.Published}, timeSQL{entry.CreatedAt})
	if err != nil {
		return false, fmt.Errorf("insert entry %q: %w", entry.EntryID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get affected rows: %w", err)
	}
	return affected == 1, nil
}

// GetLatestEntries returns up to limit entries, newest published first.
// Non-empty categoryKey limits entries to that category, case-insensitive.
func (r *EntryRepository) GetLatestEntries(ctx context.Context, categoryKey string, limit int) ([]domain.LatestEntry, error) {
	query := `
		SELECT e.id, e.title, e.link, e.summary, e.author, e.published,
			c.name AS category, c.key AS category_key, f.name AS feed_name, f.type AS feed_type
		FROM entries e
		JOIN feeds f ON f.id = e.feed_id
		JOIN categories c ON c.id = f.category_id
		WHERE ? = '' OR c.key = ? COLLATE NOCASE
		ORDER BY e.published DESC, e.id DESC
		LIMIT ?
	`
	var rows []latestEntrySQL
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, categoryKey, categoryKey, limit); err != nil {
		return nil, fmt.Errorf("get latest entries: %w", err)
	}

	res := make([]domain.LatestEntry, len(rows))
	for i, row := range rows {
		res[i] = domain.LatestEntry{
			ID:          row.ID,
			Title:       row.Title,
			Link:        row.Link,
			Summary:     row.Summary,
			Author:      row.Author,
			Published:   row.Published.Time,
			Category:    row.Category,
			CategoryKey: row.CategoryKey,
			FeedName:    row.FeedName,
			FeedType:    row.FeedType,
		}
	}
	return res, nil
}

// CountEntries returns the number of stored entries
func (r *EntryRepository) CountEntries(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, "SELECT COUNT(*) FROM entries"); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}
