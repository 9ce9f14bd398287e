package domain

import "time"

// Entry is a single item of a feed. (FeedID, EntryID) is the dedup key,
// entries are never updated once stored.
type Entry struct {
	ID        int64
	FeedID    int64
	EntryID   string
	Title     string
	Link      string
	Summary   string
	Author    string
	Published time.Time
	CreatedAt time.Time
}

// NewEntry is an entry inserted during the current cycle, enriched with
// its owning category and feed for notification rendering
type NewEntry struct {
	Entry
	CategoryKey  string
	CategoryName string
	FeedName     string
	FeedType     string
}

// LatestEntry is an entry joined with its feed and category for listings
type LatestEntry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	Author      string    `json:"author"`
	Published   time.Time `json:"published"`
	Category    string    `json:"category"`
	CategoryKey string    `json:"category_key"`
	FeedName    string    `json:"feed_name"`
	FeedType    string    `json:"feed_type"`
}
