package domain

import "time"

// CategorySummary is a read-only view of a category for listings
type CategorySummary struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	LastUpdate time.Time `json:"last_update"`
	FeedsCount int       `json:"feeds_count"`
}

// Status aggregates store counters
type Status struct {
	TotalCategories int        `json:"total_categories"`
	TotalFeeds      int        `json:"total_feeds"`
	TotalEntries    int        `json:"total_entries"`
	LastUpdate      *time.Time `json:"last_update,omitempty"`
}
