package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/newswire/pkg/domain"
)

// SaveBundle persists everything fetched in one cycle inside a single transaction.
// Categories and feeds are upserted, entries inserted only if absent. Returns entries
// which were actually inserted, enriched with their category and feed. On error nothing
// from this bundle is committed and no entries are returned.
func (r *Repositories) SaveBundle(ctx context.Context, bundle domain.Bundle) ([]domain.NewEntry, error) {
	var res []domain.NewEntry
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		inserted, err := r.saveBundleTx(ctx, bundle)
		if err != nil {
			if isLockError(err) {
				lgr.Printf("[DEBUG] database locked while saving bundle, retrying: %v", err)
				return err // retry
			}
			return &criticalError{err: err}
		}
		res = inserted
		return nil
	}, errCritical)
	if err != nil {
		return nil, fmt.Errorf("save bundle: %w", err)
	}
	return res, nil
}

func (r *Repositories) saveBundleTx(ctx context.Context, bundle domain.Bundle) (res []domain.NewEntry, err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	categories := NewCategoryRepository(tx)
	feeds := NewFeedRepository(tx)
	entries := NewEntryRepository(tx)

	now := time.Now().UTC()
	for _, catKey := range sortedKeys(bundle) {
		cat := bundle[catKey]
		catID, err := categories.UpsertCategory(ctx, catKey, cat.Name, now)
		if err != nil {
			return nil, err
		}

		for _, feedKey := range sortedKeys(cat.Feeds) {
			fetched := cat.Feeds[feedKey]
			feedID, err := feeds.UpsertFeed(ctx, catID, feedKey, fetched.Info)
			if err != nil {
				return nil, err
			}

			for _, entry := range fetched.Entries {
				entry.CreatedAt = now
				ok, err := entries.InsertEntryIfAbsent(ctx, feedID, entry)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				entry.FeedID = feedID
				res = append(res, domain.NewEntry{
					Entry:        entry,
					CategoryKey:  catKey,
					CategoryName: cat.Name,
					FeedName:     fetched.Info.Name,
					FeedType:     fetched.Info.Type,
				})
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return res, nil
}

// LatestEntries returns up to limit newest entries across all feeds
func (r *Repositories) LatestEntries(ctx context.Context, limit int) ([]domain.LatestEntry, error) {
	return r.Entry.GetLatestEntries(ctx, "", limit)
}

// CategoryEntries returns up to limit newest entries of one category
func (r *Repositories) CategoryEntries(ctx context.Context, categoryKey string, limit int) ([]domain.LatestEntry, error) {
	return r.Entry.GetLatestEntries(ctx, categoryKey, limit)
}

// Categories returns all stored categories with feed counts
func (r *Repositories) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	return r.Category.GetCategories(ctx)
}

// Status returns store counters and the most recent category refresh time
func (r *Repositories) Status(ctx context.Context) (domain.Status, error) {
	var st domain.Status
	var err error
	if st.TotalCategories, err = r.Category.CountCategories(ctx); err != nil {
		return domain.Status{}, err
	}
	if st.TotalFeeds, err = r.Feed.CountFeeds(ctx); err != nil {
		return domain.Status{}, err
	}
	if st.TotalEntries, err = r.Entry.CountEntries(ctx); err != nil {
		return domain.Status{}, err
	}
	if st.LastUpdate, err = r.Category.LastUpdate(ctx); err != nil {
		return domain.Status{}, err
	}
	return st, nil
}

// sortedKeys returns map keys in a stable order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
