package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newswire/pkg/domain"
)

// maxBodySize limits how much of a feed response is read
const maxBodySize = 10 * 1024 * 1024

// Fetcher retrieves configured feeds over a shared http client and converts them
// to domain entries. A failing feed is logged and skipped, it never affects others.
type Fetcher struct {
	client     *http.Client
	parser     *Parser
	timeout    time.Duration
	userAgent  string
	maxWorkers int
}

// FetcherParams defines fetcher settings
type FetcherParams struct {
	Timeout    time.Duration // per feed, covers request and body read
	UserAgent  string
	MaxEntries int // entries kept per feed, in document order
	MaxWorkers int // concurrent feed requests
}

// NewFetcher makes a fetcher using the given client, the client is shared and not owned
func NewFetcher(client *http.Client, params FetcherParams) *Fetcher {
	if params.Timeout <= 0 {
		params.Timeout = 30 * time.Second
	}
	if params.MaxWorkers <= 0 {
		params.MaxWorkers = 1
	}
	if params.UserAgent == "" {
		params.UserAgent = "Newswire/1.0"
	}
	return &Fetcher{
		client:     client,
		parser:     NewParser(params.MaxEntries),
		timeout:    params.Timeout,
		userAgent:  params.UserAgent,
		maxWorkers: params.MaxWorkers,
	}
}

// FetchAll retrieves every feed of the catalog concurrently. Every category of the catalog
// is present in the result, feeds which failed are absent from their category.
func (f *Fetcher) FetchAll(ctx context.Context, catalog domain.Catalog) domain.Bundle {
	res := make(domain.Bundle, len(catalog))
	for key, cat := range catalog {
		res[key] = domain.FetchedCategory{Name: cat.Name, Feeds: make(map[string]domain.FetchedFeed, len(cat.Feeds))}
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(f.maxWorkers)

	for catKey, cat := range catalog {
		for feedKey, info := range cat.Feeds {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				fetched, err := f.FetchFeed(ctx, info)
				if err != nil {
					lgr.Printf("[WARN] failed to fetch %s/%s (%s): %v", catKey, feedKey, info.URL, err)
					return nil // skip this feed only
				}
				lgr.Printf("[DEBUG] fetched %s/%s, %d entries", catKey, feedKey, len(fetched.Entries))
				mu.Lock()
				res[catKey].Feeds[feedKey] = fetched
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait() // goroutines never return errors

	return res
}

// FetchFeed retrieves and parses a single feed
func (f *Fetcher) FetchFeed(ctx context.Context, info domain.FeedInfo) (domain.FetchedFeed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	body, contentType, err := f.get(ctx, info.URL)
	if err != nil {
		return domain.FetchedFeed{}, err
	}

	parsed, err := f.parser.Parse(body, contentType, time.Now())
	if err != nil {
		return domain.FetchedFeed{}, err
	}

	return domain.FetchedFeed{Info: info, Title: parsed.Title, Entries: parsed.Entries}, nil
}

// get retrieves the body of url, only 2xx responses are accepted
func (f *Fetcher) get(ctx context.Context, url string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
