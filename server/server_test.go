package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newswire/pkg/domain"
	"github.com/umputun/newswire/pkg/notify"
	"github.com/umputun/newswire/pkg/scheduler"
	"github.com/umputun/newswire/server/mocks"
)

var testEntries = []domain.LatestEntry{
	{ID: 2, Title: "v2.0", Link: "https://example.com/v2", Published: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Category: "Releases", CategoryKey: "releases", FeedName: "Core", FeedType: "releases"},
	{ID: 1, Title: "fix", Link: "https://example.com/c1", Published: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Category: "Commits", CategoryKey: "commits", FeedName: "Repo", FeedType: "commits"},
}

func testConfig(password string) *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc:     func() (string, time.Duration) { return ":8080", 30 * time.Second },
		GetBaseURLFunc:          func() string { return "https://news.example.com" },
		GetAdminCredentialsFunc: func() (string, string) { return "admin", password },
		GetCatalogFunc: func() domain.Catalog {
			return domain.Catalog{"releases": {Name: "Releases", Feeds: map[string]domain.FeedInfo{
				"core": {Name: "Core", URL: "https://example.com/core.xml", Type: "releases"},
			}}}
		},
	}
}

func testStore() *mocks.StoreMock {
	return &mocks.StoreMock{
		LatestEntriesFunc: func(ctx context.Context, limit int) ([]domain.LatestEntry, error) {
			if limit < len(testEntries) {
				return testEntries[:limit], nil
			}
			return testEntries, nil
		},
		CategoriesFunc: func(ctx context.Context) ([]domain.CategorySummary, error) {
			return []domain.CategorySummary{{Key: "releases", Name: "Releases", FeedsCount: 1}}, nil
		},
		CategoryEntriesFunc: func(ctx context.Context, categoryKey string, limit int) ([]domain.LatestEntry, error) {
			var res []domain.LatestEntry
			for _, e := range testEntries {
				if strings.EqualFold(e.CategoryKey, categoryKey) {
					res = append(res, e)
				}
			}
			return res, nil
		},
		StatusFunc: func(ctx context.Context) (domain.Status, error) {
			last := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
			return domain.Status{TotalCategories: 1, TotalFeeds: 2, TotalEntries: 3, LastUpdate: &last}, nil
		},
	}
}

func testScheduler() *mocks.SchedulerMock {
	return &mocks.SchedulerMock{
		ForceFetchFunc: func(ctx context.Context) error { return nil },
		IsRunningFunc:  func() bool { return true },
	}
}

func testNotifier() *mocks.NotifierMock {
	return &mocks.NotifierMock{
		SendTestFunc: func(ctx context.Context) notify.Result { return notify.Result{Sent: 2} },
		ActiveFunc:   func() bool { return true },
	}
}

func doRequest(t *testing.T, srv *Server, method, path string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	if auth {
		req.SetBasicAuth("admin", "secret")
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestServer_New(t *testing.T) {
	srv := New(testConfig(""), testStore(), testScheduler(), testNotifier(), "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
	assert.NotNil(t, srv.generator)
}

func TestServer_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := testConfig("")
	cfg.GetServerConfigFunc = func() (string, time.Duration) { return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second }
	srv := New(cfg, testStore(), testScheduler(), testNotifier(), "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/ping", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:gosec // test url
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/status", port)) //nolint:gosec // test url
	require.NoError(t, err)
	assert.Equal(t, "newswire", resp.Header.Get("App-Name"))
	assert.Equal(t, "1.0.0", resp.Header.Get("App-Version"))
	resp.Body.Close()

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_Entries(t *testing.T) {
	store := testStore()
	srv := New(testConfig(""), store, testScheduler(), testNotifier(), "test", false)

	w := doRequest(t, srv, "GET", "/api/v1/entries", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Entries []domain.LatestEntry `json:"entries"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, testEntries, resp.Entries)
	assert.Equal(t, 100, store.LatestEntriesCalls()[0].Limit)

	tests := []struct {
		query string
		limit int
	}{
		{query: "?limit=1", limit: 1},
		{query: "?limit=0", limit: 1},
		{query: "?limit=-5", limit: 1},
		{query: "?limit=500", limit: 500},
		{query: "?limit=50000", limit: 1000},
	}
	for i, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doRequest(t, srv, "GET", "/api/v1/entries"+tt.query, false)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.limit, store.LatestEntriesCalls()[i+1].Limit)
		})
	}

	w = doRequest(t, srv, "GET", "/api/v1/entries?limit=abc", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid limit")
}

func TestServer_EntriesEmptyAndError(t *testing.T) {
	store := &mocks.StoreMock{LatestEntriesFunc: func(ctx context.Context, limit int) ([]domain.LatestEntry, error) {
		return nil, nil
	}}
	srv := New(testConfig(""), store, testScheduler(), testNotifier(), "test", false)
	w := doRequest(t, srv, "GET", "/api/v1/entries", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entries":[],"count":0}`, w.Body.String())

	store.LatestEntriesFunc = func(ctx context.Context, limit int) ([]domain.LatestEntry, error) {
		return nil, errors.New("sql: database is closed")
	}
	w = doRequest(t, srv, "GET", "/api/v1/entries", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "sql")
}

func TestServer_Categories(t *testing.T) {
	srv := New(testConfig(""), testStore(), testScheduler(), testNotifier(), "test", false)
	w := doRequest(t, srv, "GET", "/api/v1/categories", false)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []domain.CategorySummary `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "releases", resp.Categories[0].Key)
	assert.Equal(t, 1, resp.Categories[0].FeedsCount)
}

func TestServer_Status(t *testing.T) {
	sched := testScheduler()
	sched.IsRunningFunc = func() bool { return false }
	srv := New(testConfig(""), testStore(), sched, testNotifier(), "1.2.3", false)

	w := doRequest(t, srv, "GET", "/api/v1/status", false)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1, resp["total_categories"], 0)
	assert.InDelta(t, 2, resp["total_feeds"], 0)
	assert.InDelta(t, 3, resp["total_entries"], 0)
	assert.Equal(t, "2024-02-01T00:00:00Z", resp["last_update"])
	assert.Equal(t, false, resp["running"])
	assert.Equal(t, true, resp["notifications"])
	assert.Equal(t, "1.2.3", resp["version"])
}

func TestServer_AdminDisabledWithoutPassword(t *testing.T) {
	sched := testScheduler()
	srv := New(testConfig(""), testStore(), sched, testNotifier(), "test", false)

	w := doRequest(t, srv, "POST", "/api/v1/admin/fetch", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, sched.ForceFetchCalls())
}

func TestServer_ForceFetch(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		auth     bool
		wantCode int
		wantBody string
	}{
		{name: "no auth", auth: false, wantCode: http.StatusUnauthorized},
		{name: "ok", auth: true, wantCode: http.StatusOK, wantBody: `"success":true`},
		{name: "not running", err: scheduler.ErrNotRunning, auth: true, wantCode: http.StatusServiceUnavailable,
			wantBody: "scheduler is not running"},
		{name: "failed", err: scheduler.ErrCycleFailed, auth: true, wantCode: http.StatusInternalServerError,
			wantBody: "fetch cycle failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := testScheduler()
			sched.ForceFetchFunc = func(ctx context.Context) error { return tt.err }
			srv := New(testConfig("secret"), testStore(), sched, testNotifier(), "test", false)

			w := doRequest(t, srv, "POST", "/api/v1/admin/fetch", tt.auth)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			if !tt.auth {
				assert.Empty(t, sched.ForceFetchCalls())
			}
		})
	}
}

func TestServer_NotifyTest(t *testing.T) {
	notifier := testNotifier()
	srv := New(testConfig("secret"), testStore(), testScheduler(), notifier, "test", false)

	w := doRequest(t, srv, "POST", "/api/v1/admin/notify/test", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sent":2,"failed":0}`, w.Body.String())
	assert.Len(t, notifier.SendTestCalls(), 1)

	// admin routes are POST only, other methods are not routed
	w = doRequest(t, srv, "GET", "/api/v1/admin/notify/test", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, notifier.SendTestCalls(), 1)
}

func TestServer_RSS(t *testing.T) {
	store := testStore()
	srv := New(testConfig(""), store, testScheduler(), testNotifier(), "test", false)

	w := doRequest(t, srv, "GET", "/rss", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<title>v2.0</title>")
	assert.Contains(t, w.Body.String(), "<title>fix</title>")
	assert.Equal(t, rssEntriesLimit, store.LatestEntriesCalls()[0].Limit)

	w = doRequest(t, srv, "GET", "/rss/commits", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<title>v2.0</title>")
	assert.Contains(t, w.Body.String(), "<title>fix</title>")
	assert.Contains(t, w.Body.String(), "https://news.example.com/rss/commits")
	require.Len(t, store.CategoryEntriesCalls(), 1)
	assert.Equal(t, "commits", store.CategoryEntriesCalls()[0].CategoryKey)
	assert.Equal(t, rssEntriesLimit, store.CategoryEntriesCalls()[0].Limit)
	assert.Len(t, store.LatestEntriesCalls(), 1, "category feed is queried by category only")

	store.CategoryEntriesFunc = func(ctx context.Context, categoryKey string, limit int) ([]domain.LatestEntry, error) {
		return nil, errors.New("failed")
	}
	w = doRequest(t, srv, "GET", "/rss/commits", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	store.LatestEntriesFunc = func(ctx context.Context, limit int) ([]domain.LatestEntry, error) {
		return nil, errors.New("failed")
	}
	w = doRequest(t, srv, "GET", "/rss", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_OPML(t *testing.T) {
	srv := New(testConfig(""), testStore(), testScheduler(), testNotifier(), "test", false)

	w := doRequest(t, srv, "GET", "/opml", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/x-opml"))
	assert.Contains(t, w.Body.String(), `xmlUrl="https://example.com/core.xml"`)
	assert.Contains(t, w.Body.String(), `text="Releases"`)
}
