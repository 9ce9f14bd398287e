package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid yaml config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

fetch:
  interval: 10m
  max_entries: 10

notify:
  enabled: true
  batch_delay: 1s
  site_url: https://example.com/monitoring
  sinks:
    - url: https://discord.example.com/api/webhooks/1/abc
      categories: [releases]
      types: [Releases, commits]
      mention_role: "12345"

catalog:
  releases:
    name: Releases
    feeds:
      go:
        name: Go
        url: https://example.com/go.atom
        type: releases
      rust:
        url: https://example.com/rust.xml
        type: releases
`
		cfg, err := Load(writeConfig(t, "config.yml", configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 10*time.Minute, cfg.Fetch.Interval)
		assert.Equal(t, 10, cfg.Fetch.MaxEntries)
		assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)

		assert.True(t, cfg.Notify.Enabled)
		assert.Equal(t, time.Second, cfg.Notify.BatchDelay)
		require.Len(t, cfg.Notify.Sinks, 1)
		assert.Equal(t, []string{"releases"}, cfg.Notify.Sinks[0].Categories)
		assert.Equal(t, []string{"Releases", "commits"}, cfg.Notify.Sinks[0].Types)
		assert.Equal(t, "12345", cfg.Notify.Sinks[0].MentionRole)

		require.Len(t, cfg.Catalog, 1)
		cat := cfg.Catalog["releases"]
		assert.Equal(t, "Releases", cat.Name)
		assert.Equal(t, "Go", cat.Feeds["go"].Name)
		assert.Equal(t, "rust", cat.Feeds["rust"].Name, "name defaults to feed key")
		assert.Equal(t, 2, cfg.FeedsCount())
	})

	t.Run("valid toml config", func(t *testing.T) {
		configContent := `
[fetch]
interval = "2m"

[notify]
enabled = false

[[notify.sinks]]
url = "https://discord.example.com/api/webhooks/2/def"
types = ["announcements"]

[catalog.news]
name = "News"

[catalog.news.feeds.blog]
name = "Blog"
url = "https://example.com/blog.rss"
type = "announcements"
`
		cfg, err := Load(writeConfig(t, "config.toml", configContent))
		require.NoError(t, err)

		assert.Equal(t, 2*time.Minute, cfg.Fetch.Interval)
		require.Len(t, cfg.Notify.Sinks, 1)
		assert.Equal(t, []string{"announcements"}, cfg.Notify.Sinks[0].Types)
		assert.Equal(t, "News", cfg.Catalog["news"].Name)
		assert.Equal(t, "https://example.com/blog.rss", cfg.Catalog["news"].Feeds["blog"].URL)
	})

	t.Run("defaults", func(t *testing.T) {
		configContent := `
catalog:
  news:
    name: News
    feeds:
      blog:
        url: https://example.com/feed.xml
        type: announcements
`
		cfg, err := Load(writeConfig(t, "config.yml", configContent))
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
		assert.Contains(t, cfg.Database.DSN, "newswire.db")
		assert.Equal(t, 1, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5*time.Minute, cfg.Fetch.Interval)
		assert.Equal(t, 60*time.Second, cfg.Fetch.ErrorCooldown)
		assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
		assert.Equal(t, 20, cfg.Fetch.MaxEntries)
		assert.Equal(t, 4, cfg.Fetch.MaxWorkers)
		assert.Equal(t, "Newswire/1.0", cfg.Fetch.UserAgent)
		assert.False(t, cfg.Notify.Enabled)
		assert.Equal(t, 2*time.Second, cfg.Notify.BatchDelay)
		assert.Equal(t, 3, cfg.Notify.MaxAttempts)
		assert.Equal(t, "View on site", cfg.Notify.ButtonLabel)
		assert.Equal(t, "admin", cfg.Admin.User)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("NEWSWIRE_TEST_HOOK", "https://hooks.example.com/x")
		configContent := `
notify:
  sinks:
    - url: ${NEWSWIRE_TEST_HOOK}
catalog:
  news:
    name: News
    feeds:
      blog: {url: "https://example.com/feed.xml", type: announcements}
`
		cfg, err := Load(writeConfig(t, "config.yml", configContent))
		require.NoError(t, err)
		assert.Equal(t, "https://hooks.example.com/x", cfg.Notify.Sinks[0].URL)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "invalid.yml", "invalid: yaml: content: ["))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid toml", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "invalid.toml", "[catalog\nname ="))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "empty catalog",
			content: "server:\n  listen: \":8080\"\n",
			errMsg:  "catalog must define at least one category",
		},
		{
			name: "missing category name",
			content: `
catalog:
  news:
    feeds:
      blog: {url: "https://example.com/feed.xml", type: announcements}
`,
			errMsg: "catalog.news.name is required",
		},
		{
			name: "category without feeds",
			content: `
catalog:
  news:
    name: News
`,
			errMsg: "catalog.news.feeds must define at least one feed",
		},
		{
			name: "missing feed url",
			content: `
catalog:
  news:
    name: News
    feeds:
      blog: {type: announcements}
`,
			errMsg: "catalog.news.feeds.blog.url is required",
		},
		{
			name: "bad feed url scheme",
			content: `
catalog:
  news:
    name: News
    feeds:
      blog: {url: "ftp://example.com/feed.xml", type: announcements}
`,
			errMsg: "unsupported scheme",
		},
		{
			name: "missing feed type",
			content: `
catalog:
  news:
    name: News
    feeds:
      blog: {url: "https://example.com/feed.xml"}
`,
			errMsg: "catalog.news.feeds.blog.type is required",
		},
		{
			name: "sink without url",
			content: `
notify:
  sinks:
    - categories: [news]
catalog:
  news:
    name: News
    feeds:
      blog: {url: "https://example.com/feed.xml", type: announcements}
`,
			errMsg: "notify.sinks[0].url is required",
		},
		{
			name: "interval too short",
			content: `
fetch:
  interval: 100ms
catalog:
  news:
    name: News
    feeds:
      blog: {url: "https://example.com/feed.xml", type: announcements}
`,
			errMsg: "fetch.interval must be at least 1 second",
		},
		{
			name: "negative attempts",
			content: `
notify:
  max_attempts: -1
catalog:
  news:
    name: News
    feeds:
      blog: {url: "https://example.com/feed.xml", type: announcements}
`,
			errMsg: "notify.max_attempts must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "config.yml", tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "validate config")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_GetCatalog(t *testing.T) {
	cfg := &Config{
		Catalog: map[string]CategoryConfig{
			"releases": {
				Name: "Releases",
				Feeds: map[string]FeedConfig{
					"go":   {Name: "Go", URL: "https://example.com/go.atom", Type: "releases"},
					"rust": {Name: "Rust", URL: "https://example.com/rust.xml", Type: "releases"},
				},
			},
		},
	}

	catalog := cfg.GetCatalog()
	require.Len(t, catalog, 1)
	assert.Equal(t, "Releases", catalog["releases"].Name)
	require.Len(t, catalog["releases"].Feeds, 2)
	assert.Equal(t, "https://example.com/go.atom", catalog["releases"].Feeds["go"].URL)
	assert.Equal(t, "releases", catalog["releases"].Feeds["rust"].Type)
}

func TestConfig_Accessors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Listen: ":9090", Timeout: 45 * time.Second, BaseURL: "https://news.example.com"},
		Admin:  AdminConfig{User: "root", Password: "secret"},
	}
	assert.Equal(t, "https://news.example.com", cfg.GetBaseURL())

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)

	user, passwd := cfg.GetAdminCredentials()
	assert.Equal(t, "root", user)
	assert.Equal(t, "secret", passwd)
}
