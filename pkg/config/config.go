package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/umputun/newswire/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig              `yaml:"server" toml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database DatabaseConfig            `yaml:"database" toml:"database" json:"database" jsonschema:"description=Database configuration"`
	Fetch    FetchConfig               `yaml:"fetch" toml:"fetch" json:"fetch" jsonschema:"description=Feed polling configuration"`
	Notify   NotifyConfig              `yaml:"notify" toml:"notify" json:"notify" jsonschema:"description=Webhook notifications"`
	Admin    AdminConfig               `yaml:"admin" toml:"admin" json:"admin" jsonschema:"description=Admin API credentials"`
	Catalog  map[string]CategoryConfig `yaml:"catalog" toml:"catalog" json:"catalog" jsonschema:"required,description=Feed catalog keyed by category key"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" toml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" toml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public URL of the service used in generated feeds"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" toml:"dsn" json:"dsn" jsonschema:"default=file:newswire.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" toml:"max_open_conns" json:"max_open_conns" jsonschema:"default=1,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" toml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=1,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" toml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// FetchConfig holds feed polling settings
type FetchConfig struct {
	Interval      time.Duration `yaml:"interval" toml:"interval" json:"interval" jsonschema:"default=5m,description=Delay between ingestion cycles"`
	ErrorCooldown time.Duration `yaml:"error_cooldown" toml:"error_cooldown" json:"error_cooldown" jsonschema:"default=60s,description=Delay after a failed cycle"`
	Timeout       time.Duration `yaml:"timeout" toml:"timeout" json:"timeout" jsonschema:"default=30s,description=Timeout for a single feed retrieval"`
	MaxEntries    int           `yaml:"max_entries" toml:"max_entries" json:"max_entries" jsonschema:"default=20,minimum=1,description=Entries kept per feed and cycle"`
	MaxWorkers    int           `yaml:"max_workers" toml:"max_workers" json:"max_workers" jsonschema:"default=4,minimum=1,description=Feeds fetched concurrently"`
	UserAgent     string        `yaml:"user_agent" toml:"user_agent" json:"user_agent" jsonschema:"default=Newswire/1.0,description=User agent for feed requests"`
}

// CategoryConfig is a configured category with its feeds keyed by feed key
type CategoryConfig struct {
	Name  string                `yaml:"name" toml:"name" json:"name" jsonschema:"required,description=Category display name"`
	Feeds map[string]FeedConfig `yaml:"feeds" toml:"feeds" json:"feeds" jsonschema:"required,description=Feeds keyed by feed key"`
}

// FeedConfig is a single configured feed source
type FeedConfig struct {
	Name string `yaml:"name" toml:"name" json:"name" jsonschema:"description=Feed display name (defaults to feed key)"`
	URL  string `yaml:"url" toml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Type string `yaml:"type" toml:"type" json:"type" jsonschema:"required,description=Free-form type tag, e.g. releases"`
}

// NotifyConfig holds webhook notification settings
type NotifyConfig struct {
	Enabled     bool          `yaml:"enabled" toml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable webhook notifications"`
	BatchDelay  time.Duration `yaml:"batch_delay" toml:"batch_delay" json:"batch_delay" jsonschema:"default=2s,description=Pause after every dispatch"`
	Timeout     time.Duration `yaml:"timeout" toml:"timeout" json:"timeout" jsonschema:"default=10s,description=Timeout for a single dispatch"`
	MaxAttempts int           `yaml:"max_attempts" toml:"max_attempts" json:"max_attempts" jsonschema:"default=3,minimum=1,description=Attempts per dispatch when rate limited"`
	SiteURL     string        `yaml:"site_url" toml:"site_url" json:"site_url" jsonschema:"description=Site URL used for deep links"`
	ButtonLabel string        `yaml:"button_label" toml:"button_label" json:"button_label" jsonschema:"default=View on site,description=Deep link button label"`
	Username    string        `yaml:"username" toml:"username" json:"username" jsonschema:"description=Override webhook username"`
	Sinks       []SinkConfig  `yaml:"sinks" toml:"sinks" json:"sinks" jsonschema:"description=Webhook sinks"`
}

// SinkConfig is a single webhook sink with its filters
type SinkConfig struct {
	URL         string   `yaml:"url" toml:"url" json:"url" jsonschema:"required,description=Webhook URL"`
	Categories  []string `yaml:"categories" toml:"categories" json:"categories" jsonschema:"description=Allowed category keys (empty means all)"`
	Types       []string `yaml:"types" toml:"types" json:"types" jsonschema:"description=Allowed feed types (empty means all)"`
	MentionRole string   `yaml:"mention_role" toml:"mention_role" json:"mention_role" jsonschema:"description=Role id mentioned in every message"`
	SiteURL     string   `yaml:"site_url" toml:"site_url" json:"site_url" jsonschema:"description=Site URL overriding notify.site_url"`
}

// AdminConfig holds credentials for admin endpoints
type AdminConfig struct {
	User     string `yaml:"user" toml:"user" json:"user" jsonschema:"default=admin,description=Admin user name"`
	Password string `yaml:"password" toml:"password" json:"password" jsonschema:"description=Admin password, admin API disabled if empty"`
}

// Load reads configuration from a YAML or TOML file, the format is picked by extension
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database, sqlite allows a single writer so one connection is the safe default
	if c.Database.DSN == "" {
		c.Database.DSN = "file:newswire.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 1
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 1
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// fetch
	if c.Fetch.Interval == 0 {
		c.Fetch.Interval = 5 * time.Minute
	}
	if c.Fetch.ErrorCooldown == 0 {
		c.Fetch.ErrorCooldown = 60 * time.Second
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.MaxEntries == 0 {
		c.Fetch.MaxEntries = 20
	}
	if c.Fetch.MaxWorkers == 0 {
		c.Fetch.MaxWorkers = 4
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Newswire/1.0"
	}

	// notify
	if c.Notify.BatchDelay == 0 {
		c.Notify.BatchDelay = 2 * time.Second
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 10 * time.Second
	}
	if c.Notify.MaxAttempts == 0 {
		c.Notify.MaxAttempts = 3
	}
	if c.Notify.ButtonLabel == "" {
		c.Notify.ButtonLabel = "View on site"
	}

	// admin
	if c.Admin.User == "" {
		c.Admin.User = "admin"
	}

	// feed name defaults to its key
	for catKey, cat := range c.Catalog {
		for feedKey, f := range cat.Feeds {
			if f.Name == "" {
				f.Name = feedKey
				cat.Feeds[feedKey] = f
			}
		}
		c.Catalog[catKey] = cat
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if cfg.Fetch.Interval < time.Second {
		return fmt.Errorf("fetch.interval must be at least 1 second")
	}
	if cfg.Fetch.Timeout < time.Second {
		return fmt.Errorf("fetch.timeout must be at least 1 second")
	}
	if cfg.Fetch.MaxEntries < 1 {
		return fmt.Errorf("fetch.max_entries must be at least 1")
	}
	if cfg.Fetch.MaxWorkers < 1 {
		return fmt.Errorf("fetch.max_workers must be at least 1")
	}

	if len(cfg.Catalog) == 0 {
		return fmt.Errorf("catalog must define at least one category")
	}
	for _, catKey := range sortedKeys(cfg.Catalog) {
		cat := cfg.Catalog[catKey]
		if strings.TrimSpace(catKey) == "" {
			return fmt.Errorf("catalog: empty category key")
		}
		if cat.Name == "" {
			return fmt.Errorf("catalog.%s.name is required", catKey)
		}
		if len(cat.Feeds) == 0 {
			return fmt.Errorf("catalog.%s.feeds must define at least one feed", catKey)
		}
		for _, feedKey := range sortedKeys(cat.Feeds) {
			f := cat.Feeds[feedKey]
			if f.URL == "" {
				return fmt.Errorf("catalog.%s.feeds.%s.url is required", catKey, feedKey)
			}
			if err := checkURL(f.URL); err != nil {
				return fmt.Errorf("catalog.%s.feeds.%s.url: %w", catKey, feedKey, err)
			}
			if f.Type == "" {
				return fmt.Errorf("catalog.%s.feeds.%s.type is required", catKey, feedKey)
			}
		}
	}

	if cfg.Notify.MaxAttempts < 1 {
		return fmt.Errorf("notify.max_attempts must be at least 1")
	}
	if cfg.Notify.BatchDelay < 0 {
		return fmt.Errorf("notify.batch_delay must be non-negative")
	}
	for i, s := range cfg.Notify.Sinks {
		if s.URL == "" {
			return fmt.Errorf("notify.sinks[%d].url is required", i)
		}
		if err := checkURL(s.URL); err != nil {
			return fmt.Errorf("notify.sinks[%d].url: %w", i, err)
		}
	}

	return nil
}

// checkURL verifies that u is an absolute http(s) URL
func checkURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", u, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q", u)
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host in %q", u)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns public url of the service
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}

// GetAdminCredentials returns admin user and password, empty password disables admin routes
func (c *Config) GetAdminCredentials() (user, password string) {
	return c.Admin.User, c.Admin.Password
}

// GetCatalog converts the configured catalog to domain records
func (c *Config) GetCatalog() domain.Catalog {
	res := make(domain.Catalog, len(c.Catalog))
	for catKey, cat := range c.Catalog {
		feeds := make(map[string]domain.FeedInfo, len(cat.Feeds))
		for feedKey, f := range cat.Feeds {
			feeds[feedKey] = domain.FeedInfo{Name: f.Name, URL: f.URL, Type: f.Type}
		}
		res[catKey] = domain.CategorySource{Name: cat.Name, Feeds: feeds}
	}
	return res
}

// FeedsCount returns the number of configured feeds across all categories
func (c *Config) FeedsCount() int {
	res := 0
	for _, cat := range c.Catalog {
		res += len(cat.Feeds)
	}
	return res
}
