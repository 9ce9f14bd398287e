package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newswire/pkg/config"
	"github.com/umputun/newswire/pkg/feed"
	"github.com/umputun/newswire/pkg/notify"
	"github.com/umputun/newswire/pkg/repository"
	"github.com/umputun/newswire/pkg/scheduler"
	"github.com/umputun/newswire/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file (yaml or toml)"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)
	log.Printf("[INFO] starting newswire version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// hide credentials in logs
	secrets := []string{}
	if _, passwd := cfg.GetAdminCredentials(); passwd != "" {
		secrets = append(secrets, passwd)
	}
	for _, s := range cfg.Notify.Sinks {
		secrets = append(secrets, s.URL)
	}
	if len(secrets) > 0 {
		setupLog(opts.Debug, secrets...)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	// one client shared by fetcher and notifier, timeouts are set per request
	client := &http.Client{}
	defer client.CloseIdleConnections()

	fetcher := feed.NewFetcher(client, feed.FetcherParams{
		Timeout:    cfg.Fetch.Timeout,
		UserAgent:  cfg.Fetch.UserAgent,
		MaxEntries: cfg.Fetch.MaxEntries,
		MaxWorkers: cfg.Fetch.MaxWorkers,
	})

	notifier := notify.New(client, makeNotifyParams(cfg))

	catalog := cfg.GetCatalog()
	sched := scheduler.NewScheduler(scheduler.Params{
		Fetcher:       fetcher,
		Store:         repos,
		Notifier:      notifier,
		Catalog:       catalog,
		Interval:      cfg.Fetch.Interval,
		ErrorCooldown: cfg.Fetch.ErrorCooldown,
	})

	log.Printf("[INFO] monitoring %d feeds in %d categories, interval %v", cfg.FeedsCount(), len(catalog), cfg.Fetch.Interval)
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, repos, sched, notifier, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// makeNotifyParams maps notification config to notifier params
func makeNotifyParams(cfg *config.Config) notify.Params {
	sinks := make([]notify.Sink, 0, len(cfg.Notify.Sinks))
	for _, s := range cfg.Notify.Sinks {
		sinks = append(sinks, notify.Sink{
			URL:         s.URL,
			Categories:  s.Categories,
			Types:       s.Types,
			MentionRole: s.MentionRole,
			SiteURL:     s.SiteURL,
		})
	}
	return notify.Params{
		Enabled:     cfg.Notify.Enabled,
		Sinks:       sinks,
		BatchDelay:  cfg.Notify.BatchDelay,
		Timeout:     cfg.Notify.Timeout,
		MaxAttempts: cfg.Notify.MaxAttempts,
		SiteURL:     cfg.Notify.SiteURL,
		ButtonLabel: cfg.Notify.ButtonLabel,
		Username:    cfg.Notify.Username,
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

