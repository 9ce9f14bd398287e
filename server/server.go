package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newswire/pkg/domain"
	"github.com/umputun/newswire/pkg/feed"
	"github.com/umputun/newswire/pkg/notify"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	store     Store
	scheduler Scheduler
	notifier  Notifier
	generator *feed.Generator
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
	GetAdminCredentials() (user, password string)
	GetCatalog() domain.Catalog
}

// Store provides read access to stored entries
type Store interface {
	LatestEntries(ctx context.Context, limit int) ([]domain.LatestEntry, error)
	CategoryEntries(ctx context.Context, categoryKey string, limit int) ([]domain.LatestEntry, error)
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
	Status(ctx context.Context) (domain.Status, error)
}

// Scheduler controls ingestion cycles
type Scheduler interface {
	ForceFetch(ctx context.Context) error
	IsRunning() bool
}

// Notifier sends test messages to webhook sinks
type Notifier interface {
	SendTest(ctx context.Context) notify.Result
	Active() bool
}

// New initializes a new server instance
func New(cfg ConfigProvider, store Store, scheduler Scheduler, notifier Notifier, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		store:     store,
		scheduler: scheduler,
		notifier:  notifier,
		generator: feed.NewGenerator(cfg.GetBaseURL(), "Newswire"),
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		// forced fetch runs a whole cycle synchronously
		WriteTimeout: 10 * time.Minute,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newswire", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /entries", s.entriesHandler)
		r.HandleFunc("GET /categories", s.categoriesHandler)
		r.HandleFunc("GET /status", s.statusHandler)

		user, passwd := s.config.GetAdminCredentials()
		if passwd == "" {
			lgr.Printf("[INFO] admin password not set, admin api disabled")
			return
		}
		r.Group().Route(func(admin *routegroup.Bundle) {
			admin.Use(rest.BasicAuthWithUserPasswd(user, passwd))
			admin.HandleFunc("POST /admin/fetch", s.forceFetchHandler)
			admin.HandleFunc("POST /admin/notify/test", s.notifyTestHandler)
		})
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}
