package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"

	"github.com/umputun/newswire/pkg/domain"
	"github.com/umputun/newswire/pkg/notify"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// ErrNotRunning is returned by ForceFetch when the scheduler is stopped
var ErrNotRunning = errors.New("scheduler is not running")

// ErrCycleFailed is returned by ForceFetch when the triggered cycle failed
var ErrCycleFailed = errors.New("fetch cycle failed")

// Fetcher retrieves all feeds of the catalog
type Fetcher interface {
	FetchAll(ctx context.Context, catalog domain.Catalog) domain.Bundle
}

// Store persists fetched bundles and reports entries seen for the first time
type Store interface {
	SaveBundle(ctx context.Context, bundle domain.Bundle) ([]domain.NewEntry, error)
}

// Notifier dispatches new entries to sinks
type Notifier interface {
	Notify(ctx context.Context, entries []domain.NewEntry, coldStart bool) notify.Result
}

// Scheduler runs fetch-persist-notify cycles on a single worker goroutine.
// Periodic cycles and forced cycles are serialized, they never overlap.
type Scheduler struct {
	fetcher       Fetcher
	store         Store
	notifier      Notifier
	catalog       domain.Catalog
	interval      time.Duration
	errorCooldown time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	requests chan request
}

// Params defines scheduler dependencies and timings
type Params struct {
	Fetcher       Fetcher
	Store         Store
	Notifier      Notifier // optional
	Catalog       domain.Catalog
	Interval      time.Duration // pause between cycles
	ErrorCooldown time.Duration // pause after a failed cycle
}

// request is a forced cycle, the result is sent to resp
type request struct {
	resp chan error
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.Interval <= 0 {
		params.Interval = 5 * time.Minute
	}
	if params.ErrorCooldown <= 0 {
		params.ErrorCooldown = time.Minute
	}
	return &Scheduler{
		fetcher:       params.Fetcher,
		store:         params.Store,
		notifier:      params.Notifier,
		catalog:       params.Catalog,
		interval:      params.Interval,
		errorCooldown: params.ErrorCooldown,
	}
}

// Start launches the worker. The first cycle runs immediately and is a cold start,
// the cold start lasts until a cycle stores its bundle successfully.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		lgr.Printf("[WARN] scheduler already running")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.requests = make(chan request)
	go s.worker(ctx, s.requests, s.done)

	lgr.Printf("[INFO] scheduler started, interval %v, error cooldown %v, %d categories",
		s.interval, s.errorCooldown, len(s.catalog))
}

// Stop cancels the worker and waits for it to exit, in-flight cycle is abandoned.
// The scheduler counts as running until the worker is gone, so Start can't
// launch a second worker while the first one is still unwinding.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return
	}
	lgr.Printf("[INFO] stopping scheduler...")
	s.cancel()
	done := s.done
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	if s.done == done { // not restarted by another Stop+Start in the meantime
		s.cancel = nil
	}
	s.mu.Unlock()
	lgr.Printf("[INFO] scheduler stopped")
}

// IsRunning reports whether the worker is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// ForceFetch runs one cycle on the worker and waits for it. Waits for the current
// cycle first if one is in progress. The periodic schedule is not affected.
func (s *Scheduler) ForceFetch(ctx context.Context) error {
	s.mu.Lock()
	running, requests, done := s.cancel != nil, s.requests, s.done
	s.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	req := request{resp: make(chan error, 1)}
	select {
	case requests <- req:
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ErrCycleFailed
	}

	select {
	case err := <-req.resp:
		if err != nil {
			return ErrCycleFailed
		}
		return nil
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ErrCycleFailed
	}
}

// worker owns all cycles until ctx is canceled
func (s *Scheduler) worker(ctx context.Context, requests <-chan request, done chan<- struct{}) {
	defer close(done)

	coldStart := true
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			err := s.runCycle(ctx, coldStart)
			if err == nil {
				coldStart = false
			}
			delay := s.interval
			if err != nil && ctx.Err() == nil {
				lgr.Printf("[ERROR] fetch cycle failed, retry in %v: %v", s.errorCooldown, err)
				delay = s.errorCooldown
			}
			timer.Reset(delay)
		case req := <-requests:
			err := s.runCycle(ctx, coldStart)
			if err == nil {
				coldStart = false
			}
			if err != nil && ctx.Err() == nil {
				lgr.Printf("[ERROR] forced fetch cycle failed: %v", err)
			}
			req.resp <- err
		}
	}
}

// runCycle fetches all feeds, stores them and notifies about new entries.
// Panics are recovered and reported as errors.
func (s *Scheduler) runCycle(ctx context.Context, coldStart bool) (err error) {
	cycleID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] cycle %s panic: %v", cycleID, r)
			err = fmt.Errorf("cycle %s panic: %v", cycleID, r)
		}
	}()

	start := time.Now()
	lgr.Printf("[DEBUG] cycle %s started, cold start: %v", cycleID, coldStart)

	bundle := s.fetcher.FetchAll(ctx, s.catalog)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cycle %s interrupted: %w", cycleID, err)
	}

	newEntries, err := s.store.SaveBundle(ctx, bundle)
	if err != nil {
		return fmt.Errorf("cycle %s: %w", cycleID, err)
	}

	var res notify.Result
	if s.notifier != nil {
		res = s.notifier.Notify(ctx, newEntries, coldStart)
	}

	lgr.Printf("[INFO] cycle %s completed in %v, fetched %d entries, %d new, notified %d, failed %d",
		cycleID, time.Since(start).Round(time.Millisecond), bundle.EntriesCount(), len(newEntries), res.Sent, res.Failed)
	return nil
}
