// Package notify dispatches newly stored entries to discord-compatible webhooks.
// Every dispatch is followed by a fixed pacing delay, rate-limited dispatches are
// retried after the delay announced by the sink, up to a bounded number of attempts.
package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newswire/pkg/domain"
)

// Notifier sends entry notifications to configured sinks
type Notifier struct {
	client      *http.Client
	enabled     bool
	sinks       []Sink
	batchDelay  time.Duration
	timeout     time.Duration
	maxAttempts int
	siteURL     string
	buttonLabel string
	username    string
}

// Sink is a webhook endpoint with optional filters. Empty filter lists allow everything.
type Sink struct {
	URL         string
	Categories  []string
	Types       []string
	MentionRole string
	SiteURL     string // overrides Params.SiteURL for this sink
}

// Params defines notifier settings
type Params struct {
	Enabled     bool
	Sinks       []Sink
	BatchDelay  time.Duration // awaited after every dispatch
	Timeout     time.Duration // per webhook request
	MaxAttempts int           // total attempts per dispatch when rate limited
	SiteURL     string
	ButtonLabel string
	Username    string
}

// Result counts dispatch outcomes
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// New makes a notifier using the given client, the client is shared and not owned
func New(client *http.Client, params Params) *Notifier {
	if params.Timeout <= 0 {
		params.Timeout = 10 * time.Second
	}
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = 3
	}
	if params.ButtonLabel == "" {
		params.ButtonLabel = "View on site"
	}
	return &Notifier{
		client:      client,
		enabled:     params.Enabled,
		sinks:       params.Sinks,
		batchDelay:  params.BatchDelay,
		timeout:     params.Timeout,
		maxAttempts: params.MaxAttempts,
		siteURL:     params.SiteURL,
		buttonLabel: params.ButtonLabel,
		username:    params.Username,
	}
}

// Active reports whether notifications are enabled and at least one sink is configured
func (n *Notifier) Active() bool {
	return n.enabled && len(n.sinks) > 0
}

// Notify dispatches every entry to every sink accepting it. Nothing is sent for the
// cold start cycle, entries stored by it are considered already known.
func (n *Notifier) Notify(ctx context.Context, entries []domain.NewEntry, coldStart bool) Result {
	var res Result
	if !n.Active() || len(entries) == 0 {
		return res
	}
	if coldStart {
		lgr.Printf("[INFO] cold start, skip notifications for %d new entries", len(entries))
		return res
	}

	for _, entry := range entries {
		for _, sink := range n.sinks {
			if !sink.accepts(entry) {
				continue
			}
			if ctx.Err() != nil {
				return res
			}
			if n.dispatch(ctx, sink.URL, n.render(entry, sink, time.Now())) {
				res.Sent++
			} else {
				res.Failed++
			}
			n.sleep(ctx, n.batchDelay)
		}
	}

	if res.Sent > 0 || res.Failed > 0 {
		lgr.Printf("[INFO] notifications sent: %d, failed: %d", res.Sent, res.Failed)
	}
	return res
}

// SendTest posts a connectivity test message to every sink, regardless of the enabled flag
func (n *Notifier) SendTest(ctx context.Context) Result {
	var res Result
	for i, sink := range n.sinks {
		if i > 0 {
			n.sleep(ctx, n.batchDelay)
		}
		if n.dispatch(ctx, sink.URL, n.renderTest(sink, time.Now())) {
			res.Sent++
			continue
		}
		res.Failed++
	}
	lgr.Printf("[INFO] test notifications sent: %d, failed: %d", res.Sent, res.Failed)
	return res
}

// dispatch posts payload, retrying only rate-limited attempts after the announced delay
func (n *Notifier) dispatch(ctx context.Context, url string, payload Payload) bool {
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		err := n.post(ctx, url, payload)
		if err == nil {
			return true
		}

		var rlErr *RateLimitError
		if !errors.As(err, &rlErr) {
			lgr.Printf("[WARN] webhook dispatch to %s failed: %v", redact(url), err)
			return false
		}
		if attempt == n.maxAttempts {
			lgr.Printf("[WARN] webhook %s still rate limited after %d attempts", redact(url), attempt)
			return false
		}
		lgr.Printf("[WARN] webhook %s rate limited, waiting %v", redact(url), rlErr.RetryAfter)
		if !n.sleep(ctx, rlErr.RetryAfter) {
			return false
		}
	}
	return false
}

// sleep waits for d or until ctx is done, returns false if interrupted
func (n *Notifier) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// accepts checks category and type filters, case-insensitive
func (s Sink) accepts(entry domain.NewEntry) bool {
	return allowed(s.Categories, entry.CategoryKey) && allowed(s.Types, entry.FeedType)
}

func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// redact hides the webhook token, the last path element of discord webhook urls
func redact(url string) string {
	if idx := strings.LastIndex(url, "/"); idx > 0 && idx < len(url)-1 {
		return url[:idx+1] + "***"
	}
	return url
}
