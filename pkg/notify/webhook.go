package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrRateLimited is matched by every *RateLimitError
var ErrRateLimited = errors.New("rate limited")

// defaultRetryAfter is used when a 429 response carries no usable hint
const defaultRetryAfter = 5 * time.Second

// RateLimitError is returned when the webhook responds with 429
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %v", e.RetryAfter)
}

// Is makes any RateLimitError match ErrRateLimited
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// Payload is a discord-compatible webhook message
type Payload struct {
	Username   string      `json:"username,omitempty"`
	Content    string      `json:"content,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Embed is a rich message block
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// EmbedFooter is the footer line of an embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// EmbedAuthor is the author line of an embed
type EmbedAuthor struct {
	Name string `json:"name"`
}

// EmbedField is a name/value pair shown in an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// component types and button styles used by link buttons
const (
	componentActionRow = 1
	componentButton    = 2
	buttonStyleLink    = 5
)

// Component is an action row holding buttons
type Component struct {
	Type       int      `json:"type"`
	Components []Button `json:"components"`
}

// Button is a link button
type Button struct {
	Type  int          `json:"type"`
	Style int          `json:"style"`
	Label string       `json:"label"`
	URL   string       `json:"url"`
	Emoji *ButtonEmoji `json:"emoji,omitempty"`
}

// ButtonEmoji is a unicode emoji shown on a button
type ButtonEmoji struct {
	Name string `json:"name"`
}

// rateLimitResponse is the json body of a 429 response
type rateLimitResponse struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"` // seconds
}

// post sends payload to the webhook url. Returns *RateLimitError on 429,
// any other non-2xx status is an error.
func (n *Notifier) post(ctx context.Context, url string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: retryAfter(respBody, resp.Header)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// retryAfter extracts the delay hint from a 429 body or the Retry-After header
func retryAfter(body []byte, header http.Header) time.Duration {
	var rl rateLimitResponse
	if err := json.Unmarshal(body, &rl); err == nil && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter * float64(time.Second))
	}
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
		if t, err := http.ParseTime(v); err == nil {
			if d := time.Until(t); d > 0 {
				return d
			}
		}
	}
	return defaultRetryAfter
}
