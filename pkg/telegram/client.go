// Package telegram is the delivery sink: a thin Telegram Bot API client
// that posts one rendered message per feed item to a channel.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

const defaultAPI = "https://api.telegram.org"

// RateLimitedError is returned when the sink throttles us. RetryAfter is
// mandatory: the caller must not send anything before it elapses. The client
// also tracks the backoff internally, so concurrent senders are gated too.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited by telegram, retry after %v", e.RetryAfter)
}

// Client sends messages to a single Telegram chat. Safe for concurrent use;
// a 429 response pauses all senders, not just the one that hit it, because
// the bot-level rate limit is shared.
type Client struct {
	token  string
	chatID string
	api    string
	httpc  *http.Client
	dry    bool

	mu        sync.Mutex
	notBefore time.Time // no sends until this instant after a 429
}

// Option modifies client construction
type Option func(*Client)

// WithAPI overrides the API base URL, used in tests
func WithAPI(api string) Option {
	return func(c *Client) { c.api = api }
}

// WithDry makes Send log instead of posting
func WithDry(dry bool) Option {
	return func(c *Client) { c.dry = dry }
}

// NewClient creates a client for the given bot token and chat
func NewClient(token, chatID string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		token:  token,
		chatID: chatID,
		api:    defaultAPI,
		httpc:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send delivers one item to the chat. Items carrying an image are posted
// with sendPhoto and fall back to a plain text post if that fails.
func (c *Client) Send(ctx context.Context, item domain.Item, tag string) error {
	if err := c.waitForBackoff(ctx); err != nil {
		return err
	}

	text := formatMessage(item, tag)

	if c.dry {
		lgr.Printf("[INFO] dry run, would send: %s", item.Identity())
		return nil
	}

	if item.ImageURL != "" {
		photo := map[string]any{
			"chat_id":    c.chatID,
			"photo":      item.ImageURL,
			"caption":    text,
			"parse_mode": "HTML",
		}
		if err := c.call(ctx, "sendPhoto", photo); err == nil {
			return nil
		} else if rateLimited(err) {
			return err
		}
		// photo failed for a non-throttling reason, degrade to text
		lgr.Printf("[DEBUG] photo post failed for %s, sending text", item.Identity())
	}

	msg := map[string]any{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": item.ImageURL != "", // keep the preview when there was no photo
	}
	return c.call(ctx, "sendMessage", msg)
}

// call posts one API method and decodes throttling responses
func (c *Client) call(ctx context.Context, method string, args any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal %s args: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.api, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var apiResp struct {
		Description string `json:"description"`
		Parameters  struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiResp) // best effort, status code is enough

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := time.Duration(apiResp.Parameters.RetryAfter) * time.Second
		if wait == 0 {
			wait = 30 * time.Second
		}
		c.mu.Lock()
		c.notBefore = time.Now().Add(wait)
		c.mu.Unlock()
		return &RateLimitedError{RetryAfter: wait}
	}

	return fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, apiResp.Description)
}

// waitForBackoff blocks until any active rate-limit window has passed
func (c *Client) waitForBackoff(ctx context.Context) error {
	c.mu.Lock()
	wait := time.Until(c.notBefore)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	lgr.Printf("[DEBUG] honoring telegram backoff, waiting %v", wait)
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func rateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
