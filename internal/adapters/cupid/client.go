// Package cupid is a small client for the Cupid content API, used by the
// catalog importer to pull properties and their rooms.
package cupid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ticket_hotels/internal/adapters/observability"
)

var (
	ErrNotFound     = errors.New("cupid: not found")
	ErrUnauthorized = errors.New("cupid: unauthorized")
	ErrForbidden    = errors.New("cupid: forbidden")
)

// StatusError is an upstream answer the importer can't use: either a status
// outside the known set, or a transient one that outlived every retry.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cupid: status %d", e.Code)
	}
	return fmt.Sprintf("cupid: status %d: %s", e.Code, e.Body)
}

// property lookups are tried in order; older accounts only serve the
// singular path.
var propertyPaths = []string{"/properties/%d", "/property/%d"}

type Client struct {
	base     string
	key      string
	hc       *http.Client
	limiter  *rate.Limiter
	attempts int
	delay    time.Duration
}

type Option func(*Client)

// WithRetry sets how many times a request is attempted and the first
// backoff step, which doubles per retry.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if delay > 0 {
			c.delay = delay
		}
	}
}

func New(base, key string, rps int, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, errors.New("cupid: API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		base:     strings.TrimRight(base, "/"),
		key:      key,
		hc:       &http.Client{Timeout: 20 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		attempts: 4,
		delay:    200 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// GetProperty fetches one property with its rooms embedded.
func (c *Client) GetProperty(ctx context.Context, id int64) (map[string]any, error) {
	var err error
	for _, p := range propertyPaths {
		var out map[string]any
		err = c.fetch(ctx, c.base+fmt.Sprintf(p, id), &out)
		if !errors.Is(err, ErrNotFound) {
			return out, err
		}
	}
	return nil, err
}

// fetch GETs url into out, retrying 429 and transient 5xx answers.
func (c *Client) fetch(ctx context.Context, url string, out any) error {
	var err error
	for i := 0; i < c.attempts; i++ {
		if werr := c.limiter.Wait(ctx); werr != nil {
			return werr
		}
		var wait time.Duration
		wait, err = c.once(ctx, url, out)
		if err == nil || wait < 0 {
			return err
		}
		if i == c.attempts-1 {
			break
		}
		if wait == 0 {
			wait = c.backoff(i)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

// once runs a single request. A negative wait means the error is final;
// otherwise the caller may retry after wait (0 picks the default backoff).
func (c *Client) once(ctx context.Context, url string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return -1, err
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ticket-hotels-importer/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("cupid", "property", 0, time.Since(start))
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("cupid", "property", resp.StatusCode, time.Since(start))

	switch code := resp.StatusCode; {
	case code == http.StatusNoContent:
		return -1, nil
	case code >= 200 && code < 300:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return -1, fmt.Errorf("cupid: decode %s: %w", url, err)
		}
		return -1, nil
	case code == http.StatusNotFound:
		return -1, ErrNotFound
	case code == http.StatusUnauthorized:
		return -1, ErrUnauthorized
	case code == http.StatusForbidden:
		return -1, ErrForbidden
	case code == http.StatusTooManyRequests, code == http.StatusInternalServerError,
		code == http.StatusBadGateway, code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, resp.Body)
		return retryAfter(resp.Header.Get("Retry-After")), &StatusError{Code: code}
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return -1, &StatusError{Code: code, Body: strings.TrimSpace(string(b))}
	}
}

// retryAfter reads a Retry-After value in seconds or HTTP-date form.
func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles per attempt with up to 50% jitter.
func (c *Client) backoff(i int) time.Duration {
	d := c.delay << i
	return d + time.Duration(rand.Int63n(int64(d/2+1)))
}
