// Package source fetches job listings from the two job boards: an RSS/Atom
// feed queried with structured parameters, and a listings page scraped and
// filtered client-side.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pevans/jobwizard/filter"
	"go.uber.org/zap"
)

// Errors wrapped by every fetch failure. Callers decide with errors.Is
// whether to move on to the next query or source.
var (
	ErrFetch       = errors.New("fetch failed")
	ErrParse       = errors.New("parse failed")
	ErrUnavailable = errors.New("source unavailable")
)

// Defaults shared by both sources.
const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; JobBot/1.0)"
	DefaultTimeout   = 25 * time.Second
	DefaultLimit     = 12

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Options configures a source.
type Options struct {
	// Timeout bounds each request. Zero selects DefaultTimeout.
	Timeout time.Duration
	// UserAgent identifies the client. Empty selects DefaultUserAgent.
	UserAgent string
	// Limit caps accepted listings per fetch. Zero selects DefaultLimit.
	Limit int
	// Filter suppresses denylisted listings. Nil keeps everything.
	Filter *filter.Filter
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// newClient returns a client scoped to a single search, so headers and
// timeouts never leak between concurrent searches.
func newClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// fetchBody performs a GET and returns the response body. Request errors and
// non-2xx statuses wrap ErrFetch.
func fetchBody(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP error: %s", ErrFetch, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetch, err)
	}
	return body, nil
}
