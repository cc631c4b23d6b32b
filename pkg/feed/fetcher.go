package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// errPermanent matches fetch errors which should not be retried
var errPermanent = errors.New("permanent fetch error")

// FetchError is returned when a feed can't be retrieved, either because of a transport
// failure or a non-2xx response
type FetchError struct {
	URL        string
	StatusCode int // zero for transport failures
	Err        error

	final bool // request can't succeed on retry
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports client-side (4xx) responses as permanent, everything else is worth another try
func (e *FetchError) Is(target error) bool {
	if target != errPermanent { //nolint:errorlint // sentinel identity
		return false
	}
	return e.final || (e.StatusCode >= 400 && e.StatusCode < 500)
}

// FetcherParams defines HTTPFetcher settings
type FetcherParams struct {
	Timeout    time.Duration
	UserAgent  string
	Attempts   int           // total attempts, at least one
	RetryDelay time.Duration // initial backoff delay
	MaxSize    int64         // max body size in bytes, 0 for unlimited
}

// HTTPFetcher retrieves raw feed documents over HTTP
type HTTPFetcher struct {
	client     *http.Client
	userAgent  string
	attempts   int
	retryDelay time.Duration
	maxSize    int64
}

// NewHTTPFetcher creates a new feed fetcher
func NewHTTPFetcher(p FetcherParams) *HTTPFetcher {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = 500 * time.Millisecond
	}
	if p.UserAgent == "" {
		p.UserAgent = "Alertscope/1.0"
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: p.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:  p.UserAgent,
		attempts:   p.Attempts,
		retryDelay: p.RetryDelay,
		maxSize:    p.MaxSize,
	}
}

// Fetch returns the raw feed text for the given URL. Transport errors and 5xx responses
// are retried with backoff, 4xx responses fail immediately.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	var body string
	retrier := repeater.NewBackoff(f.attempts, f.retryDelay, repeater.WithMaxDelay(5*time.Second))
	attempt := 0
	err := retrier.Do(ctx, func() error {
		attempt++
		var fetchErr error
		body, fetchErr = f.fetch(ctx, feedURL)
		if fetchErr != nil && attempt < f.attempts && !errors.Is(fetchErr, errPermanent) {
			lgr.Printf("[DEBUG] fetch attempt %d for %s failed: %v", attempt, feedURL, fetchErr)
		}
		return fetchErr
	}, errPermanent)
	if err != nil {
		return "", err
	}
	return body, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return "", &FetchError{URL: feedURL, Err: fmt.Errorf("create request: %w", err), final: true}
	}
	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: feedURL, StatusCode: resp.StatusCode}
	}

	var reader io.Reader = resp.Body
	if f.maxSize > 0 {
		reader = io.LimitReader(resp.Body, f.maxSize)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URL: feedURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(data), nil
}
