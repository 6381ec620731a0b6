package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds every fetch, body read included.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 * 1024 * 1024

	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/114.0"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptLanguage = "fr,fr-FR;q=0.8,en-US;q=0.5,en;q=0.3"
)

// ErrPageNotFound is returned when a page answers with a status outside 2xx/3xx.
var ErrPageNotFound = errors.New("page not found")

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher performs GET requests with browser-like headers and a bounded timeout.
type Fetcher struct {
	client      *http.Client
	noRedirect  *http.Client
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per response.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// New creates a Fetcher around client. A nil client uses a fresh http.Client.
func New(client *http.Client, opts ...Option) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}

	noRedirect := *client
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	f := &Fetcher{
		client:      client,
		noRedirect:  &noRedirect,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get returns the body of rawURL. Statuses outside 200-399 yield ErrPageNotFound.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := f.do(ctx, f.client, rawURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrPageNotFound, rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// Probe returns the response of rawURL whatever its status.
// When followRedirects is false, a 3xx response is returned as is.
func (f *Fetcher) Probe(ctx context.Context, rawURL string, followRedirects bool) (*Response, error) {
	client := f.noRedirect
	if followRedirects {
		client = f.client
	}
	return f.do(ctx, client, rawURL)
}

func (f *Fetcher) do(ctx context.Context, client *http.Client, rawURL string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
