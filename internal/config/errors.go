package config

import "errors"

// Validation errors returned by Config.Validate, matched with errors.Is.
var (
	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidConcurrency is returned when the crawl concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid crawl concurrency: must be positive")

	// ErrInvalidCrawlRateLimit is returned when the crawl rate limit is negative.
	// Use 0 to disable it.
	ErrInvalidCrawlRateLimit = errors.New("invalid crawl rate limit: must be non-negative")

	// ErrInvalidSitemapDepth is returned when the nested sitemap depth is negative.
	ErrInvalidSitemapDepth = errors.New("invalid sitemap depth: must be non-negative")

	// ErrInvalidLogLevel is returned for a level other than debug, info, warn or error.
	ErrInvalidLogLevel = errors.New("invalid log level")
)
