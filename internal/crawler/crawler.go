package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/octobees/siret-extractor/internal/fetcher"
	"github.com/octobees/siret-extractor/internal/parser"
	"github.com/octobees/siret-extractor/internal/siret"
)

// DefaultConcurrency bounds the pages and sitemaps fetched at once.
const DefaultConcurrency = 4

const antiBotMarker = "Enable JavaScript and cookies to continue"

// ErrAntiBot is returned when a site yields nothing and answers like a bot challenge.
var ErrAntiBot = errors.New("anti-bot protection detected")

// Fetcher retrieves documents for the crawl.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
	Probe(ctx context.Context, rawURL string, followRedirects bool) (*fetcher.Response, error)
}

// Crawler discovers the legal pages of a site and extracts their identifiers.
type Crawler struct {
	fetch           Fetcher
	concurrency     int
	rateLimit       rate.Limit
	sitemapMaxDepth int
	logger          *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency sets how many pages or sitemaps are fetched at once.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRateLimit caps the requests per second sent while crawling one site.
// 0 disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Crawler) {
		if perSecond > 0 {
			c.rateLimit = rate.Limit(perSecond)
		}
	}
}

// WithSitemapMaxDepth sets how many levels of nested sitemaps are followed.
func WithSitemapMaxDepth(depth int) Option {
	return func(c *Crawler) {
		if depth >= 0 {
			c.sitemapMaxDepth = depth
		}
	}
}

// WithLogger sets the crawl logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Crawler.
func New(fetch Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetch:           fetch,
		concurrency:     DefaultConcurrency,
		rateLimit:       rate.Inf,
		sitemapMaxDepth: parser.DefaultMaxDepth,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl returns the identifiers found on the candidate pages of siteURL.
//
// Candidates come from the sitemaps advertised by robots.txt (or
// /sitemap.xml). When they yield nothing, the homepage and its same-origin
// links are tried once. When that yields nothing either, the site is probed
// and ErrAntiBot is returned if it looks protected.
func (c *Crawler) Crawl(ctx context.Context, siteURL string) ([]*siret.PageIdentifiers, error) {
	base, err := url.Parse(siteURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid site url %q", siteURL)
	}

	fetch := c.fetcherFor()

	pages := c.fromSitemaps(ctx, fetch, base)
	if len(pages) == 0 {
		c.logger.Debug("no identifier from sitemaps, trying homepage", "url", siteURL)
		pages = c.fromHomepage(ctx, fetch, siteURL)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		if err := c.checkAntiBot(ctx, fetch, siteURL); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// sitemapURLs lists the sitemaps declared in the robots.txt of base,
// defaulting to /sitemap.xml.
func (c *Crawler) sitemapURLs(ctx context.Context, fetch Fetcher, base *url.URL) []string {
	fallback := []string{base.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}

	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	body, err := fetch.Get(ctx, robotsURL)
	if err != nil {
		c.logger.Debug("no robots.txt", "url", robotsURL, "error", err)
		return fallback
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil || len(robots.Sitemaps) == 0 {
		return fallback
	}
	return robots.Sitemaps
}

func (c *Crawler) fromSitemaps(ctx context.Context, fetch Fetcher, base *url.URL) []*siret.PageIdentifiers {
	sitemaps := c.sitemapURLs(ctx, fetch, base)
	c.logger.Debug("sitemaps computed", "url", base.String(), "sitemaps", sitemaps)

	sitemapParser := parser.NewSitemapParser(fetch,
		parser.WithMaxDepth(c.sitemapMaxDepth),
		parser.WithConcurrency(c.concurrency),
		parser.WithLogger(c.logger),
	)

	results := make([][]string, len(sitemaps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, sitemapURL := range sitemaps {
		g.Go(func() error {
			body, err := fetch.Get(gctx, sitemapURL)
			if err != nil {
				c.logger.Debug("no sitemap", "sitemap", sitemapURL, "error", err)
				return nil
			}
			links, err := sitemapParser.Parse(gctx, sitemapURL, body)
			if err != nil {
				c.logger.Debug("unreadable sitemap", "sitemap", sitemapURL, "error", err)
				return nil
			}
			results[i] = links
			return nil
		})
	}
	_ = g.Wait()

	var links []string
	seen := make(map[string]bool)
	for _, result := range results {
		for _, link := range result {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
	}

	candidates := siret.PotentialPages(links)
	c.logger.Debug("potential pages found from sitemap", "url", base.String(), "count", len(candidates))
	return c.extractPages(ctx, fetch, candidates)
}

func (c *Crawler) fromHomepage(ctx context.Context, fetch Fetcher, siteURL string) []*siret.PageIdentifiers {
	body, err := fetch.Get(ctx, siteURL)
	if err != nil {
		c.logger.Debug("no valid homepage", "url", siteURL, "error", err)
		return nil
	}

	links, err := parser.HomepageLinks(siteURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Debug("unreadable homepage", "url", siteURL, "error", err)
		return nil
	}

	candidates := make([]string, 0, len(links))
	for _, link := range siret.PotentialPages(links) {
		if link != siteURL {
			candidates = append(candidates, link)
		}
	}
	c.logger.Debug("potential pages found from homepage", "url", siteURL, "count", len(candidates)+1)

	var pages []*siret.PageIdentifiers
	home, err := siret.FindInPage(siteURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Debug("unreadable homepage", "url", siteURL, "error", err)
	} else if home != nil {
		pages = append(pages, home)
	}
	return append(pages, c.extractPages(ctx, fetch, candidates)...)
}

// extractPages fetches every link and keeps the pages carrying identifiers,
// in link order. Pages that fail to load are skipped.
func (c *Crawler) extractPages(ctx context.Context, fetch Fetcher, links []string) []*siret.PageIdentifiers {
	results := make([]*siret.PageIdentifiers, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, link := range links {
		g.Go(func() error {
			body, err := fetch.Get(gctx, link)
			if err != nil {
				c.logger.Debug("page skipped", "url", link, "error", err)
				return nil
			}
			found, err := siret.FindInPage(link, bytes.NewReader(body))
			if err != nil {
				c.logger.Debug("page skipped", "url", link, "error", err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	pages := make([]*siret.PageIdentifiers, 0, len(results))
	for _, found := range results {
		if found != nil {
			pages = append(pages, found)
		}
	}
	return pages
}

func (c *Crawler) checkAntiBot(ctx context.Context, fetch Fetcher, siteURL string) error {
	resp, err := fetch.Probe(ctx, siteURL, true)
	if err != nil {
		c.logger.Warn("anti-bot probe failed", "url", siteURL, "error", err)
		return nil
	}
	if resp.StatusCode == http.StatusForbidden || bytes.Contains(resp.Body, []byte(antiBotMarker)) {
		return fmt.Errorf("%w: %s", ErrAntiBot, siteURL)
	}
	return nil
}

func (c *Crawler) fetcherFor() Fetcher {
	if c.rateLimit == rate.Inf {
		return c.fetch
	}
	return &limitedFetcher{
		Fetcher: c.fetch,
		limiter: rate.NewLimiter(c.rateLimit, 1),
	}
}

// limitedFetcher spaces out the requests of a single crawl.
type limitedFetcher struct {
	Fetcher
	limiter *rate.Limiter
}

func (l *limitedFetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.Fetcher.Get(ctx, rawURL)
}

func (l *limitedFetcher) Probe(ctx context.Context, rawURL string, followRedirects bool) (*fetcher.Response, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.Fetcher.Probe(ctx, rawURL, followRedirects)
}
