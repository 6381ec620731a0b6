package parser

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxDepth is how many levels of nested sitemaps are followed.
	DefaultMaxDepth = 3

	// DefaultConcurrency bounds the nested sitemap fetches running at once.
	DefaultConcurrency = 4
)

// Getter fetches the body of a URL.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// SitemapParser lists the pages of a sitemap, following nested sitemaps.
type SitemapParser struct {
	fetch       Getter
	maxDepth    int
	concurrency int64
	logger      *slog.Logger
}

// SitemapOption configures a SitemapParser.
type SitemapOption func(*SitemapParser)

// WithMaxDepth sets how many levels of nested sitemaps are followed.
// 0 means nested sitemaps are never fetched.
func WithMaxDepth(depth int) SitemapOption {
	return func(p *SitemapParser) {
		if depth >= 0 {
			p.maxDepth = depth
		}
	}
}

// WithConcurrency sets the number of nested sitemaps fetched at once.
func WithConcurrency(n int) SitemapOption {
	return func(p *SitemapParser) {
		if n > 0 {
			p.concurrency = int64(n)
		}
	}
}

// WithLogger sets the logger used to report nested sitemap failures.
func WithLogger(logger *slog.Logger) SitemapOption {
	return func(p *SitemapParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewSitemapParser creates a parser fetching nested sitemaps with fetch.
func NewSitemapParser(fetch Getter, opts ...SitemapOption) *SitemapParser {
	p := &SitemapParser{
		fetch:       fetch,
		maxDepth:    DefaultMaxDepth,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// sitemapNode is one fetched sitemap: its page links and nested sitemaps in
// document order.
type sitemapNode struct {
	entries []sitemapEntry
}

// sitemapEntry is either a page link or a nested sitemap location. child is
// set once the nested sitemap has been claimed for fetching.
type sitemapEntry struct {
	link     string
	location string
	child    *sitemapNode
}

func (n *sitemapNode) flatten(links []string) []string {
	for _, entry := range n.entries {
		switch {
		case entry.location == "":
			links = append(links, entry.link)
		case entry.child != nil:
			links = entry.child.flatten(links)
		}
	}
	return links
}

// Parse returns the page URLs listed in the sitemap document fetched from
// source. Nested sitemaps (locations whose path ends in .xml) are fetched and
// flattened in place; a nested sitemap that cannot be fetched or parsed
// contributes no page. The result has no duplicates and keeps the first-seen
// order.
//
// Nested sitemaps are walked level by level. A sitemap referenced from
// several places is fetched once and flattened under its first reference in
// document order at the shallowest level.
func (p *SitemapParser) Parse(ctx context.Context, source string, document []byte) ([]string, error) {
	entries, err := parseEntries(document)
	if err != nil {
		return nil, err
	}

	root := &sitemapNode{entries: entries}
	visited := map[string]bool{source: true}
	level := []*sitemapNode{root}

	for depth := 0; depth < p.maxDepth && len(level) > 0; depth++ {
		var next []*sitemapNode
		var locations []string
		for _, node := range level {
			for i := range node.entries {
				entry := &node.entries[i]
				if entry.location == "" || visited[entry.location] {
					continue
				}
				visited[entry.location] = true
				entry.child = &sitemapNode{}
				next = append(next, entry.child)
				locations = append(locations, entry.location)
			}
		}
		p.fetchLevel(ctx, next, locations)
		level = next
	}

	return dedupe(root.flatten(nil)), nil
}

// fetchLevel fills nodes with the entries of the sitemaps at locations.
func (p *SitemapParser) fetchLevel(ctx context.Context, nodes []*sitemapNode, locations []string) {
	sem := semaphore.NewWeighted(p.concurrency)

	var g errgroup.Group
	for i, location := range locations {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			body, err := p.fetch.Get(ctx, location)
			sem.Release(1)
			if err != nil {
				p.logger.Debug("nested sitemap unavailable", "sitemap", location, "error", err)
				return nil
			}

			entries, err := parseEntries(body)
			if err != nil {
				p.logger.Debug("nested sitemap unreadable", "sitemap", location, "error", err)
				return nil
			}
			nodes[i].entries = entries
			return nil
		})
	}
	// Nested failures leave empty nodes, never errors.
	_ = g.Wait()
}

// parseEntries selects every absolute loc of document.
func parseEntries(document []byte) ([]sitemapEntry, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(document))
	if err != nil {
		return nil, err
	}

	locations := xmlquery.Find(doc, "//loc")
	entries := make([]sitemapEntry, 0, len(locations))
	for _, node := range locations {
		location := strings.TrimSpace(node.InnerText())
		u, err := url.Parse(location)
		if err != nil || !u.IsAbs() {
			continue
		}
		if strings.HasSuffix(u.Path, ".xml") {
			entries = append(entries, sitemapEntry{location: location})
		} else {
			entries = append(entries, sitemapEntry{link: location})
		}
	}
	return entries, nil
}

func dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	unique := make([]string, 0, len(links))
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		unique = append(unique, link)
	}
	return unique
}
