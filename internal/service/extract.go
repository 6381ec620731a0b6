package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/octobees/siret-extractor/internal/crawler"
	"github.com/octobees/siret-extractor/internal/extraction"
	"github.com/octobees/siret-extractor/internal/registry"
	"github.com/octobees/siret-extractor/internal/resolver"
	"github.com/octobees/siret-extractor/internal/siret"
)

// URLResolver turns a hostname into a reachable URL.
type URLResolver interface {
	Resolve(ctx context.Context, hostname string) (string, error)
}

// SiteCrawler lists the identifiers found on a site.
type SiteCrawler interface {
	Crawl(ctx context.Context, siteURL string) ([]*siret.PageIdentifiers, error)
}

// Extractor is implemented by ExtractService.
type Extractor interface {
	Extract(ctx context.Context, website string) (*extraction.Result, error)
}

// ExtractService finds the SIRET and SIREN numbers published by a website.
type ExtractService struct {
	resolver  URLResolver
	crawler   SiteCrawler
	registry  registry.Lookup
	blacklist []string
	logger    *slog.Logger
}

// NewExtractService creates a new instance of ExtractService.
func NewExtractService(res URLResolver, c SiteCrawler, reg registry.Lookup, blacklist []string, logger *slog.Logger) *ExtractService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractService{
		resolver:  res,
		crawler:   c,
		registry:  reg,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Extract resolves website, crawls it and enriches every identifier found
// with its registry record.
//
// Unreachable, failing and bot-protected sites yield a failure result, not an
// error. Any other failure, registry errors included, is returned as is.
func (s *ExtractService) Extract(ctx context.Context, website string) (*extraction.Result, error) {
	result, err := s.extract(ctx, website)
	if err == nil {
		return result, nil
	}

	if kind, ok := errorKind(err); ok {
		s.logger.Debug("extraction failed", "website", website, "kind", kind, "error", err)
		return extraction.Failure(website, kind), nil
	}
	s.logger.Warn("error while extracting siret", "website", website, "error", err)
	return nil, err
}

func (s *ExtractService) extract(ctx context.Context, website string) (*extraction.Result, error) {
	siteURL, err := s.resolver.Resolve(ctx, website)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("url computed", "website", website, "url", siteURL)

	pages, err := s.crawler.Crawl(ctx, siteURL)
	if err != nil {
		return nil, err
	}

	ids := extraction.FilterBlacklist(s.blacklist, extraction.Aggregate(pages))

	var bySiret, bySiren []registry.Record
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.registry.LookupBySiret(gctx, extraction.ValidSirets(ids))
		if err != nil {
			return fmt.Errorf("lookup sirets: %w", err)
		}
		bySiret = records
		return nil
	})
	g.Go(func() error {
		records, err := s.registry.LookupBySiren(gctx, extraction.ValidSirens(ids))
		if err != nil {
			return fmt.Errorf("lookup sirens: %w", err)
		}
		bySiren = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug("registry returned", "website", website, "by_siret", len(bySiret), "by_siren", len(bySiren))

	extractions := extraction.Merge(
		extraction.IndexBySiret(bySiret),
		extraction.IndexBySiren(bySiren),
		ids,
	)
	return extraction.Success(website, extractions), nil
}

func errorKind(err error) (extraction.ErrorKind, bool) {
	switch {
	case errors.Is(err, resolver.ErrWebsiteNotFound):
		return extraction.ErrorNotFound, true
	case errors.Is(err, resolver.ErrWebsiteFailed):
		return extraction.ErrorFailed, true
	case errors.Is(err, crawler.ErrAntiBot):
		return extraction.ErrorAntiBot, true
	default:
		return "", false
	}
}

var _ Extractor = (*ExtractService)(nil)
