package service

import (
	"log/slog"
	"net/http"

	"github.com/octobees/siret-extractor/internal/config"
	"github.com/octobees/siret-extractor/internal/crawler"
	"github.com/octobees/siret-extractor/internal/fetcher"
	"github.com/octobees/siret-extractor/internal/registry"
	"github.com/octobees/siret-extractor/internal/resolver"
)

// NewExtractServiceFromConfig assembles the fetcher, resolver, crawler and
// registry client described by cfg.
func NewExtractServiceFromConfig(cfg *config.Config, logger *slog.Logger) *ExtractService {
	fetch := fetcher.New(&http.Client{}, fetcher.WithTimeout(cfg.FetchTimeout))

	res := resolver.New(fetch, resolver.WithLogger(logger))
	c := crawler.New(fetch,
		crawler.WithConcurrency(cfg.CrawlConcurrency),
		crawler.WithRateLimit(cfg.CrawlRateLimit),
		crawler.WithSitemapMaxDepth(cfg.SitemapMaxDepth),
		crawler.WithLogger(logger),
	)
	reg := registry.NewClient(nil, cfg.RegistryURL, cfg.EntrepriseToken)

	return NewExtractService(res, c, reg, cfg.Blacklist, logger)
}
