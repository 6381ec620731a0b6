package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/octobees/siret-extractor/internal/logging"
)

// DefaultRegistryURL is the company registry queried when none is configured.
const DefaultRegistryURL = "https://entreprise.signal.conso.gouv.fr"

// ConfigFileEnv names the variable pointing at an optional YAML config file.
const ConfigFileEnv = "SIRET_EXTRACTOR_CONFIG"

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port             string
	EntrepriseToken  string
	APIKeyHash       string
	RegistryURL      string
	Blacklist        []string
	FetchTimeout     time.Duration
	CrawlConcurrency int
	CrawlRateLimit   float64
	SitemapMaxDepth  int
	RateLimitExtract RateLimitConfig
	LogLevel         string
}

// Load reads configuration from environment variables and applies sane defaults.
// When SIRET_EXTRACTOR_CONFIG names a YAML file, its values replace the
// defaults; environment variables still take precedence over the file.
func Load() (*Config, error) {
	file := &File{}
	if path := os.Getenv(ConfigFileEnv); path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		file = f
	}

	cfg := &Config{
		Port:            getEnv("SIRET_EXTRACTOR_PORT", getEnv("PORT", orDefault(file.Port, "8080"))),
		EntrepriseToken: getEnv("SIRET_EXTRACTOR_ENTREPRISE_TOKEN", file.EntrepriseToken),
		APIKeyHash:      getEnv("SIRET_EXTRACTOR_API_KEY_HASH", file.APIKeyHash),
		RegistryURL:     getEnv("SIRET_EXTRACTOR_REGISTRY_URL", orDefault(file.RegistryURL, DefaultRegistryURL)),
		Blacklist:       file.Blacklist,
		LogLevel:        getEnv("LOG_LEVEL", orDefault(file.LogLevel, "info")),
	}
	if val := getEnv("BLACK_LIST", ""); val != "" {
		cfg.Blacklist = ParseList(val)
	}

	timeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", orDefault(file.FetchTimeout, "5s")))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT value: %w", err)
	}
	cfg.FetchTimeout = timeout

	concurrency, err := strconv.Atoi(getEnv("CRAWL_CONCURRENCY", intOrDefault(file.CrawlConcurrency, "4")))
	if err != nil {
		return nil, fmt.Errorf("invalid CRAWL_CONCURRENCY value: %w", err)
	}
	cfg.CrawlConcurrency = concurrency

	rateLimit, err := strconv.ParseFloat(getEnv("CRAWL_RATE_LIMIT", floatOrDefault(file.CrawlRateLimit, "0")), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CRAWL_RATE_LIMIT value: %w", err)
	}
	cfg.CrawlRateLimit = rateLimit

	depthDefault := "3"
	if file.SitemapMaxDepth != nil {
		depthDefault = strconv.Itoa(*file.SitemapMaxDepth)
	}
	depth, err := strconv.Atoi(getEnv("SITEMAP_MAX_DEPTH", depthDefault))
	if err != nil {
		return nil, fmt.Errorf("invalid SITEMAP_MAX_DEPTH value: %w", err)
	}
	cfg.SitemapMaxDepth = depth

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_EXTRACT", orDefault(file.RateLimitExtract, "30/min")))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_EXTRACT value: %w", err)
	}
	cfg.RateLimitExtract = rl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that numeric settings are usable.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.CrawlRateLimit < 0 {
		return ErrInvalidCrawlRateLimit
	}
	if c.SitemapMaxDepth < 0 {
		return ErrInvalidSitemapDepth
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogLevel, err)
	}
	return nil
}

// ParseList splits a comma separated list, dropping blanks.
func ParseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func intOrDefault(value int, fallback string) string {
	if value != 0 {
		return strconv.Itoa(value)
	}
	return fallback
}

func floatOrDefault(value float64, fallback string) string {
	if value != 0 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return fallback
}
