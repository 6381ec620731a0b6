package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the settings that may be provided through a YAML file.
// Empty fields keep the built-in defaults.
type File struct {
	Port             string   `yaml:"port,omitempty"`
	EntrepriseToken  string   `yaml:"entrepriseToken,omitempty"`
	APIKeyHash       string   `yaml:"apiKeyHash,omitempty"`
	RegistryURL      string   `yaml:"registryUrl,omitempty"`
	Blacklist        []string `yaml:"blacklist,omitempty"`
	FetchTimeout     string   `yaml:"fetchTimeout,omitempty"`
	CrawlConcurrency int      `yaml:"crawlConcurrency,omitempty"`
	CrawlRateLimit   float64  `yaml:"crawlRateLimit,omitempty"`
	SitemapMaxDepth  *int     `yaml:"sitemapMaxDepth,omitempty"`
	RateLimitExtract string   `yaml:"rateLimitExtract,omitempty"`
	LogLevel         string   `yaml:"logLevel,omitempty"`
}

// LoadFile reads a YAML configuration file.
// A missing file yields ErrConfigNotFound.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
