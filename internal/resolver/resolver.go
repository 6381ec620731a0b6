package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/octobees/siret-extractor/internal/fetcher"
)

// DefaultSchemes is the order in which scheme candidates are probed.
var DefaultSchemes = []string{"https://", "http://", "https://www.", "http://www."}

// wwwSchemes are the candidates tried once a missing dot after "www" is fixed.
var wwwSchemes = []string{"https://www.", "http://www."}

// Users often write "wwwexample.com" for "www.example.com".
var wwwTypo = regexp.MustCompile(`^www[^.]`)

// Prober issues a single GET and returns the response whatever its status.
type Prober interface {
	Probe(ctx context.Context, rawURL string, followRedirects bool) (*fetcher.Response, error)
}

// Resolver turns a bare hostname into a reachable absolute URL.
type Resolver struct {
	prober  Prober
	schemes []string
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSchemes overrides the scheme candidates probed in order.
func WithSchemes(schemes ...string) Option {
	return func(r *Resolver) {
		if len(schemes) > 0 {
			r.schemes = append([]string(nil), schemes...)
		}
	}
}

// WithLogger sets the logger used to trace candidate probes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver probing candidates with prober.
func New(prober Prober, opts ...Option) *Resolver {
	r := &Resolver{
		prober:  prober,
		schemes: DefaultSchemes,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first URL built from hostname that answers with a
// success or a redirect.
//
// Candidates are probed without following redirects: a 2xx accepts the
// candidate, a 301/302 accepts its Location (resolved against the candidate
// when relative), any other status fails with ErrWebsiteFailed. Network
// errors move on to the next candidate. When every candidate is unreachable
// and hostname looks like "wwwexample.com", the www candidates are retried
// on "example.com" before giving up with ErrWebsiteNotFound.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (string, error) {
	host := normalizeHost(hostname)
	if host == "" {
		return "", fmt.Errorf("%w: empty hostname", ErrWebsiteNotFound)
	}

	resolved, err := r.tryCandidates(ctx, host, r.schemes)
	if err == nil || !errors.Is(err, errExhausted) {
		return resolved, err
	}

	if wwwTypo.MatchString(host) {
		r.logger.Debug("retrying without www prefix", "hostname", host)
		resolved, err = r.tryCandidates(ctx, host[3:], wwwSchemes)
		if err == nil || !errors.Is(err, errExhausted) {
			return resolved, err
		}
	}

	return "", fmt.Errorf("%w: %s", ErrWebsiteNotFound, hostname)
}

// errExhausted means every candidate failed at the network level.
var errExhausted = errors.New("no candidate answered")

func (r *Resolver) tryCandidates(ctx context.Context, host string, schemes []string) (string, error) {
	for _, scheme := range schemes {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := scheme + host
		resp, err := r.prober.Probe(ctx, candidate, false)
		if err != nil {
			r.logger.Debug("candidate unreachable", "url", candidate, "error", err)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return candidate, nil
		case resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound:
			location := resp.Header.Get("Location")
			if location == "" {
				r.logger.Debug("redirect without location", "url", candidate, "status", resp.StatusCode)
				continue
			}
			return redirectTarget(scheme, candidate, location), nil
		default:
			r.logger.Debug("candidate failed", "url", candidate, "status", resp.StatusCode)
			return "", fmt.Errorf("%w: %s returned %d", ErrWebsiteFailed, candidate, resp.StatusCode)
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", errExhausted
}

func redirectTarget(scheme, candidate, location string) string {
	switch {
	case strings.HasPrefix(location, "//"):
		proto := scheme[:strings.Index(scheme, "//")]
		return proto + location
	case strings.HasPrefix(location, "/"):
		return candidate + location
	default:
		return location
	}
}

// normalizeHost trims hostname, drops any http(s) scheme and converts the
// host part to its ASCII form. Anything after the host (port, path) is kept.
func normalizeHost(hostname string) string {
	host := strings.TrimSpace(hostname)
	lower := strings.ToLower(host)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(lower, prefix) {
			host = host[len(prefix):]
			break
		}
	}

	rest := ""
	if i := strings.IndexAny(host, ":/?#"); i >= 0 {
		host, rest = host[:i], host[i:]
	}
	if host == "" {
		return ""
	}

	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	} else {
		host = strings.ToLower(host)
	}
	return host + rest
}
