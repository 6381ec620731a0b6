// Package dns answers A and AAAA queries for the diagnostic tools endpoint.
package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// ErrLookupFailed is returned when the hostname cannot be resolved.
var ErrLookupFailed = errors.New("DNS lookup failed")

// IPResolver is satisfied by *net.Resolver.
type IPResolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Digger performs address lookups.
type Digger struct {
	resolver IPResolver
}

// NewDigger creates a Digger. A nil resolver uses net.DefaultResolver.
func NewDigger(resolver IPResolver) *Digger {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Digger{resolver: resolver}
}

// Dig returns the A then AAAA records of website, one answer per line in a
// dig-like layout. website may be a bare hostname or a URL.
func (d *Digger) Dig(ctx context.Context, website string) (string, error) {
	host := Hostname(website)
	if host == "" {
		return "", fmt.Errorf("%w: empty hostname", ErrLookupFailed)
	}

	addrs, err := d.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrLookupFailed, host, err)
	}

	var v4, v6 []string
	for _, addr := range addrs {
		addr = addr.Unmap()
		if addr.Is4() {
			v4 = append(v4, answer(host, "A", addr))
		} else {
			v6 = append(v6, answer(host, "AAAA", addr))
		}
	}

	var b strings.Builder
	for _, line := range append(v4, v6...) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Hostname returns the host of website when it parses as an absolute URL,
// website itself otherwise.
func Hostname(website string) string {
	website = strings.TrimSpace(website)
	if u, err := url.Parse(website); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return website
}

func answer(host, kind string, addr netip.Addr) string {
	return fmt.Sprintf("%s.\tIN\t%s\t%s", strings.TrimSuffix(host, "."), kind, addr)
}
