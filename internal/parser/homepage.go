package parser

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HomepageLinks returns the same-origin links of the homepage served at homeURL.
//
// Root-relative hrefs are resolved against the homepage origin; absolute
// hrefs are kept only when their hostname is the homepage hostname. Other
// relative forms (fragments, bare paths, mailto: and friends) are ignored.
// The result has no duplicates and keeps document order.
func HomepageLinks(homeURL string, page io.Reader) ([]string, error) {
	base, err := url.Parse(homeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid homepage url %q: %w", homeURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("parse homepage: %w", err)
	}

	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if link, ok := sameOriginLink(base, href); ok {
			links = append(links, link)
		}
	})

	return dedupe(links), nil
}

func sameOriginLink(base *url.URL, href string) (string, bool) {
	if href == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	var resolved *url.URL
	switch {
	case strings.HasPrefix(href, "/"):
		resolved = base.ResolveReference(ref)
	case ref.IsAbs():
		resolved = ref
	default:
		return "", false
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(resolved.Hostname(), base.Hostname()) {
		return "", false
	}
	return resolved.String(), true
}
