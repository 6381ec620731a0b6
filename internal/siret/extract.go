package siret

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// space matches the separators found between digit groups, including the
// non-breaking spaces French typography puts in formatted numbers.
const space = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	siretPattern = regexp.MustCompile(`\b\d{3}(?:` + space + `?\d{3}){2}(?:` + space + `?\d{5})\b`)
	sirenPattern = regexp.MustCompile(`\b\d{3}(?:` + space + `?\d{3}){2}\b`)
	vatPattern   = regexp.MustCompile(`\bFR(?:` + space + `?\d{2})((?:` + space + `?\d{3}){3})\b`)
)

// skippedElements never contribute text: their content is code or markup.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"svg":    true,
	"meta":   true,
}

// FindInText returns the SIRETs and SIRENs written in text.
//
// SIRETs are reported in order of appearance. SIRENs come from bare 9-digit
// numbers first and from French VAT numbers second, without duplicates.
func FindInText(text string) ([]Siret, []Siren) {
	sirets := make([]Siret, 0)
	for _, match := range siretPattern.FindAllString(text, -1) {
		sirets = append(sirets, NewSiret(removeSpaces(match)))
	}

	candidates := sirenPattern.FindAllString(text, -1)
	for _, groups := range vatPattern.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, groups[1])
	}

	seen := make(map[string]struct{}, len(candidates))
	sirens := make([]Siren, 0)
	for _, candidate := range candidates {
		value := removeSpaces(candidate)
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		sirens = append(sirens, NewSiren(value))
	}

	return sirets, sirens
}

// FindInPage extracts identifiers from the visible text of an HTML page.
// It returns nil when the page contains no identifier.
func FindInPage(link string, page io.Reader) (*PageIdentifiers, error) {
	text, err := PageText(page)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", link, err)
	}

	sirets, sirens := FindInText(text)
	if len(sirets) == 0 && len(sirens) == 0 {
		return nil, nil
	}
	return &PageIdentifiers{Sirets: sirets, Sirens: sirens, Link: link}, nil
}

// PageText returns the text content of the page body, one node per line.
// Scripts, styles, SVG images and meta tags are left out.
func PageText(page io.Reader) (string, error) {
	// Scripting is disabled so that <noscript> content is parsed as markup.
	doc, err := html.ParseWithOptions(page, html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", err
	}
	body := findElement(doc, "body")
	if body == nil {
		return "", nil
	}
	return innerText(body), nil
}

func innerText(n *html.Node) string {
	var b strings.Builder
	first := true
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !first {
			b.WriteByte('\n')
		}
		first = false

		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			if skippedElements[strings.ToLower(c.Data)] {
				continue
			}
			b.WriteString(innerText(c))
		}
	}
	return b.String()
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func removeSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			return -1
		}
		return r
	}, value)
}
