// Package extraction folds the identifiers found while crawling a site into
// one entry per identifier and merges them with their registry records.
package extraction

import (
	"slices"

	"github.com/octobees/siret-extractor/internal/siret"
)

// Identifier is a SIRET or a SIREN together with the pages it was found on.
// Exactly one of Siret and Siren is set.
type Identifier struct {
	Siret *siret.Siret `json:"siret,omitempty"`
	Siren *siret.Siren `json:"siren,omitempty"`
	Links []string     `json:"links"`
}

// Value returns the identifier digits.
func (i Identifier) Value() string {
	if i.Siret != nil {
		return i.Siret.Value
	}
	if i.Siren != nil {
		return i.Siren.Value
	}
	return ""
}

// CompanySiren returns the SIREN of the company the identifier belongs to.
func (i Identifier) CompanySiren() string {
	if i.Siret != nil {
		return i.Siret.Siren()
	}
	if i.Siren != nil {
		return i.Siren.Value
	}
	return ""
}

// Aggregate merges per-page findings into one Identifier per value.
// Identifiers keep the order in which they were first seen; each page link
// is recorded once per identifier.
func Aggregate(pages []*siret.PageIdentifiers) []Identifier {
	index := make(map[string]int)
	var identifiers []Identifier

	add := func(value, link string, build func() Identifier) {
		if i, ok := index[value]; ok {
			if !slices.Contains(identifiers[i].Links, link) {
				identifiers[i].Links = append(identifiers[i].Links, link)
			}
			return
		}
		id := build()
		id.Links = []string{link}
		index[value] = len(identifiers)
		identifiers = append(identifiers, id)
	}

	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, s := range page.Sirens {
			add(s.Value, page.Link, func() Identifier { return Identifier{Siren: &s} })
		}
		for _, s := range page.Sirets {
			add(s.Value, page.Link, func() Identifier { return Identifier{Siret: &s} })
		}
	}
	return identifiers
}

// InList reports whether the company of id is one of sirens.
func InList(sirens []string, id Identifier) bool {
	company := id.CompanySiren()
	return company != "" && slices.Contains(sirens, company)
}

// FilterBlacklist drops the identifiers whose company is blacklisted.
func FilterBlacklist(blacklist []string, ids []Identifier) []Identifier {
	kept := make([]Identifier, 0, len(ids))
	for _, id := range ids {
		if !InList(blacklist, id) {
			kept = append(kept, id)
		}
	}
	return kept
}

// ValidSirets returns the values of the valid SIRETs among ids.
func ValidSirets(ids []Identifier) []string {
	var values []string
	for _, id := range ids {
		if id.Siret != nil && id.Siret.Valid {
			values = append(values, id.Siret.Value)
		}
	}
	return values
}

// ValidSirens returns the values of the valid SIRENs among ids.
func ValidSirens(ids []Identifier) []string {
	var values []string
	for _, id := range ids {
		if id.Siren != nil && id.Siren.Valid {
			values = append(values, id.Siren.Value)
		}
	}
	return values
}
