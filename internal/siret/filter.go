package siret

import "strings"

// pageKeywords flag links to pages that usually display a company identifier:
// terms of use and sale, legal notices, about pages and privacy policies.
var pageKeywords = []string{
	"cgu",
	"cgv",
	"condition",
	"utilisation",
	"vente",
	"mention",
	"legal", // mentions légales and legal notice
	"notice",
	"propos", // à propos
	"sommes", // qui sommes-nous
	"siret",
	"siren",
	"politique",
	"terms",
	"about",
	"privacy",
	"imprint",
}

// IsPotentialPage reports whether link likely points to a legal or about page.
func IsPotentialPage(link string) bool {
	lower := strings.ToLower(link)
	for _, keyword := range pageKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// PotentialPages keeps the links accepted by IsPotentialPage, in order.
func PotentialPages(links []string) []string {
	potential := make([]string, 0, len(links))
	for _, link := range links {
		if IsPotentialPage(link) {
			potential = append(potential, link)
		}
	}
	return potential
}
