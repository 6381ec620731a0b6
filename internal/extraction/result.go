package extraction

import "github.com/octobees/siret-extractor/internal/registry"

// Status is the outcome of an extraction.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ErrorKind tells why an extraction failed.
type ErrorKind string

const (
	// ErrorNotFound means no URL built from the hostname answered.
	ErrorNotFound ErrorKind = "NOT_FOUND"
	// ErrorFailed means the site answered with an error status.
	ErrorFailed ErrorKind = "FAILED"
	// ErrorAntiBot means the site is protected against crawlers.
	ErrorAntiBot ErrorKind = "ANTIBOT"
)

// Extraction is an identifier enriched with its registry record, if any.
type Extraction struct {
	Identifier
	Sirene *registry.Record `json:"sirene,omitempty"`
}

// Result is the answer to one extraction request.
type Result struct {
	Website     string       `json:"website"`
	Status      Status       `json:"status"`
	Extractions []Extraction `json:"extractions,omitzero"`
	Error       ErrorKind    `json:"error,omitempty"`
}

// Success builds a successful result. extractions is never reported as null.
func Success(website string, extractions []Extraction) *Result {
	if extractions == nil {
		extractions = []Extraction{}
	}
	return &Result{Website: website, Status: StatusSuccess, Extractions: extractions}
}

// Failure builds a failed result.
func Failure(website string, kind ErrorKind) *Result {
	return &Result{Website: website, Status: StatusFailure, Error: kind}
}

// IndexBySiret keys records by SIRET.
func IndexBySiret(records []registry.Record) map[string]registry.Record {
	index := make(map[string]registry.Record, len(records))
	for _, r := range records {
		index[r.Siret] = r
	}
	return index
}

// IndexBySiren keys records by the SIREN prefix of their SIRET.
// When several establishments share a SIREN, the last one wins.
func IndexBySiren(records []registry.Record) map[string]registry.Record {
	index := make(map[string]registry.Record, len(records))
	for _, r := range records {
		if len(r.Siret) < 9 {
			continue
		}
		index[r.Siret[:9]] = r
	}
	return index
}

// Merge attaches to every identifier its record, looked up by SIRET first
// and by SIREN second.
func Merge(bySiret, bySiren map[string]registry.Record, ids []Identifier) []Extraction {
	extractions := make([]Extraction, 0, len(ids))
	for _, id := range ids {
		e := Extraction{Identifier: id}
		if id.Siret != nil {
			if r, ok := bySiret[id.Siret.Value]; ok {
				e.Sirene = &r
			}
		}
		if e.Sirene == nil && id.Siren != nil {
			if r, ok := bySiren[id.Siren.Value]; ok {
				e.Sirene = &r
			}
		}
		extractions = append(extractions, e)
	}
	return extractions
}
