package siret

import (
	"encoding/json"
)

const (
	// SiretLength is the number of digits of an establishment identifier.
	SiretLength = 14
	// SirenLength is the number of digits of a company identifier.
	SirenLength = 9

	// laPosteSiren identifies La Poste establishments, whose SIRETs do not follow the Luhn rule.
	laPosteSiren = "356000000"
)

// Siret is a 14-digit establishment identifier together with its checksum status.
type Siret struct {
	Value string
	Valid bool
}

// NewSiret builds a Siret and computes its validity once.
func NewSiret(value string) Siret {
	return Siret{Value: value, Valid: IsSiretValid(value)}
}

// Siren returns the company identifier carried by the first 9 digits.
func (s Siret) Siren() string {
	if len(s.Value) < SirenLength {
		return s.Value
	}
	return s.Value[:SirenLength]
}

// MarshalJSON keeps the wire names of the public API.
func (s Siret) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Siret string `json:"siret"`
		Valid bool   `json:"valid"`
	}{s.Value, s.Valid})
}

// Siren is a 9-digit company identifier together with its checksum status.
type Siren struct {
	Value string
	Valid bool
}

// NewSiren builds a Siren and computes its validity once.
func NewSiren(value string) Siren {
	return Siren{Value: value, Valid: IsSirenValid(value)}
}

// MarshalJSON keeps the wire names of the public API.
func (s Siren) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Siren string `json:"siren"`
		Valid bool   `json:"valid"`
	}{s.Value, s.Valid})
}

// PageIdentifiers lists the identifiers found on a single page.
type PageIdentifiers struct {
	Sirets []Siret
	Sirens []Siren
	Link   string
}

// IsSiretValid reports whether value is a well formed SIRET.
//
// La Poste establishments are valid when the sum of their digits is a
// multiple of 5. Every other SIRET must satisfy the Luhn algorithm with
// digits at even positions doubled.
func IsSiretValid(value string) bool {
	if len(value) != SiretLength || !isDigits(value) {
		return false
	}
	if value[:SirenLength] == laPosteSiren {
		sum := 0
		for i := 0; i < len(value); i++ {
			sum += int(value[i] - '0')
		}
		return sum%5 == 0
	}
	return luhn(value, 0)
}

// IsSirenValid reports whether value is a well formed SIREN.
// Digits at odd positions are doubled.
func IsSirenValid(value string) bool {
	if len(value) != SirenLength || !isDigits(value) {
		return false
	}
	return luhn(value, 1)
}

func luhn(value string, doubledParity int) bool {
	sum := 0
	for i := 0; i < len(value); i++ {
		digit := int(value[i] - '0')
		if i%2 == doubledParity {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}
	return sum%10 == 0
}

func isDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
