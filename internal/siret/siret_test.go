package siret

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestIsSiretValid(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"well formed", "73282932000074", true},
		{"bad digits", "83282932000074", false},
		{"bad control digit", "73282932000075", false},
		{"la poste", "35600000053945", true},
		{"la poste second establishment", "35600000053954", true},
		{"la poste bad sum", "35600000053946", false},
		{"too short", "7328293200007", false},
		{"not numeric", "7328293200007a", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSiretValid(tc.value); got != tc.want {
				t.Fatalf("IsSiretValid(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestIsSirenValid(t *testing.T) {
	cases := map[string]bool{
		"732829320":  true,
		"832829320":  false,
		"732829321":  false,
		"73282932":   false,
		"7328293200": false,
		"73282932x":  false,
	}
	for value, want := range cases {
		if got := IsSirenValid(value); got != want {
			t.Fatalf("IsSirenValid(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestSiretSiren(t *testing.T) {
	s := NewSiret("73282932000074")
	if s.Siren() != "732829320" {
		t.Fatalf("expected siren prefix, got %s", s.Siren())
	}
	if !NewSiren(s.Siren()).Valid {
		t.Fatalf("expected derived siren to be valid")
	}
}

func TestFindInText(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		wantSirets []Siret
		wantSirens []Siren
	}{
		{
			name:       "simple siret",
			text:       "siret 12345678901234",
			wantSirets: []Siret{{Value: "12345678901234"}},
			wantSirens: []Siren{},
		},
		{
			name:       "siret in text",
			text:       "some SIRET: 12345678901234. Another text.",
			wantSirets: []Siret{{Value: "12345678901234"}},
			wantSirens: []Siren{},
		},
		{
			name:       "more than 14 digits",
			text:       "some SIRET: 123456789012345. Another text.",
			wantSirets: []Siret{},
			wantSirens: []Siren{},
		},
		{
			name:       "formatted siret",
			text:       "some SIRET: 123 456 789 01234. Another text.",
			wantSirets: []Siret{{Value: "12345678901234"}},
			wantSirens: []Siren{{Value: "123456789"}},
		},
		{
			name:       "non breaking spaces",
			text:       "SIRET : 732\u00a0829\u00a0320\u00a000074",
			wantSirets: []Siret{{Value: "73282932000074", Valid: true}},
			wantSirens: []Siren{{Value: "732829320", Valid: true}},
		},
		{
			name: "several sirets",
			text: "12345678901234 12345678901235 siret",
			wantSirets: []Siret{
				{Value: "12345678901234"},
				{Value: "12345678901235"},
			},
			wantSirens: []Siren{},
		},
		{
			name: "complex text",
			text: "12345678901234. do not extract 1234567890123599 some SIRET: 12345678901235. Another text.123 456 789 01236 12345678901237",
			wantSirets: []Siret{
				{Value: "12345678901234"},
				{Value: "12345678901235"},
				{Value: "12345678901236"},
				{Value: "12345678901237", Valid: true},
			},
			wantSirens: []Siren{{Value: "123456789"}},
		},
		{
			name:       "vat numbers",
			text:       "tva number FR32123456789 FR 00 987 654 321, 111 222333",
			wantSirets: []Siret{},
			wantSirens: []Siren{
				{Value: "987654321"},
				{Value: "111222333"},
				{Value: "123456789"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sirets, sirens := FindInText(tc.text)
			if !reflect.DeepEqual(sirets, tc.wantSirets) {
				t.Fatalf("unexpected sirets: %+v", sirets)
			}
			if !reflect.DeepEqual(sirens, tc.wantSirens) {
				t.Fatalf("unexpected sirens: %+v", sirens)
			}
		})
	}
}

func TestFindInTextIsIdempotent(t *testing.T) {
	text := "Société au capital de 10 000 €, SIRET 732 829 320 00074, TVA FR 40 732829320"
	sirets1, sirens1 := FindInText(text)
	sirets2, sirens2 := FindInText(text)
	if !reflect.DeepEqual(sirets1, sirets2) || !reflect.DeepEqual(sirens1, sirens2) {
		t.Fatalf("expected identical results on identical text")
	}
}

func TestFindInPage(t *testing.T) {
	page := `<html><head><title>Mentions légales 11122233300000</title></head>
<body>
  <script>var id = "12345678901234";</script>
  <style>.x{content:"987654321"}</style>
  <svg><text>111222333</text></svg>
  <div><p>Éditeur : ACME SAS</p><p>SIRET <b>732 829 320 00074</b></p></div>
</body></html>`

	found, err := FindInPage("https://example.com/mentions-legales", strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil {
		t.Fatalf("expected identifiers to be found")
	}
	if found.Link != "https://example.com/mentions-legales" {
		t.Fatalf("unexpected link: %s", found.Link)
	}
	if len(found.Sirets) != 1 || found.Sirets[0].Value != "73282932000074" || !found.Sirets[0].Valid {
		t.Fatalf("unexpected sirets: %+v", found.Sirets)
	}
	if len(found.Sirens) != 1 || found.Sirens[0].Value != "732829320" {
		t.Fatalf("unexpected sirens: %+v", found.Sirens)
	}
}

func TestFindInPageWithoutIdentifiers(t *testing.T) {
	found, err := FindInPage("https://example.com/", strings.NewReader("<html><body><p>Hello</p></body></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil result, got %+v", found)
	}
}

func TestPageTextSkipsCode(t *testing.T) {
	text, err := PageText(strings.NewReader(`<body><p>a</p><script>b</script><noscript><p>c</p></noscript></body>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "b") {
		t.Fatalf("script content leaked into text: %q", text)
	}
	if !strings.Contains(text, "a") || !strings.Contains(text, "c") {
		t.Fatalf("expected paragraph text, got %q", text)
	}
}

func TestPotentialPages(t *testing.T) {
	links := []string{
		"https://example.com/",
		"https://example.com/pages/Mentions-Legales",
		"https://example.com/cgv",
		"https://example.com/qui-sommes-nous",
		"https://example.com/produits/chaise",
		"https://example.com/privacy-policy",
	}
	got := PotentialPages(links)
	want := []string{
		"https://example.com/pages/Mentions-Legales",
		"https://example.com/cgv",
		"https://example.com/qui-sommes-nous",
		"https://example.com/privacy-policy",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected potential pages: %v", got)
	}
}

func TestJSONEncoding(t *testing.T) {
	data, err := json.Marshal(struct {
		Siret Siret `json:"siret"`
		Siren Siren `json:"siren"`
	}{NewSiret("73282932000074"), NewSiren("832829320")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"siret":{"siret":"73282932000074","valid":true},"siren":{"siren":"832829320","valid":false}}`
	if string(data) != want {
		t.Fatalf("unexpected json: %s", data)
	}
}
