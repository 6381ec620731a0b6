package extraction

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/octobees/siret-extractor/internal/registry"
	"github.com/octobees/siret-extractor/internal/siret"
)

func sirenID(value string) Identifier {
	s := siret.NewSiren(value)
	return Identifier{Siren: &s}
}

func siretID(value string) Identifier {
	s := siret.NewSiret(value)
	return Identifier{Siret: &s}
}

func TestInList(t *testing.T) {
	tests := []struct {
		name string
		list []string
		id   Identifier
		want bool
	}{
		{name: "siren in list", list: []string{"123456789", "123456781"}, id: sirenID("123456789"), want: true},
		{name: "siret in list", list: []string{"123456789", "123456781"}, id: siretID("12345678900012"), want: true},
		{name: "siren not in list", list: []string{"123456780", "123456781"}, id: sirenID("123456789"), want: false},
		{name: "siret not in list", list: []string{"123456780", "123456781"}, id: siretID("12345678900012"), want: false},
		{name: "empty list", list: nil, id: sirenID("123456789"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InList(tt.list, tt.id); got != tt.want {
				t.Fatalf("InList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterBlacklist(t *testing.T) {
	if got := FilterBlacklist([]string{"123456789", "123456781"}, []Identifier{sirenID("123456789")}); len(got) != 0 {
		t.Fatalf("expected siren filtered, got %+v", got)
	}
	if got := FilterBlacklist([]string{"123456789", "123456781"}, []Identifier{siretID("12345678900012")}); len(got) != 0 {
		t.Fatalf("expected siret filtered, got %+v", got)
	}

	got := FilterBlacklist([]string{"123456780", "123456781"}, []Identifier{sirenID("123456789"), siretID("12345678900012")})
	if len(got) != 2 || got[0].Value() != "123456789" || got[1].Value() != "12345678900012" {
		t.Fatalf("expected both identifiers kept, got %+v", got)
	}
}

func TestAggregate(t *testing.T) {
	pages := []*siret.PageIdentifiers{
		{
			Link:   "https://example.com/mentions-legales",
			Sirets: []siret.Siret{siret.NewSiret("73282932000074"), siret.NewSiret("73282932000074")},
			Sirens: []siret.Siren{siret.NewSiren("732829320")},
		},
		nil,
		{
			Link:   "https://example.com/cgv",
			Sirets: []siret.Siret{siret.NewSiret("73282932000074")},
			Sirens: []siret.Siren{siret.NewSiren("552100554")},
		},
	}

	got := Aggregate(pages)
	if len(got) != 3 {
		t.Fatalf("expected 3 identifiers, got %+v", got)
	}

	values := []string{got[0].Value(), got[1].Value(), got[2].Value()}
	if !reflect.DeepEqual(values, []string{"732829320", "73282932000074", "552100554"}) {
		t.Fatalf("unexpected order %v", values)
	}
	if got[0].Siren == nil || got[0].Siret != nil {
		t.Fatalf("expected a siren-only identifier, got %+v", got[0])
	}
	wantLinks := []string{"https://example.com/mentions-legales", "https://example.com/cgv"}
	if !reflect.DeepEqual(got[1].Links, wantLinks) {
		t.Fatalf("unexpected links %v", got[1].Links)
	}
	if !reflect.DeepEqual(got[2].Links, []string{"https://example.com/cgv"}) {
		t.Fatalf("unexpected links %v", got[2].Links)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Fatalf("expected nothing, got %+v", got)
	}
}

func TestValidIdentifiers(t *testing.T) {
	ids := []Identifier{
		siretID("73282932000074"),
		siretID("73282932000075"),
		sirenID("732829320"),
		sirenID("732829321"),
	}
	if got := ValidSirets(ids); !reflect.DeepEqual(got, []string{"73282932000074"}) {
		t.Fatalf("unexpected sirets %v", got)
	}
	if got := ValidSirens(ids); !reflect.DeepEqual(got, []string{"732829320"}) {
		t.Fatalf("unexpected sirens %v", got)
	}
}

func TestMerge(t *testing.T) {
	head := registry.Record{Siret: "73282932000074", Name: "IBM", IsHeadOffice: true}
	other := registry.Record{Siret: "55210055400013", Name: "RENAULT"}

	ids := []Identifier{
		siretID("73282932000074"),
		sirenID("552100554"),
		sirenID("732829320"),
		siretID("12345678900012"),
	}
	bySiret := IndexBySiret([]registry.Record{head})
	bySiren := IndexBySiren([]registry.Record{other})

	got := Merge(bySiret, bySiren, ids)
	if len(got) != len(ids) {
		t.Fatalf("expected %d extractions, got %d", len(ids), len(got))
	}
	if got[0].Sirene == nil || got[0].Sirene.Name != "IBM" {
		t.Fatalf("expected siret match, got %+v", got[0].Sirene)
	}
	if got[1].Sirene == nil || got[1].Sirene.Name != "RENAULT" {
		t.Fatalf("expected siren match, got %+v", got[1].Sirene)
	}
	if got[2].Sirene != nil || got[3].Sirene != nil {
		t.Fatalf("expected no record for unknown identifiers")
	}
}

func TestIndexBySirenSkipsMalformedSiret(t *testing.T) {
	index := IndexBySiren([]registry.Record{{Siret: "123"}, {Siret: "55210055400013"}})
	if len(index) != 1 {
		t.Fatalf("expected one entry, got %v", index)
	}
	if _, ok := index["552100554"]; !ok {
		t.Fatalf("expected siren key, got %v", index)
	}
}

func TestResultJSON(t *testing.T) {
	id := siretID("73282932000074")
	id.Links = []string{"https://example.com/mentions-legales"}

	data, err := json.Marshal(Success("example.com", []Extraction{{Identifier: id}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"website":"example.com","status":"success","extractions":[{"siret":{"siret":"73282932000074","valid":true},"links":["https://example.com/mentions-legales"]}]}`
	if string(data) != want {
		t.Fatalf("unexpected json %s", data)
	}

	data, err = json.Marshal(Success("example.com", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"website":"example.com","status":"success","extractions":[]}` {
		t.Fatalf("unexpected json %s", data)
	}

	data, err = json.Marshal(Failure("example.com", ErrorAntiBot))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"website":"example.com","status":"failure","error":"ANTIBOT"}` {
		t.Fatalf("unexpected json %s", data)
	}
}
