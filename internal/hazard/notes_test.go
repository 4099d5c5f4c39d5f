package hazard

import (
	"reflect"
	"testing"
)

func TestNotesRoundTrip(t *testing.T) {
	cases := []map[string]string{
		{},
		{"1-0": "Maschine stillsetzen und sichern"},
		{"5-3": "Brandwache gestellt", "2-0": "Freischaltung durch Elektrofachkraft", "8-3": "Gasmessung vor Einstieg"},
		{"1-0": ""},
		{"3-1": "Umgang mit Lösungsmitteln: \"PSA\" tragen\nHandschuhe nach EN 374"},
	}
	for _, notes := range cases {
		encoded, err := EncodeNotes(notes)
		if err != nil {
			t.Fatalf("EncodeNotes(%v): %v", notes, err)
		}
		decoded, err := ParseNotes(encoded)
		if err != nil {
			t.Fatalf("ParseNotes(%q): %v", encoded, err)
		}
		if !reflect.DeepEqual(decoded, notes) && !(len(decoded) == 0 && len(notes) == 0) {
			t.Errorf("round trip changed %v into %v", notes, decoded)
		}
	}
}

func TestParseNotesEmptyAndInvalid(t *testing.T) {
	notes, err := ParseNotes("")
	if err != nil || len(notes) != 0 {
		t.Errorf("ParseNotes(\"\") = %v, %v", notes, err)
	}
	if _, err := ParseNotes("not json"); err == nil {
		t.Error("ParseNotes accepted garbage")
	}
}

func TestRefsRoundTrip(t *testing.T) {
	refs := []string{"1-0", "5-3", "11-2"}
	encoded, err := EncodeRefs(refs)
	if err != nil {
		t.Fatalf("EncodeRefs: %v", err)
	}
	decoded, err := ParseRefs(encoded)
	if err != nil {
		t.Fatalf("ParseRefs: %v", err)
	}
	if !reflect.DeepEqual(decoded, refs) {
		t.Errorf("round trip changed %v into %v", refs, decoded)
	}

	empty, err := ParseRefs("")
	if err != nil || empty != nil {
		t.Errorf("ParseRefs(\"\") = %v, %v", empty, err)
	}
}

func TestPruneNotes(t *testing.T) {
	notes := map[string]string{
		"1-0": "bleibt",
		"5-3": "bleibt auch",
		"9-1": "gehört nicht mehr dazu",
	}
	pruned := PruneNotes(notes, []string{"1-0", "5-3"})
	want := map[string]string{"1-0": "bleibt", "5-3": "bleibt auch"}
	if !reflect.DeepEqual(pruned, want) {
		t.Errorf("PruneNotes = %v, want %v", pruned, want)
	}
}
