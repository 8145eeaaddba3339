package activity

import (
	"slices"
	"testing"
)

func TestDefaultCatalogPartitions(t *testing.T) {
	c := DefaultCatalog()

	relations := c.RelationTypes()
	counts := c.CountTypes()

	if !slices.Contains(relations, TypeCreateLanguage) {
		t.Fatalf("CREATE_LANGUAGE should load describing relations")
	}
	if slices.Contains(relations, TypeImport) || !slices.Contains(counts, TypeImport) {
		t.Fatalf("IMPORT should only be counted")
	}
	for _, hidden := range []ActivityType{TypeUnknown, TypeHardDeleteLanguage} {
		if slices.Contains(relations, hidden) || slices.Contains(counts, hidden) {
			t.Fatalf("%s should be hidden from feeds", hidden)
		}
		if !c.Valid(hidden) {
			t.Fatalf("%s should still be a known type", hidden)
		}
	}
	if len(relations)+len(counts)+2 != len(c.All()) {
		t.Fatalf("partition mismatch: relations=%d counts=%d all=%d", len(relations), len(counts), len(c.All()))
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	_, err := ParseCatalog([]byte("types:\n  - name: A\n  - name: A\n"))
	if err == nil {
		t.Fatalf("expected duplicate error")
	}
	_, err = ParseCatalog([]byte("types:\n  - label: nameless\n"))
	if err == nil {
		t.Fatalf("expected missing name error")
	}
}

func TestLookup(t *testing.T) {
	c, err := ParseCatalog([]byte("types:\n  - name: X\n    label: Ex\n    only_count_in_list: true\n"))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	ti, ok := c.Lookup("X")
	if !ok || ti.Label != "Ex" || !ti.OnlyCountInList {
		t.Fatalf("unexpected lookup: %+v ok=%v", ti, ok)
	}
	if _, ok := c.Lookup("Y"); ok {
		t.Fatalf("unexpected hit for unknown type")
	}
}
