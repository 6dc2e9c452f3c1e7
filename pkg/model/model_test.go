package model

import "testing"

const sampleSchema = `
name: Biolink-Model
id: https://w3id.org/biolink/biolink-model
version: 4.2.1
classes:
  named thing:
    description: a databased entity or concept/class
  gene:
    is_a: named thing
    mixins:
      - gene or gene product
    aliases:
      - genes
  gene or gene product:
    mixin: true
  small molecule:
    is_a: named thing
    notes: single note
slots:
  related to:
    description: root predicate
    symmetric: true
  affects:
    is_a: related to
    domain: named thing
    range: named thing
    annotations:
      canonical_predicate: true
  affected by:
    is_a: related to
    inverse: affects
  interacts with:
    is_a: related to
    symmetric: true
    notes:
      - note one
      - note two
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if doc.Version != "4.2.1" {
		t.Errorf("Version = %q, want 4.2.1", doc.Version)
	}
	if len(doc.Classes) != 4 {
		t.Errorf("Classes count = %d, want 4", len(doc.Classes))
	}

	gene := doc.Classes["gene"]
	if gene.IsA != "named thing" {
		t.Errorf("gene is_a = %q", gene.IsA)
	}
	if len(gene.Mixins) != 1 || gene.Mixins[0] != "gene or gene product" {
		t.Errorf("gene mixins = %v", gene.Mixins)
	}
	if !doc.Classes["gene or gene product"].Mixin {
		t.Error("gene or gene product should be a mixin")
	}

	// Scalar notes decode as a single-element list.
	if got := doc.Classes["small molecule"].Notes; len(got) != 1 || got[0] != "single note" {
		t.Errorf("scalar notes = %v", got)
	}
	if got := doc.Slots["interacts with"].Notes; len(got) != 2 {
		t.Errorf("sequence notes = %v", got)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("classes: [not, a, mapping")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestParseEmptySections(t *testing.T) {
	doc, err := Parse([]byte("name: Biolink-Model\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Classes) != 0 || len(doc.Slots) != 0 {
		t.Error("missing sections should decode to empty maps")
	}
}

func TestCanonicalMappingForm(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if !doc.Slots["affects"].Canonical() {
		t.Error("affects should be canonical (mapping form)")
	}
	if doc.Slots["affected by"].Canonical() {
		t.Error("affected by should not be canonical")
	}
	if doc.Slots["related to"].Canonical() {
		t.Error("slot without annotations should not be canonical")
	}
}

func TestCanonicalSequenceForm(t *testing.T) {
	// Older schema versions use a tag/value sequence.
	legacy := `
slots:
  treats:
    annotations:
      - tag: biolink:canonical_predicate
        value: true
  treated by:
    annotations:
      - tag: biolink:canonical_predicate
        value: false
  caused by:
    annotations:
      - tag: some_other_tag
        value: true
`
	doc, err := Parse([]byte(legacy))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if !doc.Slots["treats"].Canonical() {
		t.Error("treats should be canonical (sequence form)")
	}
	if doc.Slots["treated by"].Canonical() {
		t.Error("falsy value should not mark canonical")
	}
	if doc.Slots["caused by"].Canonical() {
		t.Error("unrelated tag should not mark canonical")
	}
}

func TestCamelCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"named thing", "NamedThing"},
		{"gene", "Gene"},
		{"small molecule", "SmallMolecule"},
		{"RNA product", "RNAProduct"},
		{"", ""},
		{"gene  product", "GeneProduct"}, // double space
		{"ätiology term", "ÄtiologyTerm"}, // multi-byte first rune
	}
	for _, tt := range tests {
		if got := CamelCase(tt.in); got != tt.want {
			t.Errorf("CamelCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	if got := SnakeCase("related to"); got != "related_to" {
		t.Errorf("SnakeCase = %q", got)
	}
	if got := SnakeCase("affects"); got != "affects" {
		t.Errorf("SnakeCase = %q", got)
	}
}
