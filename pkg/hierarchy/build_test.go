package hierarchy

import (
	"testing"

	"github.com/amykglen/biolink-explorer/pkg/model"
)

const testSchema = `
name: Biolink-Model
version: 4.2.1
classes:
  named thing:
    description: root of the category hierarchy
  biological entity:
    is_a: named thing
  gene:
    is_a: biological entity
    mixins:
      - gene or gene product
  gene or gene product:
    mixin: true
  disease:
    is_a: biological entity
  phenotypic feature:
    is_a: biological entity
  chemical entity:
    is_a: named thing
  annotation:
    description: not part of the category hierarchy
slots:
  related to:
    description: root of the predicate hierarchy
  affects:
    is_a: related to
    domain: named thing
    range: named thing
    annotations:
      canonical_predicate: true
  affected by:
    is_a: related to
    inverse: affects
  treats:
    is_a: affects
    domain: chemical entity
    range: disease
    annotations:
      canonical_predicate: true
  has phenotype:
    is_a: related to
    domain: biological entity
    range: phenotypic feature
  interacts with:
    is_a: related to
    symmetric: true
  regulates:
    mixin: true
    domain: chemical entity
    range: gene
  name:
    description: a node property, not a predicate
`

func parseTestSchema(t *testing.T) *model.Document {
	t.Helper()
	doc, err := model.Parse([]byte(testSchema))
	if err != nil {
		t.Fatalf("parse test schema: %v", err)
	}
	return doc
}

func TestBuildCategories(t *testing.T) {
	d := BuildCategories(parseTestSchema(t))

	for _, id := range []string{"NamedThing", "BiologicalEntity", "Gene", "GeneOrGeneProduct", "Disease", "ChemicalEntity"} {
		if _, ok := d.Node(id); !ok {
			t.Errorf("category %s missing", id)
		}
	}

	// Classes outside the NamedThing lineage get pruned.
	if _, ok := d.Node("Annotation"); ok {
		t.Error("Annotation should be pruned (not a category)")
	}

	// Mixin composition produces an edge just like is_a.
	if !d.Ancestors("Gene")["GeneOrGeneProduct"] {
		t.Error("Gene should have its mixin as an ancestor")
	}

	mixin, _ := d.Node("GeneOrGeneProduct")
	if mixin == nil || !mixin.Mixin {
		t.Error("GeneOrGeneProduct should carry the mixin flag")
	}

	root, _ := d.Node("NamedThing")
	if root.Description == "" {
		t.Error("root metadata should be filled in from its class entry")
	}

	if err := d.Validate(); err != nil {
		t.Errorf("category graph invalid: %v", err)
	}
}

func TestBuildPredicates(t *testing.T) {
	d := BuildPredicates(parseTestSchema(t))

	for _, id := range []string{"related_to", "affects", "treats", "has_phenotype", "interacts_with", "regulates"} {
		if _, ok := d.Node(id); !ok {
			t.Errorf("predicate %s missing", id)
		}
	}

	// Non-canonical inverse forms are excluded.
	if _, ok := d.Node("affected_by"); ok {
		t.Error("affected_by should be excluded (non-canonical inverse)")
	}
	// Node properties don't descend from related_to.
	if _, ok := d.Node("name"); ok {
		t.Error("name should be pruned (node property)")
	}

	treats, _ := d.Node("treats")
	if treats.Domain != "ChemicalEntity" || treats.Range != "Disease" {
		t.Errorf("treats domain/range = %s/%s", treats.Domain, treats.Range)
	}

	iw, _ := d.Node("interacts_with")
	if !iw.Symmetric {
		t.Error("interacts_with should be symmetric")
	}

	// Mixin predicates survive pruning even without related_to ancestry.
	reg, _ := d.Node("regulates")
	if !reg.Mixin {
		t.Error("regulates should carry the mixin flag")
	}

	if !d.Ancestors("treats")["related_to"] {
		t.Error("treats should descend from related_to")
	}

	if err := d.Validate(); err != nil {
		t.Errorf("predicate graph invalid: %v", err)
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	doc := &model.Document{}
	if n := BuildCategories(doc).NodeCount(); n != 0 {
		t.Errorf("empty document should produce empty category graph, got %d nodes", n)
	}
	if n := BuildPredicates(doc).NodeCount(); n != 0 {
		t.Errorf("empty document should produce empty predicate graph, got %d nodes", n)
	}
}
