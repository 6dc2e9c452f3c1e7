package hierarchy

import (
	"github.com/amykglen/biolink-explorer/pkg/model"
)

// Hierarchy roots. Schema entries that neither descend from these nor
// are mixins get pruned during construction.
const (
	// RootCategory is the top of the category hierarchy.
	RootCategory = "NamedThing"

	// RootPredicate is the top of the predicate hierarchy.
	RootPredicate = "related_to"
)

// BuildCategories constructs the category DAG from the schema's classes.
//
// Every class becomes a node with a CamelCase ID. Its is_a parent and
// each of its mixins produce parent→child edges (mixin composition is
// treated the same as inheritance for hierarchy purposes). Classes that
// neither descend from NamedThing nor are mixins are pruned afterwards:
// the classes section also holds value types and other non-category
// entries.
func BuildCategories(doc *model.Document) *DAG {
	d := New()
	for name, def := range doc.Classes {
		id := model.CamelCase(name)
		if def.IsA != "" {
			d.AddEdge(Edge{From: model.CamelCase(def.IsA), To: id})
		}
		for _, mixin := range def.Mixins {
			d.AddEdge(Edge{From: model.CamelCase(mixin), To: id})
		}

		n := d.EnsureNode(id)
		n.Mixin = def.Mixin
		n.Description = def.Description
		n.Notes = def.Notes
		n.Aliases = def.Aliases
	}
	prune(d, RootCategory)
	return d
}

// BuildPredicates constructs the predicate DAG from the schema's slots.
//
// Only canonical predicates are kept: a slot enters the graph when it is
// annotated as canonical or has no inverse (single-form predicates are
// not annotated). Slot IDs are snake_case; domain and range are converted
// to CamelCase category IDs. Slots that neither descend from related_to
// nor are mixins are pruned afterwards, which drops node properties and
// other non-predicate slots.
func BuildPredicates(doc *model.Document) *DAG {
	d := New()
	for name, def := range doc.Slots {
		if !def.Canonical() && def.Inverse != "" {
			continue
		}
		id := model.SnakeCase(name)

		n := d.EnsureNode(id)
		n.Mixin = def.Mixin
		n.Symmetric = def.Symmetric
		n.Domain = model.CamelCase(def.Domain)
		n.Range = model.CamelCase(def.Range)
		n.Description = def.Description
		n.Notes = def.Notes
		n.Aliases = def.Aliases

		if def.IsA != "" {
			d.AddEdge(Edge{From: model.SnakeCase(def.IsA), To: id})
		}
		for _, mixin := range def.Mixins {
			d.AddEdge(Edge{From: model.SnakeCase(mixin), To: id})
		}
	}
	prune(d, RootPredicate)
	return d
}

// prune removes nodes that neither have root among their ancestors nor
// carry the mixin flag.
func prune(d *DAG, root string) {
	var doomed []string
	for _, n := range d.Nodes() {
		if n.Mixin {
			continue
		}
		if !d.Ancestors(n.ID)[root] {
			doomed = append(doomed, n.ID)
		}
	}
	for _, id := range doomed {
		d.RemoveNode(id)
	}
}
