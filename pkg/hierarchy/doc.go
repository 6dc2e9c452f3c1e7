// Package hierarchy builds and queries the Biolink category and
// predicate hierarchies as directed acyclic graphs.
//
// Graphs are built from a parsed schema document: one node per class or
// slot, with edges pointing from parent to child for both is_a
// inheritance and mixin composition. Nodes that neither descend from the
// hierarchy root (NamedThing for categories, related_to for predicates)
// nor are mixins themselves are pruned, since the schema's classes and
// slots sections include entries that are not categories or predicates.
//
// With mixins included a hierarchy is a DAG (multiple inheritance); with
// mixins excluded it collapses to a tree.
package hierarchy
