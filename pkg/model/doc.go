// Package model parses Biolink Model schema documents.
//
// The Biolink Model is published as a LinkML YAML document
// (biolink-model.yaml) defining classes (node categories) and slots
// (predicates and node properties). This package decodes the subset of
// that document needed to reconstruct the category and predicate
// hierarchies: inheritance (is_a), mixin composition, domain/range
// constraints, and descriptive metadata.
//
// Naming follows Biolink conventions: class names are exposed in
// CamelCase ("small molecule" becomes "SmallMolecule"), slot names in
// snake_case ("related to" becomes "related_to").
package model
