package model

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Document is the decoded subset of a biolink-model.yaml schema.
// Classes hold node categories; Slots hold predicates and node properties.
// Both maps key by the schema's natural-language names (e.g. "small
// molecule", "related to") exactly as they appear in the YAML.
type Document struct {
	Name    string                `yaml:"name"`
	ID      string                `yaml:"id"`
	Version string                `yaml:"version"`
	Classes map[string]Definition `yaml:"classes"`
	Slots   map[string]Definition `yaml:"slots"`
}

// Definition describes a single class or slot entry.
// Only the fields relevant to hierarchy reconstruction are decoded;
// the rest of the LinkML vocabulary is ignored.
type Definition struct {
	IsA         string       `yaml:"is_a"`
	Mixin       bool         `yaml:"mixin"`
	Mixins      []string     `yaml:"mixins"`
	Abstract    bool         `yaml:"abstract"`
	Description string       `yaml:"description"`
	Notes       StringList   `yaml:"notes"`
	Aliases     StringList   `yaml:"aliases"`
	Domain      string       `yaml:"domain"`
	Range       string       `yaml:"range"`
	Symmetric   bool         `yaml:"symmetric"`
	Inverse     string       `yaml:"inverse"`
	Annotations *Annotations `yaml:"annotations"`
}

// Parse decodes a biolink-model.yaml document.
// Missing classes or slots sections are not an error; they decode to
// empty maps and produce empty hierarchies downstream.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return &doc, nil
}

// Canonical reports whether the slot is marked as a canonical predicate.
//
// Modern schema versions use the mapping form, where key presence alone
// marks the slot:
//
//	annotations:
//	  canonical_predicate: true
//
// Older versions (e.g. 2.2.1) use a sequence of tag/value pairs, where
// the value must be truthy:
//
//	annotations:
//	  - tag: biolink:canonical_predicate
//	    value: true
func (d Definition) Canonical() bool {
	if d.Annotations == nil {
		return false
	}
	if d.Annotations.mapping {
		return d.Annotations.Has("canonical_predicate")
	}
	for _, a := range d.Annotations.entries {
		if (a.Tag == "biolink:canonical_predicate" || a.Tag == "canonical_predicate") && truthy(a.Value) {
			return true
		}
	}
	return false
}

// Annotation is a single tag/value annotation entry.
type Annotation struct {
	Tag   string
	Value any
}

// Annotations decodes the LinkML annotations field, which appears either
// as a mapping keyed by tag or as a sequence of {tag, value} entries.
type Annotations struct {
	entries []Annotation
	mapping bool
}

// Has reports whether an annotation with the given tag is present.
func (a *Annotations) Has(tag string) bool {
	for _, e := range a.entries {
		if e.Tag == tag {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts both annotation forms. Unknown shapes (e.g. a
// bare scalar) decode to an empty annotation set rather than failing the
// whole document.
func (a *Annotations) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		a.mapping = true
		for i := 0; i+1 < len(node.Content); i += 2 {
			var v any
			_ = node.Content[i+1].Decode(&v)
			a.entries = append(a.entries, Annotation{Tag: node.Content[i].Value, Value: v})
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			var entry struct {
				Tag   string `yaml:"tag"`
				Value any    `yaml:"value"`
			}
			if err := item.Decode(&entry); err != nil {
				return fmt.Errorf("decode annotation: %w", err)
			}
			a.entries = append(a.entries, Annotation{Tag: entry.Tag, Value: entry.Value})
		}
	}
	return nil
}

// StringList decodes a YAML value that may be a single scalar or a
// sequence of scalars. Biolink uses both forms for notes and aliases.
type StringList []string

// UnmarshalYAML implements flexible scalar-or-sequence decoding.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil
		}
		*s = StringList{node.Value}
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*s = items
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && !strings.EqualFold(t, "false")
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// CamelCase converts a natural-language schema name to Biolink's
// CamelCase class identifier: each space-separated word has its first
// letter upper-cased and the rest left untouched, so "small molecule"
// becomes "SmallMolecule" and "RNA product" stays "RNAProduct".
func CamelCase(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	for _, word := range strings.Split(name, " ") {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(word[size:])
	}
	return b.String()
}

// SnakeCase converts a natural-language schema name to Biolink's
// snake_case slot identifier: spaces become underscores, case is kept.
func SnakeCase(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
