// Package elements serializes hierarchy graphs for the browser viewer.
//
// The format mirrors what graph-rendering libraries expect: a flat list
// of nodes and edges where each node carries a label, style classes, and
// an attribute bag for the detail panel. It is the canonical format for
// API responses, caching, and snapshot storage, and round-trips through
// JSON and BSON without loss.
package elements

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/amykglen/biolink-explorer/pkg/hierarchy"
)

// Kind identifies which hierarchy a set of elements was built from.
type Kind string

// The two hierarchies served by the explorer.
const (
	KindCategories Kind = "categories"
	KindPredicates Kind = "predicates"
)

// ParseKind validates a kind string from CLI flags or URL paths.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCategories, KindPredicates:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown hierarchy kind %q (want categories or predicates)", s)
	}
}

// Style classes attached to nodes. The viewer keys its stylesheet off
// these: mixins render faded, unspecific predicates grey, search hits
// highlighted.
const (
	ClassMixin      = "mixin"
	ClassUnspecific = "unspecific"
	ClassSearched   = "searched"
)

// Elements is the serialized form of a filtered hierarchy.
type Elements struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a single category or predicate ready for display.
type Node struct {
	ID         string     `json:"id" bson:"id"`
	Label      string     `json:"label" bson:"label"`
	Classes    string     `json:"classes,omitempty" bson:"classes,omitempty"`
	Attributes Attributes `json:"attributes" bson:"attributes"`
}

// Attributes is the detail-panel payload for a node. Empty fields are
// omitted so category nodes don't carry predicate-only keys.
type Attributes struct {
	Mixin       bool     `json:"is_mixin" bson:"is_mixin"`
	Symmetric   bool     `json:"is_symmetric,omitempty" bson:"is_symmetric,omitempty"`
	Domain      string   `json:"domain,omitempty" bson:"domain,omitempty"`
	Range       string   `json:"range,omitempty" bson:"range,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Notes       []string `json:"notes,omitempty" bson:"notes,omitempty"`
	Aliases     []string `json:"aliases,omitempty" bson:"aliases,omitempty"`
}

// Edge is a directed parent→child connection between two visible nodes.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// FromDAG serializes the nodes of d retained by view, and the edges whose
// endpoints both survive. A nil view serializes the whole graph. Output
// is deterministic: nodes sorted by ID, edges by source then target.
func FromDAG(d *hierarchy.DAG, kind Kind, view *hierarchy.View) Elements {
	out := Elements{Nodes: []Node{}, Edges: []Edge{}}

	for _, id := range d.NodeIDs() {
		if !view.Contains(id) {
			continue
		}
		n, _ := d.Node(id)
		out.Nodes = append(out.Nodes, Node{
			ID:      n.ID,
			Label:   n.ID,
			Classes: classes(n, kind, view.IsSearched(n.ID)),
			Attributes: Attributes{
				Mixin:       n.Mixin,
				Symmetric:   n.Symmetric,
				Domain:      n.Domain,
				Range:       n.Range,
				Description: n.Description,
				Notes:       n.Notes,
				Aliases:     n.Aliases,
			},
		})
	}

	for _, e := range d.Edges() {
		if view.Contains(e.From) && view.Contains(e.To) {
			out.Edges = append(out.Edges, Edge{Source: e.From, Target: e.To})
		}
	}
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return strings.Compare(a.Target, b.Target)
	})

	return out
}

// classes computes the space-joined style classes for a node.
// A predicate is unspecific when both its domain and range are either
// unset or the root category - it says nothing about what it connects.
func classes(n *hierarchy.Node, kind Kind, searched bool) string {
	var cs []string
	if n.Mixin {
		cs = append(cs, ClassMixin)
	}
	if kind == KindPredicates &&
		(n.Domain == "" || n.Domain == hierarchy.RootCategory) &&
		(n.Range == "" || n.Range == hierarchy.RootCategory) {
		cs = append(cs, ClassUnspecific)
	}
	if searched {
		cs = append(cs, ClassSearched)
	}
	return strings.Join(cs, " ")
}

// Marshal encodes elements as JSON.
func Marshal(e Elements) ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes JSON bytes produced by Marshal.
func Unmarshal(data []byte) (Elements, error) {
	var e Elements
	if err := json.Unmarshal(data, &e); err != nil {
		return Elements{}, err
	}
	return e, nil
}

// ToDAG rebuilds a hierarchy graph from serialized elements. It inverts
// [FromDAG] for unfiltered element sets, which lets a cached graph be
// filtered again without refetching and reparsing the schema.
func ToDAG(e Elements) *hierarchy.DAG {
	d := hierarchy.New()
	for _, n := range e.Nodes {
		node := d.EnsureNode(n.ID)
		node.Mixin = n.Attributes.Mixin
		node.Symmetric = n.Attributes.Symmetric
		node.Domain = n.Attributes.Domain
		node.Range = n.Attributes.Range
		node.Description = n.Attributes.Description
		node.Notes = n.Attributes.Notes
		node.Aliases = n.Attributes.Aliases
	}
	for _, edge := range e.Edges {
		d.AddEdge(hierarchy.Edge{From: edge.Source, To: edge.Target})
	}
	return d
}

// NodeIDs returns the IDs of all nodes in order.
func (e Elements) NodeIDs() []string {
	ids := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		ids[i] = n.ID
	}
	return ids
}
