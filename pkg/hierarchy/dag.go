package hierarchy

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with
	// the same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is
	// detected. Cycles are found using depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Node is a vertex in a Biolink hierarchy: a category or a predicate.
// Domain and Range are only populated for predicates and hold CamelCase
// category IDs.
type Node struct {
	ID          string
	Mixin       bool
	Symmetric   bool
	Domain      string
	Range       string
	Description string
	Notes       []string
	Aliases     []string
}

// Edge is a directed parent→child connection. Both is_a inheritance and
// mixin composition produce edges of this shape.
type Edge struct {
	From string // parent node ID
	To   string // child node ID
}

// DAG is a directed acyclic graph of hierarchy nodes.
//
// The zero value is not usable - use New. DAG is not safe for concurrent
// mutation; built graphs are treated as immutable and may be read from
// multiple goroutines.
type DAG struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
}

// New creates an empty hierarchy DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	d.nodes[node.ID] = node
	return nil
}

// EnsureNode returns the node with the given ID, creating a bare node if
// it doesn't exist yet. Schema entries routinely reference parents before
// (or without) defining them, so builders fill in metadata on the node
// returned here once the defining entry is seen.
func (d *DAG) EnsureNode(id string) *Node {
	if n, ok := d.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id}
	d.nodes[id] = n
	return n
}

// AddEdge adds a directed edge, creating missing endpoint nodes as bare
// nodes. Duplicate edges (same From and To) are ignored.
func (d *DAG) AddEdge(e Edge) {
	if e.From == "" || e.To == "" {
		return
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return
	}
	d.EnsureNode(e.From)
	d.EnsureNode(e.To)
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
}

// RemoveNode deletes a node and all its incident edges.
// Removing an unknown ID is a no-op.
func (d *DAG) RemoveNode(id string) {
	if _, ok := d.nodes[id]; !ok {
		return
	}
	delete(d.nodes, id)
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == id || e.To == id })
	for _, child := range d.outgoing[id] {
		d.incoming[child] = slices.DeleteFunc(d.incoming[child], func(s string) bool { return s == id })
	}
	for _, parent := range d.incoming[id] {
		d.outgoing[parent] = slices.DeleteFunc(d.outgoing[parent], func(s string) bool { return s == id })
	}
	delete(d.outgoing, id)
	delete(d.incoming, id)
}

// Node returns the node with the given ID and true, or nil and false if
// not found. The returned pointer refers to the actual node in the graph.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Nodes returns all nodes in the graph. The order is not guaranteed.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, n := range d.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeIDs returns all node IDs sorted lexicographically.
func (d *DAG) NodeIDs() []string {
	ids := make([]string, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of this node's direct children.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of this node's direct parents.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Ancestors returns the union of all nodes reachable upward from the
// seeds, including the seeds themselves. Seed IDs not present in the
// graph still appear in the result set.
func (d *DAG) Ancestors(ids ...string) map[string]bool {
	return d.reach(ids, d.incoming)
}

// Descendants returns the union of all nodes reachable downward from the
// seeds, including the seeds themselves. Seed IDs not present in the
// graph still appear in the result set.
func (d *DAG) Descendants(ids ...string) map[string]bool {
	return d.reach(ids, d.outgoing)
}

func (d *DAG) reach(seeds []string, adjacency map[string][]string) map[string]bool {
	result := make(map[string]bool, len(seeds))
	stack := make([]string, 0, len(seeds))
	for _, id := range seeds {
		if id == "" {
			continue
		}
		result[id] = true
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adjacency[id] {
			if !result[next] {
				result[next] = true
				stack = append(stack, next)
			}
		}
	}
	return result
}

// Validate checks structural integrity: every edge must reference
// existing nodes and the graph must be acyclic.
func (d *DAG) Validate() error {
	if err := d.validateEdgeConsistency(); err != nil {
		return err
	}
	return d.detectCycles()
}

func (d *DAG) validateEdgeConsistency() error {
	for _, e := range d.edges {
		if _, ok := d.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := d.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}

// detectCycles runs DFS with three-color marking.
// White (unvisited) nodes are absent from color; gray nodes are on the
// current path; black nodes are fully explored.
func (d *DAG) detectCycles() error {
	const (
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(d.nodes))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range d.outgoing[id] {
			switch color[next] {
			case gray:
				return false
			case black:
				continue
			default:
				if !visit(next) {
					return false
				}
			}
		}
		color[id] = black
		return true
	}

	for id := range d.nodes {
		if color[id] == 0 && !visit(id) {
			return ErrGraphHasCycle
		}
	}
	return nil
}
