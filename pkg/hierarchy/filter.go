package hierarchy

// FilterOptions narrows a hierarchy to the nodes a viewer asked for.
type FilterOptions struct {
	// Search restricts the graph to the selected nodes plus their full
	// lineages (ancestors and descendants). Selected nodes are marked
	// as searched in the resulting view.
	Search []string

	// IncludeMixins keeps mixin nodes in the view. Searching for a node
	// that is itself a mixin overrides this to true, since the result
	// would otherwise be invisible.
	IncludeMixins bool

	// Domains and Ranges filter predicates hierarchically: a predicate
	// passes when its domain (or range) is one of the selected
	// categories or any of their ancestors, or is unset. Ignored for
	// category hierarchies.
	Domains []string
	Ranges  []string
}

// View is the outcome of filtering: the set of retained node IDs and the
// nodes to highlight as search hits. Edges survive only when both
// endpoints are retained.
type View struct {
	Keep     map[string]bool
	Searched map[string]bool
}

// Contains reports whether the view retains the node.
// A nil view retains everything.
func (v *View) Contains(id string) bool {
	if v == nil {
		return true
	}
	return v.Keep[id]
}

// IsSearched reports whether the node was directly searched for.
func (v *View) IsSearched(id string) bool {
	if v == nil {
		return false
	}
	return v.Searched[id]
}

// Filter computes the view of d selected by opts.
//
// categories is the category DAG used to expand domain/range selections
// to their ancestor closures; pass nil when filtering the category
// hierarchy itself (domain/range options are then ignored).
func Filter(d *DAG, categories *DAG, opts FilterOptions) *View {
	includeMixins := opts.IncludeMixins
	searched := make(map[string]bool)
	for _, id := range opts.Search {
		n, ok := d.Node(id)
		if !ok {
			continue
		}
		searched[id] = true
		if n.Mixin {
			includeMixins = true
		}
	}

	keep := make(map[string]bool, d.NodeCount())
	for _, n := range d.Nodes() {
		if includeMixins || !n.Mixin {
			keep[n.ID] = true
		}
	}

	if len(searched) > 0 {
		seeds := make([]string, 0, len(searched))
		for id := range searched {
			seeds = append(seeds, id)
		}
		lineage := d.Ancestors(seeds...)
		for id := range d.Descendants(seeds...) {
			lineage[id] = true
		}
		intersect(keep, lineage)
	}

	if categories != nil && (len(opts.Domains) > 0 || len(opts.Ranges) > 0) {
		domains := categories.Ancestors(opts.Domains...)
		ranges := categories.Ancestors(opts.Ranges...)
		for id := range keep {
			n, ok := d.Node(id)
			if !ok {
				continue
			}
			domainOK := len(opts.Domains) == 0 || n.Domain == "" || domains[n.Domain]
			rangeOK := len(opts.Ranges) == 0 || n.Range == "" || ranges[n.Range]
			if !domainOK || !rangeOK {
				delete(keep, id)
			}
		}
	}

	// Mixins picked up through lineage expansion still honor the flag.
	if !includeMixins {
		for id := range keep {
			if n, ok := d.Node(id); ok && n.Mixin {
				delete(keep, id)
			}
		}
	}

	return &View{Keep: keep, Searched: searched}
}

func intersect(dst, other map[string]bool) {
	for id := range dst {
		if !other[id] {
			delete(dst, id)
		}
	}
}
