package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amykglen/biolink-explorer/pkg/cache"
	"github.com/amykglen/biolink-explorer/pkg/elements"
	"github.com/amykglen/biolink-explorer/pkg/hierarchy"
	"github.com/amykglen/biolink-explorer/pkg/model"
	"github.com/amykglen/biolink-explorer/pkg/observability"
)

// Runner executes the fetch → build → serialize pipeline with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Source Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner backed by the given source.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(source Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: source,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Versions lists the model versions available upstream, newest first.
func (r *Runner) Versions(ctx context.Context, refresh bool) ([]string, error) {
	return r.Source.Tags(ctx, refresh)
}

// Build produces the category and predicate hierarchies for a version.
// Cached element sets are used when available; otherwise the schema is
// fetched, parsed, and both graphs are built and cached.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	tag, err := r.Source.Resolve(ctx, opts.Version)
	if err != nil {
		return nil, fmt.Errorf("resolve version: %w", err)
	}

	result := &Result{Version: tag}

	if !opts.Refresh {
		if r.loadCached(ctx, result) {
			r.Logger.Debug("hierarchies from cache", "version", tag)
			r.fillStats(result)
			return result, nil
		}
	}

	fetchStart := time.Now()
	observability.Pipeline().OnFetchStart(ctx, tag)
	data, _, err := r.Source.Schema(ctx, tag, opts.Refresh)
	result.Stats.FetchTime = time.Since(fetchStart)
	observability.Pipeline().OnFetchComplete(ctx, tag, len(data), result.Stats.FetchTime, err)
	if err != nil {
		return nil, fmt.Errorf("fetch schema: %w", err)
	}
	r.Logger.Info("fetched schema",
		"version", tag,
		"bytes", len(data),
		"duration", result.Stats.FetchTime)

	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, tag)
	doc, err := model.Parse(data)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, tag, 0, time.Since(buildStart), err)
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	result.Categories = hierarchy.BuildCategories(doc)
	result.Predicates = hierarchy.BuildPredicates(doc)
	result.CategoryElements = elements.FromDAG(result.Categories, elements.KindCategories, nil)
	result.PredicateElements = elements.FromDAG(result.Predicates, elements.KindPredicates, nil)
	result.Stats.BuildTime = time.Since(buildStart)
	nodeCount := result.Categories.NodeCount() + result.Predicates.NodeCount()
	observability.Pipeline().OnBuildComplete(ctx, tag, nodeCount, result.Stats.BuildTime, nil)

	r.fillStats(result)
	r.Logger.Info("built hierarchies",
		"version", tag,
		"categories", result.Stats.CategoryNodes,
		"predicates", result.Stats.PredicateNodes,
		"duration", result.Stats.BuildTime)

	r.storeCached(ctx, result)
	return result, nil
}

// Elements builds a version and returns one hierarchy filtered per f.
// It is a convenience for callers that serve a single filtered view.
func (r *Runner) Elements(ctx context.Context, opts Options, kind elements.Kind, f hierarchy.FilterOptions) (elements.Elements, error) {
	result, err := r.Build(ctx, opts)
	if err != nil {
		return elements.Elements{}, err
	}

	d := result.Categories
	if kind == elements.KindPredicates {
		d = result.Predicates
	}
	view := hierarchy.Filter(d, result.Categories, f)
	return elements.FromDAG(d, kind, view), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// loadCached tries to populate result from cached element sets. Both
// hierarchies must deserialize for the run to count as a full hit; a
// partial hit falls through to a rebuild.
func (r *Runner) loadCached(ctx context.Context, result *Result) bool {
	cats, ok := r.getGraph(ctx, result.Version, elements.KindCategories)
	result.CacheInfo.CategoriesHit = ok
	if !ok {
		return false
	}
	preds, ok := r.getGraph(ctx, result.Version, elements.KindPredicates)
	result.CacheInfo.PredicatesHit = ok
	if !ok {
		return false
	}

	result.CategoryElements = cats
	result.PredicateElements = preds
	result.Categories = elements.ToDAG(cats)
	result.Predicates = elements.ToDAG(preds)
	return true
}

func (r *Runner) getGraph(ctx context.Context, version string, kind elements.Kind) (elements.Elements, bool) {
	key := r.Keyer.GraphKey(version, string(kind))
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return elements.Elements{}, false
	}
	e, err := elements.Unmarshal(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return elements.Elements{}, false
	}
	observability.Cache().OnCacheHit(ctx, "graph")
	return e, true
}

func (r *Runner) storeCached(ctx context.Context, result *Result) {
	// A master build tracks a moving branch, so it only gets the short TTL.
	ttl := cache.TTLGraph
	if result.Version == "master" {
		ttl = cache.TTLTags
	}

	sets := map[elements.Kind]elements.Elements{
		elements.KindCategories: result.CategoryElements,
		elements.KindPredicates: result.PredicateElements,
	}
	for kind, e := range sets {
		data, err := elements.Marshal(e)
		if err != nil {
			continue
		}
		key := r.Keyer.GraphKey(result.Version, string(kind))
		if err := r.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
}

func (r *Runner) fillStats(result *Result) {
	result.Stats.CategoryNodes = result.Categories.NodeCount()
	result.Stats.CategoryEdges = result.Categories.EdgeCount()
	result.Stats.PredicateNodes = result.Predicates.NodeCount()
	result.Stats.PredicateEdges = result.Predicates.EdgeCount()
}
