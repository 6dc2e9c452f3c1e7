// Package pipeline builds browsable Biolink hierarchies end to end.
//
// The pipeline runs three stages for a requested model version:
//
//  1. Fetch: resolve the version to a release tag and download the
//     schema YAML from GitHub
//  2. Build: parse the schema and construct the category and predicate
//     hierarchy graphs
//  3. Serialize: convert both graphs to the element format served to
//     the viewer
//
// Built element sets are cached per (version, hierarchy) pair, so a
// cache hit skips the fetch and build stages entirely. Both the CLI and
// the HTTP server drive the same Runner, which keeps caching behavior
// identical across entry points.
//
// Create a Runner and build a version:
//
//	runner := pipeline.NewRunner(source, cache, nil, logger)
//	result, err := runner.Build(ctx, pipeline.Options{Version: "latest"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cats := result.CategoryElements
package pipeline

import (
	"context"
	"time"

	"github.com/amykglen/biolink-explorer/pkg/elements"
	"github.com/amykglen/biolink-explorer/pkg/hierarchy"
)

// Source provides release tags and schema documents. It is implemented
// by registry.Client; tests substitute a fake.
type Source interface {
	// Tags lists available release tags, newest first.
	Tags(ctx context.Context, refresh bool) ([]string, error)

	// Resolve maps a user-supplied version to a concrete tag.
	Resolve(ctx context.Context, version string) (string, error)

	// Schema returns the raw schema YAML for a version and the tag it
	// resolved to.
	Schema(ctx context.Context, version string, refresh bool) ([]byte, string, error)
}

// Options configures a pipeline run.
type Options struct {
	// Version is the model version to build: a release tag (with or
	// without the "v" prefix), "master", or empty/"latest" for the
	// newest release.
	Version string `json:"version,omitempty"`

	// Refresh bypasses all caches and refetches the schema.
	Refresh bool `json:"refresh,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Version is the resolved release tag the result was built from.
	Version string

	// Categories and Predicates are the built hierarchy graphs,
	// unfiltered. Treat them as immutable.
	Categories *hierarchy.DAG
	Predicates *hierarchy.DAG

	// CategoryElements and PredicateElements are the serialized forms
	// of the full graphs.
	CategoryElements  elements.Elements
	PredicateElements elements.Elements

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which hierarchies came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CategoryNodes  int
	CategoryEdges  int
	PredicateNodes int
	PredicateEdges int
	FetchTime      time.Duration
	BuildTime      time.Duration
}

// CacheInfo tracks cache hits per hierarchy.
type CacheInfo struct {
	CategoriesHit bool
	PredicatesHit bool
}

// Hit reports whether the whole run was served from cache.
func (c CacheInfo) Hit() bool { return c.CategoriesHit && c.PredicatesHit }
