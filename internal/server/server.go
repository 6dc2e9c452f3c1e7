package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/amykglen/biolink-explorer/internal/config"
	"github.com/amykglen/biolink-explorer/pkg/elements"
	"github.com/amykglen/biolink-explorer/pkg/pipeline"
	"github.com/amykglen/biolink-explorer/pkg/store"
)

const shutdownTimeout = 10 * time.Second

// maxCachedVersions bounds the in-process result map; hierarchies for
// old versions are rebuilt from cache or snapshots on demand.
const maxCachedVersions = 8

// Server serves the explorer API and viewer.
type Server struct {
	addr           string
	defaultVersion string
	runner         *pipeline.Runner
	snapshots      store.Store // nil disables snapshot persistence
	logger         *log.Logger
	metrics        *Metrics
	router         chi.Router

	mu      sync.Mutex
	results map[string]*pipeline.Result
	recent  []string // results keys, oldest first
	locks   map[string]*sync.Mutex
}

// New creates a Server. snapshots may be nil to disable the shared
// snapshot store.
func New(cfg config.Config, runner *pipeline.Runner, snapshots store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		addr:           cfg.Server.Addr,
		defaultVersion: cfg.Version,
		runner:         runner,
		snapshots:      snapshots,
		logger:         logger,
		metrics:        NewMetrics(),
		results:        make(map[string]*pipeline.Result),
		locks:          make(map[string]*sync.Mutex),
	}
	s.metrics.Register()
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/", s.handleViewer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/versions", s.handleVersions)
		r.Get("/graphs/{version}/{kind}", s.handleGraph)
		r.Get("/graphs/{version}/{kind}/nodes/{id}", s.handleNode)
	})

	return r
}

// Run serves until ctx is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// load returns the built hierarchies for a version, building at most
// once per resolved tag. Concurrent requests for the same version wait
// on a per-tag lock; requests for different versions build in parallel.
func (s *Server) load(ctx context.Context, version string, refresh bool) (*pipeline.Result, error) {
	tag, err := s.runner.Source.Resolve(ctx, version)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if result, ok := s.results[tag]; ok && !refresh {
		s.mu.Unlock()
		return result, nil
	}
	lock, ok := s.locks[tag]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tag] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	result, ok := s.results[tag]
	s.mu.Unlock()
	if ok && !refresh {
		return result, nil
	}

	result, err = s.build(ctx, tag, refresh)
	if err != nil {
		// Drop the lock entry so failed lookups for arbitrary version
		// strings cannot grow the map without bound.
		s.mu.Lock()
		delete(s.locks, tag)
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.cacheResult(tag, result)
	s.mu.Unlock()
	return result, nil
}

// cacheResult records a build result, evicting the oldest entry once the
// map exceeds maxCachedVersions. Callers must hold s.mu.
func (s *Server) cacheResult(tag string, result *pipeline.Result) {
	if _, ok := s.results[tag]; !ok {
		s.recent = append(s.recent, tag)
	}
	s.results[tag] = result
	for len(s.recent) > maxCachedVersions {
		evict := s.recent[0]
		s.recent = s.recent[1:]
		delete(s.results, evict)
		delete(s.locks, evict)
	}
}

func (s *Server) build(ctx context.Context, tag string, refresh bool) (*pipeline.Result, error) {
	if s.snapshots != nil && !refresh {
		snap, err := s.snapshots.Get(ctx, tag)
		if err == nil {
			s.logger.Debug("hierarchies from snapshot store", "version", tag)
			return resultFromSnapshot(snap), nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("snapshot store read failed", "version", tag, "err", err)
		}
	}

	result, err := s.runner.Build(ctx, pipeline.Options{Version: tag, Refresh: refresh})
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		snap := store.Snapshot{
			Version:    result.Version,
			FetchedAt:  time.Now().UTC(),
			Categories: result.CategoryElements,
			Predicates: result.PredicateElements,
		}
		if err := s.snapshots.Put(ctx, snap); err != nil {
			s.logger.Warn("snapshot store write failed", "version", tag, "err", err)
		}
	}
	return result, nil
}

func resultFromSnapshot(snap store.Snapshot) *pipeline.Result {
	result := &pipeline.Result{
		Version:           snap.Version,
		Categories:        elements.ToDAG(snap.Categories),
		Predicates:        elements.ToDAG(snap.Predicates),
		CategoryElements:  snap.Categories,
		PredicateElements: snap.Predicates,
	}
	result.Stats.CategoryNodes = result.Categories.NodeCount()
	result.Stats.CategoryEdges = result.Categories.EdgeCount()
	result.Stats.PredicateNodes = result.Predicates.NodeCount()
	result.Stats.PredicateEdges = result.Predicates.EdgeCount()
	return result
}
