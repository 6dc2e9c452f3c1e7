// Package store persists built hierarchy snapshots.
//
// A snapshot holds the full (unfiltered) category and predicate element
// sets for one model version. The server consults the store before
// running the pipeline and writes back after a build, so a fleet of
// instances behind a shared MongoDB warms up once per version. The
// in-memory implementation backs single-instance deployments and tests.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/amykglen/biolink-explorer/pkg/elements"
)

// ErrNotFound is returned when no snapshot exists for a version.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one built model version ready to serve.
type Snapshot struct {
	Version    string            `json:"version" bson:"_id"`
	FetchedAt  time.Time         `json:"fetched_at" bson:"fetched_at"`
	Categories elements.Elements `json:"categories" bson:"categories"`
	Predicates elements.Elements `json:"predicates" bson:"predicates"`
}

// Store is the interface implemented by snapshot backends.
type Store interface {
	// Put saves a snapshot, replacing any existing one for the same version.
	Put(ctx context.Context, s Snapshot) error

	// Get loads the snapshot for a version. Returns ErrNotFound when the
	// version has never been built.
	Get(ctx context.Context, version string) (Snapshot, error)

	// Versions lists the versions with stored snapshots, sorted.
	Versions(ctx context.Context) ([]string, error)

	// Delete removes a snapshot. Deleting a missing version is not an error.
	Delete(ctx context.Context, version string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

// Put saves a snapshot.
func (m *MemoryStore) Put(ctx context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.Version] = s
	return nil
}

// Get loads a snapshot by version.
func (m *MemoryStore) Get(ctx context.Context, version string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[version]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return s, nil
}

// Versions lists stored versions, sorted.
func (m *MemoryStore) Versions(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions := make([]string, 0, len(m.snapshots))
	for v := range m.snapshots {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions, nil
}

// Delete removes a snapshot.
func (m *MemoryStore) Delete(ctx context.Context, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, version)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close(ctx context.Context) error { return nil }
