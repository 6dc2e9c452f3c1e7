// Package cache provides byte-level caching for pipeline results.
//
// Backends: FileCache for CLI use, RedisCache for multi-instance server
// deployments, and NullCache to disable caching. Keys are generated
// through a Keyer so that schema downloads, tag listings, and built
// graphs occupy distinct namespaces and can be scoped per deployment.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// TTLs per cached artifact. Tag listings go stale as soon as upstream
// releases; a built graph for a released tag never changes.
const (
	TTLTags  = 5 * time.Minute
	TTLGraph = 30 * 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A TTL of 0 means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the explorer's cached artifacts.
type Keyer interface {
	// TagsKey is the key for the GitHub release-tag listing.
	TagsKey() string

	// SchemaKey is the key for a downloaded schema document, by the
	// resolved release tag.
	SchemaKey(tag string) string

	// GraphKey is the key for a built element set for one hierarchy of
	// one schema version.
	GraphKey(version, kind string) string
}

// DefaultKeyer produces stable, collision-free keys by hashing the key
// components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// TagsKey generates the release-tag listing key.
func (k *DefaultKeyer) TagsKey() string { return "tags:biolink-model" }

// SchemaKey generates a schema download key.
func (k *DefaultKeyer) SchemaKey(tag string) string {
	return hashKey("schema", tag)
}

// GraphKey generates a built-graph key.
func (k *DefaultKeyer) GraphKey(version, kind string) string {
	return hashKey("graph", version, kind)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
