package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set.
	if _, hit, _ := c.Get(ctx, "schema:4.2.1"); hit {
		t.Error("expected miss before Set")
	}

	if err := c.Set(ctx, "schema:4.2.1", []byte("classes: {}"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "schema:4.2.1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "classes: {}" {
		t.Errorf("Get = %q", data)
	}

	// Other keys don't collide.
	if _, hit, _ := c.Get(ctx, "schema:4.2.2"); hit {
		t.Error("different key should miss")
	}

	if err := c.Delete(ctx, "schema:4.2.1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "schema:4.2.1"); hit {
		t.Error("expected miss after Delete")
	}

	// Double delete is fine.
	if err := c.Delete(ctx, "schema:4.2.1"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "tags", []byte("v4.2.1"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "tags"); hit {
		t.Error("expired entry should miss")
	}

	// TTL 0 never expires.
	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("TTL 0 entry should not expire")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h3 := Hash([]byte("world")); h1 == h3 {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if k.TagsKey() != "tags:biolink-model" {
		t.Errorf("TagsKey = %q", k.TagsKey())
	}
	if k.SchemaKey("v4.2.1") == k.SchemaKey("v4.2.2") {
		t.Error("different tags should produce different schema keys")
	}
	if k.GraphKey("4.2.1", "categories") == k.GraphKey("4.2.1", "predicates") {
		t.Error("different kinds should produce different graph keys")
	}
	if k.GraphKey("4.2.1", "categories") == k.GraphKey("4.2.2", "categories") {
		t.Error("different versions should produce different graph keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(NewDefaultKeyer(), "staging:")

	if k.TagsKey() != "staging:tags:biolink-model" {
		t.Errorf("TagsKey = %q", k.TagsKey())
	}
	inner := NewDefaultKeyer()
	if k.GraphKey("4.2.1", "categories") != "staging:"+inner.GraphKey("4.2.1", "categories") {
		t.Error("scoped key should be prefix + inner key")
	}

	// Nil inner falls back to the default keyer.
	fallback := NewScopedKeyer(nil, "x:")
	if fallback.TagsKey() != "x:tags:biolink-model" {
		t.Errorf("fallback TagsKey = %q", fallback.TagsKey())
	}
}
