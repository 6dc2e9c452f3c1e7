package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amykglen/biolink-explorer/pkg/elements"
)

func testSnapshot(version string) Snapshot {
	return Snapshot{
		Version:   version,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Categories: elements.Elements{
			Nodes: []elements.Node{{ID: "NamedThing", Label: "NamedThing"}},
			Edges: []elements.Edge{},
		},
		Predicates: elements.Elements{
			Nodes: []elements.Node{{ID: "related_to", Label: "related_to"}},
			Edges: []elements.Edge{},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "v4.2.1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store: err = %v, want ErrNotFound", err)
	}

	snap := testSnapshot("v4.2.1")
	if err := s.Put(ctx, snap); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := s.Get(ctx, "v4.2.1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Version != "v4.2.1" {
		t.Errorf("Version = %q, want v4.2.1", got.Version)
	}
	if len(got.Categories.Nodes) != 1 || got.Categories.Nodes[0].ID != "NamedThing" {
		t.Errorf("Categories = %+v", got.Categories)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := testSnapshot("master")
	if err := s.Put(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := testSnapshot("master")
	second.Categories.Nodes = append(second.Categories.Nodes,
		elements.Node{ID: "Gene", Label: "Gene"})
	if err := s.Put(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "master")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Categories.Nodes) != 2 {
		t.Errorf("replacement snapshot has %d category nodes, want 2", len(got.Categories.Nodes))
	}
}

func TestMemoryStoreVersions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, v := range []string{"v4.2.1", "master", "v4.0.0"} {
		if err := s.Put(ctx, testSnapshot(v)); err != nil {
			t.Fatal(err)
		}
	}

	versions, err := s.Versions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"master", "v4.0.0", "v4.2.1"}
	if len(versions) != len(want) {
		t.Fatalf("Versions = %v, want %v", versions, want)
	}
	for i := range want {
		if versions[i] != want[i] {
			t.Errorf("versions[%d] = %q, want %q", i, versions[i], want[i])
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, testSnapshot("v4.2.1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "v4.2.1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "v4.2.1"); err != nil {
		t.Errorf("deleting a missing version should not error, got %v", err)
	}
	if _, err := s.Get(ctx, "v4.2.1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}
