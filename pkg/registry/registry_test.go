package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		CacheDir:   t.TempDir(),
		APIBaseURL: srv.URL,
		RawBaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c, srv
}

func tagsJSON(names ...string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf(`{"name":%q}`, n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestTagsSortedNewestFirst(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, tagsJSON("v4.2.0", "legacy-release", "4.2.1", "v3.0.0"))
	}))

	tags, err := c.Tags(context.Background(), false)
	if err != nil {
		t.Fatalf("Tags error: %v", err)
	}

	want := []string{"4.2.1", "v4.2.0", "v3.0.0", "legacy-release"}
	if len(tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestTagsPagination(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 1 {
			fmt.Fprint(w, tagsJSON("v0.0.1"))
			return
		}
		names := make([]string, tagsPerPage)
		for i := range names {
			names[i] = fmt.Sprintf("v1.0.%d", i)
		}
		fmt.Fprint(w, tagsJSON(names...))
	}))

	tags, err := c.Tags(context.Background(), false)
	if err != nil {
		t.Fatalf("Tags error: %v", err)
	}
	if len(tags) != tagsPerPage+1 {
		t.Fatalf("len(tags) = %d, want %d", len(tags), tagsPerPage+1)
	}
	if tags[len(tags)-1] != "v0.0.1" {
		t.Errorf("oldest tag = %q, want v0.0.1", tags[len(tags)-1])
	}
}

func TestTagsCached(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, tagsJSON("v4.2.1"))
	}))

	ctx := context.Background()
	if _, err := c.Tags(ctx, false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Tags(ctx, false); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (second lookup should hit cache)", calls)
	}

	if _, err := c.Tags(ctx, true); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("server calls = %d, want 2 (refresh should bypass cache)", calls)
	}
}

func TestResolve(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		fmt.Fprint(w, tagsJSON("v4.2.1", "4.1.0", "v4.0.0"))
	}))

	ctx := context.Background()
	cases := []struct {
		version string
		want    string
	}{
		{"", "v4.2.1"},
		{"latest", "v4.2.1"},
		{"master", "master"},
		{"v4.2.1", "v4.2.1"},
		{"4.2.1", "v4.2.1"},
		{"4.1.0", "4.1.0"},
		{"v4.1.0", "4.1.0"},
		{"some-branch", "some-branch"},
	}
	for _, tc := range cases {
		got, err := c.Resolve(ctx, tc.version)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tc.version, err)
		}
		if got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.version, got, tc.want)
		}
	}
}

func TestSchemaDownload(t *testing.T) {
	const yaml = "name: Biolink-Model\nclasses: {}\n"
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/tags"):
			if r.URL.Query().Get("page") == "1" {
				fmt.Fprint(w, tagsJSON("v4.2.1"))
			} else {
				fmt.Fprint(w, "[]")
			}
		case strings.HasSuffix(r.URL.Path, "/v4.2.1/"+SchemaFile):
			fmt.Fprint(w, yaml)
		default:
			http.NotFound(w, r)
		}
	}))

	data, tag, err := c.Schema(context.Background(), "4.2.1", false)
	if err != nil {
		t.Fatalf("Schema error: %v", err)
	}
	if tag != "v4.2.1" {
		t.Errorf("resolved tag = %q, want v4.2.1", tag)
	}
	if string(data) != yaml {
		t.Errorf("schema = %q, want %q", data, yaml)
	}
}

func TestSchemaPrefixFallback(t *testing.T) {
	// The tag listing can lag behind a fresh release, so Schema retries
	// the raw URL with the "v" prefix toggled on a 404.
	const yaml = "name: Biolink-Model\n"
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/tags"):
			fmt.Fprint(w, "[]")
		case strings.HasSuffix(r.URL.Path, "/v9.9.9/"+SchemaFile):
			fmt.Fprint(w, yaml)
		default:
			http.NotFound(w, r)
		}
	}))

	data, tag, err := c.Schema(context.Background(), "9.9.9", false)
	if err != nil {
		t.Fatalf("Schema error: %v", err)
	}
	if tag != "9.9.9" {
		t.Errorf("resolved tag = %q, want 9.9.9", tag)
	}
	if string(data) != yaml {
		t.Errorf("schema = %q, want %q", data, yaml)
	}
}

func TestSchemaNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/tags") {
			fmt.Fprint(w, "[]")
			return
		}
		http.NotFound(w, r)
	}))

	_, _, err := c.Schema(context.Background(), "no-such-version", false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestNoTags(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}))

	_, err := c.Latest(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c, err := New(Options{
		Token:      "secret",
		CacheDir:   t.TempDir(),
		APIBaseURL: srv.URL,
		RawBaseURL: srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Tags(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
}
