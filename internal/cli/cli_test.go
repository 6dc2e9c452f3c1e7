package cli

import (
	"io"
	"path/filepath"
	"testing"
)

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}

	http, err := httpCacheDir()
	if err != nil {
		t.Fatalf("httpCacheDir() error: %v", err)
	}
	if http != filepath.Join(dir, "http") {
		t.Errorf("httpCacheDir() = %q", http)
	}

	graphs, err := graphCacheDir()
	if err != nil {
		t.Fatalf("graphCacheDir() error: %v", err)
	}
	if graphs != filepath.Join(dir, "graphs") {
		t.Errorf("graphCacheDir() = %q", graphs)
	}
}

func TestResolveVersion(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg.Version = "latest"

	if got := c.resolveVersion(nil); got != "latest" {
		t.Errorf("resolveVersion(nil) = %q, want configured default", got)
	}
	if got := c.resolveVersion([]string{"v4.2.1"}); got != "v4.2.1" {
		t.Errorf("resolveVersion(arg) = %q, want argument", got)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"versions":   false,
		"fetch":      false,
		"export":     false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
