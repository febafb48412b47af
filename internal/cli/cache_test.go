package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/distortviz/pkg/cache"
)

func TestCacheDirDefault(t *testing.T) {
	c, _ := newTestCLI(t)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, "distortviz") {
		t.Errorf("cacheDir() = %q, should end with 'distortviz'", dir)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	c.Config.Cache.Dir = "/tmp/elsewhere"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/elsewhere" {
		t.Errorf("cacheDir() = %q, want /tmp/elsewhere", dir)
	}
}

func TestCacheClear(t *testing.T) {
	c, out := newTestCLI(t)
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "responses")

	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"one", "two", "three"} {
		if err := fc.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	cfg := writeFile(t, dir, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")
	if err := execute(t, c, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out.String(), "Cleared 3 cached entries") {
		t.Errorf("output = %q", out.String())
	}
	if _, ok, _ := fc.Get(ctx, "one"); ok {
		t.Error("entry survived clear")
	}
}

func TestCacheClearEmpty(t *testing.T) {
	c, out := newTestCLI(t)
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(filepath.Join(dir, "missing"))+"\"\n")

	if err := execute(t, c, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("output = %q", out.String())
	}
}
