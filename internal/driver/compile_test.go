package driver

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"strl/internal/ast"
	"strl/internal/diag"
)

func TestCompileTextPipeline(t *testing.T) {
	res, err := CompileText("mem", `(?<w>\w+)\s+\k<w>`, Options{})
	if err != nil {
		t.Fatalf("CompileText: %v", err)
	}
	if res.Pattern != `(?<w>\w+)\s+\k<w>` {
		t.Fatalf("pattern %q", res.Pattern)
	}
	want := []string{"named_group", "backreference"}
	if len(res.Features) != 2 || res.Features[0] != want[0] || res.Features[1] != want[1] {
		t.Fatalf("features %v, want %v", res.Features, want)
	}
	if res.Cached {
		t.Fatal("in-memory compile flagged as cached")
	}
}

func TestCompileTextParseError(t *testing.T) {
	_, err := CompileText("mem", "(abc", Options{})
	var perr *diag.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T, want *diag.ParseError", err)
	}
	if perr.Message != "Unterminated group" {
		t.Fatalf("message %q", perr.Message)
	}
}

func TestCompileTextSemanticError(t *testing.T) {
	_, err := CompileText("mem", "[z-a]", Options{})
	var perr *diag.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T", err)
	}
	if perr.Code != diag.SemInvalidClassRange {
		t.Fatalf("code %v", perr.Code)
	}
}

func TestCompileTextDefaults(t *testing.T) {
	res, err := CompileText("mem", "abc", Options{Defaults: ast.Flags{IgnoreCase: true}})
	if err != nil {
		t.Fatalf("CompileText: %v", err)
	}
	if res.Pattern != "(?i)abc" {
		t.Fatalf("pattern %q", res.Pattern)
	}
}

func TestCompileTextTimings(t *testing.T) {
	res, err := CompileText("mem", "abc", Options{Timings: true})
	if err != nil {
		t.Fatalf("CompileText: %v", err)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 4 {
		t.Fatalf("timing %+v, want four phases", res.Timing)
	}
	if res.Timing.Phases[0].Name != "parse" || res.Timing.Phases[3].Name != "emit" {
		t.Fatalf("phase names %+v", res.Timing.Phases)
	}
}

func TestCompileFileUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("strl-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "p.strl")
	if err := os.WriteFile(path, []byte("%flags i\nfoo[0-9]+"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{Cache: cache}
	first, err := CompileFile(path, opts)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	if first.Cached {
		t.Fatal("cold cache reported a hit")
	}

	second, err := CompileFile(path, opts)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !second.Cached {
		t.Fatal("warm cache missed")
	}
	if second.Pattern != first.Pattern {
		t.Fatalf("cached pattern %q, want %q", second.Pattern, first.Pattern)
	}
	if second.Flags != first.Flags {
		t.Fatalf("cached flags %+v, want %+v", second.Flags, first.Flags)
	}
}

func TestCacheKeyVariesByTarget(t *testing.T) {
	var digest Digest
	copy(digest[:], []byte("0123456789abcdef0123456789abcdef"))
	if CacheKey(digest, "pcre2") == CacheKey(digest, "re2") {
		t.Fatal("target does not affect the cache key")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenDiskCache("strl-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	var key Digest
	key[0] = 7
	in := &CachedPattern{
		Schema:   1,
		Target:   "pcre2",
		Flags:    "im",
		Pattern:  "(?im)abc",
		Features: []string{"anchors"},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out CachedPattern
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.Pattern != in.Pattern || out.Flags != in.Flags || len(out.Features) != 1 {
		t.Fatalf("got %+v", out)
	}

	var missKey Digest
	missKey[0] = 8
	ok, err = cache.Get(missKey, &out)
	if err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.strl":      "bar+",
		"a.strl":      "foo*",
		"sub/c.strl":  "[0-9]{3}",
		"ignored.txt": "not a pattern",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results, err := CompileDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	// deterministic path order
	wantPatterns := []string{"foo*", "bar+", "[0-9]{3}"}
	for i, res := range results {
		if res.Pattern != wantPatterns[i] {
			t.Errorf("result %d: pattern %q, want %q", i, res.Pattern, wantPatterns[i])
		}
	}
}

func TestCompileDirFirstErrorWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ok.strl"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.strl"), []byte("(abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := CompileDir(context.Background(), dir, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *diag.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v does not wrap the parse diagnostic", err)
	}
}

func TestCompileDirEmpty(t *testing.T) {
	if _, err := CompileDir(context.Background(), t.TempDir(), Options{}); err == nil {
		t.Fatal("expected error for a directory without sources")
	}
}

func TestCompileArtifact(t *testing.T) {
	res, err := CompileText("mem", `(?<w>a|b)+`, Options{})
	if err != nil {
		t.Fatalf("CompileText: %v", err)
	}
	art, err := res.Artifact()
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := CompileArtifact(data, Options{})
	if err != nil {
		t.Fatalf("CompileArtifact: %v", err)
	}
	if back.Pattern != res.Pattern {
		t.Fatalf("round-tripped pattern %q, want %q", back.Pattern, res.Pattern)
	}
}

func TestCompileArtifactMalformed(t *testing.T) {
	_, err := CompileArtifact([]byte(`{"version":"1.0.0"}`), Options{})
	if !errors.Is(err, ast.ErrInterchange) {
		t.Fatalf("error %v, want ErrInterchange", err)
	}
}
