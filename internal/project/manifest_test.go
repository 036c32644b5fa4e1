package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[pattern]
target = "pcre2"
flags = "ix"

[output]
dir = "build"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Pattern.Target != "pcre2" || m.Output.Dir != "build" {
		t.Fatalf("got %+v", m)
	}
	flags := m.DefaultFlags()
	if !flags.IgnoreCase || !flags.Extended || flags.Multiline {
		t.Fatalf("flags %+v", flags)
	}
}

func TestLoadManifestDefaultsTarget(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[pattern]\nflags = \"m\"\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Pattern.Target != "pcre2" {
		t.Fatalf("target %q", m.Pattern.Target)
	}
}

func TestLoadManifestRejectsBadFlags(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[pattern]\nflags = \"iq\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for flag letter q")
	}
}

func TestLoadManifestRejectsBadTOML(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[pattern\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[pattern]\n")
	nested := filepath.Join(root, "patterns", "auth")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok := Find(nested)
	if !ok {
		t.Fatal("manifest not found from nested dir")
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want file under %q", path, root)
	}
}

func TestFindMiss(t *testing.T) {
	if _, ok := Find(t.TempDir()); ok {
		t.Fatal("found a manifest in an empty temp dir")
	}
}
