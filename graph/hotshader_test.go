package graph

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeShaderFile(t *testing.T, path, source string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestHotShaderLoadsInitialSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.wgsl")
	writeShaderFile(t, path, "// v1")

	shader, err := NewHotShader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer shader.Close()

	if shader.Source() != "// v1" {
		t.Errorf("Source() = %q, want %q", shader.Source(), "// v1")
	}
	if shader.Path() != path {
		t.Errorf("Path() = %q, want %q", shader.Path(), path)
	}
	if shader.CheckReload() {
		t.Error("CheckReload() = true for unchanged file")
	}
}

func TestHotShaderDetectsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.wgsl")
	writeShaderFile(t, path, "// v1")

	shader, err := NewHotShader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer shader.Close()

	writeShaderFile(t, path, "// v2")
	// The mtime fallback needs the clock to move past the original write.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	if !shader.CheckReload() {
		t.Fatal("CheckReload() = false after rewrite")
	}
	if shader.Source() != "// v2" {
		t.Errorf("Source() = %q, want %q", shader.Source(), "// v2")
	}

	if shader.CheckReload() {
		t.Error("CheckReload() = true on second call with no further change")
	}
}

func TestHotShaderMissingFile(t *testing.T) {
	if _, err := NewHotShader(filepath.Join(t.TempDir(), "missing.wgsl")); err == nil {
		t.Fatal("NewHotShader() on missing file returned nil error")
	}
}

func TestHotShaderDeletedFileKeepsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.wgsl")
	writeShaderFile(t, path, "// v1")

	shader, err := NewHotShader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer shader.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	if shader.CheckReload() {
		t.Error("CheckReload() = true after file deleted")
	}
	if shader.Source() != "// v1" {
		t.Errorf("Source() = %q, want last-good source", shader.Source())
	}
}
