/*
 * KayoVM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classpath

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeClassFile(t *testing.T, dir, internalName string, content []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(internalName)+".class")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewEmptySpecIsEmptyPath(t *testing.T) {
	p, err := New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Find("anything/At/All"); err != ErrClassNotFound {
		t.Fatalf("expected ErrClassNotFound from an empty path, got %v", err)
	}
}

func TestDirEntryFindsAndMisses(t *testing.T) {
	dir := t.TempDir()
	writeClassFile(t, dir, "com/example/Hello", []byte("cafebabe"))

	p, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Find("com/example/Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "cafebabe" {
		t.Fatalf("expected class bytes %q, got %q", "cafebabe", b)
	}
	if _, err := p.Find("com/example/Missing"); err != ErrClassNotFound {
		t.Fatalf("expected ErrClassNotFound for a missing class, got %v", err)
	}
}

func TestPathSearchesEntriesInOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeClassFile(t, dirA, "Shadowed", []byte("from-a"))
	writeClassFile(t, dirB, "Shadowed", []byte("from-b"))

	p := &Path{}
	if err := p.Add(dirA); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(dirB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.Find("Shadowed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "from-a" {
		t.Fatalf("expected the first matching entry on the path to win, got %q", b)
	}
}

func TestAddRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := &Path{}
	if err := p.Add(txtPath); err == nil {
		t.Fatal("expected an unsupported file extension to be rejected")
	}
}

func buildTestJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJarEntryFindsAtArchiveRoot(t *testing.T) {
	dir := t.TempDir()
	jarPath := filepath.Join(dir, "lib.jar")
	buildTestJar(t, jarPath, map[string][]byte{
		"com/example/Widget.class": []byte("widget-bytes"),
	})

	p := &Path{}
	if err := p.Add(jarPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	b, err := p.Find("com/example/Widget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "widget-bytes" {
		t.Fatalf("expected %q, got %q", "widget-bytes", b)
	}
}

func TestJmodEntryFindsUnderClassesPrefix(t *testing.T) {
	dir := t.TempDir()
	jmodPath := filepath.Join(dir, "java.base.jmod")
	buildTestJar(t, jmodPath, map[string][]byte{
		"classes/java/lang/Object.class": []byte("object-bytes"),
	})

	p := &Path{}
	if err := p.Add(jmodPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	b, err := p.Find("java/lang/Object")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "object-bytes" {
		t.Fatalf("expected %q, got %q", "object-bytes", b)
	}
}

func TestPathCloseUnmapsArchives(t *testing.T) {
	dir := t.TempDir()
	jarPath := filepath.Join(dir, "lib.jar")
	buildTestJar(t, jarPath, map[string][]byte{"A.class": []byte("a")})

	p := &Path{}
	if err := p.Add(jarPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error closing path: %v", err)
	}
}
