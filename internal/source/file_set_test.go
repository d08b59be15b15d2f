package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("index.html", "hello world", 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("index.html", "hello universe", 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	if fs.Get(id1).Name != fs.Get(id2).Name {
		t.Errorf("Expected both versions to keep the name %q", fs.Get(id1).Name)
	}

	// старая версия остаётся доступной
	if got := fs.Get(id1).Content; got != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got %q", got)
	}
	if got := fs.Get(id2).Content; got != "hello universe" {
		t.Errorf("Expected second file content to be 'hello universe', got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualFlags(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.html", "a\nb\n")
	file := fs.Get(id)

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.ID != id {
		t.Errorf("Expected file ID %d, got %d", id, file.ID)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	content, flags := Normalize([]byte("a\r\nb\r\n"), true)
	if string(content) != "a\nb\n" {
		t.Errorf("Expected normalized content %q, got %q", "a\nb\n", string(content))
	}
	if flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}

	content, flags = Normalize([]byte("a\r\nb"), false)
	if string(content) != "a\r\nb" {
		t.Errorf("Expected CRLF to be kept, got %q", string(content))
	}
	if flags != 0 {
		t.Errorf("Expected no flags, got %d", flags)
	}

	content, _ = Normalize([]byte("a\rb"), true)
	if string(content) != "a\rb" {
		t.Errorf("Expected lone CR to survive, got %q", string(content))
	}
}

func TestBOMRemoval(t *testing.T) {
	content, flags := Normalize([]byte{0xEF, 0xBB, 0xBF, 'x', '\n'}, false)
	if string(content) != "x\n" {
		t.Errorf("Expected content without BOM %q, got %q", "x\n", string(content))
	}
	if flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFhi\r\n{{ name }}"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load("page.html", path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	file := fs.Get(id)
	if file.Content != "hi\n{{ name }}" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", file.Flags)
	}
	if file.Name != "page.html" {
		t.Errorf("expected name page.html, got %q", file.Name)
	}
	if fs.BaseDir() != dir {
		t.Errorf("expected base dir %q, got %q", dir, fs.BaseDir())
	}

	if _, err := fs.Load("missing.html", filepath.Join(dir, "missing.html"), false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSetLocate(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.html", "first")
	id := fs.AddVirtual("b.html", "x\nsecond")

	loc := fs.Locate(Span{File: id, Start: 4, End: 5})
	want := Location{LineContent: "second", LineNumber: 2, ColumnOffset: 2}
	if loc != want {
		t.Errorf("expected %+v, got %+v", want, loc)
	}
	if loc := fs.Locate(Span{File: 42}); !loc.IsZero() {
		t.Errorf("expected zero location for unknown file, got %+v", loc)
	}
}
