package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"templ/internal/diag"
	"templ/internal/loader"
	"templ/internal/observ"
	"templ/internal/source"
	"templ/internal/token"
	"templ/internal/trace"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

var tokenOpts = cmpopts.IgnoreUnexported(token.Token{})

func TestTokenizeThroughLoader(t *testing.T) {
	l := loader.NewDictionaryLoader(map[string]string{
		"base.html": "Hi {{ name }}{% if x %}",
	})
	timer := observ.NewTimer()

	res, err := Tokenize(context.Background(), l, []string{"missing.html", "base.html"}, Options{Timer: timer})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Name != "base.html" {
		t.Errorf("expected base.html, got %q", res.Name)
	}
	if len(res.Tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(res.Tokens))
	}
	if res.Tokens[1].SourceMap.Filename != "base.html" {
		t.Errorf("unexpected filename %q", res.Tokens[1].SourceMap.Filename)
	}
	if n := len(timer.Report().Phases); n != 2 {
		t.Errorf("expected load and lex phases, got %d", n)
	}
}

func TestTokenizeNotFound(t *testing.T) {
	_, err := Tokenize(context.Background(), loader.NewDictionaryLoader(nil), []string{"a"}, Options{})
	if !errors.Is(err, loader.ErrTemplateNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTokenizeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", "\xEF\xBB\xBFa {{ b }}\r\n{{ c")

	res, err := TokenizeFile(context.Background(), filepath.Join(dir, "page.html"), Options{NormalizeNewlines: true})
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Tokens[0].Contents != "a " {
		t.Errorf("expected BOM removed, got %q", res.Tokens[0].Contents)
	}
	if res.Tokens[2].Contents != "\n" {
		t.Errorf("expected CRLF folded, got %q", res.Tokens[2].Contents)
	}
	if !res.Bag.HasWarnings() {
		t.Error("expected an unterminated tag warning")
	}

	if _, err := TokenizeFile(context.Background(), filepath.Join(dir, "nope.html"), Options{}); err == nil {
		t.Error("expected error for a missing file")
	}
}

// recordingSink collects progress events.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) count(status Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Status == status {
			n++
		}
	}
	return n
}

func TestTokenizeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.html", "{{ b }}")
	writeFile(t, dir, "a.html", "a")
	writeFile(t, dir, "nested/c.TMPL", "{% c %}")
	writeFile(t, dir, "skip.go", "package x")

	sink := &recordingSink{}
	fileSet, results, err := TokenizeDir(context.Background(), dir, Options{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("tokenize dir: %v", err)
	}

	var names []string
	for _, res := range results {
		names = append(names, res.Name)
	}
	if diff := cmp.Diff([]string{"a.html", "b.html", "nested/c.TMPL"}, names); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	listed, err := ListTemplates(dir, Options{})
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if diff := cmp.Diff(names, listed); diff != "" {
		t.Errorf("ListTemplates mismatch (-dir +list):\n%s", diff)
	}
	if fileSet.Len() != 3 {
		t.Errorf("expected 3 files in the set, got %d", fileSet.Len())
	}
	if results[2].Tokens[0].Kind != token.Block {
		t.Errorf("unexpected token %v", results[2].Tokens[0])
	}
	if sink.count(StatusQueued) != 3 || sink.count(StatusDone) != 3 {
		t.Errorf("unexpected events %+v", sink.events)
	}
}

func TestTokenizeDirLoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.html", "ok")
	if err := os.Symlink(filepath.Join(dir, "gone.html"), filepath.Join(dir, "dangling.html")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	sink := &recordingSink{}
	_, results, err := TokenizeDir(context.Background(), dir, Options{Progress: sink})
	if err != nil {
		t.Fatalf("tokenize dir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	broken := results[0]
	if broken.Name != "dangling.html" || broken.File != nil {
		t.Fatalf("unexpected result %+v", broken)
	}
	items := broken.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LoadTemplateNotFound {
		t.Fatalf("expected a not-found diagnostic, got %+v", items)
	}
	if f := broken.FileSet.Get(items[0].Primary.File); f.Name != "dangling.html" {
		t.Errorf("diagnostic must point at the broken template, got %q", f.Name)
	}
	if sink.count(StatusError) != 1 {
		t.Errorf("expected one error event")
	}
}

func TestReportLoadError(t *testing.T) {
	tests := []struct {
		err   error
		code  diag.Code
		notes int
	}{
		{&loader.TemplateDoesNotExistError{Names: []string{"a.html"}}, diag.LoadTemplateNotFound, 0},
		{&loader.SuspiciousFileOperationError{Base: "/t", Path: "/etc/passwd"}, diag.LoadSuspiciousPath, 1},
		{os.ErrPermission, diag.LoadIOError, 0},
	}
	for _, tt := range tests {
		bag := diag.NewBag(4)
		reportLoadError(diag.BagReporter{Bag: bag}, 3, "a.html", tt.err)
		if bag.Len() != 1 {
			t.Fatalf("expected one diagnostic for %v, got %d", tt.err, bag.Len())
		}
		d := bag.Items()[0]
		if d.Code != tt.code || d.Severity != diag.SevError || len(d.Notes) != tt.notes {
			t.Errorf("unexpected diagnostic for %v: %+v", tt.err, d)
		}
		if d.Primary.File != 3 || !strings.HasPrefix(d.Message, "failed to load a.html: ") {
			t.Errorf("unexpected primary or message: %+v", d)
		}
	}
}

func TestTokenizeDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := TokenizeDir(ctx, dir, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTokenizeDirEmpty(t *testing.T) {
	_, results, err := TokenizeDir(context.Background(), t.TempDir(), Options{})
	if err != nil || len(results) != 0 {
		t.Fatalf("expected no results, got %d (%v)", len(results), err)
	}
}

func TestTokenizeTraced(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)

	l := loader.NewDictionaryLoader(map[string]string{"t": "x {{ y }}"})
	if _, err := Tokenize(ctx, l, []string{"t"}, Options{}); err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"load", "file:t", "Variable (y)"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q:\n%s", want, out)
		}
	}
}

func TestTokenCacheRoundTrip(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	l := loader.NewDictionaryLoader(map[string]string{"t.html": "a\n{%+ if b -%}{{ }}{# c"})
	opts := Options{Cache: cache}

	first, err := Tokenize(context.Background(), l, []string{"t.html"}, opts)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if first.Cached {
		t.Fatal("first run must miss")
	}

	second, err := Tokenize(context.Background(), l, []string{"t.html"}, opts)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if !second.Cached {
		t.Fatal("second run must hit")
	}
	if diff := cmp.Diff(first.Tokens, second.Tokens, tokenOpts); diff != "" {
		t.Errorf("cached tokens differ (-fresh +cached):\n%s", diff)
	}
	if diff := cmp.Diff(first.Bag.Items(), second.Bag.Items()); diff != "" {
		t.Errorf("cached diagnostics differ (-fresh +cached):\n%s", diff)
	}
}

func TestDecodePayloadRejectsCorruptEntries(t *testing.T) {
	file := source.NewFile("t.html", "{{ a }}")
	bad := &tokenPayload{
		Schema: tokenCacheSchemaVersion,
		Name:   "t.html",
		Tokens: []CachedToken{{Kind: 1, Contents: "a", Start: 0, End: 99}},
	}
	if _, _, err := decodePayload(file, bad); err == nil {
		t.Error("expected an error for a span past the end of the file")
	}

	bad = &tokenPayload{
		Schema:      tokenCacheSchemaVersion,
		Name:        "t.html",
		Diagnostics: []CachedDiagnostic{{Severity: 42, Start: 0, End: 1}},
	}
	if _, _, err := decodePayload(file, bad); err == nil {
		t.Error("expected an error for an unknown severity")
	}
}

func TestTokenCacheKeyedByContent(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := Options{Cache: cache}

	if _, err := Tokenize(context.Background(), loader.NewDictionaryLoader(map[string]string{"t": "{{ a }}"}), []string{"t"}, opts); err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	res, err := Tokenize(context.Background(), loader.NewDictionaryLoader(map[string]string{"t": "{{ b }}"}), []string{"t"}, opts)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if res.Cached || res.Tokens[0].Contents != "b" {
		t.Errorf("changed content must miss the cache, got %v (cached=%v)", res.Tokens, res.Cached)
	}

	if CacheKey("a", "bc") == CacheKey("ab", "c") {
		t.Error("name and content must not run together in the key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("second drop: %v", err)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultCacheDir("templ")
	if err != nil {
		t.Fatalf("cache dir: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "templ") {
		t.Errorf("unexpected dir %q", dir)
	}
}
