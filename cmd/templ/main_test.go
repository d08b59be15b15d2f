package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"templ/internal/config"
	"templ/internal/version"
)

// execute runs the templ command tree with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color=off"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestSplitCommand(t *testing.T) {
	out, _, err := execute(t, "split", `include "a b.html"`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if diff := cmp.Diff("include\n\"a b.html\"\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	out, _, err = execute(t, "split", "--format=json", "if x")
	if err != nil {
		t.Fatalf("split json: %v", err)
	}
	var parts []string
	if err := json.Unmarshal([]byte(out), &parts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"if", "x"}, parts); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format=json", "--hash")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["tool"] != "templ" || payload["version"] != version.Version {
		t.Errorf("unexpected payload %v", payload)
	}
	if _, ok := payload["git_commit"]; !ok {
		t.Errorf("--hash should add git_commit: %v", payload)
	}
	if _, ok := payload["build_date"]; ok {
		t.Errorf("build_date without --date: %v", payload)
	}

	if _, _, err := execute(t, "version", "--format=xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestInitThenTokenize(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "init", "site")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Initialized templ project in site") {
		t.Errorf("unexpected init output %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "site", config.FileName)); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	if _, _, err := execute(t, "init", "site"); err == nil {
		t.Error("second init should refuse to overwrite templ.toml")
	}

	t.Chdir(filepath.Join(dir, "site"))
	out, _, err = execute(t, "tokenize", "--format=json", "missing.html", "index.html")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var tokens []struct {
		Kind     string `json:"kind"`
		Contents string `json:"contents"`
		File     string `json:"file"`
		Line     int    `json:"line"`
	}
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(tokens) != 10 {
		t.Fatalf("expected 10 tokens, got %d", len(tokens))
	}
	if tokens[0].Kind != "Comment" || tokens[0].Contents != "rendered by the site layout" {
		t.Errorf("unexpected first token %+v", tokens[0])
	}
	if tokens[4].Kind != "Block" || tokens[4].Contents != "for item in items" || tokens[4].Line != 3 {
		t.Errorf("unexpected block token %+v", tokens[4])
	}

	if _, _, err := execute(t, "tokenize", "nope.html"); err == nil {
		t.Error("expected a not-found error")
	}
}

func TestTokenizeFileOutsideProject(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("page.html", []byte("hi {% if x"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, errOut, err := execute(t, "tokenize", "--file", "page.html")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if !strings.Contains(out, `Text      "hi " at page.html:1:1`) {
		t.Errorf("unexpected tokens:\n%s", out)
	}
	if !strings.Contains(errOut, "unterminated tag") {
		t.Errorf("expected the unterminated tag warning, got:\n%s", errOut)
	}
}

func TestTokenizeDirJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if _, _, err := execute(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	out, _, err := execute(t, "tokenize-dir", "--ui=off", "--format=json", "--jobs=2")
	if err != nil {
		t.Fatalf("tokenize-dir: %v", err)
	}
	var reports []struct {
		Name        string `json:"name"`
		Tokens      int    `json:"tokens"`
		Diagnostics struct {
			Count int `json:"count"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(reports) != 1 || reports[0].Name != "index.html" || reports[0].Tokens != 10 {
		t.Errorf("unexpected reports %+v", reports)
	}
}

func TestTokenizeDirSummary(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.html": "{{ a }}",
		"b.txt":  "plain",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := execute(t, "tokenize-dir", "--ui=off", dir)
	if err != nil {
		t.Fatalf("tokenize-dir: %v", err)
	}
	if !strings.HasPrefix(out, "2 templates, 2 tokens in ") {
		t.Errorf("unexpected summary %q", out)
	}
}

func TestTokenizeDirMergedDiagnostics(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"b.html": "tail {{ b",
		"a.html": "head {% a",
		"c.html": "{{ ok }}",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	_, errOut, err := execute(t, "tokenize-dir", "--ui=off", dir)
	if err != nil {
		t.Fatalf("tokenize-dir: %v", err)
	}
	if n := strings.Count(errOut, "unterminated tag"); n != 2 {
		t.Fatalf("expected 2 warnings, got %d:\n%s", n, errOut)
	}
	if a, b := strings.Index(errOut, "a.html"), strings.Index(errOut, "b.html"); a < 0 || b < a {
		t.Errorf("warnings must be ordered by template:\n%s", errOut)
	}
}

func TestTokenizeDirClearCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.html"), []byte("{{ a }}"), 0o600); err != nil {
		t.Fatal(err)
	}
	entries := filepath.Join(cacheHome, "templ", "tokens")

	if _, _, err := execute(t, "tokenize-dir", "--ui=off", "--cache", dir); err != nil {
		t.Fatalf("tokenize-dir: %v", err)
	}
	out, _, err := execute(t, "tokenize-dir", "--ui=off", "--cache", dir)
	if err != nil {
		t.Fatalf("tokenize-dir: %v", err)
	}
	if !strings.Contains(out, ", 1 cached") {
		t.Errorf("expected a cache hit, got %q", out)
	}
	if _, err := os.Stat(entries); err != nil {
		t.Fatalf("cache entries missing: %v", err)
	}

	out, _, err = execute(t, "tokenize-dir", "--ui=off", "--clear-cache", dir)
	if err != nil {
		t.Fatalf("tokenize-dir: %v", err)
	}
	if strings.Contains(out, "cached") {
		t.Errorf("cleared run must not hit the cache, got %q", out)
	}
	if _, err := os.Stat(entries); !os.IsNotExist(err) {
		t.Errorf("expected cache entries to be removed, stat: %v", err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected an error")
	}
}

func TestTokenizeWithProfiles(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte("{{ x }}"), 0o600); err != nil {
		t.Fatal(err)
	}
	mem := filepath.Join(dir, "mem.pprof")
	if _, _, err := execute(t, "--mem-profile", mem, "--timings", "tokenize", "--file", page); err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if st, err := os.Stat(mem); err != nil || st.Size() == 0 {
		t.Fatalf("heap profile not written: %v", err)
	}
}

func TestTokenizeTraceOutput(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte("{{ x }}"), 0o600); err != nil {
		t.Fatal(err)
	}
	traceFile := filepath.Join(dir, "trace.ndjson")
	if _, _, err := execute(t, "--trace", traceFile, "--trace-level", "detail", "tokenize", "--file", page); err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	data, err := os.ReadFile(traceFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected trace events, got %q", data)
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first["name"] != "tokenize" {
		t.Errorf("expected the driver span first, got %v", first)
	}
}
