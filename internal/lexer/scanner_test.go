package lexer

import (
	"testing"

	"templ/internal/source"
)

// helper function to create a scanner over content
func newTestScanner(content string) Scanner {
	return NewScanner(source.NewFile("test.html", content))
}

func TestScanForTokenStart(t *testing.T) {
	sc := newTestScanner("Hello {{ name }}")

	char, text, ok := sc.ScanForTokenStart(tokenChars)
	if !ok {
		t.Fatal("expected a token start")
	}
	if char != '{' {
		t.Errorf("expected '{', got %q", char)
	}
	if text != "Hello " {
		t.Errorf("expected text %q, got %q", "Hello ", text)
	}
	if sp := sc.Span(); sp.Start != 0 || sp.End != 6 {
		t.Errorf("expected span 0-6, got %v", sp)
	}
	if sc.Remaining() != "{{ name }}" {
		t.Errorf("cursor must stop on the brace, remaining %q", sc.Remaining())
	}
}

func TestScanForTokenStartMiss(t *testing.T) {
	sc := newTestScanner("no tags { here } %")

	if _, _, ok := sc.ScanForTokenStart(tokenChars); ok {
		t.Fatal("expected no token start")
	}
	if sc.Remaining() != "no tags { here } %" {
		t.Errorf("cursor must not move on a miss, remaining %q", sc.Remaining())
	}
	if !sc.Span().Empty() {
		t.Errorf("expected empty span, got %v", sc.Span())
	}
	if rest := sc.Rest(); rest != "no tags { here } %" || !sc.Empty() {
		t.Errorf("Rest must consume everything, got %q", rest)
	}
}

func TestScanForTokenStartDelimiterKinds(t *testing.T) {
	for _, tc := range []struct {
		in   string
		char byte
	}{
		{"a{%b", '%'},
		{"a{#b", '#'},
		{"a{{b", '{'},
		{"{{{", '{'},
	} {
		sc := newTestScanner(tc.in)
		char, _, ok := sc.ScanForTokenStart(tokenChars)
		if !ok || char != tc.char {
			t.Errorf("%q: expected %q, got %q (ok=%v)", tc.in, tc.char, char, ok)
		}
	}
}

func TestScanForTokenEnd(t *testing.T) {
	sc := newTestScanner("{% if x %}rest")

	raw := sc.ScanForTokenEnd('%')
	if raw != "{% if x %}" {
		t.Fatalf("expected raw tag, got %q", raw)
	}
	if sp := sc.Span(); sp.Start != 0 || sp.End != 10 {
		t.Errorf("expected span 0-10, got %v", sp)
	}
	if sc.Remaining() != "rest" {
		t.Errorf("unexpected remaining %q", sc.Remaining())
	}
}

func TestScanForTokenEndLiteralBrace(t *testing.T) {
	sc := newTestScanner("{{ '{' }}{{ x }}")

	if raw := sc.ScanForTokenEnd('}'); raw != "{{ '{' }}" {
		t.Fatalf("expected first variable only, got %q", raw)
	}
}

func TestScanForTokenEndUnterminated(t *testing.T) {
	sc := newTestScanner("ab{{ thing")
	if _, _, ok := sc.ScanForTokenStart(tokenChars); !ok {
		t.Fatal("expected a token start")
	}

	raw := sc.ScanForTokenEnd('}')
	if raw != "" {
		t.Errorf("expected empty raw, got %q", raw)
	}
	if !sc.Empty() {
		t.Error("expected the rest to be consumed")
	}
	if sp := sc.Span(); sp.Start != 2 || sp.End != 10 {
		t.Errorf("expected span over the open tag 2-10, got %v", sp)
	}
}

func TestScannerMultibyte(t *testing.T) {
	// "é" is two bytes; offsets stay byte based
	sc := newTestScanner("é{{ x }}")
	_, text, ok := sc.ScanForTokenStart(tokenChars)
	if !ok || text != "é" {
		t.Fatalf("unexpected text %q (ok=%v)", text, ok)
	}
	if sp := sc.Span(); sp.End != 2 {
		t.Errorf("expected span end 2, got %v", sp)
	}
}

func TestBehaviourAndStrip(t *testing.T) {
	ws := behaviour("{%+ if hello -%}")
	if ws.Leading.String() != "keep" || ws.Trailing.String() != "trim" {
		t.Errorf("unexpected behaviour %v", ws)
	}
	if got := strip("{%+ if hello -%}", 3, 3); got != "if hello" {
		t.Errorf("unexpected strip %q", got)
	}
	if got := strip("{%}", 2, 2); got != "" {
		t.Errorf("short tags strip to empty, got %q", got)
	}
	if got := strip("{{ ü }}", 2, 2); got != "ü" {
		t.Errorf("unexpected strip %q", got)
	}
	if got := strip("{%\n  if a\n\n   \n  and b  \n%}", 2, 2); got != "if a and b" {
		t.Errorf("unexpected multi-line strip %q", got)
	}
}
