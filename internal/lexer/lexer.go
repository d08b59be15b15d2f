package lexer

import (
	"strings"
	"unicode/utf8"

	"templ/internal/diag"
	"templ/internal/source"
	"templ/internal/token"
)

const (
	// tokenChars follow '{' to open a tag.
	tokenChars = "{%#"
	// tagLength is the length of every open and close delimiter.
	tagLength = 2

	variableStart = "{{"
	blockStart    = "{%"
	commentStart  = "{#"
)

// endChar maps a start char to the char preceding '}' in the closing delimiter.
func endChar(start byte) (byte, bool) {
	switch start {
	case '{':
		return '}', true
	case '%':
		return '%', true
	case '#':
		return '#', true
	}
	return 0, false
}

// Lexer turns one template into tokens. It is immutable after New and may be
// used from several goroutines; every Tokenize call runs its own Scanner.
type Lexer struct {
	file *source.File
	opts Options
}

// New creates a lexer for f.
func New(f *source.File, opts Options) *Lexer {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	return &Lexer{file: f, opts: opts}
}

// Tokenize lexes src as a template named name ("" for anonymous).
func Tokenize(src, name string) []*token.Token {
	return New(source.NewFile(name, src), Options{}).Tokenize()
}

// File returns the template being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Equal reports whether both lexers work on the same template text.
func (lx *Lexer) Equal(other *Lexer) bool {
	if lx == nil || other == nil {
		return lx == other
	}
	return lx.file.Content == other.file.Content
}

// Tokenize returns the tokens of the template in source order.
// It never fails: an unterminated tag becomes an empty Text token.
func (lx *Lexer) Tokenize() []*token.Token {
	var tokens []*token.Token

	sc := NewScanner(lx.file)
	// смещения токенов только растут, локатор считает руны один раз
	loc := source.NewLocator(lx.file)
	for !sc.Empty() {
		char, text, ok := sc.ScanForTokenStart(tokenChars)
		if !ok {
			rest := sc.Rest()
			tokens = append(tokens, lx.createToken(loc, rest, sc.Span()))
			break
		}
		if text != "" {
			tokens = append(tokens, lx.createToken(loc, text, sc.Span()))
		}

		end, ok := endChar(char)
		if !ok {
			continue
		}
		raw := sc.ScanForTokenEnd(end)
		if raw == "" {
			lx.warn(diag.LexUnterminatedTag, sc.Span(),
				"unterminated tag: expected `"+string(end)+"}` before end of template")
		}
		tokens = append(tokens, lx.createToken(loc, raw, sc.Span()))
	}

	return tokens
}

// createToken classifies raw and resolves its location through loc. raw is a
// tag with delimiters when it starts with {{, {% or {#, plain text otherwise.
func (lx *Lexer) createToken(loc *source.Locator, raw string, sp source.Span) *token.Token {
	var kind token.Kind
	switch {
	case strings.HasPrefix(raw, variableStart):
		kind = token.Variable
	case strings.HasPrefix(raw, blockStart):
		kind = token.Block
	case strings.HasPrefix(raw, commentStart):
		kind = token.Comment
	default:
		return token.New(token.Text, raw, loc.SourceMap(sp.Start), token.WhitespaceBehaviour{}, sp)
	}

	var ws token.WhitespaceBehaviour
	if kind == token.Block {
		ws = behaviour(raw)
	}
	lead, trail := tagLength, tagLength
	if ws.Leading != token.Unspecified {
		lead++
	}
	if ws.Trailing != token.Unspecified {
		trail++
	}

	value := strip(raw, lead, trail)
	if value == "" {
		lx.info(diag.LexEmptyTag, sp, "empty "+strings.ToLower(kind.String())+" tag")
	}

	// point at the contents when they survived normalisation verbatim
	at := sp.Start
	if value != "" {
		if idx := strings.Index(raw, value); idx >= 0 {
			at += source.Offset(idx)
		}
	}
	return token.New(kind, value, loc.SourceMap(at), ws, sp)
}

// behaviour reads the trim markers right inside a block's delimiters.
func behaviour(raw string) token.WhitespaceBehaviour {
	runes := []rune(raw)
	var ws token.WhitespaceBehaviour
	if tagLength < len(runes) {
		ws.Leading = token.BehaviourFor(runes[tagLength])
	}
	if i := len(runes) - tagLength - 1; i >= 0 {
		ws.Trailing = token.BehaviourFor(runes[i])
	}
	return ws
}

// strip drops lead runes from the front and trail runes from the back of raw,
// then folds the remaining lines into one: every line is trimmed of spaces,
// empty lines are dropped and the rest joined with a single space.
func strip(raw string, lead, trail int) string {
	if utf8.RuneCountInString(raw) <= lead+trail {
		return ""
	}
	inner := raw
	for range lead {
		_, size := utf8.DecodeRuneInString(inner)
		inner = inner[size:]
	}
	for range trail {
		_, size := utf8.DecodeLastRuneInString(inner)
		inner = inner[:len(inner)-size]
	}

	lines := strings.Split(inner, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Trim(line, " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
