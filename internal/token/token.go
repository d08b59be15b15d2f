package token

import (
	"sync"

	"templ/internal/source"
)

// Token is a classified unit of template text with its source location.
// Tokens are shared by pointer and must not be modified after New.
type Token struct {
	Kind       Kind
	Contents   string
	SourceMap  source.SourceMap
	Whitespace WhitespaceBehaviour
	// Span covers the raw slice including delimiters.
	Span source.Span

	once       sync.Once
	components []string
}

// New constructs a token.
func New(kind Kind, contents string, sm source.SourceMap, ws WhitespaceBehaviour, sp source.Span) *Token {
	return &Token{
		Kind:       kind,
		Contents:   contents,
		SourceMap:  sm,
		Whitespace: ws,
		Span:       sp,
	}
}

// NewText returns a text token.
func NewText(value string, sm source.SourceMap) *Token {
	return &Token{Kind: Text, Contents: value, SourceMap: sm}
}

// NewVariable returns a variable token.
func NewVariable(value string, sm source.SourceMap) *Token {
	return &Token{Kind: Variable, Contents: value, SourceMap: sm}
}

// NewComment returns a comment token.
func NewComment(value string, sm source.SourceMap) *Token {
	return &Token{Kind: Comment, Contents: value, SourceMap: sm}
}

// NewBlock returns a block token.
func NewBlock(value string, sm source.SourceMap, ws WhitespaceBehaviour) *Token {
	return &Token{Kind: Block, Contents: value, SourceMap: sm, Whitespace: ws}
}

// Components returns Contents split with SmartSplit. The split runs once per
// token; later calls return the same slice, which callers must not modify.
func (t *Token) Components() []string {
	t.once.Do(func() {
		t.components = SmartSplit(t.Contents)
	})
	return t.components
}

// Equal compares kind, contents and source map. Whitespace and span are not
// part of token identity.
func (t *Token) Equal(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Kind == other.Kind && t.Contents == other.Contents && t.SourceMap == other.SourceMap
}

func (t *Token) String() string {
	return t.Kind.String() + "(" + t.Contents + ")@" + t.SourceMap.String()
}
