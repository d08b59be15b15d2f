package lexer

import (
	"strings"

	"templ/internal/source"
)

const (
	// tokenStartDelimiter opens every tag: {{, {% and {#.
	tokenStartDelimiter = '{'
	// tokenEndDelimiter closes every tag: }}, %} and #}.
	tokenEndDelimiter = '}'
)

// Scanner is a cursor over the unscanned suffix of a template.
// It belongs to a single Tokenize call and is never shared.
//
// All delimiters are ASCII, so scanning bytes finds exactly the positions
// scanning runes would: UTF-8 continuation bytes never match.
type Scanner struct {
	file *source.File
	off  int
	span source.Span
}

// NewScanner creates a scanner positioned at the start of f.
func NewScanner(f *source.File) Scanner {
	return Scanner{
		file: f,
		span: source.Span{File: f.ID},
	}
}

// Empty reports whether nothing is left to scan.
func (s *Scanner) Empty() bool {
	return s.off >= len(s.file.Content)
}

// Remaining returns the unscanned suffix.
func (s *Scanner) Remaining() string {
	return s.file.Content[s.off:]
}

// Span returns the span of the slice most recently returned.
func (s *Scanner) Span() source.Span {
	return s.span
}

// Rest consumes and returns everything that is left. Span covers the result.
func (s *Scanner) Rest() string {
	rest := s.Remaining()
	s.setSpan(s.off, len(s.file.Content))
	s.off = len(s.file.Content)
	return rest
}

// ScanForTokenStart searches for '{' immediately followed by one of chars.
// On a hit it returns that char and the text before the '{', Span covers that
// text and the cursor stops on the '{'. Otherwise the cursor does not move,
// Span is the empty span at the cursor and ok is false.
func (s *Scanner) ScanForTokenStart(chars string) (char byte, text string, ok bool) {
	content := s.file.Content
	s.setSpan(s.off, s.off)

	sawBrace := false
	for i := s.off; i < len(content); i++ {
		c := content[i]
		if sawBrace && strings.IndexByte(chars, c) >= 0 {
			start := i - 1
			text = content[s.off:start]
			s.setSpan(s.off, start)
			s.off = start
			return c, text, true
		}
		sawBrace = c == tokenStartDelimiter
	}
	return 0, "", false
}

// ScanForTokenEnd searches for end immediately followed by '}' and returns the
// raw tag from the cursor through the '}'. Span covers the returned slice.
// When the input ends first, the rest is consumed, Span covers it and the
// empty string is returned.
func (s *Scanner) ScanForTokenEnd(end byte) string {
	content := s.file.Content

	sawEnd := false
	for i := s.off; i < len(content); i++ {
		c := content[i]
		if sawEnd && c == tokenEndDelimiter {
			raw := content[s.off : i+1]
			s.setSpan(s.off, i+1)
			s.off = i + 1
			return raw
		}
		sawEnd = c == end
	}

	s.setSpan(s.off, len(content))
	s.off = len(content)
	return ""
}

func (s *Scanner) setSpan(start, end int) {
	s.span = source.Span{
		File:  s.file.ID,
		Start: source.Offset(start),
		End:   source.Offset(end),
	}
}
