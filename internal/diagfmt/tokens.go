package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"templ/internal/source"
	"templ/internal/token"
)

// TokenOutput is the JSON form of a token.
type TokenOutput struct {
	Kind        string   `json:"kind"`
	Contents    string   `json:"contents"`
	File        string   `json:"file,omitempty"`
	Line        uint32   `json:"line"`
	Column      int      `json:"column"` // 1-based, 0 when unknown
	LineContent string   `json:"line_content"`
	Whitespace  string   `json:"whitespace,omitempty"`
	Components  []string `json:"components,omitempty"`
	StartByte   uint32   `json:"start_byte"`
	EndByte     uint32   `json:"end_byte"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате:
//
//	1: Block     "if x" at page.html:1:4 [ws=keep,trim] (components: if | x)
func FormatTokensPretty(w io.Writer, tokens []*token.Token, fs *source.FileSet, opts TokenOpts) error {
	p := newPalette(opts.Color)
	for i, tok := range tokens {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%3d: %s %q at %s",
			i+1,
			p.kind.Sprintf("%-9s", tok.Kind.String()),
			tok.Contents,
			tokenPosition(tok, fs, opts.PathMode))

		if !tok.Whitespace.IsUnspecified() {
			sb.WriteString(p.detail.Sprintf(" [ws=%s]", tok.Whitespace))
		}
		if opts.Components && tok.Kind.IsTag() {
			if comps := tok.Components(); len(comps) > 0 {
				sb.WriteString(p.detail.Sprintf(" (components: %s)", strings.Join(comps, " | ")))
			}
		}
		sb.WriteString("\n")

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func tokenPosition(tok *token.Token, fs *source.FileSet, mode PathMode) string {
	sm := tok.SourceMap
	if sm.Filename != "" {
		sm.Filename = displayPath(sm.Filename, fs, mode)
	}
	return sm.String()
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []*token.Token, fs *source.FileSet, opts TokenOpts) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		loc := tok.SourceMap.Location
		out := TokenOutput{
			Kind:        tok.Kind.String(),
			Contents:    tok.Contents,
			Line:        loc.LineNumber,
			LineContent: loc.LineContent,
			StartByte:   tok.Span.Start,
			EndByte:     tok.Span.End,
		}
		if loc.LineNumber > 0 {
			out.Column = loc.ColumnOffset + 1
		}
		if tok.SourceMap.Filename != "" {
			out.File = displayPath(tok.SourceMap.Filename, fs, opts.PathMode)
		}
		if !tok.Whitespace.IsUnspecified() {
			out.Whitespace = tok.Whitespace.String()
		}
		if opts.Components && tok.Kind.IsTag() {
			out.Components = tok.Components()
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
