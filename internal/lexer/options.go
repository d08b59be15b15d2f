package lexer

import (
	"templ/internal/diag"
	"templ/internal/source"
)

// Options configure a Lexer.
type Options struct {
	// Reporter receives warnings about degraded input. It may be nil; the token
	// stream is the same either way.
	Reporter diag.Reporter
}

func (lx *Lexer) warn(code diag.Code, sp source.Span, msg string) {
	diag.ReportWarning(lx.opts.Reporter, code, sp, msg).Emit()
}

func (lx *Lexer) info(code diag.Code, sp source.Span, msg string) {
	diag.ReportInfo(lx.opts.Reporter, code, sp, msg).Emit()
}
