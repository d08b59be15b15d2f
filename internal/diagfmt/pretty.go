package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"templ/internal/diag"
	"templ/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  <line> | <source line>
//	         |     ^~~~
//
// затем Notes в том же формате. Ширина подчёркивания считается в колонках
// терминала (runewidth), так что широкие символы не сдвигают каретку.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sevColor := p.severity(d.Severity)
		loc, file := resolve(fs, d.Primary)

		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(header(file, loc, fs, opts.PathMode)),
			sevColor.Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		writeSnippet(w, file, d.Primary, loc, sevColor, p)

		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			noteLoc, noteFile := resolve(fs, note.Span)
			fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				header(noteFile, noteLoc, fs, opts.PathMode),
				note.Msg)
			writeSnippet(w, noteFile, note.Span, noteLoc, p.note, p)
		}
	}
}

func resolve(fs *source.FileSet, sp source.Span) (source.Location, *source.File) {
	file := lookup(fs, sp.File)
	if file == nil {
		return source.Location{}, nil
	}
	return fs.Locate(sp), file
}

func header(file *source.File, loc source.Location, fs *source.FileSet, mode PathMode) string {
	name := "<unknown>"
	if file != nil {
		name = displayPath(file.Name, fs, mode)
	}
	if loc.IsZero() {
		return name
	}
	return fmt.Sprintf("%s:%d:%d", name, loc.LineNumber, loc.ColumnOffset+1)
}

func writeSnippet(w io.Writer, file *source.File, sp source.Span, loc source.Location, caret *color.Color, p palette) {
	if file == nil || loc.IsZero() {
		return
	}
	lineNo := fmt.Sprintf("%d", loc.LineNumber)
	gutter := strings.Repeat(" ", len(lineNo))

	fmt.Fprintf(w, "  %s %s %s\n", p.gutter.Sprint(lineNo), p.gutter.Sprint("|"), loc.LineContent)

	prefix := runePrefix(loc.LineContent, loc.ColumnOffset)
	rest := loc.LineContent[len(prefix):]
	underlined := rest
	if n := int(sp.Len()); n < len(rest) {
		underlined = rest[:n]
		// не режем UTF-8 последовательность посередине
		for len(underlined) > 0 && !utf8.ValidString(underlined) {
			underlined = underlined[:len(underlined)-1]
		}
	}
	width := max(runewidth.StringWidth(underlined), 1)
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	mark := "^" + strings.Repeat("~", width-1)

	fmt.Fprintf(w, "  %s %s %s%s\n", gutter, p.gutter.Sprint("|"), pad, caret.Sprint(mark))
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return s[:i]
}

type palette struct {
	err, warn, info      *color.Color
	path, code, note     *color.Color
	gutter, kind, detail *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		path:   color.New(color.Bold),
		code:   color.New(color.FgMagenta),
		note:   color.New(color.FgBlue),
		gutter: color.New(color.FgBlue, color.Faint),
		kind:   color.New(color.FgGreen),
		detail: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.code, p.note, p.gutter, p.kind, p.detail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}
