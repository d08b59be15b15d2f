package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Normalize prepares raw bytes read from disk: a leading UTF-8 BOM is always
// removed, CRLF pairs are folded to LF only when crlf is set.
func Normalize(content []byte, crlf bool) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if crlf {
		var hadCRLF bool
		content, hadCRLF = normalizeCRLF(content)
		if hadCRLF {
			flags |= FileNormalizedCRLF
		}
	}
	return content, flags
}

// normalizeCRLF replaces every \r\n with \n and leaves lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLines indexes every non-empty line of content. Empty lines still
// consume a line number. \r\n counts as a single break.
func buildLines(id FileID, content string) []Line {
	lines := make([]Line, 0, strings.Count(content, "\n")+1)
	var number uint32 = 1
	start := 0

	flush := func(end int) {
		if end > start {
			lines = append(lines, Line{
				Content: content[start:end],
				Number:  number,
				Span:    Span{File: id, Start: Offset(start), End: Offset(end)},
			})
		}
		number++
	}

	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		switch r {
		case '\r':
			flush(i)
			if i+1 < len(content) && content[i+1] == '\n' {
				size = 2
			}
			start = i + size
		case '\n', '\v', '\f', '\u0085', '\u2028', '\u2029':
			flush(i)
			start = i + size
		}
		i += size
	}
	if start < len(content) {
		flush(len(content))
	}
	return lines
}

// Offset converts a byte index into a span offset.
func Offset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return off
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
