package token

import (
	"strings"
	"unicode/utf8"
)

const splitSeparator = ' '

// SmartSplit splits s on spaces, keeping quoted runs together and gluing the
// filter, argument and list punctuation (| : ,) to their neighbours:
//
//	SmartSplit(`include 'a b'`)  // ["include", "'a b'"]
//	SmartSplit("name | upper")   // ["name|upper"]
//	SmartSplit("(a)")            // ["(", "a", ")"]
//
// The result depends only on s.
func SmartSplit(s string) []string {
	var (
		word         strings.Builder
		components   []string
		separate     rune = splitSeparator
		singleQuotes int
		doubleQuotes int
	)

	for _, r := range s {
		switch r {
		case '\'':
			singleQuotes++
		case '"':
			doubleQuotes++
		}

		if r == separate {
			if separate != splitSeparator {
				// closing quote of a quoted run
				word.WriteRune(r)
			} else if (singleQuotes%2 == 0 || doubleQuotes%2 == 0) && word.Len() > 0 {
				components = appendWord(components, word.String())
				word.Reset()
			}
			separate = splitSeparator
			continue
		}

		if separate == splitSeparator && (r == '\'' || r == '"') {
			separate = r
		}
		word.WriteRune(r)
	}

	if word.Len() > 0 {
		components = appendWord(components, word.String())
	}
	return components
}

// appendWord adds word to components applying the merge rules. Recursion
// happens only on a strictly shorter word, so depth is bounded by len(word).
func appendWord(components []string, word string) []string {
	if n := len(components); n > 0 {
		last := components[n-1]
		if r, _ := utf8.DecodeLastRuneInString(last); isGlue(r) {
			// "outer, for x in xs": labelled for-loop keeps "for" apart
			if n == 1 && word == "for" {
				return append(components, word)
			}
			components[n-1] = last + word
			return components
		}
		if len(word) == 1 && isGlue(rune(word[0])) {
			components[n-1] = last + word
			return components
		}
	}

	if first, size := utf8.DecodeRuneInString(word); len(word) > size && isParen(first) {
		components = append(components, word[:size])
		return appendWord(components, word[size:])
	}
	if last, size := utf8.DecodeLastRuneInString(word); len(word) > size && isParen(last) {
		components = appendWord(components, word[:len(word)-size])
		return append(components, word[len(word)-size:])
	}
	return append(components, word)
}

func isGlue(r rune) bool {
	return r == ',' || r == '|' || r == ':'
}

func isParen(r rune) bool {
	return r == '(' || r == ')'
}
