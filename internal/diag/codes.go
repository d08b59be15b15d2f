package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo            Code = 1000
	LexUnterminatedTag Code = 1001
	LexEmptyTag        Code = 1002

	// Loader
	LoadInfo             Code = 3000
	LoadTemplateNotFound Code = 3001
	LoadSuspiciousPath   Code = 3002
	LoadIOError          Code = 3003
)

var codePrefix = map[Code]string{
	UnknownCode:          "E",
	LexInfo:              "LEX",
	LexUnterminatedTag:   "LEX",
	LexEmptyTag:          "LEX",
	LoadInfo:             "LOAD",
	LoadTemplateNotFound: "LOAD",
	LoadSuspiciousPath:   "LOAD",
	LoadIOError:          "LOAD",
}

var codeTitle = map[Code]string{
	UnknownCode:          "Unknown error",
	LexInfo:              "Lexical information",
	LexUnterminatedTag:   "Unterminated tag",
	LexEmptyTag:          "Empty tag",
	LoadInfo:             "Loader information",
	LoadTemplateNotFound: "Template not found",
	LoadSuspiciousPath:   "Path outside of template directory",
	LoadIOError:          "Template could not be read",
}

// ID returns the stable identifier, e.g. LEX1001.
func (c Code) ID() string {
	prefix, ok := codePrefix[c]
	if !ok {
		prefix = "E"
	}
	return fmt.Sprintf("%s%04d", prefix, uint16(c))
}

// Title returns a short human readable description of the code.
func (c Code) Title() string {
	if title, ok := codeTitle[c]; ok {
		return title
	}
	return codeTitle[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
