package source

import "fmt"

// SourceMap ties a token to the template it came from.
// Two source maps are equal when every field is equal.
type SourceMap struct {
	Filename string
	Location Location
}

// Unknown is the source map of a token with no resolvable position.
var Unknown = SourceMap{}

// String renders the source map as name:line:column with a 1-based column.
func (m SourceMap) String() string {
	name := m.Filename
	if name == "" {
		name = "<template>"
	}
	if m.Location.LineNumber == 0 {
		return name
	}
	return fmt.Sprintf("%s:%d:%d", name, m.Location.LineNumber, m.Location.ColumnOffset+1)
}
