package diag

// Severity ranks diagnostics. The lexer itself only reports SevInfo and
// SevWarning: malformed templates still produce a token stream. SevError is
// reserved for templates that could not be loaded at all.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return s <= SevError
}
