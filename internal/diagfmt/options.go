package diagfmt

// PathMode specifies how template names are displayed.
type PathMode uint8

const (
	// PathModeAuto prints names as they were loaded.
	PathModeAuto PathMode = iota
	// PathModeAbsolute resolves names against the FileSet base directory.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// TokenOpts configures token listings.
type TokenOpts struct {
	Color      bool
	PathMode   PathMode
	Components bool // print SmartSplit components of tags
}
