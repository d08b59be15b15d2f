package diagfmt

import (
	"path/filepath"

	"templ/internal/source"
)

// displayPath renders a template name according to mode. Names are relative
// to the FileSet base directory unless already absolute.
func displayPath(name string, fs *source.FileSet, mode PathMode) string {
	if name == "" {
		return "<template>"
	}
	switch mode {
	case PathModeAbsolute, PathModeRelative:
		abs := filepath.FromSlash(name)
		base := ""
		if fs != nil {
			base = fs.BaseDir()
		}
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(base, abs)
		}
		if mode == PathModeAbsolute || base == "" {
			return filepath.ToSlash(abs)
		}
		if rel, err := filepath.Rel(base, abs); err == nil {
			return filepath.ToSlash(rel)
		}
		return filepath.ToSlash(abs)
	case PathModeBasename:
		return filepath.Base(filepath.FromSlash(name))
	default:
		return name
	}
}

// lookup returns the file of id, or nil when fs does not hold it.
func lookup(fs *source.FileSet, id source.FileID) *source.File {
	if fs == nil || int(id) >= fs.Len() {
		return nil
	}
	return fs.Get(id)
}
