package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"templ/internal/source"
)

// FileSystemLoader serves templates from files under one or more base
// directories, searched in order.
type FileSystemLoader struct {
	Paths []string
	// NormalizeNewlines rewrites CRLF to LF after reading. A UTF-8 BOM is
	// always removed.
	NormalizeNewlines bool
}

// NewFileSystemLoader returns a loader over paths.
func NewFileSystemLoader(paths ...string) *FileSystemLoader {
	return &FileSystemLoader{Paths: paths}
}

func (l *FileSystemLoader) String() string {
	return fmt.Sprintf("FileSystemLoader(%v)", l.Paths)
}

func (l *FileSystemLoader) Load(name string) (string, error) {
	_, content, err := l.LoadFirst([]string{name})
	return content, err
}

// LoadFirst searches every base path for every name, paths first. A name
// that escapes its base path aborts the search with
// *SuspiciousFileOperationError.
func (l *FileSystemLoader) LoadFirst(names []string) (name, content string, err error) {
	for _, base := range l.Paths {
		for _, name := range names {
			path, err := SafeJoin(base, name)
			if err != nil {
				return "", "", err
			}
			content, ok, err := l.read(path)
			if err != nil {
				return "", "", fmt.Errorf("load template %q: %w", name, err)
			}
			if ok {
				return name, content, nil
			}
		}
	}
	return "", "", notFound(l, names...)
}

func (l *FileSystemLoader) read(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		// a directory with a template's name is not a template
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return "", false, nil
		}
		return "", false, err
	}
	data, _ = source.Normalize(data, l.NormalizeNewlines)
	return string(data), true, nil
}

// SafeJoin joins name onto base and rejects results outside base. Absolute
// names are rejected too.
func SafeJoin(base, name string) (string, error) {
	cleanBase := filepath.Clean(base)
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", &SuspiciousFileOperationError{Base: cleanBase, Path: filepath.Clean(name)}
	}
	joined := filepath.Join(cleanBase, filepath.FromSlash(name))
	if !within(cleanBase, joined) {
		return "", &SuspiciousFileOperationError{Base: cleanBase, Path: joined}
	}
	return joined, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
