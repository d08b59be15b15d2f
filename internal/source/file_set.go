package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the templates loaded during one run and hands out stable IDs.
// It is not safe for concurrent mutation; files obtained from it are read-only.
type FileSet struct {
	files   []*File
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates a FileSet whose names are relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]*File, 0),
		baseDir: baseDir,
	}
}

// BaseDir returns the directory names are relative to, or the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a template under name and returns a new FileID.
// It always creates a new FileID even if the name was added before.
func (fileSet *FileSet) Add(name, content string, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalized := name
	if name != "" {
		normalized = normalizePath(name)
	}
	fileSet.files = append(fileSet.files, newFile(id, normalized, content, flags))
	return id
}

// AddVirtual adds an in-memory template with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name, content string) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Load reads path from disk, removes a BOM (and folds CRLF when crlf is set)
// and stores it under name.
func (fileSet *FileSet) Load(name, path string, crlf bool) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(raw, crlf)
	return fileSet.Add(name, string(content), flags), nil
}

// Get returns the file for id.
func (fileSet *FileSet) Get(id FileID) *File {
	return fileSet.files[id]
}

// Len reports how many files were added.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Locate resolves a span start to a location in its file.
func (fileSet *FileSet) Locate(sp Span) Location {
	if int(sp.File) >= len(fileSet.files) {
		return Location{}
	}
	return fileSet.files[sp.File].Locate(sp.Start)
}
