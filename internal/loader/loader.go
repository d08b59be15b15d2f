package loader

import (
	"errors"
	"fmt"
)

// Loader maps a template name to its text. A missing template is reported
// with *TemplateDoesNotExistError; any other error is a real failure.
type Loader interface {
	fmt.Stringer
	Load(name string) (string, error)
}

// MultiLoader is implemented by loaders with their own lookup order for a
// list of names.
type MultiLoader interface {
	Loader
	LoadFirst(names []string) (name, content string, err error)
}

// LoadFirst returns the first of names that l can load. Not-found errors move
// on to the next name; any other error stops the search.
func LoadFirst(l Loader, names []string) (name, content string, err error) {
	if ml, ok := l.(MultiLoader); ok {
		return ml.LoadFirst(names)
	}
	for _, name := range names {
		content, err := l.Load(name)
		if err == nil {
			return name, content, nil
		}
		var missing *TemplateDoesNotExistError
		if errors.As(err, &missing) {
			continue
		}
		return "", "", err
	}
	return "", "", notFound(l, names...)
}
