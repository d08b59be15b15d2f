package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTemplateNotFound matches *TemplateDoesNotExistError with errors.Is.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrSuspiciousPath matches *SuspiciousFileOperationError with errors.Is.
	ErrSuspiciousPath = errors.New("suspicious file operation")
)

// TemplateDoesNotExistError reports that none of Names could be loaded.
type TemplateDoesNotExistError struct {
	Names  []string
	Loader string
}

func (e *TemplateDoesNotExistError) Error() string {
	names := strings.Join(e.Names, ", ")
	if e.Loader == "" {
		return fmt.Sprintf("template named `%s` does not exist", names)
	}
	return fmt.Sprintf("template named `%s` does not exist in loader %s", names, e.Loader)
}

func (e *TemplateDoesNotExistError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// SuspiciousFileOperationError reports a name that resolves outside its base path.
type SuspiciousFileOperationError struct {
	Base string
	Path string
}

func (e *SuspiciousFileOperationError) Error() string {
	return fmt.Sprintf("path `%s` is located outside of base path `%s`", e.Path, e.Base)
}

func (e *SuspiciousFileOperationError) Is(target error) bool {
	return target == ErrSuspiciousPath
}

func notFound(l Loader, names ...string) error {
	return &TemplateDoesNotExistError{Names: names, Loader: l.String()}
}
