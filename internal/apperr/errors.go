package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidPath     = errors.New("invalid path")
	ErrPathNotFound    = errors.New("vault path not found")
	ErrNoProvider      = errors.New("no completion provider configured")
	ErrProviderRequest = errors.New("completion request failed")
)

// FileReadError reports a single vault file that could not be loaded.
// It is never fatal to a walk.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
