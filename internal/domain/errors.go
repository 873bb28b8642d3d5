package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRunNotFound         = errors.New("parse run not found")
	ErrDeviceNotFound      = errors.New("device not found in parse run")
	ErrNoResults           = errors.New("no results available")
	ErrRunFailed           = errors.New("parse run has no tables")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrCatalogLoad         = errors.New("component catalog could not be loaded")
	ErrDrawingRead         = errors.New("drawing could not be read")
	ErrInvalidIODevice     = errors.New("io device number must be non-negative")
	ErrDrawingNotArchived  = errors.New("drawing was not archived")
	ErrRunModified         = errors.New("parse run was modified concurrently")
)

// CatalogLoadError aborts a parse before any entity is processed.
type CatalogLoadError struct {
	Source string
	Err    error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("loading component catalog %s: %v", e.Source, e.Err)
}

func (e *CatalogLoadError) Unwrap() []error { return []error{ErrCatalogLoad, e.Err} }

// DrawingReadError means the drawing itself is unreadable; no partial
// inventory is produced. Line is 0 when the reader could not tell.
type DrawingReadError struct {
	SourceFile string
	Line       int
	Err        error
}

func (e *DrawingReadError) Error() string {
	return fmt.Sprintf("reading drawing %s: %v", e.SourceFile, e.Err)
}

func (e *DrawingReadError) Unwrap() []error { return []error{ErrDrawingRead, e.Err} }
