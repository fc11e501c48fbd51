// Package qserr defines the error taxonomy shared across qs's packages.
package qserr

import "fmt"

// Kind classifies an error by which subsystem raised it and whether it is
// fatal to the current run or scoped to a single file.
type Kind string

const (
	// NotInRepo means discover walked to the filesystem root without
	// finding a .qs state directory.
	NotInRepo Kind = "not_in_repo"
	// AlreadyInitialized means init was called on a repo that already
	// has a .qs directory.
	AlreadyInitialized Kind = "already_initialized"
	// Config covers malformed or inconsistent configuration.
	Config Kind = "config"
	// Storage covers vector store open/upsert/search/flush failures.
	Storage Kind = "storage"
	// Embedding covers embedder failures; fatal to the file, not the run.
	Embedding Kind = "embedding"
	// Index covers indexer-level failures (walker start-up, manifest I/O).
	Index Kind = "index"
	// Io covers filesystem errors not otherwise classified.
	Io Kind = "io"
	// Serialization covers JSON encode/decode failures.
	Serialization Kind = "serialization"
)

// Error is a qs error: a Kind plus a human-readable one-line message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind that wraps an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a qs *Error of the given kind.
func Is(err error, kind Kind) bool {
	qe, ok := err.(*Error)
	if !ok {
		return false
	}
	return qe.Kind == kind
}
