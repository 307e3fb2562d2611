package routetree

import (
	"errors"
	"fmt"
	"strings"
)

// Build error kinds. Use errors.Is to classify a *BuildError.
var (
	ErrInvalidOptions  = errors.New("invalid options")
	ErrPathOutsideRoot = errors.New("path outside root")
	ErrAmbiguousLeaf   = errors.New("ambiguous leaf")
	ErrInvalidPath     = errors.New("invalid path")
)

// BuildError describes why Build rejected its input.
type BuildError struct {
	// Kind is one of the Err* kinds above.
	Kind error

	// File is the input file being processed, if any.
	File string

	// Other is the earlier file that already backs Route (ErrAmbiguousLeaf only).
	Other string

	// Route is the full route path involved, e.g. "/blog/:slug".
	Route string

	// Detail is a human readable explanation.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString("routetree: ")
	b.WriteString(e.Kind.Error())
	if e.File != "" {
		fmt.Fprintf(&b, ": %s", e.File)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *BuildError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
