package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/filerouter/pkg/routegen"
	"github.com/vango-dev/filerouter/pkg/routetree"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoute    Category = "route"
	CategoryGenerate Category = "generate"
	CategoryConfig   Category = "config"
	CategoryIO       Category = "io"
	CategoryCLI      Category = "cli"
)

// FilerouterError is a structured error with a code, suggestion and documentation.
type FilerouterError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// File is the file the error is about, if any.
	File string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FilerouterError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FilerouterError) Unwrap() error {
	return e.Wrapped
}

// WithFile sets the file the error refers to.
func (e *FilerouterError) WithFile(file string) *FilerouterError {
	e.File = file
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FilerouterError) WithSuggestion(s string) *FilerouterError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *FilerouterError) WithDetail(d string) *FilerouterError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FilerouterError) Wrap(err error) *FilerouterError {
	e.Wrapped = err
	return e
}

// New creates a FilerouterError from a registered error code.
func New(code string) *FilerouterError {
	template, ok := registry[code]
	if !ok {
		return &FilerouterError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FilerouterError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new FilerouterError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FilerouterError {
	return &FilerouterError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FilerouterError.
func FromError(err error, code string) *FilerouterError {
	if err == nil {
		return nil
	}
	var fe *FilerouterError
	if stderrors.As(err, &fe) {
		return fe
	}
	return New(code).WithDetail(err.Error()).Wrap(err)
}

// FromRouteError classifies an error returned by routetree.Build or
// routegen.Generate. Unknown errors are returned as E103.
func FromRouteError(err error) *FilerouterError {
	if err == nil {
		return nil
	}
	var fe *FilerouterError
	if stderrors.As(err, &fe) {
		return fe
	}

	var be *routetree.BuildError
	stderrors.As(err, &be)

	switch {
	case stderrors.Is(err, routetree.ErrInvalidOptions):
		return New("E100").
			WithDetail(detailOf(be, err)).
			WithSuggestion(`Set "root" to the pages directory and list at least one extension in filerouter.json`).
			Wrap(err)

	case stderrors.Is(err, routetree.ErrPathOutsideRoot):
		return New("E101").
			WithFile(fileOf(be)).
			WithDetail(detailOf(be, err)).
			WithSuggestion(`Move the file under the pages root or adjust "root"`).
			Wrap(err)

	case stderrors.Is(err, routetree.ErrAmbiguousLeaf):
		return New("E102").
			WithFile(fileOf(be)).
			WithDetail(detailOf(be, err)).
			WithSuggestion(`Remove one of the files, or set "duplicates": "last-wins" to keep the later one`).
			Wrap(err)

	case stderrors.Is(err, routetree.ErrInvalidPath):
		return New("E104").
			WithFile(fileOf(be)).
			WithDetail(detailOf(be, err)).
			WithSuggestion("Rename the file using UTF-8 characters only").
			Wrap(err)

	case stderrors.Is(err, routegen.ErrInvalidPrefix):
		return New("E120").WithDetail(err.Error()).Wrap(err)

	default:
		return New("E103").WithDetail(err.Error()).Wrap(err)
	}
}

func fileOf(be *routetree.BuildError) string {
	if be == nil {
		return ""
	}
	return be.File
}

func detailOf(be *routetree.BuildError, err error) string {
	if be != nil && be.Detail != "" {
		return be.Detail
	}
	return err.Error()
}
