// Package errdefs defines the error kinds shared by the materials engine.
//
// Every failure surfaced by the engine is an *Error carrying a Kind. Callers
// branch on the kind with errors.Is against the sentinel values and recover the
// nuclide name (when one applies) with errors.As.
package errdefs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind int

const (
	// KindValidation reports a rejected argument (negative fraction,
	// non-positive density or volume, unknown unit).
	KindValidation Kind = iota + 1
	// KindConfiguration reports missing or inconsistent configuration such as
	// no source for a nuclide or no density when one is required.
	KindConfiguration
	// KindIO reports a file or network read failure.
	KindIO
	// KindParse reports a malformed nuclide dataset.
	KindParse
	// KindResolution reports a source string that cannot be resolved, for
	// example an unknown keyword.
	KindResolution
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindResolution:
		return "resolution"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrIO            = errors.New("io error")
	ErrParse         = errors.New("parse error")
	ErrResolution    = errors.New("resolution error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindConfiguration:
		return ErrConfiguration
	case KindIO:
		return ErrIO
	case KindParse:
		return ErrParse
	case KindResolution:
		return ErrResolution
	default:
		return nil
	}
}

// Error is the concrete error type returned by the engine.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "set_density"
	Nuclide string // nuclide the failure concerns, if any
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Nuclide != "" {
		msg += fmt.Sprintf(" (nuclide %s)", e.Nuclide)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Validation builds a KindValidation error.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// Configuration builds a KindConfiguration error.
func Configuration(op, nuclide, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Op: op, Nuclide: nuclide, Err: fmt.Errorf(format, args...)}
}

// IO wraps err as a KindIO error for nuclide.
func IO(op, nuclide string, err error) error {
	return &Error{Kind: KindIO, Op: op, Nuclide: nuclide, Err: err}
}

// Parse wraps err as a KindParse error for nuclide.
func Parse(op, nuclide string, err error) error {
	return &Error{Kind: KindParse, Op: op, Nuclide: nuclide, Err: err}
}

// Resolution builds a KindResolution error.
func Resolution(op, nuclide, format string, args ...any) error {
	return &Error{Kind: KindResolution, Op: op, Nuclide: nuclide, Err: fmt.Errorf(format, args...)}
}

// WithNuclide attaches a nuclide name to err. Only a bare engine error
// without a nuclide is copied with the name set; wrapped or foreign errors
// are returned unchanged so no outer context is lost.
func WithNuclide(err error, nuclide string) error {
	e, ok := err.(*Error)
	if !ok || e.Nuclide != "" {
		return err
	}
	cp := *e
	cp.Nuclide = nuclide
	return &cp
}

// KindOf returns the kind of err, or 0 if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
