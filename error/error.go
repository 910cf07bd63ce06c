// Package error defines the error kinds the GSL dispatcher reports.
package error

import "fmt"

// Kind identifies why a parse call failed.
type Kind int

const (
	// OK means no error occurred. Dispatcher functions never return a
	// non-nil *Error with Kind OK; it exists so a zero Error is meaningful
	// in aggregate/table-driven test data.
	OK Kind = iota

	// Fail means the input ended before a closing brace was seen.
	Fail

	// Limit means a name or value exceeded a configured ceiling.
	Limit

	// NoMatch means a tag had no named spec, no validator, or a record
	// closed with nothing fired and no default spec.
	NoMatch

	// Format means a structural violation: empty tag, mismatched brace,
	// empty terminal, brace inside a terminal value, and so on.
	Format

	// Exists means a spec fired twice within one record.
	Exists

	// External means a callback supplied by the caller returned an error;
	// Cause (and, where the callback used an integer code, ExtCode) carry
	// it through unchanged.
	External
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case Fail:
		return "fail"
	case Limit:
		return "limit"
	case NoMatch:
		return "no_match"
	case Format:
		return "format"
	case Exists:
		return "exists"
	case External:
		return "external"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the error type every dispatch/spec/size function returns.
//
// Offset is the byte position of the offending token for Fail, Limit,
// NoMatch, Format and Exists; for External it is the position of the
// field whose callback failed.
type Error struct {
	Kind   Kind
	Offset int
	Cause  error

	// ExtCode carries an external callback's integer error code, for
	// callers migrating a C-style convention. Zero if unused.
	ExtCode int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %v: %v", e.Offset, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%d: %v", e.Offset, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns a plain *Error of the given kind at the given offset.
func New(kind Kind, offset int) *Error {
	return &Error{Kind: kind, Offset: offset}
}

// Wrap returns an *Error of the given kind carrying cause.
func Wrap(kind Kind, offset int, cause error) *Error {
	return &Error{Kind: kind, Offset: offset, Cause: cause}
}

// NewExternal returns an External error wrapping a callback's Go error.
func NewExternal(offset int, cause error) *Error {
	return &Error{Kind: External, Offset: offset, Cause: cause}
}

// ExternalCode returns an External error carrying a callback's integer
// error code instead of (or alongside) a Go error, matching the original
// C library's gsl_EXTERNAL high-bit convention.
func ExternalCode(offset int, code int, cause error) *Error {
	return &Error{Kind: External, Offset: offset, Cause: cause, ExtCode: code}
}
