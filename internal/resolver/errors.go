package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/schemaforge/internal/schema"
)

// Error represents a failure detected while resolving a pointer.
//
// Resolution errors abort generation of the enclosing document. They carry
// the offending pointer and the document that referenced it so the driver
// can report both.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Pointer is the offending pointer text as written.
	Pointer schema.Pointer

	// Document is the normalized path of the referencing document.
	Document string

	// Err is the underlying error, if any (loader failures).
	Err error
}

// ErrorCode categorizes resolution errors.
type ErrorCode string

const (
	// ErrCodeUnresolvedPointer indicates a local pointer with no matching
	// definition, or an external pointer that was never registered.
	ErrCodeUnresolvedPointer ErrorCode = "UNRESOLVED_POINTER"

	// ErrCodeUnsupportedReference indicates a pointer that is neither
	// "#/definitions/<name>" nor a relative file path.
	ErrCodeUnsupportedReference ErrorCode = "UNSUPPORTED_REFERENCE"

	// ErrCodeCyclicAlias indicates an alias chain revisited a definition
	// already in progress.
	ErrCodeCyclicAlias ErrorCode = "CYCLIC_ALIAS"

	// ErrCodeLoadFailed wraps a loader failure (missing or malformed
	// external document). The underlying NotFoundError/ParseError stays
	// matchable through errors.As.
	ErrCodeLoadFailed ErrorCode = "LOAD_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pointer != "" && e.Document != "" {
		return fmt.Sprintf("%s: %s (pointer=%s, document=%s)", e.Code, e.Message, e.Pointer, e.Document)
	}
	if e.Pointer != "" {
		return fmt.Sprintf("%s: %s (pointer=%s)", e.Code, e.Message, e.Pointer)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// IsUnresolvedPointer returns true for unresolved pointer errors.
// Uses errors.As to handle wrapped errors.
func IsUnresolvedPointer(err error) bool { return hasCode(err, ErrCodeUnresolvedPointer) }

// IsUnsupportedReference returns true for unsupported reference errors.
func IsUnsupportedReference(err error) bool { return hasCode(err, ErrCodeUnsupportedReference) }

// IsCyclicAlias returns true for alias cycle errors.
func IsCyclicAlias(err error) bool { return hasCode(err, ErrCodeCyclicAlias) }

func hasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewUnresolvedPointerError creates an Error for a pointer that matched no
// definition or binding.
func NewUnresolvedPointerError(ptr schema.Pointer, document string) *Error {
	return &Error{
		Code:     ErrCodeUnresolvedPointer,
		Message:  "pointer does not resolve to a definition",
		Pointer:  ptr,
		Document: document,
	}
}

// NewUnsupportedReferenceError creates an Error for an unrecognized pointer
// form.
func NewUnsupportedReferenceError(ptr schema.Pointer, document string) *Error {
	return &Error{
		Code:     ErrCodeUnsupportedReference,
		Message:  "unsupported reference format",
		Pointer:  ptr,
		Document: document,
	}
}

// NewCyclicAliasError creates an Error for an alias chain that revisited a
// definition.
func NewCyclicAliasError(chain []string, ptr schema.Pointer, document string) *Error {
	return &Error{
		Code:     ErrCodeCyclicAlias,
		Message:  fmt.Sprintf("alias chain revisits a definition: %s", strings.Join(chain, " -> ")),
		Pointer:  ptr,
		Document: document,
	}
}
