package cli

import (
	"errors"

	"github.com/roach88/schemaforge/internal/driver"
	"github.com/roach88/schemaforge/internal/emit"
	"github.com/roach88/schemaforge/internal/loader"
	"github.com/roach88/schemaforge/internal/resolver"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeNotFound        = "E002" // Schema document not found
	ErrCodeParseFailed     = "E003" // Schema document failed to parse
	ErrCodeUnresolved      = "E004" // Pointer target does not exist
	ErrCodeUnsupportedRef  = "E005" // Pointer form not supported
	ErrCodeCyclicAlias     = "E006" // Alias chain re-enters itself
	ErrCodeWriteFailed     = "E007" // Artifact write error
	ErrCodeInvalidLanguage = "E008" // Unknown target language
)

// classifyError maps a domain error onto its CLI error code.
func classifyError(err error) string {
	if loader.IsNotFound(err) {
		return ErrCodeNotFound
	}
	if loader.IsParseError(err) {
		return ErrCodeParseFailed
	}
	if errors.Is(err, emit.ErrUnsupportedLanguage) {
		return ErrCodeInvalidLanguage
	}
	if driver.IsWriteError(err) {
		return ErrCodeWriteFailed
	}

	var rerr *resolver.Error
	if errors.As(err, &rerr) {
		switch rerr.Code {
		case resolver.ErrCodeUnresolvedPointer:
			return ErrCodeUnresolved
		case resolver.ErrCodeUnsupportedReference:
			return ErrCodeUnsupportedRef
		case resolver.ErrCodeCyclicAlias:
			return ErrCodeCyclicAlias
		case resolver.ErrCodeLoadFailed:
			// The wrapped cause is more precise when it is a loader error.
			if loader.IsNotFound(rerr.Err) {
				return ErrCodeNotFound
			}
			if loader.IsParseError(rerr.Err) {
				return ErrCodeParseFailed
			}
			return ErrCodeNotFound
		}
	}
	return ErrCodeGeneric
}

// errorDetails extracts the pointer and document fields carried by a
// resolver error, for the JSON error envelope.
func errorDetails(err error) interface{} {
	var rerr *resolver.Error
	if errors.As(err, &rerr) {
		return map[string]string{
			"pointer":  string(rerr.Pointer),
			"document": rerr.Document,
		}
	}
	return nil
}
