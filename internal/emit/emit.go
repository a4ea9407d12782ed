// Package emit renders type descriptors into target-language source text.
//
// Emitters are pure over their inputs: a File carries the descriptors in
// emission order plus a read-only name table, and emitters never load
// documents or re-walk pointers. All pointer chasing happened during
// closure discovery; by the time an emitter runs, the resolver's maps are
// immutable.
package emit

import (
	"errors"
	"fmt"

	"github.com/roach88/schemaforge/internal/resolver"
	"github.com/roach88/schemaforge/internal/schema"
)

// ErrUnsupportedLanguage is returned by ForLanguage for unknown names.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language identifies a target language.
type Language string

// Supported target languages.
const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangTypeScript Language = "typescript"
	LangCSharp     Language = "csharp"
)

// Names provides canonical type names for pointers. The resolver
// implements it; emitters only read.
type Names interface {
	CanonicalName(ptr schema.Pointer, from string) (string, error)
	ResolvesToExternal(ptr schema.Pointer, from string) (bool, error)
}

// Import is one external type referenced by a document: the canonical
// type name and the base filename of the document that defines it.
type Import struct {
	Name string
	Base string
}

// File is the unit an emitter renders: one document's descriptors, in
// emission order with the root type last, plus everything needed to name
// foreign types.
type File struct {
	// Path is the normalized path of the source document.
	Path string
	// TypeName is the canonical name of the document's root type.
	TypeName string
	// Descriptors are the types defined by this artifact, root last.
	Descriptors []schema.TypeDescriptor
	// Imports are the external types this document references.
	Imports []Import
	// Names resolves pointer properties to canonical type names.
	Names Names
	// Namer cases property names into type identifiers.
	Namer *resolver.Namer
}

// Options carries per-language emitter settings.
type Options struct {
	Package   string // Go package name
	Namespace string // C# namespace
	Pydantic  bool   // Python: pydantic models instead of dataclasses
}

// Emitter renders one target language.
type Emitter interface {
	Language() Language
	Extension() string
	// ArtifactName converts a schema file base name into the artifact's
	// base name (PascalCase for TypeScript and C#, unchanged otherwise).
	ArtifactName(base string) string
	Emit(f *File, opts Options) (string, error)
}

// ForLanguage returns the emitter for a language name. "dotnet" is an
// accepted alias for "csharp".
func ForLanguage(lang string) (Emitter, error) {
	switch Language(lang) {
	case LangGo:
		return &GoEmitter{}, nil
	case LangPython:
		return &PythonEmitter{}, nil
	case LangTypeScript:
		return &TypeScriptEmitter{}, nil
	case LangCSharp, Language("dotnet"):
		return &CSharpEmitter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// header is the generated-file marker, rendered with the language's line
// comment leader.
func header(comment string) string {
	return comment + " Code generated by schemaforge. DO NOT EDIT."
}
