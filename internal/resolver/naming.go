package resolver

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Namer derives canonical PascalCase type names from file and field names.
// Naming is deterministic and idempotent: Name(Name(x)) == Name(x).
type Namer struct {
	stripLeadingU bool
}

// NamerOption configures a Namer.
type NamerOption func(*Namer)

// WithLegacyUPrefixStrip enables the legacy rule that drops a leading "U"
// from filenames before casing. The rule is a convention of one historical
// schema corpus; it is off by default and should stay off for new corpora.
func WithLegacyUPrefixStrip() NamerOption {
	return func(n *Namer) { n.stripLeadingU = true }
}

// NewNamer creates a Namer.
func NewNamer(opts ...NamerOption) *Namer {
	n := &Namer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name converts a raw file or field name to a PascalCase identifier:
// split on "_" and "-", capitalize each segment's first letter,
// concatenate. Input is NFC-normalized first so visually identical names
// bind to one canonical identifier.
func (n *Namer) Name(raw string) string {
	raw = norm.NFC.String(raw)
	var b strings.Builder
	for _, segment := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || r == '-'
	}) {
		runes := []rune(segment)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// NameForFile derives the canonical type name for a document path: the
// base filename with every extension removed ("b.schema.json" names "B"),
// optionally stripped of the legacy "U" prefix, then cased by Name.
func (n *Namer) NameForFile(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if n.stripLeadingU && strings.HasPrefix(base, "U") {
		base = base[1:]
	}
	return n.Name(base)
}
