package schema

import "strings"

// localPrefix is the only supported fragment form for local pointers.
const localPrefix = "#/definitions/"

// Pointer identifies a schema fragment. It is either local
// ("#/definitions/Name") or external (a relative file path to another
// document). The literal string as written is the pointer's identity.
type Pointer string

// IsLocal reports whether the pointer targets a definition of the current
// document.
func (p Pointer) IsLocal() bool {
	return strings.HasPrefix(string(p), localPrefix)
}

// IsExternal reports whether the pointer is a relative path to another
// document.
func (p Pointer) IsExternal() bool {
	return p != "" && !strings.HasPrefix(string(p), "#")
}

// LocalName returns the definition name of a local pointer, or "" when the
// pointer is not local.
func (p Pointer) LocalName() string {
	if !p.IsLocal() {
		return ""
	}
	return string(p[len(localPrefix):])
}

// LocalPointer builds the local pointer for a definition name.
func LocalPointer(name string) Pointer {
	return Pointer(localPrefix + name)
}
