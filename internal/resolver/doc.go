// Package resolver chases schema pointers and assigns canonical type names.
//
// A Resolver is created once per generation run. It accumulates state
// monotonically while the document closure is discovered (Resolve,
// AddExternalRef, DiscoverClosure) and is read-only afterward: traversal
// and the emitters only ever ask it for canonical names.
//
// All maps key by the normalized absolute document path. Literal pointer
// text is resolved against the referencing document at every call site
// instead of being kept as a second key, so the same file reached via
// different relative spellings binds exactly once.
package resolver
