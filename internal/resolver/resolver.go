package resolver

import (
	"path/filepath"

	"github.com/roach88/schemaforge/internal/loader"
	"github.com/roach88/schemaforge/internal/schema"
)

// Resolver resolves pointers against the document cache and assigns one
// canonical name per distinct schema document.
type Resolver struct {
	rootPath string
	cache    *loader.Cache
	namer    *Namer

	// docs maps normalized path -> loaded document root.
	docs map[string]*schema.Node

	// bindings maps normalized path -> canonical type binding. This is the
	// single source of truth for external names; literal pointer text is
	// never a key.
	bindings map[string]schema.TypeBinding

	// aliases records local definitions whose entire body is a bare
	// pointer: they are re-exports, not types.
	aliases map[string]schema.Pointer

	// externalOrder is the first-load order of external documents, which
	// fixes the artifact emission order.
	externalOrder []string
}

// New creates a Resolver for one run, rooted at the document loaded from
// rootPath.
func New(rootPath string, root *schema.Node, cache *loader.Cache, namer *Namer) (*Resolver, error) {
	key, err := loader.Normalize(rootPath)
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		rootPath: key,
		cache:    cache,
		namer:    namer,
		docs:     map[string]*schema.Node{key: root},
		bindings: make(map[string]schema.TypeBinding),
		aliases:  make(map[string]schema.Pointer),
	}
	return r, nil
}

// RootPath returns the normalized path of the root document.
func (r *Resolver) RootPath() string { return r.rootPath }

// Namer returns the resolver's canonical namer.
func (r *Resolver) Namer() *Namer { return r.namer }

// Document returns the loaded document at the normalized path, or nil.
func (r *Resolver) Document(path string) *schema.Node { return r.docs[path] }

// Resolve resolves a pointer against the document at from and returns the
// node it targets.
//
// Local pointers look up the definition in the referencing document. When
// the definition's entire body is itself a pointer, the alias edge is
// recorded before recursing, so the re-export is captured even if no
// caller ever asks for the definition's name.
//
// External pointers join the pointer text onto the referencing document's
// directory, load the target through the cache, and register its type
// binding keyed by the normalized path.
func (r *Resolver) Resolve(ptr schema.Pointer, from string) (*schema.Node, error) {
	return r.resolve(ptr, from, nil)
}

func (r *Resolver) resolve(ptr schema.Pointer, from string, chain *aliasChain) (*schema.Node, error) {
	switch {
	case ptr.IsLocal():
		return r.resolveLocal(ptr, from, chain)
	case ptr.IsExternal():
		return r.resolveExternal(ptr, from)
	default:
		return nil, NewUnsupportedReferenceError(ptr, from)
	}
}

func (r *Resolver) resolveLocal(ptr schema.Pointer, from string, chain *aliasChain) (*schema.Node, error) {
	doc := r.docs[from]
	if doc == nil {
		return nil, &Error{
			Code:     ErrCodeUnresolvedPointer,
			Message:  "referencing document was never loaded",
			Pointer:  ptr,
			Document: from,
		}
	}

	name := ptr.LocalName()
	def := doc.Definition(name)
	if def == nil {
		return nil, NewUnresolvedPointerError(ptr, from)
	}
	if !def.IsRef() {
		return def, nil
	}

	// The definition is a bare pointer: record the alias edge first, then
	// chase the inner pointer. The chain guards local re-exports against
	// cycles and keeps the visit order for error reporting.
	r.aliases[name] = def.Ref

	if chain == nil {
		chain = &aliasChain{}
	}
	if !chain.visit(name) {
		return nil, NewCyclicAliasError(chain.closedAt(name), ptr, from)
	}

	return r.resolve(def.Ref, from, chain)
}

func (r *Resolver) resolveExternal(ptr schema.Pointer, from string) (*schema.Node, error) {
	path, err := r.targetPath(ptr, from)
	if err != nil {
		return nil, &Error{
			Code:     ErrCodeUnresolvedPointer,
			Message:  err.Error(),
			Pointer:  ptr,
			Document: from,
		}
	}

	if doc, ok := r.docs[path]; ok {
		// Already loaded (memoized, or an arrival back at an in-progress
		// document in a pointer cycle). Make sure the binding exists and
		// return what we have.
		r.register(path)
		return doc, nil
	}

	doc, err := r.cache.Load(path)
	if err != nil {
		return nil, &Error{
			Code:     ErrCodeLoadFailed,
			Message:  "loading external document",
			Pointer:  ptr,
			Document: from,
			Err:      err,
		}
	}

	r.docs[path] = doc
	r.register(path)
	if path != r.rootPath {
		r.externalOrder = append(r.externalOrder, path)
	}
	return doc, nil
}

// AddExternalRef idempotently pre-registers an external pointer discovered
// during a lightweight scan, without forcing a full body resolution. A
// later Resolve on the same pointer fills in the document.
func (r *Resolver) AddExternalRef(ptr schema.Pointer, from string) error {
	if !ptr.IsExternal() {
		return NewUnsupportedReferenceError(ptr, from)
	}
	path, err := r.targetPath(ptr, from)
	if err != nil {
		return &Error{
			Code:     ErrCodeUnresolvedPointer,
			Message:  err.Error(),
			Pointer:  ptr,
			Document: from,
		}
	}
	r.register(path)
	return nil
}

// CanonicalName returns the single name used for the pointer's target
// across all generated artifacts.
//
// External pointers name the registered type binding. Local pointers
// follow the alias chain to the ultimate external binding; a definition
// that is not an alias names itself.
func (r *Resolver) CanonicalName(ptr schema.Pointer, from string) (string, error) {
	switch {
	case ptr.IsExternal():
		path, err := r.targetPath(ptr, from)
		if err != nil {
			return "", &Error{
				Code:     ErrCodeUnresolvedPointer,
				Message:  err.Error(),
				Pointer:  ptr,
				Document: from,
			}
		}
		b, ok := r.bindings[path]
		if !ok {
			return "", &Error{
				Code:     ErrCodeUnresolvedPointer,
				Message:  "external pointer was never registered",
				Pointer:  ptr,
				Document: from,
			}
		}
		return b.Name, nil

	case ptr.IsLocal():
		name := ptr.LocalName()
		chain := &aliasChain{}
		for {
			if !chain.visit(name) {
				return "", NewCyclicAliasError(chain.closedAt(name), ptr, from)
			}
			inner, ok := r.aliases[name]
			if !ok {
				return name, nil
			}
			if inner.IsExternal() {
				return r.CanonicalName(inner, from)
			}
			name = inner.LocalName()
		}

	default:
		return "", NewUnsupportedReferenceError(ptr, from)
	}
}

// ResolvesToExternal reports whether the pointer ultimately names a type
// bound to a different document: a direct external pointer, or a local
// alias chain that ends in one. Such names are import-only for the
// document being traversed and must never be emitted there.
func (r *Resolver) ResolvesToExternal(ptr schema.Pointer, from string) (bool, error) {
	switch {
	case ptr.IsExternal():
		return true, nil
	case ptr.IsLocal():
		name := ptr.LocalName()
		chain := &aliasChain{}
		for {
			if !chain.visit(name) {
				return false, NewCyclicAliasError(chain.closedAt(name), ptr, from)
			}
			inner, ok := r.aliases[name]
			if !ok {
				return false, nil
			}
			if inner.IsExternal() {
				return true, nil
			}
			name = inner.LocalName()
		}
	default:
		return false, NewUnsupportedReferenceError(ptr, from)
	}
}

// Binding returns the type binding for the pointer's ultimate target
// document. Local alias chains are followed to their external end. A
// pointer that never leaves its document has no binding and errors.
func (r *Resolver) Binding(ptr schema.Pointer, from string) (schema.TypeBinding, error) {
	switch {
	case ptr.IsExternal():
		path, err := r.targetPath(ptr, from)
		if err != nil {
			return schema.TypeBinding{}, &Error{
				Code:     ErrCodeUnresolvedPointer,
				Message:  err.Error(),
				Pointer:  ptr,
				Document: from,
			}
		}
		b, ok := r.bindings[path]
		if !ok {
			return schema.TypeBinding{}, &Error{
				Code:     ErrCodeUnresolvedPointer,
				Message:  "external pointer was never registered",
				Pointer:  ptr,
				Document: from,
			}
		}
		return b, nil

	case ptr.IsLocal():
		name := ptr.LocalName()
		chain := &aliasChain{}
		for {
			if !chain.visit(name) {
				return schema.TypeBinding{}, NewCyclicAliasError(chain.closedAt(name), ptr, from)
			}
			inner, ok := r.aliases[name]
			if !ok {
				return schema.TypeBinding{}, &Error{
					Code:     ErrCodeUnresolvedPointer,
					Message:  "pointer does not target an external document",
					Pointer:  ptr,
					Document: from,
				}
			}
			if inner.IsExternal() {
				return r.Binding(inner, from)
			}
			name = inner.LocalName()
		}

	default:
		return schema.TypeBinding{}, NewUnsupportedReferenceError(ptr, from)
	}
}

// IsAlias reports whether the local definition name is a recorded
// re-export of another pointer.
func (r *Resolver) IsAlias(name string) bool {
	_, ok := r.aliases[name]
	return ok
}

// ExternalSchemasUsed returns every external document actually reached
// during the run, in first-load order. The driver emits exactly one
// artifact per entry.
func (r *Resolver) ExternalSchemasUsed() []schema.ExternalSchema {
	out := make([]schema.ExternalSchema, 0, len(r.externalOrder))
	for _, path := range r.externalOrder {
		out = append(out, schema.ExternalSchema{
			Path:     path,
			Name:     r.bindings[path].Name,
			Document: r.docs[path],
		})
	}
	return out
}

// register derives and stores the type binding for a document path. It is
// idempotent, so pre-registration via AddExternalRef and a later Resolve
// cannot disagree.
func (r *Resolver) register(path string) {
	if _, ok := r.bindings[path]; ok {
		return
	}
	r.bindings[path] = schema.TypeBinding{
		Name: r.namer.NameForFile(path),
		Path: path,
	}
}

// targetPath joins an external pointer onto the directory of the
// referencing document and normalizes the result.
func (r *Resolver) targetPath(ptr schema.Pointer, from string) (string, error) {
	return loader.Normalize(filepath.Join(filepath.Dir(from), string(ptr)))
}

// aliasChain is the ordered path of local definitions visited while
// following alias edges. Cycle errors report the chain in visit order, so
// the message is stable across runs.
type aliasChain struct {
	names []string
	seen  map[string]bool
}

// visit appends name to the chain; false means it was already visited.
func (c *aliasChain) visit(name string) bool {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if c.seen[name] {
		return false
	}
	c.seen[name] = true
	c.names = append(c.names, name)
	return true
}

// closedAt returns the chain with the revisited name appended, showing
// where the cycle closes.
func (c *aliasChain) closedAt(name string) []string {
	return append(append([]string(nil), c.names...), name)
}
