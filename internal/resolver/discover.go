package resolver

import (
	"github.com/roach88/schemaforge/internal/schema"
)

// DiscoverMode controls how errors are handled during closure discovery.
type DiscoverMode int

const (
	// DiscoverFailFast stops on the first broken reference.
	DiscoverFailFast DiscoverMode = iota
	// DiscoverCollectAll records every broken reference before returning.
	DiscoverCollectAll
)

// DiscoverClosure walks every pointer reachable from the document at from,
// loading and registering the full document closure. It must run to
// completion before traversal or emission read the resolver's maps; after
// it returns, the maps are immutable.
//
// Pointer cycles between documents terminate: a document already loaded is
// never walked twice.
func (r *Resolver) DiscoverClosure(from string, mode DiscoverMode) []error {
	d := &discovery{r: r, mode: mode, walked: make(map[string]bool)}
	d.walkDocument(from)

	// Documents can arrive through alias chains without being walked
	// directly; externalOrder grows while we iterate, so this reaches a
	// fixpoint over the whole closure.
	for i := 0; i < len(r.externalOrder) && !d.stopped(); i++ {
		d.walkDocument(r.externalOrder[i])
	}
	return d.errs
}

type discovery struct {
	r      *Resolver
	mode   DiscoverMode
	walked map[string]bool
	errs   []error
}

// fail records an error; returns true when discovery should stop.
func (d *discovery) fail(err error) bool {
	d.errs = append(d.errs, err)
	return d.mode == DiscoverFailFast
}

func (d *discovery) stopped() bool {
	return d.mode == DiscoverFailFast && len(d.errs) > 0
}

func (d *discovery) walkDocument(path string) {
	if d.walked[path] {
		return
	}
	d.walked[path] = true

	doc := d.r.docs[path]
	if doc == nil {
		return
	}
	for _, def := range doc.Definitions {
		if def.Node.IsRef() {
			// Resolve through the local pointer so the alias edge is
			// recorded even if nothing else ever references it.
			d.chase(schema.LocalPointer(def.Name), path)
		} else {
			d.walkNode(def.Node, path)
		}
		if d.stopped() {
			return
		}
	}
	d.walkNode(doc, path)
}

// walkNode chases every pointer in a node subtree. External targets are
// pre-registered, resolved, and walked in turn.
func (d *discovery) walkNode(n *schema.Node, path string) {
	if n == nil || d.stopped() {
		return
	}

	if n.IsRef() {
		d.chase(n.Ref, path)
		if d.stopped() {
			return
		}
	}

	for _, p := range n.Properties {
		d.walkNode(p.Node, path)
	}
	d.walkNode(n.Items, path)
	for _, c := range n.OneOf {
		d.walkNode(c, path)
	}
	for _, c := range n.AnyOf {
		d.walkNode(c, path)
	}
	for _, c := range n.AllOf {
		d.walkNode(c, path)
	}
	d.walkNode(n.Not, path)
	if n.AdditionalProperties != nil {
		d.walkNode(n.AdditionalProperties.Schema, path)
	}
}

func (d *discovery) chase(ptr schema.Pointer, path string) {
	if ptr.IsExternal() {
		if err := d.r.AddExternalRef(ptr, path); err != nil {
			d.fail(err)
			return
		}
	}

	if _, err := d.r.Resolve(ptr, path); err != nil {
		d.fail(err)
	}
}
