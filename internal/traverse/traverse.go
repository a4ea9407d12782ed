// Package traverse walks a document's definitions and properties and
// yields a deduplicated, ordered sequence of type descriptors.
//
// Order is fixed: definitions in source order, then properties in source
// order, depth-first into nested containers. Each canonical name is
// visited at most once per call, so repeated runs over identical input
// produce identical output.
package traverse

import (
	"fmt"

	"github.com/roach88/schemaforge/internal/resolver"
	"github.com/roach88/schemaforge/internal/schema"
)

// Enumerate returns the descriptors to emit for the document rooted at
// root, located at docPath (normalized). Names that resolve to a different
// document, or that are collapsed by an alias edge, are marked visited but
// never yielded: they are imports, not definitions.
func Enumerate(root *schema.Node, r *resolver.Resolver, docPath string) ([]schema.TypeDescriptor, error) {
	t := &traversal{
		r:       r,
		docPath: docPath,
		visited: make(map[string]bool),
	}

	for _, def := range root.Definitions {
		if err := t.visitDefinition(def.Name, def.Node); err != nil {
			return nil, err
		}
	}
	if err := t.walkProperties(root.Properties); err != nil {
		return nil, err
	}
	return t.out, nil
}

type traversal struct {
	r       *resolver.Resolver
	docPath string
	visited map[string]bool
	out     []schema.TypeDescriptor
}

func (t *traversal) visitDefinition(name string, node *schema.Node) error {
	if t.visited[name] {
		return nil
	}
	t.visited[name] = true

	if node.IsRef() {
		// A definition whose entire body is a pointer is a re-export.
		// Resolving through the local pointer records the alias edge; the
		// canonical name then belongs to the pointer's target, so this
		// name is never emitted. It stays visited so property scanning
		// will not re-emit it.
		ptr := schema.LocalPointer(name)
		if _, err := t.r.Resolve(ptr, t.docPath); err != nil {
			return err
		}
		if _, err := t.r.CanonicalName(ptr, t.docPath); err != nil {
			return err
		}
		return nil
	}

	t.yield(name, node)
	return t.walkChildren(name, node)
}

func (t *traversal) walkProperties(props []schema.Property) error {
	for _, p := range props {
		if err := t.visitProperty(p.Name, p.Node); err != nil {
			return err
		}
	}
	return nil
}

// visitProperty applies the property rule: pointers take the resolver's
// canonical name as the candidate, inline objects and enums take
// PascalCase of the property name. Scalar and array-of-scalar properties
// yield nothing but are still walked so deeper anonymous types surface.
func (t *traversal) visitProperty(name string, node *schema.Node) error {
	target := node
	candidate := ""

	if node.IsRef() {
		resolved, err := t.r.Resolve(node.Ref, t.docPath)
		if err != nil {
			return err
		}
		canonical, err := t.r.CanonicalName(node.Ref, t.docPath)
		if err != nil {
			return err
		}
		external, err := t.r.ResolvesToExternal(node.Ref, t.docPath)
		if err != nil {
			return err
		}
		if external {
			// Import-only: the type is defined in the target's own
			// artifact. Mark visited so nothing re-emits it here.
			t.visited[canonical] = true
			return nil
		}
		target = resolved
		candidate = canonical
	} else if target.IsObject() || target.IsEnum() {
		candidate = t.r.Namer().Name(name)
	}

	if candidate != "" && (target.IsObject() || target.IsEnum()) {
		if t.visited[candidate] {
			return nil
		}
		t.visited[candidate] = true
		t.yield(candidate, target)
		return t.walkChildren(name, target)
	}

	return t.walkChildren(name, target)
}

// walkChildren recurses into the containers a property can nest types in.
func (t *traversal) walkChildren(name string, node *schema.Node) error {
	if node == nil {
		return nil
	}
	if node.Items != nil {
		// Anonymous array element types take the "<Prop>Item" name the
		// emitters use for element type references.
		if err := t.visitProperty(name+"_item", node.Items); err != nil {
			return err
		}
	}
	if err := t.walkProperties(node.Properties); err != nil {
		return err
	}
	// Union variants take "<Prop>Option<i>" names, numbered across oneOf
	// then anyOf, matching the names the emitters reference at use sites.
	variants := append(append([]*schema.Node{}, node.OneOf...), node.AnyOf...)
	for i, c := range variants {
		if err := t.visitProperty(fmt.Sprintf("%s_option%d", name, i), c); err != nil {
			return err
		}
	}
	if len(node.AllOf) > 0 {
		// Emitters type an allOf property by its last, most specific
		// schema; only that one can surface a type under the property name.
		if err := t.visitProperty(name, node.AllOf[len(node.AllOf)-1]); err != nil {
			return err
		}
	}
	if node.Not != nil {
		if err := t.visitProperty(name, node.Not); err != nil {
			return err
		}
	}
	if node.AdditionalProperties != nil && node.AdditionalProperties.Schema != nil {
		if err := t.visitProperty(name+"_value", node.AdditionalProperties.Schema); err != nil {
			return err
		}
	}
	return nil
}

func (t *traversal) yield(name string, node *schema.Node) {
	t.out = append(t.out, schema.TypeDescriptor{
		Name:   name,
		Node:   node,
		IsEnum: node.IsEnum(),
	})
}
