package schema

// Node is one schema fragment: a document root, a definition, a property,
// or any nested subschema.
type Node struct {
	Ref         Pointer `json:"$ref,omitempty"`
	Type        string  `json:"type,omitempty"`
	Format      string  `json:"format,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`

	Properties  []Property   `json:"properties,omitempty"`
	Definitions []Definition `json:"definitions,omitempty"`
	Required    []string     `json:"required,omitempty"`
	Items       *Node        `json:"items,omitempty"`

	Enum             []any       `json:"enum,omitempty"`
	EnumNames        *LabelHints `json:"enumNames,omitempty"`
	EnumDescriptions *LabelHints `json:"enumDescriptions,omitempty"`

	Default          any      `json:"default,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	AdditionalProperties *Additional `json:"additionalProperties,omitempty"`

	OneOf []*Node `json:"oneOf,omitempty"`
	AnyOf []*Node `json:"anyOf,omitempty"`
	AllOf []*Node `json:"allOf,omitempty"`
	Not   *Node   `json:"not,omitempty"`
}

// Property is a named property in source order.
type Property struct {
	Name string `json:"name"`
	Node *Node  `json:"node"`
}

// Definition is a named entry of a document's definitions block, in
// source order.
type Definition struct {
	Name string `json:"name"`
	Node *Node  `json:"node"`
}

// Additional models the additionalProperties key, which is either a
// boolean or a subschema.
type Additional struct {
	// Schema is non-nil when additionalProperties carries a subschema.
	Schema *Node `json:"schema,omitempty"`
	// Allowed holds the boolean form; meaningful only when Schema is nil.
	Allowed bool `json:"allowed"`
}

// IsRef reports whether the node's entire body is a pointer.
func (n *Node) IsRef() bool {
	return n != nil && n.Ref != ""
}

// IsEnum reports whether the node declares an enum.
func (n *Node) IsEnum() bool {
	return n != nil && len(n.Enum) > 0
}

// IsObject reports whether the node is an object with its own nested
// properties, i.e. something that surfaces as a named type.
func (n *Node) IsObject() bool {
	return n != nil && len(n.Properties) > 0
}

// Property returns the named property node, or nil.
func (n *Node) Property(name string) *Node {
	if n == nil {
		return nil
	}
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Node
		}
	}
	return nil
}

// Definition returns the named definition node, or nil.
func (n *Node) Definition(name string) *Node {
	if n == nil {
		return nil
	}
	for _, d := range n.Definitions {
		if d.Name == name {
			return d.Node
		}
	}
	return nil
}

// IsRequired reports whether name is listed in the node's required set.
func (n *Node) IsRequired(name string) bool {
	if n == nil {
		return false
	}
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// LabelHints carries enumNames / enumDescriptions, which schemas express
// either as a map keyed by the value's string form or as a list parallel
// to the enum values.
type LabelHints struct {
	ByValue map[string]string `json:"by_value,omitempty"`
	ByIndex []string          `json:"by_index,omitempty"`
}

// For returns the hint for the given enum value at position i.
func (h *LabelHints) For(value string, i int) (string, bool) {
	if h == nil {
		return "", false
	}
	if h.ByValue != nil {
		if s, ok := h.ByValue[value]; ok {
			return s, true
		}
	}
	if i >= 0 && i < len(h.ByIndex) {
		return h.ByIndex[i], true
	}
	return "", false
}
