package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/schemaforge/internal/schema"
)

// Decode parses JSON or YAML bytes into a schema node tree, preserving the
// source order of properties and definitions. Unrecognized keys are
// ignored.
func Decode(data []byte) (*schema.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		root = root.Content[0]
	}
	return decodeNode(root)
}

func decodeNode(n *yaml.Node) (*schema.Node, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: schema fragment must be a mapping, got %s", n.Line, kindName(n.Kind))
	}

	out := &schema.Node{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := deref(n.Content[i+1])

		var err error
		switch key {
		case "$ref":
			out.Ref = schema.Pointer(val.Value)
		case "type":
			out.Type = val.Value
		case "format":
			out.Format = val.Value
		case "title":
			out.Title = val.Value
		case "description":
			out.Description = val.Value
		case "properties":
			out.Properties, err = decodeProperties(val)
		case "definitions":
			out.Definitions, err = decodeDefinitions(val)
		case "required":
			out.Required, err = decodeStrings(val)
		case "items":
			out.Items, err = decodeNode(val)
		case "enum":
			out.Enum, err = decodeValues(val)
		case "enumNames":
			out.EnumNames, err = decodeHints(val)
		case "enumDescriptions":
			out.EnumDescriptions, err = decodeHints(val)
		case "default":
			err = val.Decode(&out.Default)
		case "minimum":
			out.Minimum, err = decodeNumber(val)
		case "maximum":
			out.Maximum, err = decodeNumber(val)
		case "exclusiveMinimum":
			out.ExclusiveMinimum, err = decodeNumber(val)
		case "exclusiveMaximum":
			out.ExclusiveMaximum, err = decodeNumber(val)
		case "additionalProperties":
			out.AdditionalProperties, err = decodeAdditional(val)
		case "oneOf":
			out.OneOf, err = decodeList(val)
		case "anyOf":
			out.AnyOf, err = decodeList(val)
		case "allOf":
			out.AllOf, err = decodeList(val)
		case "not":
			out.Not, err = decodeNode(val)
		}
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return out, nil
}

func decodeProperties(n *yaml.Node) ([]schema.Property, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping", n.Line)
	}
	props := make([]schema.Property, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		child, err := decodeNode(n.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", n.Content[i].Value, err)
		}
		props = append(props, schema.Property{Name: n.Content[i].Value, Node: child})
	}
	return props, nil
}

func decodeDefinitions(n *yaml.Node) ([]schema.Definition, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping", n.Line)
	}
	defs := make([]schema.Definition, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		child, err := decodeNode(n.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", n.Content[i].Value, err)
		}
		defs = append(defs, schema.Definition{Name: n.Content[i].Value, Node: child})
	}
	return defs, nil
}

func decodeList(n *yaml.Node) ([]*schema.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected sequence", n.Line)
	}
	list := make([]*schema.Node, 0, len(n.Content))
	for _, item := range n.Content {
		child, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		list = append(list, child)
	}
	return list, nil
}

func decodeStrings(n *yaml.Node) ([]string, error) {
	var out []string
	if err := n.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeValues(n *yaml.Node) ([]any, error) {
	var out []any
	if err := n.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeNumber(n *yaml.Node) (*float64, error) {
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// decodeHints accepts both spellings of enumNames/enumDescriptions: a
// mapping keyed by the value's string form, or a list parallel to the
// enum values.
func decodeHints(n *yaml.Node) (*schema.LabelHints, error) {
	switch n.Kind {
	case yaml.MappingNode:
		byValue := make(map[string]string, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			byValue[n.Content[i].Value] = n.Content[i+1].Value
		}
		return &schema.LabelHints{ByValue: byValue}, nil
	case yaml.SequenceNode:
		byIndex, err := decodeStrings(n)
		if err != nil {
			return nil, err
		}
		return &schema.LabelHints{ByIndex: byIndex}, nil
	default:
		return nil, fmt.Errorf("line %d: expected mapping or sequence", n.Line)
	}
}

func decodeAdditional(n *yaml.Node) (*schema.Additional, error) {
	if n.Kind == yaml.MappingNode {
		child, err := decodeNode(n)
		if err != nil {
			return nil, err
		}
		return &schema.Additional{Schema: child}, nil
	}
	var allowed bool
	if err := n.Decode(&allowed); err != nil {
		return nil, fmt.Errorf("line %d: expected boolean or mapping", n.Line)
	}
	return &schema.Additional{Allowed: allowed}, nil
}

func deref(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
