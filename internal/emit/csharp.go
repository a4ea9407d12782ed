package emit

import (
	"fmt"
	"strings"

	"github.com/roach88/schemaforge/internal/schema"
)

// CSharpEmitter renders descriptors as System.Text.Json annotated classes
// and enums.
type CSharpEmitter struct{}

func (e *CSharpEmitter) Language() Language { return LangCSharp }

func (e *CSharpEmitter) Extension() string { return ".cs" }

// ArtifactName follows the C# convention of PascalCase filenames.
func (e *CSharpEmitter) ArtifactName(base string) string {
	return pascalWords(base)
}

func (e *CSharpEmitter) Emit(f *File, opts Options) (string, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "Generated"
	}

	var out []string
	out = append(out, header("//"), "",
		"#nullable enable", "",
		"using System;",
		"using System.Collections.Generic;",
		"using System.ComponentModel.DataAnnotations;",
		"using System.Text.Json.Serialization;",
		"",
		fmt.Sprintf("namespace %s", namespace),
		"{")

	for i, d := range f.Descriptors {
		rendered, err := e.renderType(f, d)
		if err != nil {
			return "", err
		}
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, indent(rendered, "    "))
	}

	out = append(out, "}")
	return strings.Join(out, "\n") + "\n", nil
}

func indent(block, prefix string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func (e *CSharpEmitter) renderType(f *File, d schema.TypeDescriptor) (string, error) {
	if d.IsEnum {
		return e.renderEnum(d), nil
	}
	return e.renderClass(f, d)
}

func (e *CSharpEmitter) renderEnum(d schema.TypeDescriptor) string {
	var out []string
	if d.Node.Description != "" {
		out = append(out, "/// <summary>", "/// "+d.Node.Description, "/// </summary>")
	}
	isString := d.Node.Type == "string"
	if isString {
		out = append(out, "[JsonConverter(typeof(JsonStringEnumConverter))]")
	}
	out = append(out, fmt.Sprintf("public enum %s", d.Name), "{")
	for i, v := range d.Node.Enum {
		memberName := pascalWords(strings.ToLower(enumMemberName(d.Node.EnumNames, v, i, d.Name)))
		if desc, ok := enumMemberDesc(d.Node.EnumDescriptions, v, i); ok {
			out = append(out, "    /// <summary>", "    /// "+desc, "    /// </summary>")
		}
		comma := ","
		if i == len(d.Node.Enum)-1 {
			comma = ""
		}
		if isString {
			out = append(out, fmt.Sprintf("    [JsonPropertyName(%q)]", enumValueString(v)))
			out = append(out, fmt.Sprintf("    %s%s", memberName, comma))
		} else {
			out = append(out, fmt.Sprintf("    %s = %s%s", memberName, enumValueString(v), comma))
		}
	}
	out = append(out, "}")
	return strings.Join(out, "\n")
}

func (e *CSharpEmitter) renderClass(f *File, d schema.TypeDescriptor) (string, error) {
	var out []string
	if d.Node.Description != "" {
		out = append(out, "/// <summary>", "/// "+d.Node.Description, "/// </summary>")
	}
	out = append(out, fmt.Sprintf("public class %s", d.Name), "{")

	for i, p := range d.Node.Properties {
		if i > 0 {
			out = append(out, "")
		}
		if p.Node.Description != "" {
			out = append(out, "    /// <summary>", "    /// "+p.Node.Description, "    /// </summary>")
		}
		out = append(out, fmt.Sprintf("    [JsonPropertyName(%q)]", p.Name))

		csType, err := e.csType(f, p.Node, p.Name)
		if err != nil {
			return "", err
		}
		required := d.Node.IsRequired(p.Name)
		if rng := e.rangeAttribute(p.Node); rng != "" {
			out = append(out, "    "+rng)
		}

		fieldName := pascalWords(p.Name)
		if required {
			out = append(out, fmt.Sprintf("    public %s %s { get; set; } = default!;", csType, fieldName))
		} else {
			out = append(out, fmt.Sprintf("    public %s? %s { get; set; }", csType, fieldName))
		}
	}

	out = append(out, "}")
	return strings.Join(out, "\n"), nil
}

// rangeAttribute maps numeric bounds to a [Range] validation attribute.
// Exclusive bounds have no direct attribute form and are skipped.
func (e *CSharpEmitter) rangeAttribute(n *schema.Node) string {
	if n.Type != "integer" && n.Type != "number" {
		return ""
	}
	if n.Minimum == nil && n.Maximum == nil {
		return ""
	}
	min := "double.MinValue"
	if n.Minimum != nil {
		min = formatNumber(*n.Minimum)
	}
	max := "double.MaxValue"
	if n.Maximum != nil {
		max = formatNumber(*n.Maximum)
	}
	return fmt.Sprintf("[Range(%s, %s)]", min, max)
}

func (e *CSharpEmitter) csType(f *File, n *schema.Node, propName string) (string, error) {
	if n == nil {
		return "object", nil
	}
	if n.IsRef() {
		return f.Names.CanonicalName(n.Ref, f.Path)
	}
	if len(n.AllOf) > 0 {
		return e.csType(f, n.AllOf[len(n.AllOf)-1], propName)
	}
	if len(n.OneOf) > 0 || len(n.AnyOf) > 0 || n.Not != nil {
		return "object", nil
	}
	if n.IsEnum() {
		return f.Namer.Name(propName), nil
	}

	switch n.Type {
	case "string", "":
		switch n.Format {
		case "date-time":
			return "DateTime", nil
		case "date":
			return "DateOnly", nil
		case "time":
			return "TimeOnly", nil
		case "duration":
			return "TimeSpan", nil
		case "uuid":
			return "Guid", nil
		case "uri", "url":
			return "Uri", nil
		default:
			return "string", nil
		}
	case "integer":
		return "long", nil
	case "number":
		return "double", nil
	case "boolean":
		return "bool", nil
	case "array":
		itemType, err := e.csType(f, n.Items, propName+"_item")
		if err != nil {
			return "", err
		}
		return "List<" + itemType + ">", nil
	case "object":
		if n.IsObject() {
			return f.Namer.Name(propName), nil
		}
		if n.AdditionalProperties != nil && n.AdditionalProperties.Schema != nil {
			valueType, err := e.csType(f, n.AdditionalProperties.Schema, propName+"_value")
			if err != nil {
				return "", err
			}
			return "Dictionary<string, " + valueType + ">", nil
		}
		return "Dictionary<string, object>", nil
	default:
		return "object", nil
	}
}
