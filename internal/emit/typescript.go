package emit

import (
	"fmt"
	"strings"

	"github.com/roach88/schemaforge/internal/schema"
)

// TypeScriptEmitter renders descriptors as interfaces, string literal
// unions, and enums.
type TypeScriptEmitter struct{}

func (e *TypeScriptEmitter) Language() Language { return LangTypeScript }

func (e *TypeScriptEmitter) Extension() string { return ".ts" }

// ArtifactName follows the TypeScript convention of PascalCase filenames.
func (e *TypeScriptEmitter) ArtifactName(base string) string {
	return pascalWords(base)
}

func (e *TypeScriptEmitter) Emit(f *File, opts Options) (string, error) {
	blocks := []string{header("//")}

	if len(f.Imports) > 0 {
		lines := make([]string, 0, len(f.Imports))
		for _, imp := range f.Imports {
			lines = append(lines, fmt.Sprintf("import { %s } from './%s';", imp.Name, e.ArtifactName(imp.Base)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	for _, d := range f.Descriptors {
		rendered, err := e.renderType(f, d)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, rendered)
	}

	return strings.Join(blocks, "\n\n") + "\n", nil
}

func (e *TypeScriptEmitter) renderType(f *File, d schema.TypeDescriptor) (string, error) {
	if d.IsEnum {
		return e.renderEnum(d), nil
	}
	return e.renderInterface(f, d)
}

func (e *TypeScriptEmitter) renderEnum(d schema.TypeDescriptor) string {
	var out []string
	if d.Node.Description != "" {
		out = append(out, "/**", " * "+d.Node.Description, " */")
	}

	if d.Node.Type == "string" && allStrings(d.Node.Enum) {
		// String enums render as literal unions plus a const lookup object.
		literals := make([]string, 0, len(d.Node.Enum))
		for _, v := range d.Node.Enum {
			literals = append(literals, "'"+enumValueString(v)+"'")
		}
		out = append(out, fmt.Sprintf("export type %s = %s;", d.Name, strings.Join(literals, " | ")))
		out = append(out, "", "/**", fmt.Sprintf(" * Constant values for %s", d.Name), " */")
		out = append(out, fmt.Sprintf("export const %sValues = {", d.Name))
		for i, v := range d.Node.Enum {
			memberName := enumMemberName(d.Node.EnumNames, v, i, d.Name)
			doc := enumValueString(v)
			if desc, ok := enumMemberDesc(d.Node.EnumDescriptions, v, i); ok {
				doc += " // " + desc
			}
			out = append(out, fmt.Sprintf("  /** %s */", doc))
			comma := ","
			if i == len(d.Node.Enum)-1 {
				comma = ""
			}
			out = append(out, fmt.Sprintf("  %s: '%s'%s", memberName, enumValueString(v), comma))
		}
		out = append(out, "} as const;")
		return strings.Join(out, "\n")
	}

	out = append(out, fmt.Sprintf("export enum %s {", d.Name))
	for i, v := range d.Node.Enum {
		memberName := enumMemberName(d.Node.EnumNames, v, i, d.Name)
		suffix := ""
		if desc, ok := enumMemberDesc(d.Node.EnumDescriptions, v, i); ok {
			suffix = " // " + desc
		}
		if _, isString := v.(string); isString {
			out = append(out, fmt.Sprintf("  %s = '%s',%s", memberName, enumValueString(v), suffix))
		} else {
			out = append(out, fmt.Sprintf("  %s = %s,%s", memberName, enumValueString(v), suffix))
		}
	}
	out = append(out, "}")
	return strings.Join(out, "\n")
}

func (e *TypeScriptEmitter) renderInterface(f *File, d schema.TypeDescriptor) (string, error) {
	var out []string
	if d.Node.Description != "" {
		out = append(out, "/**", " * "+d.Node.Description, " */")
	}
	out = append(out, fmt.Sprintf("export interface %s {", d.Name))

	for _, p := range d.Node.Properties {
		if p.Node.Description != "" {
			out = append(out, "  /**", "   * "+p.Node.Description, "   */")
		}
		tsType, err := e.tsType(f, p.Node, p.Name)
		if err != nil {
			return "", err
		}
		suffix := "?"
		if d.Node.IsRequired(p.Name) {
			suffix = ""
		}
		out = append(out, fmt.Sprintf("  %s%s: %s;", p.Name, suffix, tsType))
	}

	out = append(out, "}")
	return strings.Join(out, "\n"), nil
}

func (e *TypeScriptEmitter) tsType(f *File, n *schema.Node, propName string) (string, error) {
	if n == nil {
		return "unknown", nil
	}
	if n.IsRef() {
		return f.Names.CanonicalName(n.Ref, f.Path)
	}
	if len(n.AllOf) > 0 {
		return e.tsType(f, n.AllOf[len(n.AllOf)-1], propName)
	}
	if combined := append(append([]*schema.Node{}, n.OneOf...), n.AnyOf...); len(combined) > 0 {
		types := make([]string, 0, len(combined))
		for i, c := range combined {
			t, err := e.tsType(f, c, fmt.Sprintf("%s_option%d", propName, i))
			if err != nil {
				return "", err
			}
			types = append(types, t)
		}
		return strings.Join(types, " | "), nil
	}
	if n.Not != nil {
		return "unknown", nil
	}

	switch n.Type {
	case "string", "":
		// Inline string enums stay literal unions at the use site only
		// when anonymous; named enum properties reference their type.
		if n.IsEnum() {
			return f.Namer.Name(propName), nil
		}
		switch n.Format {
		case "date-time", "date":
			return "Date", nil
		case "uri", "url":
			return "URL", nil
		default:
			return "string", nil
		}
	case "integer", "number":
		return "number", nil
	case "boolean":
		return "boolean", nil
	case "array":
		itemType, err := e.tsType(f, n.Items, propName+"_item")
		if err != nil {
			return "", err
		}
		if strings.Contains(itemType, " | ") {
			return "(" + itemType + ")[]", nil
		}
		return itemType + "[]", nil
	case "object":
		if n.IsObject() {
			return f.Namer.Name(propName), nil
		}
		if n.AdditionalProperties != nil && n.AdditionalProperties.Schema != nil {
			valueType, err := e.tsType(f, n.AdditionalProperties.Schema, propName+"_value")
			if err != nil {
				return "", err
			}
			return "Record<string, " + valueType + ">", nil
		}
		return "Record<string, unknown>", nil
	default:
		return "unknown", nil
	}
}

func allStrings(values []any) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}
