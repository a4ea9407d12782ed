package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/schemaforge/internal/schema"
)

// PythonEmitter renders descriptors as pydantic models or dataclasses,
// with str-backed Enum classes for enums.
type PythonEmitter struct{}

func (e *PythonEmitter) Language() Language { return LangPython }

func (e *PythonEmitter) Extension() string { return ".py" }

func (e *PythonEmitter) ArtifactName(base string) string { return base }

func (e *PythonEmitter) Emit(f *File, opts Options) (string, error) {
	bodies := make([]string, 0, len(f.Descriptors))
	needs := pyNeeds{}
	for _, d := range f.Descriptors {
		rendered, err := e.renderType(f, d, opts, &needs)
		if err != nil {
			return "", err
		}
		bodies = append(bodies, rendered)
	}

	blocks := []string{header("#")}
	if imports := e.imports(f, opts, needs); imports != "" {
		blocks = append(blocks, imports)
	}
	blocks = append(blocks, bodies...)
	return strings.Join(blocks, "\n\n\n") + "\n", nil
}

// pyNeeds tracks which import groups the rendered bodies used.
type pyNeeds struct {
	typing   map[string]bool // Optional, List, Dict, Any, Union
	datetime map[string]bool // datetime, date, time, timedelta
	uuid     bool
	enum     bool
	field    bool // pydantic Field
	url      bool // pydantic AnyUrl
	email    bool // pydantic EmailStr
}

func (n *pyNeeds) typingName(name string) string {
	if n.typing == nil {
		n.typing = make(map[string]bool)
	}
	n.typing[name] = true
	return name
}

func (n *pyNeeds) datetimeName(name string) string {
	if n.datetime == nil {
		n.datetime = make(map[string]bool)
	}
	n.datetime[name] = true
	return name
}

func (e *PythonEmitter) imports(f *File, opts Options, needs pyNeeds) string {
	var lines []string

	if len(needs.typing) > 0 {
		names := make([]string, 0, len(needs.typing))
		for name := range needs.typing {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, "from typing import "+strings.Join(names, ", "))
	}
	if len(needs.datetime) > 0 {
		names := make([]string, 0, len(needs.datetime))
		for name := range needs.datetime {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, "from datetime import "+strings.Join(names, ", "))
	}
	if needs.uuid {
		lines = append(lines, "import uuid")
	}
	if needs.enum {
		lines = append(lines, "from enum import Enum")
	}

	if opts.Pydantic {
		pydantic := []string{"BaseModel"}
		if needs.field {
			pydantic = append(pydantic, "Field")
		}
		if needs.url {
			pydantic = append(pydantic, "AnyUrl")
		}
		if needs.email {
			pydantic = append(pydantic, "EmailStr")
		}
		lines = append(lines, "from pydantic import "+strings.Join(pydantic, ", "))
	} else {
		lines = append(lines, "from dataclasses import dataclass, field")
	}

	if len(f.Imports) > 0 {
		ext := make([]string, 0, len(f.Imports))
		for _, imp := range f.Imports {
			ext = append(ext, fmt.Sprintf("from .%s import %s", imp.Base, imp.Name))
		}
		sort.Strings(ext)
		lines = append(lines, strings.Join(ext, "\n"))
	}

	return strings.Join(lines, "\n")
}

func (e *PythonEmitter) renderType(f *File, d schema.TypeDescriptor, opts Options, needs *pyNeeds) (string, error) {
	if d.IsEnum {
		needs.enum = true
		return e.renderEnum(d), nil
	}
	return e.renderClass(f, d, opts, needs)
}

func (e *PythonEmitter) renderEnum(d schema.TypeDescriptor) string {
	base := "str, Enum"
	if d.Node.Type != "string" {
		base = "Enum"
	}
	out := []string{fmt.Sprintf("class %s(%s):", d.Name, base)}
	if d.Node.Description != "" {
		out = append(out, fmt.Sprintf("    \"\"\"%s\"\"\"", d.Node.Description), "")
	}
	for i, v := range d.Node.Enum {
		memberName := enumMemberName(d.Node.EnumNames, v, i, d.Name)
		suffix := ""
		if desc, ok := enumMemberDesc(d.Node.EnumDescriptions, v, i); ok {
			suffix = "  # " + desc
		}
		if _, isString := v.(string); isString {
			out = append(out, fmt.Sprintf("    %s = \"%s\"%s", memberName, enumValueString(v), suffix))
		} else {
			out = append(out, fmt.Sprintf("    %s = %s%s", memberName, enumValueString(v), suffix))
		}
	}
	return strings.Join(out, "\n")
}

func (e *PythonEmitter) renderClass(f *File, d schema.TypeDescriptor, opts Options, needs *pyNeeds) (string, error) {
	var out []string
	if opts.Pydantic {
		out = append(out, fmt.Sprintf("class %s(BaseModel):", d.Name))
	} else {
		out = append(out, "@dataclass", fmt.Sprintf("class %s:", d.Name))
	}
	if d.Node.Description != "" {
		out = append(out, fmt.Sprintf("    \"\"\"%s\"\"\"", d.Node.Description), "")
	}

	// Required fields render before optional ones so dataclass defaults
	// stay legal Python.
	type renderedField struct {
		line     string
		required bool
	}
	fields := make([]renderedField, 0, len(d.Node.Properties))
	for _, p := range d.Node.Properties {
		pyType, err := e.pyType(f, p.Node, p.Name, opts, needs)
		if err != nil {
			return "", err
		}
		required := d.Node.IsRequired(p.Name)
		line := e.renderField(p.Name, pyType, p.Node, required, opts, needs)
		fields = append(fields, renderedField{line: line, required: required})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].required && !fields[j].required
	})

	if len(fields) == 0 {
		out = append(out, "    pass")
	}
	for _, fl := range fields {
		out = append(out, fl.line)
	}

	if opts.Pydantic {
		out = append(out, "", "    class Config:", "        extra = \"ignore\"")
	}
	return strings.Join(out, "\n"), nil
}

func (e *PythonEmitter) renderField(name, pyType string, n *schema.Node, required bool, opts Options, needs *pyNeeds) string {
	annotated := pyType
	if !required {
		annotated = fmt.Sprintf("%s[%s]", needs.typingName("Optional"), pyType)
	}

	if opts.Pydantic {
		args := e.fieldArgs(n, required)
		if len(args) > 0 {
			needs.field = true
			return fmt.Sprintf("    %s: %s = Field(%s)", name, annotated, strings.Join(args, ", "))
		}
		if !required {
			return fmt.Sprintf("    %s: %s = None", name, annotated)
		}
		return fmt.Sprintf("    %s: %s", name, annotated)
	}

	if !required {
		if n.Default != nil {
			return fmt.Sprintf("    %s: %s = %s", name, annotated, pyLiteral(n.Default))
		}
		return fmt.Sprintf("    %s: %s = None", name, annotated)
	}
	return fmt.Sprintf("    %s: %s", name, annotated)
}

// fieldArgs builds the pydantic Field(...) arguments for a property.
func (e *PythonEmitter) fieldArgs(n *schema.Node, required bool) []string {
	var args []string
	if required {
		if n.Description != "" || e.hasBounds(n) {
			args = append(args, "...")
		}
	} else {
		if n.Default != nil {
			args = append(args, "default="+pyLiteral(n.Default))
		} else if n.Description != "" || e.hasBounds(n) {
			args = append(args, "default=None")
		}
	}
	if n.Description != "" {
		args = append(args, fmt.Sprintf("description=%q", n.Description))
	}
	if n.Minimum != nil {
		args = append(args, "ge="+formatNumber(*n.Minimum))
	}
	if n.Maximum != nil {
		args = append(args, "le="+formatNumber(*n.Maximum))
	}
	if n.ExclusiveMinimum != nil {
		args = append(args, "gt="+formatNumber(*n.ExclusiveMinimum))
	}
	if n.ExclusiveMaximum != nil {
		args = append(args, "lt="+formatNumber(*n.ExclusiveMaximum))
	}
	return args
}

func (e *PythonEmitter) hasBounds(n *schema.Node) bool {
	return n.Minimum != nil || n.Maximum != nil ||
		n.ExclusiveMinimum != nil || n.ExclusiveMaximum != nil
}

func pyLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (e *PythonEmitter) pyType(f *File, n *schema.Node, propName string, opts Options, needs *pyNeeds) (string, error) {
	if n == nil {
		return needs.typingName("Any"), nil
	}
	if n.IsRef() {
		return f.Names.CanonicalName(n.Ref, f.Path)
	}
	if len(n.AllOf) > 0 {
		return e.pyType(f, n.AllOf[len(n.AllOf)-1], propName, opts, needs)
	}
	if combined := append(append([]*schema.Node{}, n.OneOf...), n.AnyOf...); len(combined) > 0 {
		types := make([]string, 0, len(combined))
		for i, c := range combined {
			t, err := e.pyType(f, c, fmt.Sprintf("%s_option%d", propName, i), opts, needs)
			if err != nil {
				return "", err
			}
			types = append(types, t)
		}
		return fmt.Sprintf("%s[%s]", needs.typingName("Union"), strings.Join(types, ", ")), nil
	}
	if n.Not != nil {
		return needs.typingName("Any"), nil
	}
	if n.IsEnum() {
		return f.Namer.Name(propName), nil
	}

	switch n.Type {
	case "string", "":
		switch n.Format {
		case "date-time":
			return needs.datetimeName("datetime"), nil
		case "date":
			return needs.datetimeName("date"), nil
		case "time":
			return needs.datetimeName("time"), nil
		case "duration":
			return needs.datetimeName("timedelta"), nil
		case "uuid":
			needs.uuid = true
			return "uuid.UUID", nil
		case "uri", "url":
			if opts.Pydantic {
				needs.url = true
				return "AnyUrl", nil
			}
			return "str", nil
		case "email":
			if opts.Pydantic {
				needs.email = true
				return "EmailStr", nil
			}
			return "str", nil
		default:
			return "str", nil
		}
	case "integer":
		return "int", nil
	case "number":
		return "float", nil
	case "boolean":
		return "bool", nil
	case "array":
		itemType, err := e.pyType(f, n.Items, propName+"_item", opts, needs)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", needs.typingName("List"), itemType), nil
	case "object":
		if n.IsObject() {
			return f.Namer.Name(propName), nil
		}
		if n.AdditionalProperties != nil && n.AdditionalProperties.Schema != nil {
			valueType, err := e.pyType(f, n.AdditionalProperties.Schema, propName+"_value", opts, needs)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s[str, %s]", needs.typingName("Dict"), valueType), nil
		}
		return fmt.Sprintf("%s[str, %s]", needs.typingName("Dict"), needs.typingName("Any")), nil
	default:
		return needs.typingName("Any"), nil
	}
}
