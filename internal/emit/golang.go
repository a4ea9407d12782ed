package emit

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/roach88/schemaforge/internal/schema"
)

// commonAcronyms are preserved upper-case in Go field names.
var commonAcronyms = map[string]string{
	"id": "ID", "url": "URL", "uri": "URI", "api": "API", "ui": "UI",
	"uid": "UID", "uuid": "UUID", "http": "HTTP", "https": "HTTPS",
	"html": "HTML", "css": "CSS", "json": "JSON", "xml": "XML",
	"yaml": "YAML", "sql": "SQL", "db": "DB", "ip": "IP",
	"tcp": "TCP", "udp": "UDP",
}

// GoEmitter renders descriptors as Go structs and typed constants.
type GoEmitter struct{}

func (e *GoEmitter) Language() Language { return LangGo }

func (e *GoEmitter) Extension() string { return ".go" }

func (e *GoEmitter) ArtifactName(base string) string { return base }

func (e *GoEmitter) Emit(f *File, opts Options) (string, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "main"
	}

	var out []string
	out = append(out, header("//"), "", "package "+pkg)

	if imports := e.stdImports(f); len(imports) > 0 {
		out = append(out, "", "import (")
		for _, imp := range imports {
			out = append(out, "\t"+fmt.Sprintf("%q", imp))
		}
		out = append(out, ")")
	}

	for _, d := range f.Descriptors {
		rendered, err := e.renderType(f, d)
		if err != nil {
			return "", err
		}
		out = append(out, "", rendered)
	}

	return strings.Join(out, "\n") + "\n", nil
}

// stdImports scans the emitted types for formats that need library support.
func (e *GoEmitter) stdImports(f *File) []string {
	need := map[string]bool{}
	var scan func(n *schema.Node)
	scan = func(n *schema.Node) {
		if n == nil {
			return
		}
		if n.Type == "string" {
			switch n.Format {
			case "date-time", "date", "time", "duration":
				need["time"] = true
			case "uuid":
				need["github.com/google/uuid"] = true
			case "uri", "url":
				need["net/url"] = true
			}
		}
		for _, p := range n.Properties {
			scan(p.Node)
		}
		scan(n.Items)
		if n.AdditionalProperties != nil {
			scan(n.AdditionalProperties.Schema)
		}
	}
	for _, d := range f.Descriptors {
		scan(d.Node)
	}

	imports := make([]string, 0, len(need))
	for imp := range need {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	return imports
}

func (e *GoEmitter) renderType(f *File, d schema.TypeDescriptor) (string, error) {
	if d.IsEnum {
		return e.renderEnum(d), nil
	}
	return e.renderStruct(f, d)
}

func (e *GoEmitter) renderEnum(d schema.TypeDescriptor) string {
	var out []string
	if d.Node.Description != "" {
		out = append(out, fmt.Sprintf("// %s %s", d.Name, d.Node.Description))
	}

	isString := d.Node.Type == "string"
	if isString {
		out = append(out, fmt.Sprintf("type %s string", d.Name))
	} else {
		out = append(out, fmt.Sprintf("type %s int", d.Name))
	}
	out = append(out, "", "const (")
	for i, v := range d.Node.Enum {
		constName := d.Name + goEnumBase(d.Node.EnumNames, v, i, d.Name)
		suffix := ""
		if desc, ok := enumMemberDesc(d.Node.EnumDescriptions, v, i); ok {
			suffix = " // " + desc
		}
		if isString {
			out = append(out, fmt.Sprintf("\t%s %s = %q%s", constName, d.Name, enumValueString(v), suffix))
		} else {
			out = append(out, fmt.Sprintf("\t%s %s = %s%s", constName, d.Name, enumValueString(v), suffix))
		}
	}
	out = append(out, ")")
	return strings.Join(out, "\n")
}

// goEnumBase is the constant name without the type prefix: the enumNames
// hint when present, otherwise the PascalCase value. Constants are always
// prefixed with the type name per Go convention; a hint that already
// carries the prefix is not doubled.
func goEnumBase(hints *schema.LabelHints, v any, i int, typeName string) string {
	str := enumValueString(v)
	base, ok := hints.For(str, i)
	if !ok {
		base = pascalWords(str)
	}
	if trimmed := strings.TrimPrefix(base, typeName); trimmed != "" {
		base = trimmed
	}
	if base == "" {
		// An empty string is a legal enum value; it still needs a constant.
		base = "Empty"
	}
	return base
}

func (e *GoEmitter) renderStruct(f *File, d schema.TypeDescriptor) (string, error) {
	var out []string
	if d.Node.Description != "" {
		out = append(out, fmt.Sprintf("// %s %s", d.Name, d.Node.Description))
	}
	out = append(out, fmt.Sprintf("type %s struct {", d.Name))

	type fieldLine struct {
		name, typ, tag, comment string
	}
	fields := make([]fieldLine, 0, len(d.Node.Properties))
	maxName, maxType := 0, 0

	for _, p := range d.Node.Properties {
		goType, err := e.goType(f, p.Node, p.Name)
		if err != nil {
			return "", err
		}
		required := d.Node.IsRequired(p.Name)
		if !required && !strings.HasPrefix(goType, "[]") &&
			!strings.HasPrefix(goType, "map[") && goType != "interface{}" {
			goType = "*" + goType
		}

		fl := fieldLine{
			name: goFieldName(p.Name),
			typ:  goType,
			tag:  goTag(p.Name, p.Node, required),
		}
		if p.Node.Description != "" {
			fl.comment = "// " + p.Node.Description
		}
		if len(fl.name) > maxName {
			maxName = len(fl.name)
		}
		if len(fl.typ) > maxType {
			maxType = len(fl.typ)
		}
		fields = append(fields, fl)
	}

	for _, fl := range fields {
		line := fmt.Sprintf("\t%s%s %s%s %s",
			fl.name, strings.Repeat(" ", maxName-len(fl.name)),
			fl.typ, strings.Repeat(" ", maxType-len(fl.typ)),
			fl.tag)
		if fl.comment != "" {
			line += " " + fl.comment
		}
		out = append(out, line)
	}
	out = append(out, "}")
	return strings.Join(out, "\n"), nil
}

func goTag(propName string, n *schema.Node, required bool) string {
	parts := []string{
		fmt.Sprintf("json:%q", propName),
		fmt.Sprintf("yaml:%q", propName),
	}

	var validate []string
	if n.Type == "integer" || n.Type == "number" {
		if n.Minimum != nil {
			validate = append(validate, "min="+formatNumber(*n.Minimum))
		}
		if n.Maximum != nil {
			validate = append(validate, "max="+formatNumber(*n.Maximum))
		}
		if n.ExclusiveMinimum != nil {
			validate = append(validate, "gt="+formatNumber(*n.ExclusiveMinimum))
		}
		if n.ExclusiveMaximum != nil {
			validate = append(validate, "lt="+formatNumber(*n.ExclusiveMaximum))
		}
	}
	if n.Default != nil {
		if s, ok := n.Default.(string); ok {
			validate = append(validate, fmt.Sprintf("default=%q", s))
		} else {
			validate = append(validate, fmt.Sprintf("default=%v", n.Default))
		}
	}
	if required {
		validate = append(validate, "required")
	}
	if len(validate) > 0 {
		parts = append(parts, fmt.Sprintf("validate:%q", strings.Join(validate, ",")))
	}
	return "`" + strings.Join(parts, " ") + "`"
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%v", f)
}

// goType maps a property node to its Go type.
func (e *GoEmitter) goType(f *File, n *schema.Node, propName string) (string, error) {
	if n == nil {
		return "interface{}", nil
	}
	if n.IsRef() {
		return f.Names.CanonicalName(n.Ref, f.Path)
	}
	if len(n.OneOf) > 0 || len(n.AnyOf) > 0 || n.Not != nil {
		return "interface{}", nil
	}
	if len(n.AllOf) > 0 {
		// Merging is out of scope; the last schema is the most specific.
		return e.goType(f, n.AllOf[len(n.AllOf)-1], propName)
	}
	if n.IsEnum() {
		return f.Namer.Name(propName), nil
	}

	switch n.Type {
	case "string", "":
		switch n.Format {
		case "date-time", "date", "time":
			return "time.Time", nil
		case "duration":
			return "time.Duration", nil
		case "uuid":
			return "uuid.UUID", nil
		case "uri", "url":
			return "url.URL", nil
		default:
			return "string", nil
		}
	case "integer":
		return "int", nil
	case "number":
		return "float32", nil
	case "boolean":
		return "bool", nil
	case "array":
		itemType, err := e.goType(f, n.Items, propName+"_item")
		if err != nil {
			return "", err
		}
		return "[]" + itemType, nil
	case "object":
		if n.IsObject() {
			return f.Namer.Name(propName), nil
		}
		if n.AdditionalProperties != nil && n.AdditionalProperties.Schema != nil {
			valueType, err := e.goType(f, n.AdditionalProperties.Schema, propName+"_value")
			if err != nil {
				return "", err
			}
			return "map[string]" + valueType, nil
		}
		return "map[string]interface{}", nil
	default:
		return "interface{}", nil
	}
}

// goFieldName converts a property name to an exported Go field name with
// acronym handling.
func goFieldName(name string) string {
	var b strings.Builder
	for _, word := range splitWords(name) {
		if word == "" {
			continue
		}
		if acr, ok := commonAcronyms[strings.ToLower(word)]; ok {
			b.WriteString(acr)
			continue
		}
		runes := []rune(word)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// pascalWords is PascalCase over word boundaries, used for enum constant
// fallbacks where the value itself may be kebab-case.
func pascalWords(s string) string {
	var b strings.Builder
	for _, word := range splitWords(s) {
		if word == "" {
			continue
		}
		runes := []rune(word)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
