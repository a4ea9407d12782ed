package emit

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/schemaforge/internal/schema"
)

// enumValueString is the string form used to key enumNames/
// enumDescriptions maps and to render literal values.
func enumValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// enumMemberName picks the member name for an enum value: the hint from
// enumNames when present, otherwise VALUE_<n> for integers or the
// upper-cased value for strings. A redundant leading title is stripped so
// hints written as "ColorRed" inside enum "Color" become "Red".
func enumMemberName(hints *schema.LabelHints, v any, i int, title string) string {
	str := enumValueString(v)
	name, ok := hints.For(str, i)
	if !ok {
		if _, isString := v.(string); isString {
			name = sanitizeMember(strings.ToUpper(str))
		} else {
			name = "VALUE_" + str
		}
	}
	if title != "" && name != title && strings.HasPrefix(name, title) {
		name = name[len(title):]
	}
	if name == "" {
		// An empty string is a legal enum value; it still needs a member.
		name = "EMPTY"
	}
	return name
}

// enumMemberDesc returns the description hint for an enum value, if any.
func enumMemberDesc(hints *schema.LabelHints, v any, i int) (string, bool) {
	return hints.For(enumValueString(v), i)
}

// sanitizeMember keeps fallback member names valid identifiers.
func sanitizeMember(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, s)
}

// splitWords breaks a property name into words: underscores and hyphens
// for snake_case and kebab-case, letter-case boundaries for camelCase.
func splitWords(name string) []string {
	if strings.ContainsAny(name, "_-") {
		return strings.FieldsFunc(name, func(r rune) bool {
			return r == '_' || r == '-'
		})
	}

	var words []string
	runes := []rune(name)
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		// lower/digit -> Upper starts a word; so does the last upper of an
		// acronym run followed by a lower ("HTTPServer" -> HTTP, Server).
		if (unicode.IsLower(prev) || unicode.IsDigit(prev)) && unicode.IsUpper(cur) {
			words = append(words, string(runes[start:i]))
			start = i
		} else if unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))
	return words
}
