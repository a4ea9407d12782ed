package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/schemaforge/internal/schema"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"snake_case_name", []string{"snake", "case", "name"}},
		{"kebab-case", []string{"kebab", "case"}},
		{"camelCase", []string{"camel", "Case"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"userID", []string{"user", "ID"}},
		{"simple", []string{"simple"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitWords(tt.in))
		})
	}
}

func TestGoFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user_id", "UserID"},
		{"api_url", "APIURL"},
		{"created_at", "CreatedAt"},
		{"html_body", "HTMLBody"},
		{"name", "Name"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, goFieldName(tt.in))
		})
	}
}

func TestEnumMemberName(t *testing.T) {
	byValue := &schema.LabelHints{ByValue: map[string]string{"r": "Red"}}
	byIndex := &schema.LabelHints{ByIndex: []string{"First", "Second"}}

	tests := []struct {
		name  string
		hints *schema.LabelHints
		value any
		index int
		title string
		want  string
	}{
		{"by value hint", byValue, "r", 0, "Color", "Red"},
		{"by index hint", byIndex, 2, 1, "", "Second"},
		{"string fallback uppercases", nil, "active", 0, "", "ACTIVE"},
		{"string fallback sanitizes", nil, "not-ready", 0, "", "NOT_READY"},
		{"int fallback is positional", nil, 7, 3, "", "VALUE_7"},
		{"empty string value", nil, "", 0, "Power", "EMPTY"},
		{"title prefix stripped", &schema.LabelHints{ByValue: map[string]string{"x": "ColorRed"}}, "x", 0, "Color", "Red"},
		{"name equal to title kept", &schema.LabelHints{ByValue: map[string]string{"x": "Color"}}, "x", 0, "Color", "Color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enumMemberName(tt.hints, tt.value, tt.index, tt.title))
		})
	}
}

func TestPascalWords_EmptyInput(t *testing.T) {
	assert.Equal(t, "", pascalWords(""))
	assert.Equal(t, "AB", pascalWords("a__b"))
	assert.Equal(t, "", goFieldName(""))
}

func TestEnumValueString(t *testing.T) {
	assert.Equal(t, "abc", enumValueString("abc"))
	assert.Equal(t, "42", enumValueString(42))
	assert.Equal(t, "true", enumValueString(true))
	assert.Equal(t, "1.5", enumValueString(1.5))
}
