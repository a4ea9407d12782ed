package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_JSONPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "chat.json", `{
		"type": "object",
		"properties": {
			"zulu": {"type": "string"},
			"alpha": {"type": "integer"},
			"mike": {"type": "boolean"}
		},
		"definitions": {
			"Second": {"type": "object"},
			"First": {"type": "object"}
		}
	}`)

	doc, err := NewCache().Load(path)
	require.NoError(t, err)

	var props []string
	for _, p := range doc.Properties {
		props = append(props, p.Name)
	}
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, props)

	var defs []string
	for _, d := range doc.Definitions {
		defs = append(defs, d.Name)
	}
	assert.Equal(t, []string{"Second", "First"}, defs)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "config.yaml", `
type: object
title: App Config
required: [name]
properties:
  name:
    type: string
  retries:
    type: integer
    minimum: 0
    maximum: 10
`)

	doc, err := NewCache().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "App Config", doc.Title)
	assert.True(t, doc.IsRequired("name"))
	assert.False(t, doc.IsRequired("retries"))

	retries := doc.Property("retries")
	require.NotNil(t, retries)
	require.NotNil(t, retries.Minimum)
	assert.Equal(t, float64(0), *retries.Minimum)
	require.NotNil(t, retries.Maximum)
	assert.Equal(t, float64(10), *retries.Maximum)
}

func TestLoad_CUE(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "event.cue", `
type: "object"
properties: {
	kind: {type: "string"}
	at: {type: "string", format: "date-time"}
}
`)

	doc, err := NewCache().Load(path)
	require.NoError(t, err)

	kind := doc.Property("kind")
	require.NotNil(t, kind)
	assert.Equal(t, "string", kind.Type)

	at := doc.Property("at")
	require.NotNil(t, at)
	assert.Equal(t, "date-time", at.Format)
}

func TestLoad_MemoizesByNormalizedPath(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "a.json", `{"type": "object"}`)

	cache := NewCache()
	first, err := cache.Load(path)
	require.NoError(t, err)

	// A messier spelling of the same path hits the cache.
	messy := filepath.Join(dir, ".", "a.json")
	second, err := cache.Load(messy)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Loads(path))
}

func TestLoad_NotFound(t *testing.T) {
	cache := NewCache()
	_, err := cache.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsParseError(err))
}

func TestLoad_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "broken.json", `{"type": ["object"`)

	_, err := NewCache().Load(path)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestLoad_CUEParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, "broken.cue", `type: "object" properties: {{`)

	_, err := NewCache().Load(path)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestDecode_EnumHints(t *testing.T) {
	tests := []struct {
		name    string
		content string
		value   string
		index   int
		want    string
	}{
		{
			name: "by value mapping",
			content: `{
				"type": "string",
				"enum": ["r", "g"],
				"enumNames": {"r": "Red", "g": "Green"}
			}`,
			value: "g",
			index: 1,
			want:  "Green",
		},
		{
			name: "by index list",
			content: `{
				"type": "integer",
				"enum": [1, 2],
				"enumNames": ["One", "Two"]
			}`,
			value: "2",
			index: 1,
			want:  "Two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.content))
			require.NoError(t, err)
			require.NotNil(t, doc.EnumNames)

			got, ok := doc.EnumNames.For(tt.value, tt.index)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_AdditionalProperties(t *testing.T) {
	withSchema, err := Decode([]byte(`{
		"type": "object",
		"additionalProperties": {"type": "string"}
	}`))
	require.NoError(t, err)
	require.NotNil(t, withSchema.AdditionalProperties)
	require.NotNil(t, withSchema.AdditionalProperties.Schema)
	assert.Equal(t, "string", withSchema.AdditionalProperties.Schema.Type)

	asBool, err := Decode([]byte(`{
		"type": "object",
		"additionalProperties": false
	}`))
	require.NoError(t, err)
	require.NotNil(t, asBool.AdditionalProperties)
	assert.Nil(t, asBool.AdditionalProperties.Schema)
	assert.False(t, asBool.AdditionalProperties.Allowed)
}

func TestDecode_ScalarDocumentFails(t *testing.T) {
	_, err := Decode([]byte(`"just a string"`))
	require.Error(t, err)
}
