package traverse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemaforge/internal/loader"
	"github.com/roach88/schemaforge/internal/resolver"
	"github.com/roach88/schemaforge/internal/schema"
)

func setup(t *testing.T, dir, rootName string, files map[string]string) (*schema.Node, *resolver.Resolver, string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	rootPath, err := loader.Normalize(filepath.Join(dir, rootName))
	require.NoError(t, err)

	cache := loader.NewCache()
	root, err := cache.Load(rootPath)
	require.NoError(t, err)
	r, err := resolver.New(rootPath, root, cache, resolver.NewNamer())
	require.NoError(t, err)
	errs := r.DiscoverClosure(rootPath, resolver.DiscoverFailFast)
	require.Empty(t, errs)
	return root, r, rootPath
}

func names(ds []schema.TypeDescriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Name)
	}
	return out
}

func TestEnumerate_ChatRequestExample(t *testing.T) {
	// A document whose definitions block and properties both mention the
	// same type yields it exactly once, definitions first.
	root, r, rootPath := setup(t, t.TempDir(), "chat_request.json", map[string]string{
		"chat_request.json": `{
			"type": "object",
			"title": "Chat Request",
			"definitions": {
				"Message": {
					"type": "object",
					"properties": {
						"role": {"type": "string"},
						"content": {"type": "string"}
					}
				}
			},
			"properties": {
				"model": {"type": "string"},
				"messages": {
					"type": "array",
					"items": {"$ref": "#/definitions/Message"}
				},
				"first_message": {"$ref": "#/definitions/Message"}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Message"}, names(ds))
	assert.False(t, ds[0].IsEnum)
}

func TestEnumerate_DefinitionsBeforeProperties(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"definitions": {
				"Zed": {"type": "object", "properties": {"z": {"type": "string"}}},
				"Abe": {"type": "object", "properties": {"a": {"type": "string"}}}
			},
			"properties": {
				"inline_thing": {
					"type": "object",
					"properties": {"w": {"type": "integer"}}
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	// Definitions in source order, then property-discovered types.
	assert.Equal(t, []string{"Zed", "Abe", "InlineThing"}, names(ds))
}

func TestEnumerate_AliasDefinitionNeverYielded(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"b.schema.json": `{
			"type": "object",
			"properties": {"value": {"type": "string"}}
		}`,
		"root.json": `{
			"type": "object",
			"definitions": {
				"Foo": {"$ref": "b.schema.json"}
			},
			"properties": {
				"foo": {"$ref": "#/definitions/Foo"}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	// Foo collapses onto B, which is defined by b.schema.json's own
	// artifact. This document defines nothing.
	assert.Empty(t, names(ds))
}

func TestEnumerate_ExternalRefIsImportOnly(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"model_details.json": `{
			"type": "object",
			"properties": {"name": {"type": "string"}}
		}`,
		"root.json": `{
			"type": "object",
			"properties": {
				"details": {"$ref": "model_details.json"},
				"local": {
					"type": "object",
					"properties": {"k": {"type": "string"}}
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Local"}, names(ds))
}

func TestEnumerate_InlineEnum(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"status": {
					"type": "string",
					"enum": ["active", "disabled"]
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	require.Equal(t, []string{"Status"}, names(ds))
	assert.True(t, ds[0].IsEnum)
}

func TestEnumerate_ArrayItemObject(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"entries": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {"key": {"type": "string"}}
					}
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"EntriesItem"}, names(ds))
}

func TestEnumerate_NestedTypesSurfaceDepthFirst(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"outer": {
					"type": "object",
					"properties": {
						"inner": {
							"type": "object",
							"properties": {"deep": {"type": "string"}}
						},
						"mode": {
							"type": "string",
							"enum": ["on", "off"]
						}
					}
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Outer", "Inner", "Mode"}, names(ds))
}

func TestEnumerate_DeduplicatesRepeatedNames(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"definitions": {
				"Shared": {"type": "object", "properties": {"s": {"type": "string"}}}
			},
			"properties": {
				"one": {"$ref": "#/definitions/Shared"},
				"two": {"$ref": "#/definitions/Shared"},
				"many": {
					"type": "array",
					"items": {"$ref": "#/definitions/Shared"}
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared"}, names(ds))
}

func TestEnumerate_RepeatedRunsAreIdentical(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"definitions": {
				"A": {"type": "object", "properties": {"x": {"type": "string"}}},
				"B": {"type": "object", "properties": {"y": {"$ref": "#/definitions/A"}}}
			},
			"properties": {
				"b": {"$ref": "#/definitions/B"}
			}
		}`,
	})

	first, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	second, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, names(first), names(second))
}

func TestEnumerate_UnionVariantsGetOptionNames(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"payload": {
					"oneOf": [
						{"type": "object", "properties": {"text": {"type": "string"}}},
						{"type": "object", "properties": {"bytes": {"type": "string"}}}
					]
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	// Each inline variant is its own type, named the way property types
	// reference union members.
	assert.Equal(t, []string{"PayloadOption0", "PayloadOption1"}, names(ds))
}

func TestEnumerate_OptionNumberingSpansOneOfAndAnyOf(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"value": {
					"oneOf": [
						{"type": "object", "properties": {"a": {"type": "string"}}}
					],
					"anyOf": [
						{"type": "object", "properties": {"b": {"type": "string"}}}
					]
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"ValueOption0", "ValueOption1"}, names(ds))
}

func TestEnumerate_AllOfYieldsLastSchema(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"merged": {
					"allOf": [
						{"type": "object", "properties": {"base": {"type": "string"}}},
						{"type": "object", "properties": {"extra": {"type": "integer"}}}
					]
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	require.Equal(t, []string{"Merged"}, names(ds))
	// The emitted body is the last, most specific schema.
	require.NotNil(t, ds[0].Node.Property("extra"))
	assert.Nil(t, ds[0].Node.Property("base"))
}

func TestEnumerate_DictionaryValueObject(t *testing.T) {
	root, r, rootPath := setup(t, t.TempDir(), "root.json", map[string]string{
		"root.json": `{
			"type": "object",
			"properties": {
				"lookup": {
					"type": "object",
					"additionalProperties": {
						"type": "object",
						"properties": {"v": {"type": "integer"}}
					}
				}
			}
		}`,
	})

	ds, err := Enumerate(root, r, rootPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"LookupValue"}, names(ds))
}

func TestEnumerate_BrokenRefSurfacesError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.json"), []byte(`{
		"type": "object",
		"properties": {
			"ok": {"type": "string"},
			"bad": {"$ref": "#/definitions/Missing"}
		}
	}`), 0644))
	rootPath, err := loader.Normalize(filepath.Join(dir, "root.json"))
	require.NoError(t, err)

	cache := loader.NewCache()
	root, err := cache.Load(rootPath)
	require.NoError(t, err)
	r, err := resolver.New(rootPath, root, cache, resolver.NewNamer())
	require.NoError(t, err)

	_, err = Enumerate(root, r, rootPath)
	require.Error(t, err)
	assert.True(t, resolver.IsUnresolvedPointer(err))
}
