package loader

import (
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/schemaforge/internal/schema"
)

// Cache loads schema documents and memoizes them by normalized absolute
// path. It is scoped to one generation run and discarded afterward.
type Cache struct {
	docs  map[string]*schema.Node
	loads map[string]int
}

// NewCache creates an empty document cache.
func NewCache() *Cache {
	return &Cache{
		docs:  make(map[string]*schema.Node),
		loads: make(map[string]int),
	}
}

// Normalize converts a path to the canonical cache key: an absolute,
// cleaned path. All resolver maps key by this form.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Load reads and parses the document at path, memoized for the lifetime
// of the cache. Missing files surface as NotFoundError, malformed
// documents as ParseError.
func (c *Cache) Load(path string) (*schema.Node, error) {
	key, err := Normalize(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}

	if doc, ok := c.docs[key]; ok {
		return doc, nil
	}

	c.loads[key]++
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, &NotFoundError{Path: key, Err: err}
	}

	doc, err := c.parse(key, data)
	if err != nil {
		return nil, err
	}
	c.docs[key] = doc
	return doc, nil
}

// Loads returns how many times the underlying file was read. Memoized
// hits do not count; used by tests to assert single-load behavior.
func (c *Cache) Loads(path string) int {
	key, err := Normalize(path)
	if err != nil {
		return 0
	}
	return c.loads[key]
}

func (c *Cache) parse(path string, data []byte) (*schema.Node, error) {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return parseCUE(path, data)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// parseCUE evaluates a CUE document and decodes its exported form into the
// same node tree JSON and YAML documents produce.
func parseCUE(path string, data []byte) (*schema.Node, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	exported, err := v.MarshalJSON()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc, err := Decode(exported)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}
