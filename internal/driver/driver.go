// Package driver runs one generation pass: load the root document, build
// the resolver, discover the reference closure, then emit one artifact for
// the root and one per external document reached.
package driver

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/schemaforge/internal/emit"
	"github.com/roach88/schemaforge/internal/loader"
	"github.com/roach88/schemaforge/internal/resolver"
	"github.com/roach88/schemaforge/internal/schema"
	"github.com/roach88/schemaforge/internal/traverse"
)

// FailurePolicy controls what happens when one document in the closure
// cannot be processed.
type FailurePolicy int

const (
	// FailAbort stops the run on the first broken document. Artifacts
	// already written stand.
	FailAbort FailurePolicy = iota
	// FailSkip records the broken document and continues with the rest.
	FailSkip
)

// Config holds everything one run needs.
type Config struct {
	RootPath  string
	Language  string
	OutputDir string

	Package   string // Go package name
	Namespace string // C# namespace
	Pydantic  bool   // Python: pydantic models instead of dataclasses

	Mode        WriteMode
	NoOverwrite bool

	StripLeadingU bool
	Policy        FailurePolicy
}

// Artifact describes one written output file.
type Artifact struct {
	Path     string `json:"path"`
	TypeName string `json:"type_name"`
	Types    int    `json:"types"`
}

// Skip records a document the run could not process under FailSkip.
type Skip struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

// Result summarizes one run.
type Result struct {
	RunID     string     `json:"run_id"`
	Artifacts []Artifact `json:"artifacts"`
	Skipped   []Skip     `json:"skipped,omitempty"`
	Documents int        `json:"documents"`
	Types     int        `json:"types"`
}

// Run executes one generation pass.
func Run(cfg Config) (*Result, error) {
	plan, err := Prepare(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: plan.RunID, Skipped: plan.Skipped}
	writer := &Writer{Dir: cfg.OutputDir, Mode: cfg.Mode, NoOverwrite: cfg.NoOverwrite}

	for _, file := range plan.Files {
		text, err := plan.Emitter.Emit(file, plan.Options)
		if err != nil {
			if cfg.Policy == FailSkip {
				result.Skipped = append(result.Skipped, Skip{Document: file.Path, Reason: err.Error()})
				continue
			}
			return nil, err
		}

		base := plan.Emitter.ArtifactName(fileBase(file.Path)) + plan.Emitter.Extension()
		outPath, err := writer.Write(base, text)
		if err != nil {
			if cfg.Policy == FailSkip {
				result.Skipped = append(result.Skipped, Skip{Document: file.Path, Reason: err.Error()})
				continue
			}
			return nil, err
		}

		result.Artifacts = append(result.Artifacts, Artifact{
			Path:     outPath,
			TypeName: file.TypeName,
			Types:    len(file.Descriptors),
		})
		result.Documents++
		result.Types += len(file.Descriptors)
	}

	return result, nil
}

// Plan is the fully resolved state of a run before anything is written.
// Validate-style commands stop here.
type Plan struct {
	RunID    string
	Emitter  emit.Emitter
	Options  emit.Options
	Files    []*emit.File
	Resolver *resolver.Resolver
	Skipped  []Skip
}

// Prepare loads the root document, discovers the closure, and builds the
// per-document emission files without writing anything.
func Prepare(cfg Config) (*Plan, error) {
	emitter, err := emit.ForLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	cache := loader.NewCache()
	rootPath, err := loader.Normalize(cfg.RootPath)
	if err != nil {
		return nil, err
	}
	root, err := cache.Load(rootPath)
	if err != nil {
		return nil, err
	}

	var namerOpts []resolver.NamerOption
	if cfg.StripLeadingU {
		namerOpts = append(namerOpts, resolver.WithLegacyUPrefixStrip())
	}
	namer := resolver.NewNamer(namerOpts...)

	r, err := resolver.New(rootPath, root, cache, namer)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		RunID:   uuid.NewString(),
		Emitter: emitter,
		Options: emit.Options{
			Package:   cfg.Package,
			Namespace: cfg.Namespace,
			Pydantic:  cfg.Pydantic,
		},
		Resolver: r,
	}

	mode := resolver.DiscoverFailFast
	if cfg.Policy == FailSkip {
		mode = resolver.DiscoverCollectAll
	}
	if errs := r.DiscoverClosure(rootPath, mode); len(errs) > 0 {
		if cfg.Policy == FailAbort {
			return nil, errs[0]
		}
		for _, derr := range errs {
			plan.Skipped = append(plan.Skipped, Skip{
				Document: errorDocument(derr, rootPath),
				Reason:   derr.Error(),
			})
		}
	}

	rootFile, err := buildFile(r, rootPath, root, rootTypeName(namer, root, rootPath))
	if err != nil {
		if cfg.Policy == FailAbort {
			return nil, err
		}
		plan.Skipped = append(plan.Skipped, Skip{Document: rootPath, Reason: err.Error()})
	} else {
		plan.Files = append(plan.Files, rootFile)
	}

	for _, ext := range r.ExternalSchemasUsed() {
		file, err := buildFile(r, ext.Path, ext.Document, ext.Name)
		if err != nil {
			if cfg.Policy == FailAbort {
				return nil, err
			}
			plan.Skipped = append(plan.Skipped, Skip{Document: ext.Path, Reason: err.Error()})
			continue
		}
		plan.Files = append(plan.Files, file)
	}

	return plan, nil
}

// buildFile assembles one document's emission unit: its descriptors in
// traversal order with the document's own root type appended last, plus
// the imports its pointers require.
func buildFile(r *resolver.Resolver, path string, doc *schema.Node, typeName string) (*emit.File, error) {
	descriptors, err := traverse.Enumerate(doc, r, path)
	if err != nil {
		return nil, err
	}

	// The document itself is a type. It goes last so everything it
	// references is already defined, unless a definition claimed the name.
	taken := false
	for _, d := range descriptors {
		if d.Name == typeName {
			taken = true
			break
		}
	}
	if !taken {
		descriptors = append(descriptors, schema.TypeDescriptor{
			Name:   typeName,
			Node:   doc,
			IsEnum: doc.IsEnum(),
		})
	}

	imports, err := collectImports(r, path, doc)
	if err != nil {
		return nil, err
	}

	return &emit.File{
		Path:        path,
		TypeName:    typeName,
		Descriptors: descriptors,
		Imports:     imports,
		Names:       r,
		Namer:       r.Namer(),
	}, nil
}

// collectImports walks the document's pointers and records, in encounter
// order, each distinct external type the document references.
func collectImports(r *resolver.Resolver, path string, doc *schema.Node) ([]emit.Import, error) {
	var imports []emit.Import
	seen := map[string]bool{}

	var record func(ptr schema.Pointer) error
	record = func(ptr schema.Pointer) error {
		external, err := r.ResolvesToExternal(ptr, path)
		if err != nil {
			return err
		}
		if !external {
			return nil
		}
		b, err := r.Binding(ptr, path)
		if err != nil {
			return err
		}
		if b.Path == path || seen[b.Name] {
			return nil
		}
		seen[b.Name] = true
		imports = append(imports, emit.Import{Name: b.Name, Base: fileBase(b.Path)})
		return nil
	}

	var walk func(n *schema.Node) error
	walk = func(n *schema.Node) error {
		if n == nil {
			return nil
		}
		if n.IsRef() {
			return record(n.Ref)
		}
		for _, def := range n.Definitions {
			if err := walk(def.Node); err != nil {
				return err
			}
		}
		for _, p := range n.Properties {
			if err := walk(p.Node); err != nil {
				return err
			}
		}
		if err := walk(n.Items); err != nil {
			return err
		}
		for _, c := range n.OneOf {
			if err := walk(c); err != nil {
				return err
			}
		}
		for _, c := range n.AnyOf {
			if err := walk(c); err != nil {
				return err
			}
		}
		for _, c := range n.AllOf {
			if err := walk(c); err != nil {
				return err
			}
		}
		if err := walk(n.Not); err != nil {
			return err
		}
		if n.AdditionalProperties != nil {
			if err := walk(n.AdditionalProperties.Schema); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(doc); err != nil {
		return nil, err
	}
	return imports, nil
}

// rootTypeName names the root document's type: the title with spaces
// removed when one is set, otherwise the cased file name.
func rootTypeName(namer *resolver.Namer, doc *schema.Node, path string) string {
	if doc.Title != "" {
		return strings.ReplaceAll(doc.Title, " ", "")
	}
	return namer.NameForFile(path)
}

// fileBase is the file name truncated at the first dot, so compound
// suffixes like ".schema.json" drop entirely.
func fileBase(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// errorDocument pulls the referencing document out of a resolver error for
// skip records; anything else is attributed to the root.
func errorDocument(err error, rootPath string) string {
	var rerr *resolver.Error
	if errors.As(err, &rerr) && rerr.Document != "" {
		return rerr.Document
	}
	return rootPath
}
