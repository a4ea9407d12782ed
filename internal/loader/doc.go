// Package loader reads schema documents from disk and parses them into
// schema.Node trees.
//
// A Cache memoizes documents by normalized absolute path, so the same file
// reached via different relative spellings is loaded exactly once per run.
// JSON and YAML documents share one decoder (YAML is a superset of JSON);
// documents authored in CUE are evaluated and decoded to the same tree.
package loader
