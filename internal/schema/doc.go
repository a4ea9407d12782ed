// Package schema provides the schema document data model for schemaforge.
//
// This package contains type definitions only. All other internal packages
// import schema; schema imports nothing internal. This keeps the node tree
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Properties and definitions are ordered slices, never maps. Generated
//     output must be diff-stable, so source order is preserved end to end.
//   - Nodes are plain data. Resolution state (bindings, aliases, caches)
//     lives in the resolver, never on the node.
package schema
