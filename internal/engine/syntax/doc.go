// Package syntax derives the nesting structure of a buffer's text: which
// lines open a scope and which lines each scope encloses.
//
// Two strategies are provided:
//
//   - Brace: pairs of {}, () and [] outside strings and comments form
//     scopes. Used for C-family languages, Rust, Go, JSON and plain text.
//   - Indent: a line followed by more deeply indented lines forms a scope.
//     Used for Python and YAML.
//
// The result is a ScopeTree, which answers the parent-line query used by
// structural navigation:
//
//	tree := syntax.Parse(text, syntax.Rust)
//	parents := tree.ParentLines(4) // enclosing header lines, outermost first
//
// A ScopeTree is immutable once built and safe for concurrent reads.
// Cache stores trees keyed by buffer revision so repeated queries against an
// unchanged buffer do not rescan the text.
package syntax
