// Package match provides identifier tokenizing, naming styles for serialized
// property names, and Levenshtein based "did you mean" suggestions.
//
// Key functions:
//   - TokenizeIdent: splits Go, camel and snake identifiers into words
//   - NamingStyle.Apply: renders a Go field name as a property name
//   - Closest: ranks known names by similarity to a misspelled one
package match
