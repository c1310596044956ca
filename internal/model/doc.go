// Package model holds the declarative property model the generator consumes.
//
// A Batch lists the types to generate adapters for, the adapters they
// reference and the reference cycles between them. Batches are loaded from
// YAML or JSON files (LoadFile) or built by the Go frontend, then prepared
// once (Prepare): defaults are filled in, adapter trees are inferred from Go
// type expressions, references are validated and missing cycle reports are
// computed. Prepared models are treated as immutable.
package model
