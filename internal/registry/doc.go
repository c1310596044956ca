// Package registry binds adapter references to identifiers inside one
// generated adapter and breaks reference cycles.
//
// Each referenced adapter is bound in one of three ways:
//   - the adapter being generated is its own receiver "a"
//   - an adapter in a reported cycle is constructed inside every routine
//     that uses it, so package initialization never loops
//   - anything else is a field of the generated struct, assigned once by
//     the generated constructor
//
// Instanceless adapters share one holder variable per run, collected in the
// run-wide Backlog and emitted once at the end.
package registry
