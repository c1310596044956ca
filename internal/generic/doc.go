// Package generic resolves adapter trees to registry entries.
//
// A tree node is a base adapter applied to child adapters, for example
// mapper.List applied to mapper.Int. Children resolve depth-first, identical
// applications share one memoized entry named
// <container>__<child>_<child>__, and converters wrap the result last.
// Resolver nodes are delegated to a polymorphic Resolver.
package generic
