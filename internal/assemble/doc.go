// Package assemble drives the synthesis of one generated adapter: it decides
// what every type of a batch can do, resolves the adapter tree of each
// property and renders the Parse and Serialize bodies through the backend
// hooks.
//
// Decoding collects properties into typed slots, then builds the value with
// the constructor consuming the most properties and applies the remaining
// setters. Encoding writes properties in declared order, skipping optional
// values equal to their default.
package assemble
