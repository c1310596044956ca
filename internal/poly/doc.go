// Package poly generates dispatch code for interface-typed values.
//
// Three wire shapes are supported:
//   - tagged wrapper {"circle": {...}}, using only the core backend hooks
//   - external tag {"type": "circle", "value": {...}}, buffering the value
//     when it arrives before the tag
//   - embedded tag {"type": "circle", ...}, which needs a buffering backend
//
// Decoding matches tags exactly and the first registered subtype wins.
// Encoding switches on the exact dynamic type. Both fall back to the
// default adapter when one is configured.
package poly
