// Package mapper is the runtime used by generated adapters.
//
// Generated code decodes values from a *jsoniter.Iterator and encodes them to a
// *jsoniter.Stream. Everything it needs lives here:
//   - Parser, Serializer and Mapper interfaces plus function adapters
//   - built-in scalar mappers (Int, String, Bool, ...)
//   - generic containers (List, Map, Set, Ptr) with one-sided variants
//   - converters and their wrappers (ConvertParser, ConvertSerializer, ConvertMapper)
//   - validators, unknown-property handlers and decode/encode errors
//   - buffering helpers used by tag-dispatching resolvers
package mapper
