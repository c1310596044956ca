// Package backend abstracts the token stream generated adapters read from
// and write to. The assembler and the polymorphic resolver only emit code
// through these hooks.
package backend

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"adapter-generator/internal/model"
)

// ErrUnknownBackend is returned by Lookup for unregistered names.
var ErrUnknownBackend = errors.New("unknown backend")

var backends = map[string]Backend{
	JSONIter{}.Name(): JSONIter{},
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	if b, ok := backends[name]; ok {
		return b, nil
	}

	names := lo.Keys(backends)
	slices.Sort(names)

	return nil, errors.Wrapf(ErrUnknownBackend, "%q (available: %v)", name, names)
}

// Import is one import line of a generated file.
type Import struct {
	Name string
	Path string
}

// Backend renders the wire-level fragments of generated code. Arguments are
// Go expressions; results are Go expressions or statements.
type Backend interface {
	Name() string
	// Imports lists the packages the rendered fragments refer to.
	Imports() []Import
	// InputType and OutputType are the parameter types of Parse and Serialize.
	InputType() string
	OutputType() string

	// SkipNull consumes a leading null; the boolean expression reports whether it did.
	SkipNull(in string) string
	// NextName evaluates to (name, ok) for the next property of the current
	// object; ok is false at its end, so any string is a valid name.
	NextName(in string) string
	// FinalMove consumes the rest of the current object and evaluates to an error.
	FinalMove(in, handler, owner string) string
	// Err evaluates to the pending error of in or out.
	Err(stream string) string

	StartObject(out string) string
	EndObject(out string) string
	WriteNull(out string) string
	WriteProperty(out, name string) string
	// Delimiter separates properties; "" when the format needs none.
	Delimiter(out string) string
}

// Buffered is the optional extension for dispatch variants that must look
// ahead in the input or patch output.
type Buffered interface {
	Backend

	// RawType is the Go type Capture evaluates to.
	RawType() string
	// Capture evaluates to the raw bytes of the next value.
	Capture(in string) string
	// Replay evaluates to an input positioned at the start of raw.
	Replay(raw string) string
	// SplitTag evaluates to (tag, rest, error).
	SplitTag(owner, raw, tagProp string) string
	// WriteTagged evaluates to an error; write is a function literal taking
	// the output.
	WriteTagged(out, owner, tagProp, tag, write string) string
}

// AsBuffered returns b's buffering extension if it has one.
func AsBuffered(b Backend) (Buffered, bool) {
	bb, ok := b.(Buffered)
	return bb, ok
}

type coreOnly struct {
	Backend
}

// CoreOnly hides any optional extension of b.
func CoreOnly(b Backend) Backend {
	return coreOnly{Backend: b}
}

// Runtime is the import of the runtime package every generated file uses.
func Runtime() Import {
	return Import{Path: model.RuntimePackage}
}
