package mapper

import (
	"io"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

// UnknownPropertyHandler is invoked by generated parsers for every property
// they do not recognize. It must consume the property value or fail.
type UnknownPropertyHandler interface {
	Handle(owner, property string, in *jsoniter.Iterator) error
}

// UnknownPropertyHandlerFunc adapts a function to UnknownPropertyHandler.
type UnknownPropertyHandlerFunc func(owner, property string, in *jsoniter.Iterator) error

func (f UnknownPropertyHandlerFunc) Handle(owner, property string, in *jsoniter.Iterator) error {
	return f(owner, property, in)
}

var (
	// FailOnUnknown rejects every unknown property. It is the default policy.
	FailOnUnknown UnknownPropertyHandler = UnknownPropertyHandlerFunc(
		func(owner, property string, _ *jsoniter.Iterator) error {
			return UnknownProperty(owner, property)
		})

	// SkipUnknown discards unknown properties.
	SkipUnknown UnknownPropertyHandler = UnknownPropertyHandlerFunc(
		func(_, _ string, in *jsoniter.Iterator) error {
			in.Skip()
			return in.Error
		})
)

// HandleUnknown dispatches to h, falling back to FailOnUnknown when h is nil.
func HandleUnknown(h UnknownPropertyHandler, owner, property string, in *jsoniter.Iterator) error {
	if h == nil {
		h = FailOnUnknown
	}

	return h.Handle(owner, property, in)
}

// NextName reads the next property name of the current object. ok is false
// at the end of the object. Unlike ReadObject alone it keeps an empty key
// apart from the closing brace: an empty key is followed by its value.
func NextName(in *jsoniter.Iterator) (name string, ok bool) {
	name = in.ReadObject()
	if name != "" || in.Error != nil {
		return name, name != ""
	}

	next := in.WhatIsNext()
	if errors.Is(in.Error, io.EOF) {
		// The object closed the input.
		in.Error = nil

		return "", false
	}

	return "", in.Error == nil && next != jsoniter.InvalidValue
}

// DrainObject consumes the rest of the current object, passing every
// remaining property to h.
func DrainObject(in *jsoniter.Iterator, h UnknownPropertyHandler, owner string) error {
	for name, ok := NextName(in); ok; name, ok = NextName(in) {
		if err := HandleUnknown(h, owner, name, in); err != nil {
			return err
		}
	}

	return in.Error
}
