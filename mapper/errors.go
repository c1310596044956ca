package mapper

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrMissingRequiredProperty = errors.New("missing required property")
	ErrUnknownProperty         = errors.New("unknown property")
	ErrUnknownSubtype          = errors.New("unknown subtype tag")
	ErrUnregisteredType        = errors.New("unregistered subtype")
	ErrValidation              = errors.New("validation failed")
	ErrUnsupported             = errors.New("unsupported operation")
)

// PropertyError is a decode or encode failure tied to a type and, optionally,
// one of its properties.
type PropertyError struct {
	Type     string
	Property string
	Err      error
}

func (e *PropertyError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}

	return fmt.Sprintf("%s.%s: %v", e.Type, e.Property, e.Err)
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// MissingProperty reports a required property that never arrived.
func MissingProperty(owner, property string) error {
	return &PropertyError{Type: owner, Property: property, Err: ErrMissingRequiredProperty}
}

// UnknownProperty reports a property the adapter does not know.
func UnknownProperty(owner, property string) error {
	return &PropertyError{Type: owner, Property: property, Err: ErrUnknownProperty}
}

// UnknownSubtype reports a discriminator with no matching branch.
func UnknownSubtype(owner, tag string) error {
	return &PropertyError{Type: owner, Property: tag, Err: ErrUnknownSubtype}
}

// UnregisteredType reports a dynamic type with no matching branch.
func UnregisteredType(owner string, v any) error {
	return &PropertyError{Type: owner, Property: fmt.Sprintf("%T", v), Err: ErrUnregisteredType}
}

// readErr returns the iterator error, ignoring the io.EOF that json-iterator
// records after a scalar ending exactly at the end of the input.
func readErr(in *jsoniter.Iterator) error {
	if in.Error == nil || errors.Is(in.Error, io.EOF) {
		return nil
	}

	return in.Error
}

// TagAfterValue reports an externally tagged value whose tag arrived after
// the value on an input that cannot be buffered.
func TagAfterValue(owner, tagProperty string) error {
	return &PropertyError{Type: owner, Property: tagProperty, Err: errors.Wrap(ErrUnsupported, "tag must precede the value")}
}
