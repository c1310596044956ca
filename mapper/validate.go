package mapper

import (
	"github.com/cockroachdb/errors"
)

// Validator checks a value before it is stored into or read out of its owner.
type Validator[T any] interface {
	Validate(property, goName, owner string, v T) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(property, goName, owner string, v T) error

func (f ValidatorFunc[T]) Validate(property, goName, owner string, v T) error {
	return f(property, goName, owner, v)
}

// Check returns a validation error for owner.property unless ok holds.
func Check(ok bool, owner, property, msg string) error {
	if ok {
		return nil
	}

	return &PropertyError{Type: owner, Property: property, Err: errors.Wrap(ErrValidation, msg)}
}

type nonZero[T comparable] struct{}

func (nonZero[T]) Validate(property, _, owner string, v T) error {
	var zero T

	return Check(v != zero, owner, property, "must be set")
}

// NonZero rejects the zero value of T.
func NonZero[T comparable]() Validator[T] {
	return nonZero[T]{}
}
