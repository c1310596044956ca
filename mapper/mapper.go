package mapper

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Parser decodes a T starting at the current position of in.
type Parser[T any] interface {
	Parse(in *jsoniter.Iterator) (T, error)
}

// Serializer encodes v to out.
type Serializer[T any] interface {
	Serialize(v T, out *jsoniter.Stream) error
}

// Mapper decodes and encodes T.
type Mapper[T any] interface {
	Parser[T]
	Serializer[T]
}

// ParserFunc adapts a function to Parser.
type ParserFunc[T any] func(in *jsoniter.Iterator) (T, error)

// Parse calls f(in).
func (f ParserFunc[T]) Parse(in *jsoniter.Iterator) (T, error) {
	return f(in)
}

// SerializerFunc adapts a function to Serializer.
type SerializerFunc[T any] func(v T, out *jsoniter.Stream) error

// Serialize calls f(v, out).
func (f SerializerFunc[T]) Serialize(v T, out *jsoniter.Stream) error {
	return f(v, out)
}

type joined[T any] struct {
	parser     Parser[T]
	serializer Serializer[T]
}

func (j joined[T]) Parse(in *jsoniter.Iterator) (T, error) {
	return j.parser.Parse(in)
}

func (j joined[T]) Serialize(v T, out *jsoniter.Stream) error {
	return j.serializer.Serialize(v, out)
}

// Join combines a parser and a serializer into a single Mapper.
func Join[T any](p Parser[T], s Serializer[T]) Mapper[T] {
	return joined[T]{parser: p, serializer: s}
}

type throwing[T any] struct{}

func (throwing[T]) Parse(*jsoniter.Iterator) (T, error) {
	var zero T
	return zero, &PropertyError{Type: fmt.Sprintf("%T", zero), Err: ErrUnsupported}
}

func (throwing[T]) Serialize(v T, _ *jsoniter.Stream) error {
	return &PropertyError{Type: fmt.Sprintf("%T", v), Err: ErrUnsupported}
}

// Throwing returns a Mapper that fails on every call.
func Throwing[T any]() Mapper[T] {
	return throwing[T]{}
}
