package mapper

import (
	jsoniter "github.com/json-iterator/go"
)

// Converter turns an intermediate, mappable From into the useful To and back.
type Converter[From, To any] interface {
	Decode(v From) To
	Encode(v To) From
}

// IntConverter converts between T and int.
type IntConverter[T any] interface {
	ToInt(v T) int
	FromInt(v int) T
}

// LongConverter converts between T and int64.
type LongConverter[T any] interface {
	ToLong(v T) int64
	FromLong(v int64) T
}

// DoubleConverter converts between T and float64.
type DoubleConverter[T any] interface {
	ToDouble(v T) float64
	FromDouble(v float64) T
}

// BoolConverter converts between T and bool.
type BoolConverter[T any] interface {
	ToBool(v T) bool
	FromBool(v bool) T
}

// ConverterFuncs builds a Converter out of two functions.
type ConverterFuncs[From, To any] struct {
	DecodeFunc func(From) To
	EncodeFunc func(To) From
}

func (c ConverterFuncs[From, To]) Decode(v From) To {
	return c.DecodeFunc(v)
}

func (c ConverterFuncs[From, To]) Encode(v To) From {
	return c.EncodeFunc(v)
}

// ConvertParser decodes an I with p and converts it to T.
func ConvertParser[T, I any](p Parser[I], c Converter[I, T]) Parser[T] {
	return ParserFunc[T](func(in *jsoniter.Iterator) (T, error) {
		v, err := p.Parse(in)
		if err != nil {
			var zero T
			return zero, err
		}

		return c.Decode(v), nil
	})
}

// ConvertSerializer converts a T to I and encodes it with s.
func ConvertSerializer[T, I any](s Serializer[I], c Converter[I, T]) Serializer[T] {
	return SerializerFunc[T](func(v T, out *jsoniter.Stream) error {
		return s.Serialize(c.Encode(v), out)
	})
}

// ConvertMapper combines ConvertParser and ConvertSerializer.
func ConvertMapper[T, I any](p Parser[I], s Serializer[I], c Converter[I, T]) Mapper[T] {
	return Join(ConvertParser(p, c), ConvertSerializer(s, c))
}
