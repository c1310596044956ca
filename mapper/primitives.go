package mapper

import (
	jsoniter "github.com/json-iterator/go"
)

type scalar[T any] struct {
	read  func(*jsoniter.Iterator) T
	write func(*jsoniter.Stream, T)
}

func (m scalar[T]) Parse(in *jsoniter.Iterator) (T, error) {
	v := m.read(in)
	return v, readErr(in)
}

func (m scalar[T]) Serialize(v T, out *jsoniter.Stream) error {
	m.write(out, v)
	return out.Error
}

// Built-in scalar mappers.
var (
	Int     Mapper[int]     = scalar[int]{(*jsoniter.Iterator).ReadInt, (*jsoniter.Stream).WriteInt}
	Int8    Mapper[int8]    = scalar[int8]{(*jsoniter.Iterator).ReadInt8, (*jsoniter.Stream).WriteInt8}
	Int16   Mapper[int16]   = scalar[int16]{(*jsoniter.Iterator).ReadInt16, (*jsoniter.Stream).WriteInt16}
	Int32   Mapper[int32]   = scalar[int32]{(*jsoniter.Iterator).ReadInt32, (*jsoniter.Stream).WriteInt32}
	Int64   Mapper[int64]   = scalar[int64]{(*jsoniter.Iterator).ReadInt64, (*jsoniter.Stream).WriteInt64}
	Uint    Mapper[uint]    = scalar[uint]{(*jsoniter.Iterator).ReadUint, (*jsoniter.Stream).WriteUint}
	Uint8   Mapper[uint8]   = scalar[uint8]{(*jsoniter.Iterator).ReadUint8, (*jsoniter.Stream).WriteUint8}
	Uint16  Mapper[uint16]  = scalar[uint16]{(*jsoniter.Iterator).ReadUint16, (*jsoniter.Stream).WriteUint16}
	Uint32  Mapper[uint32]  = scalar[uint32]{(*jsoniter.Iterator).ReadUint32, (*jsoniter.Stream).WriteUint32}
	Uint64  Mapper[uint64]  = scalar[uint64]{(*jsoniter.Iterator).ReadUint64, (*jsoniter.Stream).WriteUint64}
	Float32 Mapper[float32] = scalar[float32]{(*jsoniter.Iterator).ReadFloat32, (*jsoniter.Stream).WriteFloat32}
	Float64 Mapper[float64] = scalar[float64]{(*jsoniter.Iterator).ReadFloat64, (*jsoniter.Stream).WriteFloat64}
	Bool    Mapper[bool]    = scalar[bool]{(*jsoniter.Iterator).ReadBool, (*jsoniter.Stream).WriteBool}
	String  Mapper[string]  = scalar[string]{(*jsoniter.Iterator).ReadString, (*jsoniter.Stream).WriteString}
)
