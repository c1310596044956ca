package primitive

import (
	"go/types"
	"math"
	"strings"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies Go basic types by the way generated adapters treat them.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (non-basic) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var byName = map[string]KindEnum{
	"int":     KindInt,
	"int8":    KindInt8,
	"int16":   KindInt16,
	"int32":   KindInt32,
	"rune":    KindInt32,
	"int64":   KindInt64,
	"uint":    KindUint,
	"uint8":   KindUint8,
	"byte":    KindUint8,
	"uint16":  KindUint16,
	"uint32":  KindUint32,
	"uint64":  KindUint64,
	"float32": KindFloat32,
	"float64": KindFloat64,
	"bool":    KindBool,
	"string":  KindString,
}

// FromTypeName classifies a Go type expression. Anything but a predeclared
// basic type name yields the zero KindEnum.
func FromTypeName(name string) KindEnum {
	return byName[name]
}

// FromGoType classifies a go/types type by its underlying basic kind.
func FromGoType(t types.Type) KindEnum {
	if t == nil {
		return 0
	}

	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return 0
	}

	switch basic.Kind() {
	case types.Int:
		return KindInt
	case types.Int8:
		return KindInt8
	case types.Int16:
		return KindInt16
	case types.Int32:
		return KindInt32
	case types.Int64:
		return KindInt64
	case types.Uint:
		return KindUint
	case types.Uint8:
		return KindUint8
	case types.Uint16:
		return KindUint16
	case types.Uint32:
		return KindUint32
	case types.Uint64:
		return KindUint64
	case types.Float32:
		return KindFloat32
	case types.Float64:
		return KindFloat64
	case types.Bool:
		return KindBool
	case types.String:
		return KindString
	default:
		return 0
	}
}

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// IsPrimitive reports whether values of this kind are compared by numeric or
// boolean inequality. Strings are not primitive.
func (k KindEnum) IsPrimitive() bool {
	return k.IsNumber() || k == KindBool
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// ConverterSuffix names the specialized converter family of a primitive kind:
// Int, Long, Double or Bool. Non-primitive kinds return "".
func (k KindEnum) ConverterSuffix() string {
	switch k {
	case KindInt, KindInt8, KindInt16, KindInt32, KindUint8, KindUint16:
		return "Int"
	case KindInt64, KindUint, KindUint32, KindUint64:
		return "Long"
	case KindFloat32, KindFloat64:
		return "Double"
	case KindBool:
		return "Bool"
	default:
		return ""
	}
}

// ConverterType is the Go type the specialized converter family works with.
func (k KindEnum) ConverterType() string {
	switch k.ConverterSuffix() {
	case "Int":
		return "int"
	case "Long":
		return "int64"
	case "Double":
		return "float64"
	case "Bool":
		return "bool"
	default:
		return ""
	}
}

// Zero returns the Go literal of the zero value.
func (k KindEnum) Zero() string {
	switch {
	case k == KindBool:
		return "false"
	case k == KindString:
		return `""`
	case k.IsNumber():
		return "0"
	default:
		return ""
	}
}

// MapperName is the name of the built-in mapper for this kind in the runtime
// package, e.g. "Int64".
func (k KindEnum) MapperName() string {
	if k == 0 {
		return ""
	}

	return k.String()[len("Kind"):]
}

// TypeName is the predeclared Go type name of the kind, e.g. "uint16".
func (k KindEnum) TypeName() string {
	return strings.ToLower(k.MapperName())
}
