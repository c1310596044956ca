package model

import (
	"strings"

	"github.com/cockroachdb/errors"

	"adapter-generator/internal/common"
)

// ErrUnknownEnumValue is returned when a model file names an unknown kind.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// AdapterKind classifies catalog entries.
type AdapterKind int

const (
	KindAdapter AdapterKind = iota
	KindConverter
	KindValidator
	KindHandler
)

var adapterKindNames = []string{"adapter", "converter", "validator", "handler"}

func (k AdapterKind) String() string {
	return enumName(adapterKindNames, int(k))
}

func (k AdapterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AdapterKind) UnmarshalText(text []byte) error {
	return parseEnum(adapterKindNames, (*int)(k), "adapter kind", text)
}

// AccessKind says how a getter or setter reaches the value. The set is closed
// and every switch over it is exhaustive.
type AccessKind int

const (
	// AccessField reads or assigns an exported struct field.
	AccessField AccessKind = iota
	// AccessMethod calls a getter method or a one-argument setter method.
	AccessMethod
	// AccessBulk calls a setter method consuming several properties at once.
	AccessBulk
	// AccessConstructor passes the value as a constructor parameter.
	AccessConstructor
)

var accessKindNames = []string{"field", "method", "bulk", "constructor"}

func (k AccessKind) String() string {
	return enumName(accessKindNames, int(k))
}

func (k AccessKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AccessKind) UnmarshalText(text []byte) error {
	return parseEnum(accessKindNames, (*int)(k), "access kind", text)
}

// Variant is the wire shape of a polymorphic value.
type Variant int

const (
	// TaggedWrapper is {"tag": value}.
	TaggedWrapper Variant = iota
	// ExternalTag is {"type": "tag", "value": value}.
	ExternalTag
	// EmbeddedTag is {"type": "tag", ...value properties}.
	EmbeddedTag
)

var variantNames = []string{"tagged-wrapper", "external-tag", "embedded-tag"}

func (v Variant) String() string {
	return enumName(variantNames, int(v))
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	return parseEnum(variantNames, (*int)(v), "variant", text)
}

// UnknownPolicy decides what generated parsers do with unknown properties.
type UnknownPolicy int

const (
	UnknownFail UnknownPolicy = iota
	UnknownSkip
	// UnknownHandler delegates to TypeModel.UnknownHandler.
	UnknownHandler
)

var unknownPolicyNames = []string{"fail", "skip", "handler"}

func (p UnknownPolicy) String() string {
	return enumName(unknownPolicyNames, int(p))
}

func (p UnknownPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *UnknownPolicy) UnmarshalText(text []byte) error {
	return parseEnum(unknownPolicyNames, (*int)(p), "unknown-property policy", text)
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return common.UnknownStr
	}

	return names[i]
}

func parseEnum(names []string, dst *int, what string, text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "" {
		*dst = 0
		return nil
	}

	for i, n := range names {
		if n == s {
			*dst = i
			return nil
		}
	}

	return errors.Wrapf(ErrUnknownEnumValue, "%s %q (expected one of %s)", what, s, strings.Join(names, ", "))
}
