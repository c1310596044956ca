// Package capability folds what an adapter can do: parse, serialize or both.
package capability

import (
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate go tool stringer -type=Capability -output=capability_string.go

// Capability is a bit set over {parse, serialize}.
type Capability int

const (
	None Capability = iota
	Parser
	Serializer
	Mapper
)

// ErrNotCollapsible is returned when members disagree so that neither
// direction survives the fold.
var ErrNotCollapsible = errors.New("capabilities cannot be collapsed: no direction is supported by every member")

// Of builds a capability from the two directions.
func Of(parse, serialize bool) Capability {
	var c Capability
	if parse {
		c |= Parser
	}

	if serialize {
		c |= Serializer
	}

	return c
}

func (c Capability) CanParse() bool {
	return c&Parser != 0
}

func (c Capability) CanSerialize() bool {
	return c&Serializer != 0
}

// Restrict keeps only the directions both c and other support.
func (c Capability) Restrict(other Capability) Capability {
	return c & other
}

// Fold intersects caps. An empty list folds to Mapper. A result with no
// direction left is ErrNotCollapsible.
func Fold(caps ...Capability) (Capability, error) {
	res := Mapper
	for _, c := range caps {
		res &= c
	}

	if res == None {
		return None, errors.Wrapf(ErrNotCollapsible, "folding %v", caps)
	}

	return res, nil
}

// MarshalText renders the lowercase name used in model files.
func (c Capability) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(c.String())), nil
}

// UnmarshalText accepts "parser", "serializer" and "mapper" in any case.
func (c *Capability) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "parser":
		*c = Parser
	case "serializer":
		*c = Serializer
	case "mapper", "":
		*c = Mapper
	default:
		return errors.Newf("unknown capability %q", text)
	}

	return nil
}
