package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnresolvedAdapter marks a lookup of a reference that was never accepted.
var ErrUnresolvedAdapter = errors.New("unresolved adapter")

// SynthesisError reports that an adapter cannot be generated for one type.
// The generator records it and moves on to the next type.
type SynthesisError struct {
	Type     string
	Field    string
	Position string
	Err      error
}

func (e *SynthesisError) Error() string {
	var b strings.Builder

	b.WriteString("cannot synthesize adapter for ")
	b.WriteString(e.Type)

	if e.Field != "" {
		b.WriteString(" (property ")
		b.WriteString(e.Field)
		b.WriteString(")")
	}

	if e.Position != "" {
		b.WriteString(" at ")
		b.WriteString(e.Position)
	}

	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	return b.String()
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// Synthesisf builds a SynthesisError with a formatted cause.
func Synthesisf(typeName, field, format string, args ...any) *SynthesisError {
	return &SynthesisError{Type: typeName, Field: field, Err: errors.Newf(format, args...)}
}

// UnresolvedAdapterError is raised when generated code would reference an
// adapter that the registry never bound. It indicates an engine defect and
// aborts the whole run.
type UnresolvedAdapterError struct {
	Ref fmt.Stringer
}

func (e *UnresolvedAdapterError) Error() string {
	return "unresolved adapter " + e.Ref.String()
}

func (e *UnresolvedAdapterError) Unwrap() error {
	return ErrUnresolvedAdapter
}

// IsSynthesis reports whether err carries a SynthesisError.
func IsSynthesis(err error) bool {
	var se *SynthesisError
	return errors.As(err, &se)
}
