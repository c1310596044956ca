package model

import (
	"strings"

	"github.com/cockroachdb/errors"

	"adapter-generator/primitive"
)

// ErrNoAdapter is returned when no adapter is known for a Go type expression.
var ErrNoAdapter = errors.New("no adapter known for type")

// Infer builds the adapter tree for a Go type expression, as seen from the
// output package. Batch types map to their generated adapters, declared
// adapters to themselves, basic types to the runtime scalars; slices,
// string-keyed maps, sets (map[K]struct{}) and pointers map to the runtime
// containers applied to the inferred element tree.
func (b *Batch) Infer(expr string) (*GenericTypeInfo, error) {
	expr = strings.TrimSpace(expr)

	if ref, ok := b.leafFor(expr); ok {
		return leaf(expr, ref), nil
	}

	container, elem, ok := containerOf(expr)
	if !ok {
		return nil, errors.Wrapf(ErrNoAdapter, "%q", expr)
	}

	child, err := b.Infer(elem)
	if err != nil {
		return nil, err
	}

	node := leaf(expr, RuntimeRef(container))
	node.Children = []GenericTypeInfo{*child}

	return node, nil
}

// InferBase returns the base adapter for expr without looking at its element
// types: the container for composite types, the leaf adapter otherwise.
func (b *Batch) InferBase(expr string) (SpecifiedMapper, error) {
	expr = strings.TrimSpace(expr)

	if ref, ok := b.leafFor(expr); ok {
		return leaf(expr, ref).Mapper, nil
	}

	if container, _, ok := containerOf(expr); ok {
		return leaf(expr, RuntimeRef(container)).Mapper, nil
	}

	return SpecifiedMapper{}, errors.Wrapf(ErrNoAdapter, "%q", expr)
}

func containerOf(expr string) (string, string, bool) {
	switch {
	case strings.HasPrefix(expr, "[]"):
		return "List", expr[2:], true
	case strings.HasPrefix(expr, "*"):
		return "Ptr", expr[1:], true
	case strings.HasPrefix(expr, "map["):
		key, val, ok := splitMap(expr)
		switch {
		case !ok:
		case val == "struct{}":
			return "Set", key, true
		case key == "string":
			return "Map", val, true
		}
	}

	return "", "", false
}

func (b *Batch) leafFor(expr string) (AdapterRef, bool) {
	for _, t := range b.Types {
		if t.Expr(b.Output.Path) == expr {
			return b.AdapterOf(t), true
		}
	}

	for _, d := range b.Adapters {
		if d.Kind == KindAdapter && !d.Generic() && d.Type == expr {
			return d.Ref, true
		}
	}

	if k := primitive.FromTypeName(expr); k != 0 {
		return RuntimeRef(k.MapperName()), true
	}

	return AdapterRef{}, false
}

func leaf(expr string, ref AdapterRef) *GenericTypeInfo {
	p, s := ref, ref

	return &GenericTypeInfo{Mapper: SpecifiedMapper{Type: expr, Parser: &p, Serializer: &s}}
}

// splitMap splits "map[K]V" into K and V, honoring nested brackets in K.
func splitMap(expr string) (string, string, bool) {
	depth := 0

	for i := len("map["); i < len(expr); i++ {
		switch expr[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return expr[len("map["):i], expr[i+1:], true
			}

			depth--
		}
	}

	return "", "", false
}
