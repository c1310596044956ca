package model

import (
	"adapter-generator/internal/capability"
	"adapter-generator/primitive"
)

// RuntimePackage is the import path of the runtime used by generated code.
const RuntimePackage = "adapter-generator/mapper"

// RuntimeRef references a runtime declaration by name.
func RuntimeRef(name string) AdapterRef {
	return AdapterRef{Package: RuntimePackage, Name: name}
}

// Builtins returns the catalog of the runtime package.
func Builtins() []*AdapterDecl {
	var res []*AdapterDecl

	for k := primitive.KindEnum(1); int(k) < primitive.KindTotal; k++ {
		res = append(res, &AdapterDecl{
			Ref:        RuntimeRef(k.MapperName()),
			Capability: capability.Mapper,
			Type:       k.TypeName(),
			Instance:   k.MapperName(),
			Primitive:  true,
		})
	}

	containers := []struct {
		name string
		typ  string
	}{
		{"List", "[]T"},
		{"Map", "map[string]T"},
		{"Set", "map[T]struct{}"},
		{"Ptr", "*T"},
	}
	for _, c := range containers {
		res = append(res, &AdapterDecl{
			Ref:             RuntimeRef(c.name),
			Capability:      capability.Mapper,
			Type:            c.typ,
			Apply:           c.name,
			ApplyParser:     c.name + "Parser",
			ApplySerializer: c.name + "Serializer",
			TypeParams:      1,
		})
	}

	res = append(res,
		&AdapterDecl{Ref: RuntimeRef("FailOnUnknown"), Kind: KindHandler, Instance: "FailOnUnknown"},
		&AdapterDecl{Ref: RuntimeRef("SkipUnknown"), Kind: KindHandler, Instance: "SkipUnknown"},
		&AdapterDecl{Ref: RuntimeRef("NonZero"), Kind: KindValidator, New: "NonZero", TypeParams: 1},
	)

	return res
}
