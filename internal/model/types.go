package model

import (
	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
)

// AdapterDecl describes a referenced adapter: what it handles and how
// generated code obtains it.
type AdapterDecl struct {
	Ref        AdapterRef            `yaml:"ref" json:"ref"`
	Kind       AdapterKind           `yaml:"kind,omitempty" json:"kind,omitempty"`
	Capability capability.Capability `yaml:"capability,omitempty" json:"capability,omitempty"`
	// Type is the Go type the adapter handles, as seen from the output package.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Instance names the package-level variable holding the single instance.
	Instance string `yaml:"instance,omitempty" json:"instance,omitempty"`
	// New names a constructor function. Instanceless adapters without one are
	// created with a composite literal of Ref.Name.
	New string `yaml:"new,omitempty" json:"new,omitempty"`
	// Apply, ApplyParser and ApplySerializer name generic functions taking
	// one adapter per type parameter.
	Apply           string `yaml:"apply,omitempty" json:"apply,omitempty"`
	ApplyParser     string `yaml:"applyParser,omitempty" json:"applyParser,omitempty"`
	ApplySerializer string `yaml:"applySerializer,omitempty" json:"applySerializer,omitempty"`
	// TypeParams is the number of type parameters New or Apply expect.
	TypeParams int  `yaml:"typeParams,omitempty" json:"typeParams,omitempty"`
	Primitive  bool `yaml:"primitive,omitempty" json:"primitive,omitempty"`
}

// Generic reports whether the adapter is applied to child adapters.
func (d *AdapterDecl) Generic() bool {
	return d.Apply != "" || d.ApplyParser != "" || d.ApplySerializer != ""
}

// ApplyFor returns the application function for the requested directions.
// A full Apply serves one-sided requests as well.
func (d *AdapterDecl) ApplyFor(c capability.Capability) string {
	switch c {
	case capability.Parser:
		if d.ApplyParser != "" {
			return d.ApplyParser
		}
	case capability.Serializer:
		if d.ApplySerializer != "" {
			return d.ApplySerializer
		}
	}

	return d.Apply
}

// SpecifiedMapper pins the adapters used for one type. Ref is shorthand for
// the same adapter on both sides.
type SpecifiedMapper struct {
	Type       string      `yaml:"type,omitempty" json:"type,omitempty"`
	Ref        *AdapterRef `yaml:"ref,omitempty" json:"ref,omitempty"`
	Parser     *AdapterRef `yaml:"parser,omitempty" json:"parser,omitempty"`
	Serializer *AdapterRef `yaml:"serializer,omitempty" json:"serializer,omitempty"`
}

// Empty reports a mapper with no adapter pinned.
func (m *SpecifiedMapper) Empty() bool {
	return m.Ref == nil && m.Parser == nil && m.Serializer == nil
}

// Split reports whether parse and serialize use different adapters.
func (m *SpecifiedMapper) Split() bool {
	if m.Parser == nil || m.Serializer == nil {
		return m.Parser != m.Serializer
	}

	return *m.Parser != *m.Serializer
}

// ConverterData turns the serialized Intermediate type into the Go Target type.
type ConverterData struct {
	Ref          AdapterRef `yaml:"ref" json:"ref"`
	Intermediate string     `yaml:"intermediate" json:"intermediate"`
	Target       string     `yaml:"target" json:"target"`
}

// Subtype is one branch of a polymorphic dispatch.
type Subtype struct {
	Tag    string          `yaml:"tag" json:"tag"`
	Mapper SpecifiedMapper `yaml:"mapper" json:"mapper"`
}

// ConcreteTypeResolver dispatches an interface type to its concrete subtypes.
type ConcreteTypeResolver struct {
	Variant       Variant          `yaml:"variant,omitempty" json:"variant,omitempty"`
	Type          string           `yaml:"type" json:"type"`
	Subtypes      []Subtype        `yaml:"subtypes" json:"subtypes"`
	Default       *SpecifiedMapper `yaml:"default,omitempty" json:"default,omitempty"`
	DefaultTag    string           `yaml:"defaultTag,omitempty" json:"defaultTag,omitempty"`
	TagProperty   string           `yaml:"tagProperty,omitempty" json:"tagProperty,omitempty"`
	ValueProperty string           `yaml:"valueProperty,omitempty" json:"valueProperty,omitempty"`
}

// GenericTypeInfo is a node of an adapter tree: a base adapter (or resolver)
// applied to ordered children, optionally wrapped by a converter.
type GenericTypeInfo struct {
	Mapper    SpecifiedMapper       `yaml:"mapper" json:"mapper"`
	Resolver  *ConcreteTypeResolver `yaml:"resolver,omitempty" json:"resolver,omitempty"`
	Children  []GenericTypeInfo     `yaml:"children,omitempty" json:"children,omitempty"`
	Converter *ConverterData        `yaml:"converter,omitempty" json:"converter,omitempty"`

	// Capability is computed bottom-up during synthesis.
	Capability capability.Capability `yaml:"-" json:"-"`
}

// GoType is the type of values the node produces: the converter target when
// wrapped, the mapper type otherwise.
func (g *GenericTypeInfo) GoType() string {
	if g.Converter != nil {
		return g.Converter.Target
	}

	if g.Resolver != nil && g.Mapper.Type == "" {
		return g.Resolver.Type
	}

	return g.Mapper.Type
}

// ValidatorInfo checks a value either through an inline template producing an
// error expression or through an external validator instance.
//
// Template placeholders: $s serialized name, $j accessor name, $e owner type
// name (all as string literals), $t value type, $v value expression, $i the
// adapter receiver.
type ValidatorInfo struct {
	Template string      `yaml:"template,omitempty" json:"template,omitempty"`
	Ref      *AdapterRef `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// Accessor is a getter or a setter of a property.
type Accessor struct {
	Name string     `yaml:"name" json:"name"`
	Kind AccessKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	// Names lists the serialized names a bulk setter consumes, in argument order.
	Names     []string              `yaml:"names,omitempty" json:"names,omitempty"`
	Mapper    SpecifiedMapper       `yaml:"mapper,omitempty" json:"mapper,omitempty"`
	Default   string                `yaml:"default,omitempty" json:"default,omitempty"`
	Generics  []GenericTypeInfo     `yaml:"generics,omitempty" json:"generics,omitempty"`
	Converter *ConverterData        `yaml:"converter,omitempty" json:"converter,omitempty"`
	Resolver  *ConcreteTypeResolver `yaml:"resolver,omitempty" json:"resolver,omitempty"`
}

// Tree returns the adapter tree rooted at the accessor. The field converter
// is left out: it is applied inline by the assembler.
func (a *Accessor) Tree() *GenericTypeInfo {
	return &GenericTypeInfo{Mapper: a.Mapper, Resolver: a.Resolver, Children: a.Generics}
}

// FieldData is one serialized property.
type FieldData struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	// Go is shorthand for a field getter and a field setter with this name.
	Go        string         `yaml:"go,omitempty" json:"go,omitempty"`
	Getters   []Accessor     `yaml:"getters,omitempty" json:"getters,omitempty"`
	Setters   []Accessor     `yaml:"setters,omitempty" json:"setters,omitempty"`
	Required  bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Default   string         `yaml:"default,omitempty" json:"default,omitempty"`
	Validator *ValidatorInfo `yaml:"validator,omitempty" json:"validator,omitempty"`
}

// Constructor is a function building the type from serialized properties.
type Constructor struct {
	Func   string   `yaml:"func" json:"func"`
	Params []string `yaml:"params" json:"params"`
}

// TypeModel describes one type to generate an adapter for.
type TypeModel struct {
	Name    string `yaml:"name" json:"name"`
	Package string `yaml:"package,omitempty" json:"package,omitempty"`
	// Pointer makes the adapter handle *Name instead of Name.
	Pointer        bool           `yaml:"pointer,omitempty" json:"pointer,omitempty"`
	Abstract       bool           `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Fields         []FieldData    `yaml:"fields" json:"fields"`
	Constructors   []Constructor  `yaml:"constructors,omitempty" json:"constructors,omitempty"`
	Validator      *ValidatorInfo `yaml:"validator,omitempty" json:"validator,omitempty"`
	Unknown        UnknownPolicy  `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	UnknownHandler *AdapterRef    `yaml:"unknownHandler,omitempty" json:"unknownHandler,omitempty"`
	Imports        []string       `yaml:"imports,omitempty" json:"imports,omitempty"`
	// Adapter is the generated adapter type name, Name+"Adapter" by default.
	Adapter string `yaml:"adapter,omitempty" json:"adapter,omitempty"`
}

// Field returns the property with the given serialized name.
func (t *TypeModel) Field(name string) (*FieldData, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// Expr renders the handled type as seen from package ctxPkg.
func (t *TypeModel) Expr(ctxPkg string) string {
	e := common.Qualify(ctxPkg, t.Package, t.Name)
	if t.Pointer {
		return "*" + e
	}

	return e
}

// OutputPackage is where generated files go.
type OutputPackage struct {
	Path string `yaml:"path" json:"path"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// Batch is one generator run.
type Batch struct {
	Output   OutputPackage  `yaml:"output" json:"output"`
	Types    []*TypeModel   `yaml:"types" json:"types"`
	Adapters []*AdapterDecl `yaml:"adapters,omitempty" json:"adapters,omitempty"`
	// Cycles groups adapters that reference each other. Computed by Prepare
	// when absent.
	Cycles [][]AdapterRef `yaml:"cycles,omitempty" json:"cycles,omitempty"`

	catalog map[AdapterRef]*AdapterDecl
	byRef   map[AdapterRef]*TypeModel
}
