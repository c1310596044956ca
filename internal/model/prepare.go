package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/match"
)

// Default property names of the tag-carrying resolver variants.
const (
	DefaultTagProperty   = "type"
	DefaultValueProperty = "value"
)

// Prepare fills in defaults, infers missing adapter trees, validates every
// reference and computes the cycle report when the batch has none. The batch
// must not be modified afterwards.
func Prepare(b *Batch) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	applyDefaults(b)
	b.index()

	p := preparer{batch: b, diags: res}
	p.validateTypes()

	for _, t := range b.Types {
		p.prepareType(t)
	}

	if b.Cycles == nil {
		b.Cycles = FindCycles(b)
	}

	for _, group := range b.Cycles {
		for _, ref := range group {
			p.checkRef(ref, "", "cycles")
		}
	}

	return res
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(b *Batch) {
	if b.Output.Name == "" {
		b.Output.Name = common.PkgAlias(b.Output.Path)
	}

	for _, d := range b.Adapters {
		if d.Capability == capability.None {
			d.Capability = capability.Mapper
		}
	}

	for _, t := range b.Types {
		if t.Adapter == "" {
			t.Adapter = t.Name + "Adapter"
		}

		for i := range t.Fields {
			f := &t.Fields[i]
			if f.Go != "" && len(f.Getters) == 0 && len(f.Setters) == 0 {
				f.Getters = []Accessor{{Name: f.Go}}
				f.Setters = []Accessor{{Name: f.Go}}
			}

			for j := range f.Setters {
				if f.Setters[j].Default == "" {
					f.Setters[j].Default = f.Default
				}
			}

			for j := range f.Getters {
				if f.Getters[j].Default == "" {
					f.Getters[j].Default = f.Default
				}
			}
		}
	}
}

type preparer struct {
	batch *Batch
	diags *diagnostic.Diagnostics
}

func (p *preparer) validateTypes() {
	seen := map[string]bool{}

	for _, t := range p.batch.Types {
		if t.Name == "" {
			p.diags.AddError("empty_type_name", "type without a name", "", "")
			continue
		}

		if seen[t.Adapter] {
			p.diags.AddError("duplicate_type", fmt.Sprintf("adapter %s generated twice", t.Adapter), t.Name, "")
		}

		seen[t.Adapter] = true
	}
}

func (p *preparer) prepareType(t *TypeModel) {
	names := lo.Map(t.Fields, func(f FieldData, _ int) string { return f.Name })
	ctors := lo.Map(t.Constructors, func(c Constructor, _ int) string { return c.Func })

	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		p.diags.AddError("duplicate_property", fmt.Sprintf("properties declared twice: %v", dups), t.Name, "")
	}

	for _, c := range t.Constructors {
		for _, param := range c.Params {
			p.checkProperty(t, names, param, c.Func)
		}
	}

	for i := range t.Fields {
		f := &t.Fields[i]

		for j := range f.Getters {
			p.prepareAccessor(t, f, &f.Getters[j])

			if k := f.Getters[j].Kind; k != AccessField && k != AccessMethod {
				p.diags.AddError("invalid_getter", fmt.Sprintf("getter %s cannot be a %s accessor", f.Getters[j].Name, k),
					t.Name, f.Name)
			}
		}

		for j := range f.Setters {
			s := &f.Setters[j]
			p.prepareAccessor(t, f, s)

			switch s.Kind {
			case AccessField, AccessMethod:
			case AccessBulk:
				if len(s.Names) < 2 {
					p.diags.AddError("bulk_setter_arity",
						fmt.Sprintf("bulk setter %s must consume at least two properties", s.Name), t.Name, f.Name)
				}

				for _, n := range s.Names {
					p.checkProperty(t, names, n, s.Name)
				}
			case AccessConstructor:
				if !lo.Contains(ctors, s.Name) {
					p.diags.AddErrorWithSuggestions("unknown_constructor",
						fmt.Sprintf("setter refers to undeclared constructor %q", s.Name), t.Name, f.Name,
						match.Closest(s.Name, ctors))
				}
			}
		}

		if f.Validator != nil && f.Validator.Ref != nil {
			p.checkRef(*f.Validator.Ref, t.Name, f.Name)
		}
	}

	if t.Validator != nil && t.Validator.Ref != nil {
		p.checkRef(*t.Validator.Ref, t.Name, "")
	}

	if t.Unknown == UnknownHandler {
		if t.UnknownHandler == nil {
			p.diags.AddError("missing_unknown_handler", "unknown-property policy is handler but no handler is set", t.Name, "")
		} else {
			p.checkRef(*t.UnknownHandler, t.Name, "")
		}
	}
}

func (p *preparer) checkProperty(t *TypeModel, names []string, name, owner string) {
	if lo.Contains(names, name) {
		return
	}

	p.diags.AddErrorWithSuggestions("unknown_property",
		fmt.Sprintf("%s consumes unknown property %q", owner, name), t.Name, owner, match.Closest(name, names))
}

func (p *preparer) prepareAccessor(t *TypeModel, f *FieldData, a *Accessor) {
	if a.Converter != nil {
		if a.Converter.Target == "" {
			a.Converter.Target = f.Type
		}

		if a.Converter.Intermediate == "" {
			p.diags.AddError("converter_without_intermediate",
				fmt.Sprintf("converter %s has no intermediate type", a.Converter.Ref), t.Name, f.Name)

			return
		}

		p.checkRef(a.Converter.Ref, t.Name, f.Name)
	}

	valueType := f.Type
	if a.Converter != nil {
		valueType = a.Converter.Intermediate
	}

	tree := a.Tree()
	if tree.Mapper.Type == "" {
		tree.Mapper.Type = valueType
	}

	p.prepareNode(tree, t.Name, f.Name)

	a.Mapper, a.Resolver, a.Generics = tree.Mapper, tree.Resolver, tree.Children
}

// prepareNode normalizes a tree in place: shorthand refs are expanded, empty
// nodes are inferred from their type and every reference is checked.
func (p *preparer) prepareNode(n *GenericTypeInfo, typeName, field string) {
	if n.Resolver != nil {
		p.prepareResolver(n.Resolver, typeName, field)
	} else if n.Mapper.Empty() {
		if err := p.infer(n); err != nil {
			p.diags.AddError("adapter_inference_failed", err.Error(), typeName, field)
			return
		}
	}

	expand(&n.Mapper)
	p.checkMapper(&n.Mapper, typeName, field)

	for i := range n.Children {
		p.prepareNode(&n.Children[i], typeName, field)
	}

	if n.Converter != nil {
		p.checkRef(n.Converter.Ref, typeName, field)
	}
}

// infer fills the base of n from its type. Declared children are kept; the
// whole tree is inferred when there are none.
func (p *preparer) infer(n *GenericTypeInfo) error {
	if len(n.Children) > 0 {
		base, err := p.batch.InferBase(n.Mapper.Type)
		n.Mapper = base

		return err
	}

	inferred, err := p.batch.Infer(n.Mapper.Type)
	if err != nil {
		return err
	}

	n.Mapper, n.Children = inferred.Mapper, inferred.Children

	return nil
}

func (p *preparer) prepareResolver(r *ConcreteTypeResolver, typeName, field string) {
	if r.TagProperty == "" {
		r.TagProperty = DefaultTagProperty
	}

	if r.ValueProperty == "" {
		r.ValueProperty = DefaultValueProperty
	}

	if len(r.Subtypes) == 0 && r.Default == nil {
		p.diags.AddError("empty_resolver", fmt.Sprintf("resolver for %s has no subtypes", r.Type), typeName, field)
	}

	for i := range r.Subtypes {
		p.prepareBranch(&r.Subtypes[i].Mapper, typeName, field)
	}

	if r.Default != nil {
		if r.Default.Type == "" {
			r.Default.Type = r.Type
		}

		if r.DefaultTag == "" {
			r.DefaultTag = TypeTag(r.Default.Type)
		}

		p.prepareBranch(r.Default, typeName, field)
	}
}

// TypeTag is the tag written for a default branch without an explicit one:
// the unqualified type name, "*shapes.Circle" gives "Circle".
func TypeTag(goType string) string {
	name := strings.TrimLeft(goType, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}

func (p *preparer) prepareBranch(m *SpecifiedMapper, typeName, field string) {
	if m.Empty() {
		inferred, err := p.batch.Infer(m.Type)
		if err != nil {
			p.diags.AddError("adapter_inference_failed", err.Error(), typeName, field)
			return
		}

		*m = inferred.Mapper
	}

	expand(m)
	p.checkMapper(m, typeName, field)
}

func (p *preparer) checkMapper(m *SpecifiedMapper, typeName, field string) {
	for _, ref := range []*AdapterRef{m.Parser, m.Serializer} {
		if ref != nil {
			p.checkRef(*ref, typeName, field)
		}
	}
}

func (p *preparer) checkRef(ref AdapterRef, typeName, field string) {
	if _, ok := p.batch.Decl(ref); ok {
		return
	}

	p.diags.AddErrorWithSuggestions("unknown_adapter", fmt.Sprintf("adapter %s is not declared", ref), typeName, field,
		match.Closest(ref.String(), p.batch.Known()))
}

func expand(m *SpecifiedMapper) {
	if m.Ref == nil {
		return
	}

	if m.Parser == nil {
		r := *m.Ref
		m.Parser = &r
	}

	if m.Serializer == nil {
		r := *m.Ref
		m.Serializer = &r
	}

	m.Ref = nil
}
