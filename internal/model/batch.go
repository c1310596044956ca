package model

import (
	"slices"

	"github.com/samber/lo"

	"adapter-generator/internal/capability"
)

// AdapterOf returns the reference of the adapter generated for t.
func (b *Batch) AdapterOf(t *TypeModel) AdapterRef {
	return AdapterRef{Package: b.Output.Path, Name: t.Adapter}
}

// TypeOf returns the batch type whose generated adapter is ref.
func (b *Batch) TypeOf(ref AdapterRef) (*TypeModel, bool) {
	t, ok := b.byRef[ref]
	return t, ok
}

// Decl looks ref up in the catalog: runtime built-ins, declared adapters and
// the adapters generated for the batch.
func (b *Batch) Decl(ref AdapterRef) (*AdapterDecl, bool) {
	d, ok := b.catalog[ref]
	return d, ok
}

// Known returns every catalog reference as a string, sorted.
func (b *Batch) Known() []string {
	res := lo.Map(lo.Keys(b.catalog), func(r AdapterRef, _ int) string { return r.String() })
	slices.Sort(res)

	return res
}

// InCycle reports whether ref belongs to a reported cycle group.
func (b *Batch) InCycle(ref AdapterRef) bool {
	for _, group := range b.Cycles {
		if slices.Contains(group, ref) {
			return true
		}
	}

	return false
}

// index builds the catalog. Declared adapters override built-ins with the
// same reference; generated adapters override both.
func (b *Batch) index() {
	b.catalog = map[AdapterRef]*AdapterDecl{}
	b.byRef = map[AdapterRef]*TypeModel{}

	for _, d := range Builtins() {
		b.catalog[d.Ref] = d
	}

	for _, d := range b.Adapters {
		b.catalog[d.Ref] = d
	}

	for _, t := range b.Types {
		ref := b.AdapterOf(t)
		b.byRef[ref] = t
		b.catalog[ref] = &AdapterDecl{
			Ref:        ref,
			Capability: capability.Mapper,
			Type:       t.Expr(b.Output.Path),
			Instance:   t.Adapter + "Instance",
			New:        "New" + t.Adapter,
		}
	}
}
