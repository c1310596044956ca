package registry

import (
	"adapter-generator/internal/common"
	"adapter-generator/internal/model"
)

// Holder is a package-level variable holding the instance of an instanceless
// adapter.
type Holder struct {
	Name    string
	Ref     model.AdapterRef
	Init    string
	Package string
}

// Backlog collects holders across every type of a run. It is flushed once,
// after the last type.
type Backlog struct {
	pkg     string
	holders map[model.AdapterRef]*Holder
	order   []model.AdapterRef
}

// NewBacklog creates an empty backlog for the output package pkg.
func NewBacklog(pkg string) *Backlog {
	return &Backlog{pkg: pkg, holders: map[model.AdapterRef]*Holder{}}
}

// Holder returns the holder variable for decl, queueing it on first use.
func (b *Backlog) Holder(decl *model.AdapterDecl) string {
	if h, ok := b.holders[decl.Ref]; ok {
		return h.Name
	}

	h := &Holder{
		Name:    decl.Ref.Ident() + "Holder",
		Ref:     decl.Ref,
		Init:    construct(b.pkg, decl),
		Package: decl.Ref.Package,
	}
	b.holders[decl.Ref] = h
	b.order = append(b.order, decl.Ref)

	return h.Name
}

// Holders returns the queued holders in first-use order.
func (b *Backlog) Holders() []Holder {
	res := make([]Holder, 0, len(b.order))
	for _, ref := range b.order {
		res = append(res, *b.holders[ref])
	}

	return res
}

func (b *Backlog) Len() int {
	return len(b.order)
}

// construct renders a fresh instance of decl: its constructor call or a
// composite literal.
func construct(ctxPkg string, decl *model.AdapterDecl, typeArgs ...string) string {
	if decl.New == "" {
		return "&" + common.Qualify(ctxPkg, decl.Ref.Package, decl.Ref.Name) + "{}"
	}

	fn := common.Qualify(ctxPkg, decl.Ref.Package, decl.New)
	if len(typeArgs) > 0 {
		fn += "[" + joinArgs(typeArgs) + "]"
	}

	return fn + "()"
}
