package registry

import (
	"slices"

	"adapter-generator/internal/common"
)

// LocalDecl is a local variable a routine declares before its body.
type LocalDecl struct {
	Name string
	Init string
}

// Routine records the entries one generated method refers to.
type Routine struct {
	reg  *Registry
	used map[string]bool
}

// Ref returns the expression reaching name inside the routine and records
// the locals it needs.
func (rt *Routine) Ref(name string) (string, error) {
	e, err := rt.reg.Get(name)
	if err != nil {
		return "", err
	}

	if err := rt.use(e); err != nil {
		return "", err
	}

	return rt.reg.expr(name), nil
}

func (rt *Routine) use(e *Entry) error {
	if e.Binding != Local || rt.used[e.Name] {
		return nil
	}

	rt.used[e.Name] = true

	for _, d := range e.Deps {
		dep, err := rt.reg.Get(d)
		if err != nil {
			return err
		}

		if err := rt.use(dep); err != nil {
			return err
		}
	}

	return nil
}

// Locals returns the declarations the routine needs, dependencies first.
func (rt *Routine) Locals() []LocalDecl {
	var entries []*Entry

	for name := range rt.used {
		entries = append(entries, rt.reg.entries[name])
	}

	slices.SortFunc(entries, func(x, y *Entry) int { return x.order - y.order })

	res := make([]LocalDecl, 0, len(entries))
	for _, e := range entries {
		res = append(res, LocalDecl{Name: e.Name, Init: rt.reg.Init(e)})
	}

	return res
}

// Method renders a method with the given signature ("func (...) name(...) ...")
// whose body starts with the routine's locals.
func (rt *Routine) Method(signature, body string) string {
	var c common.Code

	c.Line(signature + " {")

	for _, l := range rt.Locals() {
		c.Linef("%s := %s", l.Name, l.Init)
	}

	c.Raw(body)
	c.Line("}")

	return c.String()
}
