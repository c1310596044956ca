package assemble

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
)

// slot holds one property while the object is being read.
type slot struct {
	field  *model.FieldData
	setter *model.Accessor
	value  string
	set    string
}

// available reports whether the slot holds a usable value whether or not the
// property arrived.
func (s *slot) available() bool {
	return s.field.Default != "" || s.field.Required
}

func (g *typeGen) slots() ([]*slot, error) {
	res := make([]*slot, 0, len(g.t.Fields))

	for i := range g.t.Fields {
		f := &g.t.Fields[i]

		s, ok := g.setter(f)
		if !ok {
			return nil, g.fail(f.Name, "no setter can parse the property")
		}

		id := strconv.Itoa(i) + "_" + common.Sanitize(f.Name)
		res = append(res, &slot{field: f, setter: s, value: "v" + id, set: "set" + id})
	}

	return res, nil
}

func (g *typeGen) parseMethod() (string, error) {
	rt := g.reg.Routine()
	b := g.backend
	owner := strconv.Quote(g.t.Name)

	slots, err := g.slots()
	if err != nil {
		return "", err
	}

	var c common.Code

	c.Linef("var res %s", g.typ)
	c.Linef("if %s {", b.SkipNull(in))
	c.Line("return res, nil")
	c.Line("}")

	drain := b.FinalMove(in, registry.SelfName+".OnUnknown", g.t.Name)

	if len(slots) == 0 {
		c.ReturnIfErr(drain, "res")
	} else {
		c.Line("var (")

		for _, s := range slots {
			if s.field.Default != "" {
				c.Linef("%s %s = %s", s.value, s.field.Type, s.field.Default)
			} else {
				c.Linef("%s %s", s.value, s.field.Type)
			}

			c.Linef("%s bool", s.set)
		}

		c.Line(")")
		c.Line("end := false")
		c.Linef("for cnt := 0; cnt < %d; {", len(slots))
		c.Linef("name, ok := %s", b.NextName(in))
		c.Line("if !ok {")
		c.Line("end = true")
		c.Line("break")
		c.Line("}")
		c.Line("switch name {")

		for _, s := range slots {
			if err := g.readProperty(rt, &c, s); err != nil {
				return "", err
			}
		}

		c.Line("default:")
		c.ReturnIfErr("mapper.HandleUnknown("+registry.SelfName+".OnUnknown, "+owner+", name, "+in+")", "res")
		c.Line("}")
		c.Line("}")
		c.Line("if !end {")
		c.ReturnIfErr(drain, "res")
		c.Line("}")
	}

	c.Linef("if err := %s; err != nil {", b.Err(in))
	c.Line("return res, err")
	c.Line("}")

	for _, s := range slots {
		if s.field.Required && s.field.Default == "" {
			c.Linef("if !%s {", s.set)
			c.Linef("return res, mapper.MissingProperty(%s, %s)", owner, strconv.Quote(s.field.Name))
			c.Line("}")
		}
	}

	if err := g.build(rt, &c, slots); err != nil {
		return "", err
	}

	if g.t.Validator != nil {
		check, err := g.validate(rt, validation{info: g.t.Validator, typ: g.typ, value: "res"})
		if err != nil {
			return "", err
		}

		c.ReturnIfErr(check, "res")
	}

	c.Line("return res, nil")

	sig := "func (" + registry.SelfName + " *" + g.t.Adapter + ") Parse(" + in + " " + b.InputType() + ") (" +
		g.typ + ", error)"

	return rt.Method(sig, c.String()), nil
}

func (g *typeGen) readProperty(rt *registry.Routine, c *common.Code, s *slot) error {
	p, err := g.adapter(rt, s.field, s.setter, capability.Parser)
	if err != nil {
		return err
	}

	value := "x"

	if s.setter.Converter != nil {
		conv, err := g.converter(rt, s.field, s.setter)
		if err != nil {
			return err
		}

		value = convert(conv, s.setter.Converter, value, true)
	}

	c.Linef("case %s:", strconv.Quote(s.field.Name))
	c.Linef("x, err := %s.Parse(%s)", p, in)
	c.Line("if err != nil {")
	c.Line("return res, err")
	c.Line("}")
	c.Linef("%s = %s", s.value, value)
	c.Linef("if !%s {", s.set)
	c.Linef("%s = true", s.set)
	c.Line("cnt++")
	c.Line("}")

	return nil
}

// constructor picks the constructor consuming the most properties; the first
// declared wins a tie.
func (g *typeGen) constructor() *model.Constructor {
	var best *model.Constructor

	for i := range g.t.Constructors {
		ctor := &g.t.Constructors[i]
		if best == nil || len(ctor.Params) > len(best.Params) {
			best = ctor
		}
	}

	return best
}

// guarded emits body under the condition that every slot holds a value.
// Available slots need no check.
func guarded(c *common.Code, slots []*slot, body func()) {
	pending := lo.Reject(slots, func(s *slot, _ int) bool { return s.available() })
	if len(pending) == 0 {
		body()
		return
	}

	conds := lo.Map(pending, func(s *slot, _ int) string { return s.set })

	c.Linef("if %s {", strings.Join(conds, " && "))
	body()
	c.Line("}")
}

// build constructs res and applies every setter, validating each property
// before it is stored.
func (g *typeGen) build(rt *registry.Routine, c *common.Code, slots []*slot) error {
	byName := lo.SliceToMap(slots, func(s *slot) (string, *slot) { return s.field.Name, s })

	ctor := g.constructor()

	var consumed []string
	if ctor != nil {
		consumed = ctor.Params
	}

	for _, name := range consumed {
		if byName[name] == nil {
			return g.fail(name, "constructor %s consumes an undeclared property", ctor.Func)
		}
	}

	// Constructor parameters are validated before construction.
	for _, name := range consumed {
		if err := g.validateSlot(rt, c, byName[name], byName[name].setter.Name); err != nil {
			return err
		}
	}

	switch {
	case ctor != nil:
		args := lo.Map(ctor.Params, func(name string, _ int) string { return byName[name].value })
		c.Linef("res = %s(%s)", g.reg.Qualify(g.t.Package, ctor.Func), strings.Join(args, ", "))
	case g.t.Pointer:
		c.Linef("res = &%s{}", g.reg.Qualify(g.t.Package, g.t.Name))
	}

	applied := map[string]bool{}

	var validated []*slot

	for _, s := range slots {
		if slices.Contains(consumed, s.field.Name) {
			continue
		}

		set, ok := applicable(s.field)
		if !ok {
			return g.fail(s.field.Name, "no setter can store the property outside of a constructor")
		}

		validated = append(validated, s)

		if applied[set.Name] {
			continue
		}

		applied[set.Name] = true

		switch set.Kind {
		case model.AccessField:
			guarded(c, []*slot{s}, func() { c.Linef("res.%s = %s", set.Name, s.value) })
		case model.AccessMethod:
			guarded(c, []*slot{s}, func() { c.Linef("res.%s(%s)", set.Name, s.value) })
		case model.AccessBulk:
			bulk := lo.Map(set.Names, func(name string, _ int) *slot { return byName[name] })
			if slices.Contains(bulk, nil) {
				return g.fail(s.field.Name, "bulk setter %s consumes an undeclared property", set.Name)
			}

			args := lo.Map(bulk, func(b *slot, _ int) string { return b.value })
			guarded(c, bulk, func() { c.Linef("res.%s(%s)", set.Name, strings.Join(args, ", ")) })
		}
	}

	for _, s := range validated {
		set, _ := applicable(s.field)
		if err := g.validateSlot(rt, c, s, set.Name); err != nil {
			return err
		}
	}

	return nil
}

// applicable returns the first setter of f that works outside of a constructor.
func applicable(f *model.FieldData) (*model.Accessor, bool) {
	for i := range f.Setters {
		if f.Setters[i].Kind != model.AccessConstructor {
			return &f.Setters[i], true
		}
	}

	return nil, false
}

func (g *typeGen) validateSlot(rt *registry.Routine, c *common.Code, s *slot, accessor string) error {
	if s.field.Validator == nil {
		return nil
	}

	check, err := g.validate(rt, validation{
		info:     s.field.Validator,
		property: s.field.Name,
		accessor: accessor,
		typ:      s.field.Type,
		value:    s.value,
	})
	if err != nil {
		return err
	}

	guarded(c, []*slot{s}, func() { c.ReturnIfErr(check, "res") })

	return nil
}
