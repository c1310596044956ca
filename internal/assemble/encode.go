package assemble

import (
	"strconv"

	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
	"adapter-generator/primitive"
)

// skipDefault reports whether f is left out when it equals its default.
func skipDefault(f *model.FieldData) bool {
	return !f.Required && f.Default != ""
}

// differs renders the check that value is not the default of f.
func differs(f *model.FieldData, value string) string {
	if k := primitive.FromTypeName(f.Type); k.IsPrimitive() || k == primitive.KindString {
		return value + " != " + f.Default
	}

	return "!mapper.Equal[" + f.Type + "](" + value + ", " + f.Default + ")"
}

func (g *typeGen) serializeMethod() (string, error) {
	rt := g.reg.Routine()
	b := g.backend

	var c common.Code

	if g.t.Pointer {
		c.Line("if v == nil {")
		c.Line(b.WriteNull(out))
		c.Linef("return %s", b.Err(out))
		c.Line("}")
	}

	if g.t.Validator != nil {
		check, err := g.validate(rt, validation{info: g.t.Validator, typ: g.typ, value: "v"})
		if err != nil {
			return "", err
		}

		c.ReturnIfErr(check)
	}

	c.Line(b.StartObject(out))

	delim := b.Delimiter(out)

	tracked := false
	for i := range g.t.Fields {
		tracked = tracked || skipDefault(&g.t.Fields[i])
	}

	tracked = tracked && delim != ""
	if tracked {
		c.Line("more := false")
	}

	for i := range g.t.Fields {
		f := &g.t.Fields[i]

		get, ok := g.getter(f)
		if !ok {
			return "", g.fail(f.Name, "no getter can serialize the property")
		}

		var sep string

		switch {
		case tracked:
			sep = "if more {\n" + delim + "\n}\nmore = true"
		case i > 0:
			sep = delim
		}

		if err := g.writeProperty(rt, &c, i, f, get, sep); err != nil {
			return "", err
		}
	}

	c.Line(b.EndObject(out))
	c.Linef("return %s", b.Err(out))

	sig := "func (" + registry.SelfName + " *" + g.t.Adapter + ") Serialize(v " + g.typ + ", " + out + " " +
		b.OutputType() + ") error"

	return rt.Method(sig, c.String()), nil
}

func (g *typeGen) writeProperty(rt *registry.Routine, c *common.Code, i int, f *model.FieldData,
	get *model.Accessor, sep string,
) error {
	s, err := g.adapter(rt, f, get, capability.Serializer)
	if err != nil {
		return err
	}

	value := "f" + strconv.Itoa(i) + "_" + common.Sanitize(f.Name)

	read := "v." + get.Name
	if get.Kind == model.AccessMethod {
		read += "()"
	}

	wire := value

	if get.Converter != nil {
		conv, err := g.converter(rt, f, get)
		if err != nil {
			return err
		}

		wire = convert(conv, get.Converter, value, false)
	}

	c.Linef("%s := %s", value, read)

	skip := skipDefault(f)
	if skip {
		c.Linef("if %s {", differs(f, value))
	}

	if f.Validator != nil {
		check, err := g.validate(rt, validation{
			info:     f.Validator,
			property: f.Name,
			accessor: get.Name,
			typ:      f.Type,
			value:    value,
		})
		if err != nil {
			return err
		}

		c.ReturnIfErr(check)
	}

	if sep != "" {
		c.Line(sep)
	}

	c.Line(g.backend.WriteProperty(out, f.Name))
	c.ReturnIfErr(s + ".Serialize(" + wire + ", " + out + ")")

	if skip {
		c.Line("}")
	}

	return nil
}
