package assemble

import (
	"strconv"
	"strings"

	"adapter-generator/internal/generic"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
	"adapter-generator/primitive"
)

// converter binds the field converter of a and returns the expression
// reaching it inside rt.
func (g *typeGen) converter(rt *registry.Routine, f *model.FieldData, a *model.Accessor) (string, error) {
	name, err := g.reg.Accept(a.Converter.Ref, generic.ConverterType(a.Converter))
	if err != nil {
		return "", g.fail(f.Name, "converter %s: %v", a.Converter.Ref, err)
	}

	return rt.Ref(name)
}

// convert renders the conversion of value through conv. Decoding turns the
// intermediate into the target, encoding goes the other way. Specialized
// converters work on int, int64, float64 or bool; narrower primitives are
// converted around the call.
func convert(conv string, c *model.ConverterData, value string, decode bool) string {
	k := generic.ConverterMethod(c)
	if k == "" {
		if decode {
			return conv + ".Decode(" + value + ")"
		}

		return conv + ".Encode(" + value + ")"
	}

	target := primitive.FromTypeName(c.Target)
	if target.IsPrimitive() {
		wire := target.ConverterType()
		if decode {
			return cast(c.Target, wire, conv+".To"+k+"("+value+")")
		}

		return conv + ".From" + k + "(" + cast(wire, c.Target, value) + ")"
	}

	wire := primitive.FromTypeName(c.Intermediate).ConverterType()
	if decode {
		return conv + ".From" + k + "(" + cast(wire, c.Intermediate, value) + ")"
	}

	return cast(c.Intermediate, wire, conv+".To"+k+"("+value+")")
}

// cast converts expr of type from to type to when they differ.
func cast(to, from, expr string) string {
	if to == from {
		return expr
	}

	return to + "(" + expr + ")"
}

// validation describes one validator invocation.
type validation struct {
	info     *model.ValidatorInfo
	property string
	accessor string
	typ      string
	value    string
}

// validate renders an expression of type error checking v.
func (g *typeGen) validate(rt *registry.Routine, v validation) (string, error) {
	if v.info.Template != "" {
		return strings.NewReplacer(
			"$s", strconv.Quote(v.property),
			"$j", strconv.Quote(v.accessor),
			"$e", strconv.Quote(g.t.Name),
			"$t", v.typ,
			"$v", v.value,
			"$i", registry.SelfName,
		).Replace(v.info.Template), nil
	}

	decl, ok := g.batch.Decl(*v.info.Ref)
	if !ok {
		return "", g.fail(v.property, "validator %s is not declared", v.info.Ref)
	}

	var typeArgs []string
	if decl.TypeParams > 0 {
		typeArgs = []string{v.typ}
	}

	name, err := g.reg.Accept(*v.info.Ref, "mapper.Validator["+v.typ+"]", typeArgs...)
	if err != nil {
		return "", g.fail(v.property, "validator %s: %v", v.info.Ref, err)
	}

	expr, err := rt.Ref(name)
	if err != nil {
		return "", err
	}

	return expr + ".Validate(" + strconv.Quote(v.property) + ", " + strconv.Quote(v.accessor) + ", " +
		strconv.Quote(g.t.Name) + ", " + v.value + ")", nil
}
