package poly

import (
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"adapter-generator/internal/backend"
	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
)

const (
	in  = "in"
	out = "out"
)

// dispatch generates the methods of one resolver configuration.
type dispatch struct {
	*Resolver

	node   *model.GenericTypeInfo
	res    *model.ConcreteTypeResolver
	typ    string
	suffix string
}

func (g *dispatch) parseMethod() string     { return "parseResolverFor_" + g.suffix }
func (g *dispatch) decodeMethod() string    { return "decodeResolverFor_" + g.suffix }
func (g *dispatch) serializeMethod() string { return "serializeResolverFor_" + g.suffix }

func (g *dispatch) recv() string {
	return "func (" + registry.SelfName + " *" + g.cfg.Adapter + ") "
}

func (g *dispatch) generate(c capability.Capability) error {
	if c.CanParse() {
		if err := g.generateDecode(); err != nil {
			return err
		}

		if err := g.generateParse(); err != nil {
			return err
		}
	}

	if c.CanSerialize() {
		if err := g.generateSerialize(); err != nil {
			return err
		}
	}

	return nil
}

// wrapper renders the registry entry exposing the generated methods.
func (g *dispatch) wrapper(c capability.Capability) registry.Render {
	p := "mapper.ParserFunc[" + g.typ + "](" + registry.SelfName + "." + g.parseMethod() + ")"
	s := "mapper.SerializerFunc[" + g.typ + "](" + registry.SelfName + "." + g.serializeMethod() + ")"

	return func(func(string) string) string {
		switch c {
		case capability.Parser:
			return p
		case capability.Serializer:
			return s
		default:
			return "mapper.Join[" + g.typ + "](" + p + ", " + s + ")"
		}
	}
}

// adapter resolves the adapter of a branch for side inside rt.
func (g *dispatch) adapter(rt *registry.Routine, node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	name, err := g.engine.Adapter(node, side)
	if err != nil {
		return "", err
	}

	return rt.Ref(name)
}

func (g *dispatch) stringAdapter(rt *registry.Routine, side capability.Capability) (string, error) {
	ref := model.RuntimeRef("String")

	return g.adapter(rt, &model.GenericTypeInfo{
		Mapper: model.SpecifiedMapper{Type: "string", Parser: &ref, Serializer: &ref},
	}, side)
}

func (g *dispatch) owner() string {
	return strconv.Quote(g.typ)
}

func (g *dispatch) generateDecode() error {
	rt := g.reg.Routine()

	var c common.Code

	c.Line("switch tag {")

	seen := map[string]bool{}

	for _, b := range g.branches(g.node) {
		if seen[b.tag] {
			g.diags.AddWarning("duplicate_subtype_tag",
				"tag "+strconv.Quote(b.tag)+" is already taken, "+b.typ+" is never decoded",
				g.cfg.Owner, g.res.Type)

			continue
		}

		seen[b.tag] = true

		p, err := g.adapter(rt, &b.node, capability.Parser)
		if err != nil {
			return err
		}

		c.Linef("case %s:", strconv.Quote(b.tag))
		c.Linef("v, err := %s.Parse(%s)", p, in)
		c.Line("return v, err")
	}

	c.Line("default:")

	if d := g.defaultBranch(g.node); d != nil {
		p, err := g.adapter(rt, &d.node, capability.Parser)
		if err != nil {
			return err
		}

		c.Linef("v, err := %s.Parse(%s)", p, in)
		c.Line("return v, err")
	} else {
		c.Linef("var res %s", g.typ)
		c.Linef("return res, mapper.UnknownSubtype(%s, tag)", g.owner())
	}

	c.Line("}")

	g.emit(rt.Method(g.recv()+g.decodeMethod()+"(tag string, "+in+" "+g.backend.InputType()+") ("+g.typ+", error)",
		c.String()))

	return nil
}

func (g *dispatch) generateParse() error {
	rt := g.reg.Routine()

	var c common.Code

	c.Linef("var res %s", g.typ)
	c.Linef("if %s {", g.backend.SkipNull(in))
	c.Line("return res, nil")
	c.Line("}")

	var err error

	switch g.res.Variant {
	case model.TaggedWrapper:
		g.taggedWrapperParse(&c)
	case model.ExternalTag:
		err = g.externalTagParse(rt, &c)
	case model.EmbeddedTag:
		g.embeddedTagParse(&c)
	}

	if err != nil {
		return err
	}

	g.emit(rt.Method(g.recv()+g.parseMethod()+"("+in+" "+g.backend.InputType()+") ("+g.typ+", error)", c.String()))

	return nil
}

func (g *dispatch) taggedWrapperParse(c *common.Code) {
	b := g.backend

	c.Linef("tag, ok := %s", b.NextName(in))
	c.Line("if !ok {")
	c.Linef("if err := %s; err != nil {", b.Err(in))
	c.Line("return res, err")
	c.Line("}")
	c.Linef("return res, mapper.UnknownSubtype(%s, tag)", g.owner())
	c.Line("}")
	c.Linef("res, err := %s.%s(tag, %s)", registry.SelfName, g.decodeMethod(), in)
	c.Line("if err != nil {")
	c.Line("return res, err")
	c.Line("}")
	c.Linef("return res, %s", b.FinalMove(in, registry.SelfName+".OnUnknown", g.typ))
}

func (g *dispatch) externalTagParse(rt *registry.Routine, c *common.Code) error {
	b := g.backend
	buf, buffered := backend.AsBuffered(b)

	str, err := g.stringAdapter(rt, capability.Parser)
	if err != nil {
		return err
	}

	c.Line("var (")
	c.Line("tag string")
	c.Line("hasTag bool")
	c.Line("done bool")

	if buffered {
		c.Line("raw " + buf.RawType())
		c.Line("hasRaw bool")
	}

	c.Line(")")
	c.Linef("for name, ok := %s; ok; name, ok = %s {", b.NextName(in), b.NextName(in))
	c.Line("switch name {")
	c.Linef("case %s:", strconv.Quote(g.res.TagProperty))
	c.Linef("t, err := %s.Parse(%s)", str, in)
	c.Line("if err != nil {")
	c.Line("return res, err")
	c.Line("}")
	c.Line("tag, hasTag = t, true")
	c.Linef("case %s:", strconv.Quote(g.res.ValueProperty))
	c.Line("if !hasTag {")

	if buffered {
		c.Linef("raw, hasRaw = %s, true", buf.Capture(in))
		c.Line("continue")
	} else {
		c.Linef("return res, mapper.TagAfterValue(%s, %s)", g.owner(), strconv.Quote(g.res.TagProperty))
	}

	c.Line("}")
	c.Linef("v, err := %s.%s(tag, %s)", registry.SelfName, g.decodeMethod(), in)
	c.Line("if err != nil {")
	c.Line("return res, err")
	c.Line("}")
	c.Line("res, done = v, true")
	c.Line("default:")
	c.ReturnIfErr("mapper.HandleUnknown("+registry.SelfName+".OnUnknown, "+g.owner()+", name, "+in+")", "res")
	c.Line("}")
	c.Line("}")
	c.Linef("if err := %s; err != nil {", b.Err(in))
	c.Line("return res, err")
	c.Line("}")
	c.Line("if !hasTag {")
	c.Linef("return res, mapper.MissingProperty(%s, %s)", g.owner(), strconv.Quote(g.res.TagProperty))
	c.Line("}")

	if buffered {
		c.Line("if !done && hasRaw {")
		c.Linef("v, err := %s.%s(tag, %s)", registry.SelfName, g.decodeMethod(), buf.Replay("raw"))
		c.Line("if err != nil {")
		c.Line("return res, err")
		c.Line("}")
		c.Line("res, done = v, true")
		c.Line("}")
	}

	c.Line("if !done {")
	c.Linef("return res, mapper.MissingProperty(%s, %s)", g.owner(), strconv.Quote(g.res.ValueProperty))
	c.Line("}")
	c.Line("return res, nil")

	return nil
}

// embeddedTagParse needs a buffering backend, which Resolve checks.
func (g *dispatch) embeddedTagParse(c *common.Code) {
	buf, _ := backend.AsBuffered(g.backend)

	c.Linef("tag, rest, err := %s", buf.SplitTag(g.typ, buf.Capture(in), g.res.TagProperty))
	c.Line("if err != nil {")
	c.Line("return res, err")
	c.Line("}")
	c.Linef("return %s.%s(tag, %s)", registry.SelfName, g.decodeMethod(), buf.Replay("rest"))
}

type serializeCase struct {
	typ  string
	tag  string
	node *model.GenericTypeInfo
}

func (g *dispatch) serializeCases() (cases []serializeCase, fallback *serializeCase) {
	var seen []string

	for _, b := range g.branches(g.node) {
		if slices.Contains(seen, b.typ) {
			continue
		}

		seen = append(seen, b.typ)
		cases = append(cases, serializeCase{typ: b.typ, tag: b.tag, node: &b.node})
	}

	// A default of a concrete type only serializes its own values; other
	// unregistered types still fail.
	d := g.defaultBranch(g.node)
	if d == nil {
		return cases, nil
	}

	sc := serializeCase{typ: d.typ, tag: d.tag, node: &d.node}
	if d.typ == g.typ {
		return cases, &sc
	}

	if !slices.Contains(seen, d.typ) {
		cases = append(cases, sc)
	}

	return cases, nil
}

func (g *dispatch) generateSerialize() error {
	rt := g.reg.Routine()
	b := g.backend

	var c common.Code

	c.Line("if v == nil {")
	c.Line(b.WriteNull(out))
	c.Linef("return %s", b.Err(out))
	c.Line("}")

	cases, fallback := g.serializeCases()

	var tagSer string

	if g.res.Variant == model.ExternalTag {
		var err error
		if tagSer, err = g.stringAdapter(rt, capability.Serializer); err != nil {
			return err
		}
	}

	if len(cases) > 0 {
		c.Line("switch x := v.(type) {")
	} else {
		c.Line("switch v.(type) {")
	}

	for _, sc := range cases {
		s, err := g.adapter(rt, sc.node, capability.Serializer)
		if err != nil {
			return err
		}

		c.Linef("case %s:", sc.typ)
		g.writeBranch(&c, s, "x", sc.tag, tagSer)
	}

	c.Line("default:")

	if fallback != nil {
		s, err := g.adapter(rt, fallback.node, capability.Serializer)
		if err != nil {
			return err
		}

		g.writeBranch(&c, s, "v", fallback.tag, tagSer)
	} else {
		c.Linef("return mapper.UnregisteredType(%s, v)", g.owner())
	}

	c.Line("}")

	g.emit(rt.Method(g.recv()+g.serializeMethod()+"(v "+g.typ+", "+out+" "+b.OutputType()+") error", c.String()))

	return nil
}

func (g *dispatch) writeBranch(c *common.Code, ser, value, tag, tagSer string) {
	b := g.backend
	call := ser + ".Serialize(" + value + ", " + out + ")"

	switch g.res.Variant {
	case model.TaggedWrapper:
		c.Line(b.StartObject(out))
		c.Line(b.WriteProperty(out, tag))
		c.ReturnIfErr(call)
		c.Line(b.EndObject(out))
		c.Linef("return %s", b.Err(out))
	case model.ExternalTag:
		c.Line(b.StartObject(out))
		c.Line(b.WriteProperty(out, g.res.TagProperty))
		c.ReturnIfErr(tagSer + ".Serialize(" + strconv.Quote(tag) + ", " + out + ")")

		if d := b.Delimiter(out); d != "" {
			c.Line(d)
		}

		c.Line(b.WriteProperty(out, g.res.ValueProperty))
		c.ReturnIfErr(call)
		c.Line(b.EndObject(out))
		c.Linef("return %s", b.Err(out))
	case model.EmbeddedTag:
		buf, _ := backend.AsBuffered(b)
		write := "func(" + out + " " + b.OutputType() + ") error {\nreturn " + call + "\n}"
		c.Linef("return %s", buf.WriteTagged(out, g.typ, g.res.TagProperty, tag, write))
	}
}

func (g *dispatch) emit(method string) {
	g.methods = append(g.methods, method)
	g.log.Debug("dispatch method generated", zap.String("resolver", g.suffix),
		zap.String("signature", strings.SplitN(method, "\n", 2)[0]))
}
