package generic

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
	"adapter-generator/primitive"
)

// Resolver handles resolver nodes.
type Resolver interface {
	Resolve(node *model.GenericTypeInfo, side capability.Capability) (string, error)
	Capability(node *model.GenericTypeInfo) (capability.Capability, error)
}

// Catalog gives access to adapter declarations.
type Catalog interface {
	Decl(ref model.AdapterRef) (*model.AdapterDecl, bool)
}

type memoKey struct {
	container model.AdapterRef
	fn        string
	children  string
}

// Engine is the per-type composition context.
type Engine struct {
	reg     *registry.Registry
	catalog Catalog
	owner   string
	log     *zap.Logger

	// Poly resolves resolver nodes. It must be set before resolving trees
	// that contain one.
	Poly Resolver

	memo      map[memoKey]string
	resolving map[memoKey]bool
}

// New creates the engine generating into reg on behalf of type owner.
func New(reg *registry.Registry, catalog Catalog, owner string, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		reg:       reg,
		catalog:   catalog,
		owner:     owner,
		log:       log,
		memo:      map[memoKey]string{},
		resolving: map[memoKey]bool{},
	}
}

// InterfaceType is the runtime interface serving side for values of type t.
func InterfaceType(side capability.Capability, t string) string {
	switch side {
	case capability.Parser:
		return "mapper.Parser[" + t + "]"
	case capability.Serializer:
		return "mapper.Serializer[" + t + "]"
	default:
		return "mapper.Mapper[" + t + "]"
	}
}

// Capability computes what node can do: the fold of its base adapter and all
// of its children. The result is stored on the node.
func (e *Engine) Capability(node *model.GenericTypeInfo) (capability.Capability, error) {
	if node.Resolver != nil {
		c, err := e.poly().Capability(node)
		node.Capability = c

		return c, err
	}

	caps := []capability.Capability{e.baseCapability(node)}

	for i := range node.Children {
		c, err := e.Capability(&node.Children[i])
		if err != nil {
			return capability.None, err
		}

		caps = append(caps, c)
	}

	c, err := capability.Fold(caps...)
	if err != nil {
		return capability.None, e.fail("adapter tree for %s: %v", node.GoType(), err)
	}

	node.Capability = c

	return c, nil
}

func (e *Engine) baseCapability(node *model.GenericTypeInfo) capability.Capability {
	nested := len(node.Children) > 0

	side := func(ref *model.AdapterRef, want capability.Capability) bool {
		if ref == nil {
			return false
		}

		decl, ok := e.catalog.Decl(*ref)
		if !ok || decl.Capability.Restrict(want) != want {
			return false
		}

		return !nested || decl.ApplyFor(want) != ""
	}

	return capability.Of(
		side(node.Mapper.Parser, capability.Parser),
		side(node.Mapper.Serializer, capability.Serializer))
}

// Adapter resolves node for side and returns the registry name serving it.
func (e *Engine) Adapter(node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	c, err := e.Capability(node)
	if err != nil {
		return "", err
	}

	if c.Restrict(side) != side {
		return "", e.fail("%s supports %s only, %s is required", node.GoType(), c, side)
	}

	if node.Converter == nil {
		return e.inner(node, side)
	}

	return e.convert(node, side)
}

func (e *Engine) inner(node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	switch {
	case node.Resolver != nil:
		return e.poly().Resolve(node, side)
	case len(node.Children) == 0:
		return e.leaf(node, side)
	default:
		return e.apply(node, side)
	}
}

func (e *Engine) leaf(node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	m := &node.Mapper

	switch side {
	case capability.Parser:
		return e.accept(*m.Parser, m.Type)
	case capability.Serializer:
		return e.accept(*m.Serializer, m.Type)
	}

	if !m.Split() {
		return e.accept(*m.Parser, m.Type)
	}

	p, err := e.accept(*m.Parser, m.Type)
	if err != nil {
		return "", err
	}

	s, err := e.accept(*m.Serializer, m.Type)
	if err != nil {
		return "", err
	}

	return e.join(m.Type, p, s)
}

// accept binds a plain reference with the interface type its declared
// capability allows, so the same reference always gets the same entry.
func (e *Engine) accept(ref model.AdapterRef, t string) (string, error) {
	decl, ok := e.catalog.Decl(ref)
	if !ok {
		return "", e.fail("adapter %s is not declared", ref)
	}

	name, err := e.reg.Accept(ref, InterfaceType(decl.Capability, t))
	if err != nil {
		return "", e.wrap(err)
	}

	return name, nil
}

// Join combines separately resolved parse and serialize entries.
func (e *Engine) Join(t, p, s string) (string, error) {
	return e.join(t, p, s)
}

func (e *Engine) join(t, p, s string) (string, error) {
	return e.reg.Define(p+"_x_"+s, InterfaceType(capability.Mapper, t), []string{p, s},
		[]string{model.RuntimePackage}, func(expr func(string) string) string {
			return "mapper.Join[" + t + "](" + expr(p) + ", " + expr(s) + ")"
		})
}

func (e *Engine) apply(node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	m := &node.Mapper

	if side == capability.Mapper && m.Split() {
		return e.applySplit(node)
	}

	ref := m.Parser
	if side == capability.Serializer {
		ref = m.Serializer
	}

	decl, ok := e.catalog.Decl(*ref)
	if !ok {
		return "", e.fail("adapter %s is not declared", ref)
	}

	if side == capability.Mapper && decl.Apply == "" {
		return e.applySplit(node)
	}

	fn := decl.ApplyFor(side)
	if fn == "" {
		return "", e.fail("%s cannot be applied for %s", decl.Ref, side)
	}

	childSide := side
	if fn == decl.Apply {
		childSide = capability.Mapper
	}

	typeArgs := lo.Map(node.Children, func(c model.GenericTypeInfo, _ int) string { return c.GoType() })

	marker := memoKey{container: decl.Ref, fn: fn, children: strings.Join(typeArgs, ", ")}
	if e.resolving[marker] {
		return "", e.fail("cyclic generic application %s[%s]", fn, marker.children)
	}

	e.resolving[marker] = true
	defer delete(e.resolving, marker)

	children := make([]string, 0, len(node.Children))

	for i := range node.Children {
		name, err := e.Adapter(&node.Children[i], childSide)
		if err != nil {
			return "", err
		}

		children = append(children, name)
	}

	key := memoKey{container: decl.Ref, fn: fn, children: strings.Join(children, "_")}
	if name, ok := e.memo[key]; ok {
		e.log.Debug("generic application reused", zap.String("name", name))
		return name, nil
	}

	name := common.Sanitize(common.PkgAlias(decl.Ref.Package)+"_"+fn) + "__" + key.children + "__"
	fnExpr := e.reg.Qualify(decl.Ref.Package, fn)
	args := strings.Join(typeArgs, ", ")

	name, err := e.reg.Define(name, InterfaceType(fnSide(decl, fn), m.Type), children,
		[]string{decl.Ref.Package}, func(expr func(string) string) string {
			return fnExpr + "[" + args + "](" + strings.Join(lo.Map(children, func(c string, _ int) string {
				return expr(c)
			}), ", ") + ")"
		})
	if err != nil {
		return "", e.wrap(err)
	}

	e.memo[key] = name

	return name, nil
}

func (e *Engine) applySplit(node *model.GenericTypeInfo) (string, error) {
	p, err := e.apply(node, capability.Parser)
	if err != nil {
		return "", err
	}

	s, err := e.apply(node, capability.Serializer)
	if err != nil {
		return "", err
	}

	return e.join(node.Mapper.Type, p, s)
}

// fnSide is the interface returned by an application function.
func fnSide(decl *model.AdapterDecl, fn string) capability.Capability {
	switch fn {
	case decl.ApplyParser:
		return capability.Parser
	case decl.ApplySerializer:
		return capability.Serializer
	default:
		return capability.Mapper
	}
}

// convert wraps the resolved inner adapter with a nested converter. Only
// general converters (Decode/Encode) can be nested.
func (e *Engine) convert(node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	conv := node.Converter
	if ConverterMethod(conv) != "" {
		return "", e.fail("converter %s between %s and %s must implement mapper.Converter to be nested",
			conv.Ref, conv.Intermediate, conv.Target)
	}

	convName, err := e.reg.Accept(conv.Ref, ConverterType(conv))
	if err != nil {
		return "", e.wrap(err)
	}

	bare := *node
	bare.Converter = nil

	var p, s string

	if side.CanParse() {
		if p, err = e.innerSide(&bare, side, capability.Parser); err != nil {
			return "", err
		}
	}

	if side.CanSerialize() {
		if s, err = e.innerSide(&bare, side, capability.Serializer); err != nil {
			return "", err
		}
	}

	combined := p + "_x_" + s
	if side == capability.Mapper && p == s {
		combined = p
	}

	target, inter := conv.Target, conv.Intermediate
	typeArgs := "[" + target + ", " + inter + "]"

	var render registry.Render

	switch side {
	case capability.Parser:
		render = func(expr func(string) string) string {
			return "mapper.ConvertParser" + typeArgs + "(" + expr(p) + ", " + expr(convName) + ")"
		}
	case capability.Serializer:
		render = func(expr func(string) string) string {
			return "mapper.ConvertSerializer" + typeArgs + "(" + expr(s) + ", " + expr(convName) + ")"
		}
	default:
		render = func(expr func(string) string) string {
			return "mapper.ConvertMapper" + typeArgs + "(" + expr(p) + ", " + expr(s) + ", " + expr(convName) + ")"
		}
	}

	deps := lo.Compact(lo.Uniq([]string{p, s, convName}))

	name, err := e.reg.Define(convName+"__"+combined+"__", InterfaceType(side, target), deps,
		[]string{model.RuntimePackage}, render)

	return name, e.wrap(err)
}

// innerSide resolves one direction of a converted node. A full mapper is
// reused for both directions unless the node pins different adapters.
func (e *Engine) innerSide(node *model.GenericTypeInfo, side, want capability.Capability) (string, error) {
	if side == capability.Mapper && !node.Mapper.Split() {
		return e.inner(node, capability.Mapper)
	}

	return e.inner(node, want)
}

// ConverterMethod returns the suffix K of the specialized To<K>/From<K>
// methods a converter uses, or "" for a general Decode/Encode converter.
func ConverterMethod(c *model.ConverterData) string {
	ik, tk := primitive.FromTypeName(c.Intermediate), primitive.FromTypeName(c.Target)

	switch {
	case ik == tk, !ik.IsPrimitive() && !tk.IsPrimitive():
		return ""
	case tk.IsPrimitive():
		return tk.ConverterSuffix()
	default:
		return ik.ConverterSuffix()
	}
}

// ConverterType is the runtime interface a converter is held as.
func ConverterType(c *model.ConverterData) string {
	switch k := ConverterMethod(c); {
	case k == "":
		return "mapper.Converter[" + c.Intermediate + ", " + c.Target + "]"
	case primitive.FromTypeName(c.Target).IsPrimitive():
		return "mapper." + k + "Converter[" + c.Intermediate + "]"
	default:
		return "mapper." + k + "Converter[" + c.Target + "]"
	}
}

func (e *Engine) poly() Resolver {
	if e.Poly == nil {
		return missingResolver{}
	}

	return e.Poly
}

func (e *Engine) fail(format string, args ...any) error {
	return diagnostic.Synthesisf(e.owner, "", format, args...)
}

// wrap turns registry errors into synthesis errors, keeping engine defects
// (unresolved adapters) as they are.
func (e *Engine) wrap(err error) error {
	if err == nil || errors.Is(err, diagnostic.ErrUnresolvedAdapter) || diagnostic.IsSynthesis(err) {
		return err
	}

	return &diagnostic.SynthesisError{Type: e.owner, Err: err}
}

type missingResolver struct{}

func (missingResolver) Resolve(*model.GenericTypeInfo, capability.Capability) (string, error) {
	return "", errors.New("no polymorphic resolver configured")
}

func (missingResolver) Capability(*model.GenericTypeInfo) (capability.Capability, error) {
	return capability.None, errors.New("no polymorphic resolver configured")
}
