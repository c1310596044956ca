package assemble

import (
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"adapter-generator/internal/backend"
	"adapter-generator/internal/capability"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/generic"
	"adapter-generator/internal/model"
	"adapter-generator/internal/poly"
	"adapter-generator/internal/registry"
)

const (
	in  = "in"
	out = "out"
)

// Result is what callers learn about a generated adapter.
type Result struct {
	Adapter      model.AdapterRef `json:"adapter"`
	CanParse     bool             `json:"canParse"`
	CanSerialize bool             `json:"canSerialize"`
}

// StructField is a field of the generated adapter struct, or its initial
// value when used as an initializer.
type StructField struct {
	Name string
	Type string
}

// Unit is everything needed to render the file of one adapter.
type Unit struct {
	Result Result
	Model  *model.TypeModel
	// Adapter is the generated struct name and Handled the Go type it maps.
	Adapter   string
	Handled   string
	OnUnknown string
	Fields    []StructField
	Inits     []StructField
	Methods   []string
	Imports   []string
}

// Assembler generates adapters for the types of one prepared batch.
type Assembler struct {
	batch   *model.Batch
	backend backend.Backend
	backlog *registry.Backlog
	log     *zap.Logger

	caps map[*model.TypeModel]capability.Capability
}

// New creates an assembler. Instanceless adapters met while assembling are
// queued on backlog.
func New(batch *model.Batch, b backend.Backend, backlog *registry.Backlog, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}

	return &Assembler{batch: batch, backend: b, backlog: backlog, log: log}
}

// Capabilities decides what every type of the batch supports. A type can
// parse when it is concrete and each property has a parsing setter, and
// serialize when each property has a serializing getter. Generated adapters
// refer to each other, so the verdicts are narrowed until nothing changes.
func (as *Assembler) Capabilities() map[*model.TypeModel]capability.Capability {
	if as.caps != nil {
		return as.caps
	}

	caps := map[*model.TypeModel]capability.Capability{}
	for _, t := range as.batch.Types {
		caps[t] = capability.Mapper
	}

	for round := 1; ; round++ {
		changed := false

		for _, t := range as.batch.Types {
			c := as.newTypeGen(t, nil).capability()
			if c == caps[t] {
				continue
			}

			caps[t] = c
			changed = true

			if decl, ok := as.batch.Decl(as.batch.AdapterOf(t)); ok {
				decl.Capability = c
			}

			as.log.Debug("capability narrowed", zap.String("type", t.Name), zap.Stringer("capability", c),
				zap.Int("round", round))
		}

		if !changed {
			break
		}
	}

	as.caps = caps

	return caps
}

// Assemble generates the adapter of t. Warnings go to diags; a
// *diagnostic.SynthesisError means t cannot be generated.
func (as *Assembler) Assemble(t *model.TypeModel, diags *diagnostic.Diagnostics) (*Unit, error) {
	c := as.Capabilities()[t]

	as.log.Debug("assembling adapter", zap.String("type", t.Name), zap.Stringer("capability", c))

	if c == capability.None {
		return nil, diagnostic.Synthesisf(t.Name, "", "neither a parser nor a serializer can be derived")
	}

	g := as.newTypeGen(t, diags)

	unit := &Unit{
		Result:  Result{Adapter: as.batch.AdapterOf(t), CanParse: c.CanParse(), CanSerialize: c.CanSerialize()},
		Model:   t,
		Adapter: t.Adapter,
		Handled: g.typ,
	}

	onUnknown, pkgs, err := g.onUnknown()
	if err != nil {
		return nil, err
	}

	unit.OnUnknown = onUnknown

	if c.CanParse() {
		m, err := g.parseMethod()
		if err != nil {
			return nil, err
		}

		unit.Methods = append(unit.Methods, m)
	}

	if c.CanSerialize() {
		m, err := g.serializeMethod()
		if err != nil {
			return nil, err
		}

		unit.Methods = append(unit.Methods, m)
	}

	unit.Methods = append(unit.Methods, g.poly.Methods()...)

	for _, e := range g.reg.Fields() {
		unit.Fields = append(unit.Fields, StructField{Name: e.Name, Type: e.Type})
		unit.Inits = append(unit.Inits, StructField{Name: e.Name, Type: g.reg.Init(e)})
	}

	unit.Imports = g.imports(pkgs)

	return unit, nil
}

// typeGen is the per-type synthesis context.
type typeGen struct {
	*Assembler

	t     *model.TypeModel
	typ   string
	reg   *registry.Registry
	eng   *generic.Engine
	poly  *poly.Resolver
	diags *diagnostic.Diagnostics
}

func (as *Assembler) newTypeGen(t *model.TypeModel, diags *diagnostic.Diagnostics) *typeGen {
	if diags == nil {
		diags = &diagnostic.Diagnostics{}
	}

	ctx := as.batch.Output.Path
	log := as.log.With(zap.String("type", t.Name))

	reg := registry.New(as.batch.AdapterOf(t), ctx, as.batch, as.backlog, log)
	eng := generic.New(reg, as.batch, t.Name, log)
	pr := poly.New(poly.Config{Adapter: t.Adapter, Owner: t.Name}, reg, eng, as.backend, diags, log)
	eng.Poly = pr

	return &typeGen{
		Assembler: as,
		t:         t,
		typ:       t.Expr(ctx),
		reg:       reg,
		eng:       eng,
		poly:      pr,
		diags:     diags,
	}
}

func (g *typeGen) capability() capability.Capability {
	parse := !g.t.Abstract
	serialize := true

	for i := range g.t.Fields {
		f := &g.t.Fields[i]

		if _, ok := g.setter(f); !ok {
			parse = false
		}

		if _, ok := g.getter(f); !ok {
			serialize = false
		}
	}

	return capability.Of(parse, serialize)
}

// setter returns the first setter of f whose adapter tree can parse. Its tree
// decodes the property.
func (g *typeGen) setter(f *model.FieldData) (*model.Accessor, bool) {
	return g.accessor(f.Setters, capability.Parser)
}

// getter returns the first getter of f whose adapter tree can serialize.
func (g *typeGen) getter(f *model.FieldData) (*model.Accessor, bool) {
	return g.accessor(f.Getters, capability.Serializer)
}

func (g *typeGen) accessor(list []model.Accessor, side capability.Capability) (*model.Accessor, bool) {
	for i := range list {
		c, err := g.eng.Capability(list[i].Tree())
		if err == nil && c.Restrict(side) == side {
			return &list[i], true
		}
	}

	return nil, false
}

// adapter resolves the adapter tree of a for side and returns the
// expression reaching it inside rt. Trees supporting both directions are
// resolved as full mappers so getters and setters share one entry.
func (g *typeGen) adapter(rt *registry.Routine, f *model.FieldData, a *model.Accessor,
	side capability.Capability,
) (string, error) {
	tree := a.Tree()

	c, err := g.eng.Capability(tree)
	if err != nil {
		return "", withField(err, f.Name)
	}

	if c == capability.Mapper {
		side = capability.Mapper
	}

	name, err := g.eng.Adapter(tree, side)
	if err != nil {
		return "", withField(err, f.Name)
	}

	return rt.Ref(name)
}

func (g *typeGen) onUnknown() (string, []string, error) {
	switch g.t.Unknown {
	case model.UnknownSkip:
		return "mapper.SkipUnknown", nil, nil
	case model.UnknownHandler:
		expr, pkgs, err := g.reg.InitExpr(*g.t.UnknownHandler)
		if err != nil {
			return "", nil, diagnostic.Synthesisf(g.t.Name, "", "unknown-property handler: %v", err)
		}

		return expr, pkgs, nil
	default:
		return "mapper.FailOnUnknown", nil, nil
	}
}

// imports lists every package the generated file may refer to. Unused ones
// are pruned when the file is formatted.
func (g *typeGen) imports(extra []string) []string {
	res := []string{model.RuntimePackage}

	for _, imp := range g.backend.Imports() {
		res = append(res, imp.Path)
	}

	res = append(res, g.t.Package)
	res = append(res, g.t.Imports...)
	res = append(res, g.reg.Packages()...)
	res = append(res, extra...)

	res = slices.DeleteFunc(res, func(p string) bool { return p == "" || p == g.batch.Output.Path })
	slices.Sort(res)

	return slices.Compact(res)
}

func (g *typeGen) fail(field, format string, args ...any) error {
	return diagnostic.Synthesisf(g.t.Name, field, format, args...)
}

// withField attaches the property to synthesis errors raised without one.
func withField(err error, field string) error {
	var se *diagnostic.SynthesisError
	if errors.As(err, &se) && se.Field == "" {
		se.Field = field
	}

	return err
}
