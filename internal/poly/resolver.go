package poly

import (
	"strconv"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"adapter-generator/internal/backend"
	"adapter-generator/internal/capability"
	"adapter-generator/internal/common"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/generic"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
)

// Composer resolves the adapter trees of the branches.
type Composer interface {
	Adapter(node *model.GenericTypeInfo, side capability.Capability) (string, error)
	Capability(node *model.GenericTypeInfo) (capability.Capability, error)
}

// Config identifies the generated adapter the dispatch methods belong to.
type Config struct {
	// Adapter is the receiver type name, e.g. "CanvasAdapter".
	Adapter string
	// Owner is the type name used in diagnostics.
	Owner string
}

// Resolver is the per-type polymorphic dispatch generator.
type Resolver struct {
	cfg     Config
	reg     *registry.Registry
	engine  Composer
	backend backend.Backend
	diags   *diagnostic.Diagnostics
	log     *zap.Logger

	methods []string
	memo    map[string]string
	names   map[string]int
}

// New creates a resolver emitting methods for cfg.Adapter.
func New(cfg Config, reg *registry.Registry, engine Composer, b backend.Backend, diags *diagnostic.Diagnostics,
	log *zap.Logger,
) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}

	if diags == nil {
		diags = &diagnostic.Diagnostics{}
	}

	return &Resolver{
		cfg:     cfg,
		reg:     reg,
		engine:  engine,
		backend: b,
		diags:   diags,
		log:     log,
		memo:    map[string]string{},
		names:   map[string]int{},
	}
}

// Methods returns the generated dispatch methods in generation order.
func (r *Resolver) Methods() []string {
	return r.methods
}

type branch struct {
	tag  string
	typ  string
	node model.GenericTypeInfo
}

func (r *Resolver) branches(node *model.GenericTypeInfo) []branch {
	res := make([]branch, 0, len(node.Resolver.Subtypes))

	for _, s := range node.Resolver.Subtypes {
		res = append(res, branch{
			tag:  s.Tag,
			typ:  s.Mapper.Type,
			node: model.GenericTypeInfo{Mapper: s.Mapper, Children: node.Children},
		})
	}

	return res
}

func (r *Resolver) defaultBranch(node *model.GenericTypeInfo) *branch {
	res := node.Resolver
	if res.Default == nil {
		return nil
	}

	m := *res.Default
	if m.Type == "" {
		m.Type = res.Type
	}

	tag := res.DefaultTag
	if tag == "" {
		tag = model.TypeTag(m.Type)
	}

	return &branch{
		tag:  tag,
		typ:  m.Type,
		node: model.GenericTypeInfo{Mapper: m, Children: node.Children},
	}
}

// Capability folds the capabilities of every branch and the default.
func (r *Resolver) Capability(node *model.GenericTypeInfo) (capability.Capability, error) {
	var caps []capability.Capability

	all := r.branches(node)
	if d := r.defaultBranch(node); d != nil {
		all = append(all, *d)
	}

	for i := range all {
		c, err := r.engine.Capability(&all[i].node)
		if err != nil {
			return capability.None, err
		}

		caps = append(caps, c)
	}

	c, err := capability.Fold(caps...)
	if err != nil {
		return capability.None, diagnostic.Synthesisf(r.cfg.Owner, "", "resolver for %s: %v", node.Resolver.Type, err)
	}

	return c, nil
}

// Resolve generates the dispatch methods for node (once per distinct
// configuration) and returns the registry entry wrapping them.
func (r *Resolver) Resolve(node *model.GenericTypeInfo, side capability.Capability) (string, error) {
	key, err := fingerprint(node)
	if err != nil {
		return "", &diagnostic.SynthesisError{Type: r.cfg.Owner, Err: err}
	}

	if name, ok := r.memo[key]; ok {
		return name, nil
	}

	if len(node.Resolver.Subtypes) == 0 && node.Resolver.Default == nil {
		return "", diagnostic.Synthesisf(r.cfg.Owner, "", "resolver for %s has neither subtypes nor a default",
			node.Resolver.Type)
	}

	c, err := r.Capability(node)
	if err != nil {
		return "", err
	}

	if c.Restrict(side) != side {
		return "", diagnostic.Synthesisf(r.cfg.Owner, "", "resolver for %s supports %s only, %s is required",
			node.Resolver.Type, c, side)
	}

	if node.Resolver.Variant == model.EmbeddedTag {
		if _, ok := backend.AsBuffered(r.backend); !ok {
			return "", diagnostic.Synthesisf(r.cfg.Owner, "",
				"embedded-tag dispatch for %s needs a buffering backend, %s has none", node.Resolver.Type, r.backend.Name())
		}
	}

	g := &dispatch{
		Resolver: r,
		node:     node,
		res:      node.Resolver,
		typ:      node.GoType(),
		suffix:   r.uniqueName(common.Sanitize(node.GoType())),
	}

	if err := g.generate(c); err != nil {
		return "", err
	}

	name, err := r.reg.Define("resolverFor_"+g.suffix, generic.InterfaceType(c, g.typ), nil,
		[]string{model.RuntimePackage}, g.wrapper(c))
	if err != nil {
		return "", err
	}

	r.memo[key] = name
	r.log.Debug("resolver generated", zap.String("name", name), zap.Stringer("variant", node.Resolver.Variant))

	return name, nil
}

func (r *Resolver) uniqueName(base string) string {
	n := r.names[base]
	r.names[base] = n + 1

	if n == 0 {
		return base
	}

	return base + "_" + strconv.Itoa(n)
}

// fingerprint identifies a resolver configuration together with the
// generic arguments its branches receive.
func fingerprint(node *model.GenericTypeInfo) (string, error) {
	data, err := json.Marshal(struct {
		Resolver *model.ConcreteTypeResolver
		Children []model.GenericTypeInfo
	}{node.Resolver, node.Children})
	if err != nil {
		return "", errors.Wrapf(err, "fingerprinting resolver for %s", node.Resolver.Type)
	}

	return string(data), nil
}
