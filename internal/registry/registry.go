package registry

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"adapter-generator/internal/common"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/model"
)

// SelfName is the receiver of every generated method and the local variable
// of the generated constructor.
const SelfName = "a"

// ErrUnknownAdapter is returned by Accept for references missing from the
// catalog.
var ErrUnknownAdapter = errors.New("adapter not in catalog")

// Binding says how generated code reaches an entry.
type Binding int

const (
	Self Binding = iota
	Field
	Local
)

func (b Binding) String() string {
	switch b {
	case Self:
		return "self"
	case Field:
		return "field"
	case Local:
		return "local"
	default:
		return common.UnknownStr
	}
}

// Render builds an initialization expression. expr maps a dependency name to
// the expression reaching it in the current scope.
type Render func(expr func(name string) string) string

// Entry is one bound adapter.
type Entry struct {
	Name     string
	Binding  Binding
	Type     string
	Deps     []string
	Packages []string

	render Render
	order  int
}

// Catalog is the part of the model the registry needs.
type Catalog interface {
	Decl(ref model.AdapterRef) (*model.AdapterDecl, bool)
	InCycle(ref model.AdapterRef) bool
}

type acceptKey struct {
	ref      model.AdapterRef
	typ      string
	typeArgs string
}

// Registry is the per-type binding context.
type Registry struct {
	self    model.AdapterRef
	ctxPkg  string
	catalog Catalog
	backlog *Backlog
	log     *zap.Logger

	entries  map[string]*Entry
	order    []*Entry
	accepted map[acceptKey]string
}

// New creates the registry for the adapter self generated into package ctxPkg.
func New(self model.AdapterRef, ctxPkg string, catalog Catalog, backlog *Backlog, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}

	return &Registry{
		self:     self,
		ctxPkg:   ctxPkg,
		catalog:  catalog,
		backlog:  backlog,
		log:      log,
		entries:  map[string]*Entry{},
		accepted: map[acceptKey]string{},
	}
}

// Accept binds ref and returns the entry name. fieldType is the interface
// type of the struct field used when ref ends up shared; typeArgs instantiate
// generic constructors.
func (r *Registry) Accept(ref model.AdapterRef, fieldType string, typeArgs ...string) (string, error) {
	if ref == r.self {
		if _, ok := r.entries[SelfName]; !ok {
			r.add(&Entry{Name: SelfName, Binding: Self})
		}

		return SelfName, nil
	}

	key := acceptKey{ref: ref, typ: fieldType, typeArgs: joinArgs(typeArgs)}
	if name, ok := r.accepted[key]; ok {
		return name, nil
	}

	decl, ok := r.catalog.Decl(ref)
	if !ok {
		return "", errors.Wrapf(ErrUnknownAdapter, "%s", ref)
	}

	e := &Entry{Name: r.freeName(ident(ref, typeArgs)), Type: fieldType}

	switch {
	case r.catalog.InCycle(ref) && !decl.Primitive:
		e.Binding = Local
		e.Packages = []string{ref.Package}
		init := construct(r.ctxPkg, decl, typeArgs...)
		e.render = func(func(string) string) string { return init }
	case decl.Instance != "":
		e.Binding = Field
		e.Packages = []string{ref.Package}
		init := common.Qualify(r.ctxPkg, ref.Package, decl.Instance)
		e.render = func(func(string) string) string { return init }
	case decl.TypeParams > 0:
		e.Binding = Field
		e.Packages = []string{ref.Package}
		init := construct(r.ctxPkg, decl, typeArgs...)
		e.render = func(func(string) string) string { return init }
	default:
		e.Binding = Field
		holder := r.backlog.Holder(decl)
		e.render = func(func(string) string) string { return holder }
	}

	r.add(e)
	r.accepted[key] = e.Name

	r.log.Debug("adapter accepted",
		zap.Stringer("ref", ref), zap.String("name", e.Name), zap.Stringer("binding", e.Binding))

	return e.Name, nil
}

// InitExpr renders an expression producing ref without binding it. It is
// used for values assigned straight into the generated struct.
func (r *Registry) InitExpr(ref model.AdapterRef) (string, []string, error) {
	decl, ok := r.catalog.Decl(ref)
	if !ok {
		return "", nil, errors.Wrapf(ErrUnknownAdapter, "%s", ref)
	}

	if decl.Instance != "" {
		return common.Qualify(r.ctxPkg, ref.Package, decl.Instance), []string{ref.Package}, nil
	}

	return r.backlog.Holder(decl), nil, nil
}

// Define registers a composite entry built from deps. Defining an existing
// name is a no-op, which makes composites memoizable by name. A composite
// depending on a local is itself local.
func (r *Registry) Define(name, fieldType string, deps []string, packages []string, render Render) (string, error) {
	if _, ok := r.entries[name]; ok {
		return name, nil
	}

	e := &Entry{Name: name, Binding: Field, Type: fieldType, Deps: deps, Packages: packages, render: render}

	for _, d := range deps {
		dep, err := r.Get(d)
		if err != nil {
			return "", err
		}

		if dep.Binding == Local {
			e.Binding = Local
		}
	}

	r.add(e)
	r.log.Debug("composite defined", zap.String("name", name), zap.Stringer("binding", e.Binding))

	return name, nil
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Get returns the entry bound to name.
func (r *Registry) Get(name string) (*Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, &diagnostic.UnresolvedAdapterError{Ref: model.AdapterRef{Name: name}}
	}

	return e, nil
}

// Fields returns the shared entries in definition order.
func (r *Registry) Fields() []*Entry {
	var res []*Entry

	for _, e := range r.order {
		if e.Binding == Field {
			res = append(res, e)
		}
	}

	return res
}

// Init renders the initialization expression of e.
func (r *Registry) Init(e *Entry) string {
	return e.render(r.expr)
}

// Packages lists every package referenced by bound entries, sorted.
func (r *Registry) Packages() []string {
	var res []string

	for _, e := range r.order {
		for _, p := range e.Packages {
			if p != "" && p != r.ctxPkg {
				res = append(res, p)
			}
		}
	}

	slices.Sort(res)

	return slices.Compact(res)
}

// Qualify renders name from package pkg as seen from the generated file.
func (r *Registry) Qualify(pkg, name string) string {
	return common.Qualify(r.ctxPkg, pkg, name)
}

// Routine starts tracking the locals used by one generated method.
func (r *Registry) Routine() *Routine {
	return &Routine{reg: r, used: map[string]bool{}}
}

func (r *Registry) expr(name string) string {
	e, ok := r.entries[name]
	if !ok {
		return name
	}

	switch e.Binding {
	case Self:
		return SelfName
	case Local:
		return e.Name
	default:
		return SelfName + "." + e.Name
	}
}

func (r *Registry) add(e *Entry) {
	e.order = len(r.order)
	r.entries[e.Name] = e
	r.order = append(r.order, e)
}

func (r *Registry) freeName(base string) string {
	name := base
	for i := 2; r.Has(name) || name == SelfName; i++ {
		name = base + "_" + strconv.Itoa(i)
	}

	return name
}

func ident(ref model.AdapterRef, typeArgs []string) string {
	id := ref.Ident()
	if len(typeArgs) > 0 {
		id += "__" + common.Sanitize(strings.Join(typeArgs, "_")) + "__"
	}

	return id
}

func joinArgs(args []string) string {
	return strings.Join(args, ", ")
}
