package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/model"
)

const pkg = "example.com/tree"

type fakeCatalog struct {
	decls  map[model.AdapterRef]*model.AdapterDecl
	cycles []model.AdapterRef
}

func (c *fakeCatalog) Decl(ref model.AdapterRef) (*model.AdapterDecl, bool) {
	d, ok := c.decls[ref]
	return d, ok
}

func (c *fakeCatalog) InCycle(ref model.AdapterRef) bool {
	for _, r := range c.cycles {
		if r == ref {
			return true
		}
	}

	return false
}

var (
	nodeRef  = model.AdapterRef{Package: pkg, Name: "NodeAdapter"}
	ownerRef = model.AdapterRef{Package: pkg, Name: "OwnerAdapter"}
	intRef   = model.RuntimeRef("Int")
	listRef  = model.RuntimeRef("List")
	clockRef = model.AdapterRef{Package: "example.com/clock", Name: "Clock"}
	zeroRef  = model.RuntimeRef("NonZero")
)

func newCatalog() *fakeCatalog {
	c := &fakeCatalog{decls: map[model.AdapterRef]*model.AdapterDecl{}, cycles: []model.AdapterRef{nodeRef, ownerRef}}
	for _, d := range model.Builtins() {
		c.decls[d.Ref] = d
	}

	c.decls[nodeRef] = &model.AdapterDecl{Ref: nodeRef, Instance: "NodeAdapterInstance", New: "NewNodeAdapter"}
	c.decls[ownerRef] = &model.AdapterDecl{Ref: ownerRef, Instance: "OwnerAdapterInstance", New: "NewOwnerAdapter"}
	c.decls[clockRef] = &model.AdapterDecl{Ref: clockRef, Kind: model.KindConverter, New: "NewClock"}

	return c
}

func newRegistry(t *testing.T) (*Registry, *Backlog) {
	t.Helper()

	backlog := NewBacklog(pkg)

	return New(nodeRef, pkg, newCatalog(), backlog, zaptest.NewLogger(t)), backlog
}

func TestAccept_Bindings(t *testing.T) {
	reg, _ := newRegistry(t)

	self, err := reg.Accept(nodeRef, "mapper.Mapper[*Node]")
	require.NoError(t, err)
	assert.Equal(t, SelfName, self)

	name, err := reg.Accept(intRef, "mapper.Mapper[int]")
	require.NoError(t, err)
	assert.Equal(t, "mapper_Int", name)

	again, err := reg.Accept(intRef, "mapper.Mapper[int]")
	require.NoError(t, err)
	assert.Equal(t, name, again)

	e, err := reg.Get(name)
	require.NoError(t, err)
	assert.Equal(t, Field, e.Binding)
	assert.Equal(t, "mapper.Int", reg.Init(e))

	owner, err := reg.Accept(ownerRef, "mapper.Mapper[*Owner]")
	require.NoError(t, err)

	e, err = reg.Get(owner)
	require.NoError(t, err)
	assert.Equal(t, Local, e.Binding)
	assert.Equal(t, "NewOwnerAdapter()", reg.Init(e))

	fields := reg.Fields()
	require.Len(t, fields, 1)
	assert.Equal(t, "mapper_Int", fields[0].Name)
}

func TestAccept_SameRefDifferentFieldTypes(t *testing.T) {
	reg, _ := newRegistry(t)

	first, err := reg.Accept(intRef, "mapper.Mapper[int]")
	require.NoError(t, err)

	second, err := reg.Accept(intRef, "mapper.Parser[int]")
	require.NoError(t, err)

	assert.Equal(t, "mapper_Int", first)
	assert.Equal(t, "mapper_Int_2", second)
}

func TestAccept_GenericConstructor(t *testing.T) {
	reg, _ := newRegistry(t)

	name, err := reg.Accept(zeroRef, "mapper.Validator[string]", "string")
	require.NoError(t, err)
	assert.Equal(t, "mapper_NonZero__string__", name)

	e, err := reg.Get(name)
	require.NoError(t, err)
	assert.Equal(t, "mapper.NonZero[string]()", reg.Init(e))
}

func TestAccept_InstancelessGoesToBacklog(t *testing.T) {
	reg, backlog := newRegistry(t)

	name, err := reg.Accept(clockRef, "mapper.Converter[string, time.Time]")
	require.NoError(t, err)

	e, err := reg.Get(name)
	require.NoError(t, err)
	assert.Equal(t, "clock_ClockHolder", reg.Init(e))

	// A second registry of the same run shares the holder.
	other := New(ownerRef, pkg, newCatalog(), backlog, nil)
	_, err = other.Accept(clockRef, "mapper.Converter[string, time.Time]")
	require.NoError(t, err)

	holders := backlog.Holders()
	require.Len(t, holders, 1)
	assert.Equal(t, Holder{Name: "clock_ClockHolder", Ref: clockRef, Init: "clock.NewClock()", Package: "example.com/clock"},
		holders[0])
}

func TestAccept_Unknown(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Accept(model.AdapterRef{Package: pkg, Name: "Missing"}, "mapper.Mapper[int]")
	require.ErrorIs(t, err, ErrUnknownAdapter)

	_, err = reg.Get("nothing")

	var unresolved *diagnostic.UnresolvedAdapterError
	require.ErrorAs(t, err, &unresolved)
}

func TestDefine_LocalsPropagate(t *testing.T) {
	reg, _ := newRegistry(t)

	owner, err := reg.Accept(ownerRef, "mapper.Mapper[*Owner]")
	require.NoError(t, err)

	intName, err := reg.Accept(intRef, "mapper.Mapper[int]")
	require.NoError(t, err)

	listOwners, err := reg.Define("mapper_List__"+owner+"__", "mapper.Mapper[[]*Owner]", []string{owner}, nil,
		func(expr func(string) string) string { return "mapper.List[*Owner](" + expr(owner) + ")" })
	require.NoError(t, err)

	listInts, err := reg.Define("mapper_List__"+intName+"__", "mapper.Mapper[[]int]", []string{intName}, nil,
		func(expr func(string) string) string { return "mapper.List[int](" + expr(intName) + ")" })
	require.NoError(t, err)

	e, err := reg.Get(listOwners)
	require.NoError(t, err)
	assert.Equal(t, Local, e.Binding)

	e, err = reg.Get(listInts)
	require.NoError(t, err)
	assert.Equal(t, Field, e.Binding)
	assert.Equal(t, "mapper.List[int](a.mapper_Int)", reg.Init(e))

	rt := reg.Routine()

	expr, err := rt.Ref(listOwners)
	require.NoError(t, err)
	assert.Equal(t, listOwners, expr)

	expr, err = rt.Ref(listInts)
	require.NoError(t, err)
	assert.Equal(t, "a."+listInts, expr)

	assert.Equal(t, []LocalDecl{
		{Name: owner, Init: "NewOwnerAdapter()"},
		{Name: listOwners, Init: "mapper.List[*Owner](" + owner + ")"},
	}, rt.Locals())

	assert.Empty(t, reg.Routine().Locals())

	_, err = reg.Define("broken", "mapper.Mapper[int]", []string{"nope"}, nil, nil)
	require.Error(t, err)
}

func TestPackages(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.Accept(intRef, "mapper.Mapper[int]")
	require.NoError(t, err)

	_, err = reg.Accept(ownerRef, "mapper.Mapper[*Owner]")
	require.NoError(t, err)

	_, err = reg.Define("x", "mapper.Mapper[[]int]", []string{"mapper_Int"}, []string{model.RuntimePackage}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{model.RuntimePackage}, reg.Packages())
}
