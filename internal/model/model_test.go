package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapter-generator/internal/capability"
)

const shapesYAML = `
output:
  path: example.com/shapes
types:
  - name: Pair
    fields:
      - name: a
        type: int
        go: A
        required: true
      - name: b
        type: string
        go: B
        default: '"x"'
  - name: Circle
    fields:
      - name: radius
        type: float64
        go: Radius
  - name: Canvas
    fields:
      - name: shapes
        type: "[]Shape"
        getters:
          - name: Shapes
            generics:
              - resolver:
                  type: Shape
                  subtypes:
                    - tag: circle
                      mapper: {type: Circle}
        setters:
          - name: Shapes
            generics:
              - resolver:
                  type: Shape
                  subtypes:
                    - tag: circle
                      mapper: {type: Circle}
            mapper:
              ref: adapter-generator/mapper.List
`

func mustPrepare(t *testing.T, src string) *Batch {
	t.Helper()

	b, err := Parse([]byte(src), FormatYAML)
	require.NoError(t, err)

	diags := Prepare(b)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", spew.Sdump(diags.Errors))

	return b
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("adapter-generator/mapper.Int")
	require.NoError(t, err)
	assert.Equal(t, AdapterRef{Package: "adapter-generator/mapper", Name: "Int"}, ref)
	assert.Equal(t, "mapper_Int", ref.Ident())

	ref, err = ParseRef("example.com/go-shapes.Pair#strict")
	require.NoError(t, err)
	assert.Equal(t, "example.com/go-shapes", ref.Package)
	assert.Equal(t, "strict", ref.Named)
	assert.Equal(t, "example.com/go-shapes.Pair#strict", ref.String())
	assert.Equal(t, "go_shapes_Pair__strict", ref.Ident())

	ref, err = ParseRef("Local")
	require.NoError(t, err)
	assert.Equal(t, "Local", ref.String())

	_, err = ParseRef("pkg.")
	require.Error(t, err)
}

func TestEnums_Text(t *testing.T) {
	var v Variant
	require.NoError(t, v.UnmarshalText([]byte("external-tag")))
	assert.Equal(t, ExternalTag, v)

	var k AccessKind
	require.ErrorIs(t, k.UnmarshalText([]byte("property")), ErrUnknownEnumValue)
	assert.Equal(t, "unknown", AccessKind(42).String())
}

func TestPrepare_DefaultsAndInference(t *testing.T) {
	b := mustPrepare(t, shapesYAML)

	assert.Equal(t, "shapes", b.Output.Name)

	pair := b.Types[0]
	assert.Equal(t, "PairAdapter", pair.Adapter)
	require.Len(t, pair.Fields[1].Setters, 1)
	assert.Equal(t, `"x"`, pair.Fields[1].Setters[0].Default)
	assert.Equal(t, RuntimeRef("String"), *pair.Fields[1].Setters[0].Mapper.Parser)

	canvas := b.Types[2]
	setter := canvas.Fields[0].Setters[0]
	assert.Equal(t, RuntimeRef("List"), *setter.Mapper.Parser)
	assert.Equal(t, RuntimeRef("List"), *setter.Mapper.Serializer)
	assert.Nil(t, setter.Mapper.Ref)
	assert.Equal(t, "[]Shape", setter.Mapper.Type)

	branch := setter.Generics[0].Resolver
	assert.Equal(t, DefaultTagProperty, branch.TagProperty)
	assert.Equal(t, AdapterRef{Package: "example.com/shapes", Name: "CircleAdapter"}, *branch.Subtypes[0].Mapper.Parser)

	getter := canvas.Fields[0].Getters[0]
	assert.Equal(t, RuntimeRef("List"), *getter.Mapper.Serializer, "base inferred, declared children kept")
	require.Len(t, getter.Generics, 1)
	assert.NotNil(t, getter.Generics[0].Resolver)

	decl, ok := b.Decl(b.AdapterOf(pair))
	require.True(t, ok)
	assert.Equal(t, "PairAdapterInstance", decl.Instance)
	assert.Equal(t, capability.Mapper, decl.Capability)
}

func TestPrepare_DefaultTagFromType(t *testing.T) {
	b := mustPrepare(t, `
output: {path: example.com/shapes}
adapters:
  - ref: example.com/shapes.ShapeFallback
    type: Shape
    instance: ShapeFallbackInstance
types:
  - name: Circle
    pointer: true
    fields:
      - {name: radius, type: float64, go: Radius}
  - name: Frame
    fields:
      - name: shape
        type: Shape
        getters: &shape
          - name: Shape
            resolver:
              type: Shape
              subtypes:
                - {tag: circle, mapper: {type: "*Circle"}}
              default: {ref: example.com/shapes.ShapeFallback}
        setters: *shape
`)

	res := b.Types[1].Fields[0].Setters[0].Resolver
	require.NotNil(t, res.Default)
	assert.Equal(t, "Shape", res.Default.Type)
	assert.Equal(t, "Shape", res.DefaultTag)
}

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "Circle", TypeTag("*shapes.Circle"))
	assert.Equal(t, "Shape", TypeTag("Shape"))
	assert.Equal(t, "Rect", TypeTag("*Rect"))
}

func TestInfer(t *testing.T) {
	b := mustPrepare(t, shapesYAML)

	node, err := b.Infer("map[string][]*Pair")
	require.NoError(t, err)
	assert.Equal(t, RuntimeRef("Map"), *node.Mapper.Parser)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "[]*Pair", node.Children[0].Mapper.Type)
	assert.Equal(t, RuntimeRef("Ptr"), *node.Children[0].Children[0].Mapper.Parser)
	assert.Equal(t, "PairAdapter", node.Children[0].Children[0].Children[0].Mapper.Parser.Name)

	node, err = b.Infer("map[int64]struct{}")
	require.NoError(t, err)
	assert.Equal(t, "Set", node.Mapper.Parser.Name)
	assert.Equal(t, "Int64", node.Children[0].Mapper.Parser.Name)

	_, err = b.Infer("chan int")
	require.ErrorIs(t, err, ErrNoAdapter)

	_, err = b.Infer("map[int]string")
	require.ErrorIs(t, err, ErrNoAdapter)
}

func TestPrepare_ReportsUnknownNames(t *testing.T) {
	src := `
output: {path: example.com/shapes}
types:
  - name: Rect
    constructors:
      - func: NewRect
        params: [width, hieght]
    fields:
      - name: width
        type: int
        setters:
          - {name: SetSize, kind: bulk, names: [width, heigth]}
          - {name: NewRct, kind: constructor}
      - name: height
        type: int
        setters:
          - name: H
            mapper: {ref: adapter-generator/mapper.Integer}
`
	b, err := Parse([]byte(src), FormatYAML)
	require.NoError(t, err)

	diags := Prepare(b)
	require.True(t, diags.HasErrors())

	byCode := map[string][]string{}
	for _, d := range diags.Errors {
		byCode[d.Code] = append(byCode[d.Code], d.Suggestions...)
	}

	assert.Equal(t, []string{"height", "height"}, byCode["unknown_property"])
	assert.Equal(t, []string{"NewRect"}, byCode["unknown_constructor"])
	assert.Contains(t, byCode["unknown_adapter"], "adapter-generator/mapper.Int")
}

func TestFindCycles(t *testing.T) {
	src := `
output: {path: example.com/tree}
types:
  - name: Node
    pointer: true
    fields:
      - {name: children, type: "[]*Node", go: Children}
      - {name: owner, type: "*Owner", go: Owner}
  - name: Owner
    pointer: true
    fields:
      - {name: root, type: "*Node", go: Root}
  - name: Leaf
    fields:
      - {name: v, type: int, go: V}
`
	b := mustPrepare(t, src)

	require.Len(t, b.Cycles, 1, spew.Sdump(b.Cycles))
	assert.Equal(t, []AdapterRef{
		{Package: "example.com/tree", Name: "NodeAdapter"},
		{Package: "example.com/tree", Name: "OwnerAdapter"},
	}, b.Cycles[0])

	assert.True(t, b.InCycle(AdapterRef{Package: "example.com/tree", Name: "OwnerAdapter"}))
	assert.False(t, b.InCycle(AdapterRef{Package: "example.com/tree", Name: "LeafAdapter"}))
}

func TestLoadFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	src := `{
  "output": {"path": "example.com/shapes"},
  "types": [{"name": "Pair", "unknown": "skip", "fields": [{"name": "a", "type": "int", "go": "A"}]}]
}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	b, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, UnknownSkip, b.Types[0].Unknown)

	out := filepath.Join(dir, "model.yaml")
	require.NoError(t, WriteFile(b, out))

	again, err := LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, b.Types[0].Name, again.Types[0].Name)
	assert.Equal(t, UnknownSkip, again.Types[0].Unknown)
}

func TestParse_RequiresOutput(t *testing.T) {
	_, err := Parse([]byte("types: []"), FormatYAML)
	require.Error(t, err)
}
