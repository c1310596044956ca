package assemble

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"adapter-generator/internal/backend"
	"adapter-generator/internal/capability"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/model"
	"adapter-generator/internal/registry"
)

const batchYAML = `
output: {path: example.com/shapes}
adapters:
  - ref: example.com/shapes.TokenReader
    capability: parser
    type: Token
    instance: TokenReaderInstance
  - ref: example.com/clock.Clock
    kind: converter
    new: NewClock
types:
  - name: Pair
    fields:
      - {name: a, type: int, go: A, required: true}
      - {name: b, type: string, go: B, default: '"x"'}
  - name: Node
    pointer: true
    fields:
      - {name: name, type: string, go: Name}
      - {name: owner, type: "*Owner", go: Owner}
  - name: Owner
    pointer: true
    fields:
      - {name: nodes, type: "[]*Node", go: Nodes}
  - name: Ticket
    fields:
      - {name: token, type: Token, go: Token}
  - name: Queue
    fields:
      - {name: tickets, type: "[]Ticket", go: Tickets}
  - name: Point
    constructors:
      - {func: NewPoint, params: [x, y]}
    fields:
      - name: x
        type: int
        setters: [{name: NewPoint, kind: constructor}]
        getters: [{name: X, kind: method}]
      - name: "y"
        type: int
        setters: [{name: NewPoint, kind: constructor}]
        getters: [{name: "Y", kind: method}]
      - name: label
        type: string
        go: Label
        validator: {template: 'mapper.Check($v != "", $e, $s, "must not be empty")'}
  - name: Stamp
    fields:
      - name: at
        type: time.Time
        setters: [{name: At, converter: {ref: example.com/clock.Clock, intermediate: string}}]
        getters: [{name: At, converter: {ref: example.com/clock.Clock, intermediate: string}}]
  - name: Range
    pointer: true
    fields:
      - name: from
        type: int
        setters: &setRange [{name: SetRange, kind: bulk, names: [from, to]}]
        getters: [{name: From}]
      - name: to
        type: int
        setters: *setRange
        getters: [{name: To}]
      - {name: step, type: int, go: Step, default: "1"}
  - name: Span
    fields:
      - name: start
        type: int
        required: true
        setters: &setSpan [{name: SetSpan, kind: bulk, names: [start, end]}]
        getters: [{name: Start}]
      - name: end
        type: int
        setters: *setSpan
        getters: [{name: End}]
  - name: Broken
    fields:
      - {name: t, type: Token}
`

func newAssembler(t *testing.T) (*Assembler, *model.Batch, *registry.Backlog) {
	t.Helper()

	b, err := model.Parse([]byte(batchYAML), model.FormatYAML)
	require.NoError(t, err)

	diags := model.Prepare(b)
	require.False(t, diags.HasErrors(), spew.Sdump(diags.Errors))

	backlog := registry.NewBacklog(b.Output.Path)

	return New(b, backend.JSONIter{}, backlog, zaptest.NewLogger(t)), b, backlog
}

func typeNamed(t *testing.T, b *model.Batch, name string) *model.TypeModel {
	t.Helper()

	for _, tm := range b.Types {
		if tm.Name == name {
			return tm
		}
	}

	require.FailNow(t, "no type "+name)

	return nil
}

func assemble(t *testing.T, name string) *Unit {
	t.Helper()

	as, b, _ := newAssembler(t)

	unit, err := as.Assemble(typeNamed(t, b, name), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	return unit
}

func TestCapabilities_Narrowing(t *testing.T) {
	as, b, _ := newAssembler(t)

	caps := as.Capabilities()

	assert.Equal(t, capability.Mapper, caps[typeNamed(t, b, "Pair")])
	assert.Equal(t, capability.Parser, caps[typeNamed(t, b, "Ticket")])
	assert.Equal(t, capability.Parser, caps[typeNamed(t, b, "Queue")])
	assert.Equal(t, capability.None, caps[typeNamed(t, b, "Broken")])

	decl, ok := b.Decl(b.AdapterOf(typeNamed(t, b, "Queue")))
	require.True(t, ok)
	assert.Equal(t, capability.Parser, decl.Capability)
}

func TestAssemble_Pair(t *testing.T) {
	unit := assemble(t, "Pair")

	assert.Equal(t, Result{
		Adapter:      model.AdapterRef{Package: "example.com/shapes", Name: "PairAdapter"},
		CanParse:     true,
		CanSerialize: true,
	}, unit.Result)
	assert.Equal(t, "mapper.FailOnUnknown", unit.OnUnknown)
	assert.Equal(t, []StructField{
		{Name: "mapper_Int", Type: "mapper.Mapper[int]"},
		{Name: "mapper_String", Type: "mapper.Mapper[string]"},
	}, unit.Fields)
	assert.Equal(t, []StructField{
		{Name: "mapper_Int", Type: "mapper.Int"},
		{Name: "mapper_String", Type: "mapper.String"},
	}, unit.Inits)
	assert.Equal(t, []string{"adapter-generator/mapper", "github.com/json-iterator/go"}, unit.Imports)

	require.Len(t, unit.Methods, 2)
	parse, serialize := unit.Methods[0], unit.Methods[1]

	assert.Contains(t, parse, "func (a *PairAdapter) Parse(in *jsoniter.Iterator) (Pair, error) {\n")
	assert.Contains(t, parse, "var (\nv0_a int\nset0_a bool\nv1_b string = \"x\"\nset1_b bool\n)\n")
	assert.Contains(t, parse, "for cnt := 0; cnt < 2; {\nname, ok := mapper.NextName(in)\nif !ok {\nend = true\nbreak\n}\n")
	assert.Contains(t, parse, "case \"a\":\nx, err := a.mapper_Int.Parse(in)\nif err != nil {\nreturn res, err\n}\n"+
		"v0_a = x\nif !set0_a {\nset0_a = true\ncnt++\n}\n")
	assert.Contains(t, parse,
		"if err := mapper.HandleUnknown(a.OnUnknown, \"Pair\", name, in); err != nil {\nreturn res, err\n}\n")
	assert.Contains(t, parse, "if !end {\nif err := mapper.DrainObject(in, a.OnUnknown, \"Pair\"); err != nil {\n")
	assert.Contains(t, parse, "if !set0_a {\nreturn res, mapper.MissingProperty(\"Pair\", \"a\")\n}\n")
	assert.NotContains(t, parse, "if !set1_b {\nreturn")
	assert.Contains(t, parse, "res.A = v0_a\nres.B = v1_b\nreturn res, nil\n}\n")

	assert.Contains(t, serialize, "func (a *PairAdapter) Serialize(v Pair, out *jsoniter.Stream) error {\n")
	assert.Contains(t, serialize, "f0_a := v.A\nif more {\nout.WriteMore()\n}\nmore = true\n"+
		"out.WriteObjectField(\"a\")\nif err := a.mapper_Int.Serialize(f0_a, out); err != nil {\nreturn err\n}\n")
	assert.Contains(t, serialize, "f1_b := v.B\nif f1_b != \"x\" {\n")
	assert.Contains(t, serialize, "out.WriteObjectEnd()\nreturn out.Error\n}\n")
	assert.NotContains(t, serialize, "v == nil")
}

func TestAssemble_CycleUsesLocals(t *testing.T) {
	node := assemble(t, "Node")

	assert.NotContains(t, node.Fields, StructField{Name: "shapes_OwnerAdapter", Type: "mapper.Mapper[*Owner]"})
	assert.Contains(t, node.Methods[0], "{\nshapes_OwnerAdapter := NewOwnerAdapter()\nvar res *Node\n")
	assert.Contains(t, node.Methods[0], "res = &Node{}\n")
	assert.Contains(t, node.Methods[1], "if v == nil {\nout.WriteNil()\nreturn out.Error\n}\n")
	assert.Contains(t, node.Methods[1], "shapes_OwnerAdapter.Serialize(f1_owner, out)")

	owner := assemble(t, "Owner")

	assert.Empty(t, owner.Fields)
	assert.Contains(t, owner.Methods[0], "shapes_NodeAdapter := NewNodeAdapter()\n"+
		"mapper_List__shapes_NodeAdapter__ := mapper.List[*Node](shapes_NodeAdapter)\n")
	assert.Contains(t, owner.Methods[0], "x, err := mapper_List__shapes_NodeAdapter__.Parse(in)\n")
}

func TestAssemble_OneSidedType(t *testing.T) {
	unit := assemble(t, "Queue")

	assert.False(t, unit.Result.CanSerialize)
	require.Len(t, unit.Methods, 1)
	assert.Contains(t, unit.Methods[0], ") Parse(")
	assert.Contains(t, unit.Fields, StructField{
		Name: "mapper_ListParser__shapes_TicketAdapter__",
		Type: "mapper.Parser[[]Ticket]",
	})
	assert.Contains(t, unit.Inits, StructField{
		Name: "mapper_ListParser__shapes_TicketAdapter__",
		Type: "mapper.ListParser[Ticket](a.shapes_TicketAdapter)",
	})
}

func TestAssemble_ConstructorAndValidator(t *testing.T) {
	unit := assemble(t, "Point")

	parse, serialize := unit.Methods[0], unit.Methods[1]

	assert.Contains(t, parse, "res = NewPoint(v0_x, v1_y)\nif set2_label {\nres.Label = v2_label\n}\n"+
		"if set2_label {\nif err := mapper.Check(v2_label != \"\", \"Point\", \"label\", \"must not be empty\"); "+
		"err != nil {\nreturn res, err\n}\n}\nreturn res, nil\n")

	assert.Contains(t, serialize, "f0_x := v.X()\nout.WriteObjectField(\"x\")\n")
	assert.Contains(t, serialize, "f1_y := v.Y()\nout.WriteMore()\nout.WriteObjectField(\"y\")\n")
	assert.Contains(t, serialize, "f2_label := v.Label\n"+
		"if err := mapper.Check(f2_label != \"\", \"Point\", \"label\", \"must not be empty\"); err != nil {\n"+
		"return err\n}\nout.WriteMore()\n")
	assert.NotContains(t, serialize, "more")
}

func TestAssemble_BulkSetterWaitsForEveryName(t *testing.T) {
	parse := assemble(t, "Range").Methods[0]

	assert.Contains(t, parse, "res = &Range{}\nif set0_from && set1_to {\nres.SetRange(v0_from, v1_to)\n}\n"+
		"res.Step = v2_step\nreturn res, nil\n")
	assert.Equal(t, 1, strings.Count(parse, "res.SetRange("))

	// A required name is checked before construction and needs no guard.
	parse = assemble(t, "Span").Methods[0]

	assert.Contains(t, parse, "if !set0_start {\nreturn res, mapper.MissingProperty(\"Span\", \"start\")\n}\n")
	assert.Contains(t, parse, "if set1_end {\nres.SetSpan(v0_start, v1_end)\n}\nreturn res, nil\n")
}

func TestAssemble_FieldConverter(t *testing.T) {
	as, b, backlog := newAssembler(t)

	unit, err := as.Assemble(typeNamed(t, b, "Stamp"), &diagnostic.Diagnostics{})
	require.NoError(t, err)

	assert.Contains(t, unit.Methods[0], "v0_at = a.clock_Clock.Decode(x)\n")
	assert.Contains(t, unit.Methods[1], "a.mapper_String.Serialize(a.clock_Clock.Encode(f0_at), out)")
	assert.Contains(t, unit.Fields, StructField{Name: "clock_Clock", Type: "mapper.Converter[string, time.Time]"})
	assert.Contains(t, unit.Inits, StructField{Name: "clock_Clock", Type: "clock_ClockHolder"})
	assert.Equal(t, 1, backlog.Len())
}

func TestAssemble_NothingDerivable(t *testing.T) {
	as, b, _ := newAssembler(t)

	_, err := as.Assemble(typeNamed(t, b, "Broken"), &diagnostic.Diagnostics{})
	require.Error(t, err)
	assert.True(t, diagnostic.IsSynthesis(err))
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name        string
		conv        model.ConverterData
		decode, enc string
	}{
		{
			name:   "general",
			conv:   model.ConverterData{Intermediate: "string", Target: "time.Time"},
			decode: "c.Decode(x)",
			enc:    "c.Encode(x)",
		},
		{
			name:   "primitive target",
			conv:   model.ConverterData{Intermediate: "Temp", Target: "int16"},
			decode: "int16(c.ToInt(x))",
			enc:    "c.FromInt(int(x))",
		},
		{
			name:   "primitive intermediate",
			conv:   model.ConverterData{Intermediate: "float32", Target: "Celsius"},
			decode: "c.FromDouble(float64(x))",
			enc:    "float32(c.ToDouble(x))",
		},
		{
			name:   "both primitive",
			conv:   model.ConverterData{Intermediate: "int", Target: "bool"},
			decode: "c.ToBool(x)",
			enc:    "c.FromBool(x)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.decode, convert("c", &tt.conv, "x", true))
			assert.Equal(t, tt.enc, convert("c", &tt.conv, "x", false))
		})
	}
}
