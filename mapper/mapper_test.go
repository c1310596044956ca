package mapper_test

import (
	"strconv"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapter-generator/mapper"
)

func TestScalars_RoundTrip(t *testing.T) {
	t.Parallel()

	n, err := mapper.Unmarshal(mapper.Int, []byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	f, err := mapper.Unmarshal(mapper.Float64, []byte(`2`))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f, 1e-9)

	s, err := mapper.Unmarshal(mapper.String, []byte(`"hi"`))
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	b, err := mapper.Unmarshal(mapper.Bool, []byte(`true`))
	require.NoError(t, err)
	assert.True(t, b)

	out, err := mapper.Marshal(mapper.Float64, 2.5)
	require.NoError(t, err)
	assert.JSONEq(t, `2.5`, string(out))

	out, err = mapper.Marshal(mapper.String, "x")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))
}

func TestScalars_RejectMalformedInput(t *testing.T) {
	t.Parallel()

	_, err := mapper.Unmarshal(mapper.Int, []byte(`"nope"`))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	t.Parallel()

	ints := mapper.List(mapper.Int)

	v, err := mapper.Unmarshal(ints, []byte(`[1, 2 ,3]`))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)

	v, err = mapper.Unmarshal(ints, []byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = mapper.Unmarshal(ints, []byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	out, err := mapper.Marshal(ints, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(out))

	out, err = mapper.Marshal(ints, nil)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestMap_SortsKeysOnWrite(t *testing.T) {
	t.Parallel()

	m := mapper.Map(mapper.String)

	out, err := mapper.Marshal(m, map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1","b":"2"}`, string(out))

	v, err := mapper.Unmarshal(m, []byte(`{"x":"1","":"empty"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x": "1", "": "empty"}, v)
}

func TestMap_PropagatesItemErrors(t *testing.T) {
	t.Parallel()

	_, err := mapper.Unmarshal(mapper.Map(mapper.Int), []byte(`{"x":"one"}`))
	assert.Error(t, err)
}

func TestSet(t *testing.T) {
	t.Parallel()

	set := mapper.Set(mapper.String)

	v, err := mapper.Unmarshal(set, []byte(`["b","a","b"]`))
	require.NoError(t, err)
	assert.Len(t, v, 2)
	assert.Contains(t, v, "a")

	out, err := mapper.Marshal(set, v)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(out))
}

func TestPtr(t *testing.T) {
	t.Parallel()

	p := mapper.Ptr(mapper.Int)

	v, err := mapper.Unmarshal(p, []byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = mapper.Unmarshal(p, []byte(`7`))
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 7, *v)

	out, err := mapper.Marshal(p, nil)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestJoin_UsesBothHalves(t *testing.T) {
	t.Parallel()

	parsed := false
	m := mapper.Join[int](
		mapper.ParserFunc[int](func(in *jsoniter.Iterator) (int, error) {
			parsed = true
			return mapper.Int.Parse(in)
		}),
		mapper.SerializerFunc[int](func(v int, out *jsoniter.Stream) error {
			out.WriteString(strconv.Itoa(v))
			return out.Error
		}),
	)

	v, err := mapper.Unmarshal(m, []byte(`5`))
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.True(t, parsed)

	out, err := mapper.Marshal(m, 5)
	require.NoError(t, err)
	assert.Equal(t, `"5"`, string(out))
}

func TestThrowing(t *testing.T) {
	t.Parallel()

	_, err := mapper.Unmarshal(mapper.Throwing[int](), []byte(`1`))
	require.ErrorIs(t, err, mapper.ErrUnsupported)

	_, err = mapper.Marshal(mapper.Throwing[int](), 1)
	require.ErrorIs(t, err, mapper.ErrUnsupported)
}

func TestConvertMapper(t *testing.T) {
	t.Parallel()

	digits := mapper.ConverterFuncs[int, string]{
		DecodeFunc: strconv.Itoa,
		EncodeFunc: func(s string) int {
			n, _ := strconv.Atoi(s)
			return n
		},
	}

	m := mapper.ConvertMapper[string, int](mapper.Int, mapper.Int, digits)

	v, err := mapper.Unmarshal(m, []byte(`12`))
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	out, err := mapper.Marshal(m, "34")
	require.NoError(t, err)
	assert.Equal(t, `34`, string(out))
}

func TestUnknownHandlers(t *testing.T) {
	t.Parallel()

	t.Run("nil handler fails", func(t *testing.T) {
		t.Parallel()

		in := jsoniter.ParseString(jsoniter.ConfigDefault, `{"x":1}`)
		name := in.ReadObject()
		err := mapper.HandleUnknown(nil, "Pair", name, in)
		require.ErrorIs(t, err, mapper.ErrUnknownProperty)
		assert.Contains(t, err.Error(), "Pair.x")
	})

	t.Run("skip drains the rest", func(t *testing.T) {
		t.Parallel()

		in := jsoniter.ParseString(jsoniter.ConfigDefault, `{"x":1,"y":[2,{"z":3}]}`)
		require.Equal(t, "x", in.ReadObject())
		in.Skip()
		require.NoError(t, mapper.DrainObject(in, mapper.SkipUnknown, "Pair"))
	})

	t.Run("fail stops at the first leftover", func(t *testing.T) {
		t.Parallel()

		in := jsoniter.ParseString(jsoniter.ConfigDefault, `{"x":1,"y":2}`)
		require.Equal(t, "x", in.ReadObject())
		in.Skip()
		err := mapper.DrainObject(in, mapper.FailOnUnknown, "Pair")
		require.ErrorIs(t, err, mapper.ErrUnknownProperty)
		assert.Contains(t, err.Error(), "Pair.y")
	})
}

func TestNextName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty object", input: `{}`},
		{name: "plain", input: `{"x":1,"y":2}`, want: []string{"x", "y"}},
		{name: "empty key first", input: `{"":1,"y":2}`, want: []string{"", "y"}},
		{name: "empty key last", input: `{"x":1 , "" : [2]}`, want: []string{"x", ""}},
		{name: "nested", input: `[{"":{"":null}},3]`, want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := jsoniter.ParseString(jsoniter.ConfigDefault, tt.input)
			if tt.input[0] == '[' {
				require.True(t, in.ReadArray())
			}

			var got []string
			for name, ok := mapper.NextName(in); ok; name, ok = mapper.NextName(in) {
				got = append(got, name)
				in.Skip()
			}

			require.NoError(t, in.Error)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDrainObject_EmptyKey(t *testing.T) {
	t.Parallel()

	in := jsoniter.ParseString(jsoniter.ConfigDefault, `[{"":1},2]`)
	require.True(t, in.ReadArray())

	err := mapper.DrainObject(in, mapper.FailOnUnknown, "Pair")
	require.ErrorIs(t, err, mapper.ErrUnknownProperty)

	in = jsoniter.ParseString(jsoniter.ConfigDefault, `[{"":1},2]`)
	require.True(t, in.ReadArray())
	require.NoError(t, mapper.DrainObject(in, mapper.SkipUnknown, "Pair"))
	require.True(t, in.ReadArray())
	assert.Equal(t, 2, in.ReadInt())
}

func TestValidators(t *testing.T) {
	t.Parallel()

	require.NoError(t, mapper.Check(true, "Pair", "a", "must be positive"))

	err := mapper.Check(false, "Pair", "a", "must be positive")
	require.ErrorIs(t, err, mapper.ErrValidation)
	assert.Contains(t, err.Error(), "Pair.a")
	assert.Contains(t, err.Error(), "must be positive")

	require.ErrorIs(t, mapper.NonZero[int]().Validate("a", "A", "Pair", 0), mapper.ErrValidation)
	require.NoError(t, mapper.NonZero[string]().Validate("b", "B", "Pair", "x"))
}

func TestMissingProperty(t *testing.T) {
	t.Parallel()

	err := mapper.MissingProperty("Pair", "a")
	require.ErrorIs(t, err, mapper.ErrMissingRequiredProperty)

	var perr *mapper.PropertyError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Pair", perr.Type)
	assert.Equal(t, "a", perr.Property)
}

func TestSplitTag(t *testing.T) {
	t.Parallel()

	tag, rest, err := mapper.SplitTag("Shape", []byte(`{"a":1,"type":"circle","b":[1,2]}`), "type")
	require.NoError(t, err)
	assert.Equal(t, "circle", tag)
	assert.JSONEq(t, `{"a":1,"b":[1,2]}`, string(rest))

	_, _, err = mapper.SplitTag("Shape", []byte(`{"a":1}`), "type")
	require.ErrorIs(t, err, mapper.ErrMissingRequiredProperty)
}

func TestWriteTagged(t *testing.T) {
	t.Parallel()

	out := jsoniter.NewStream(jsoniter.ConfigDefault, nil, 64)
	err := mapper.WriteTagged(out, "Shape", "type", "circle", func(s *jsoniter.Stream) error {
		s.WriteObjectStart()
		s.WriteObjectField("radius")
		s.WriteInt(2)
		s.WriteObjectEnd()

		return s.Error
	})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"circle","radius":2}`, string(out.Buffer()))

	empty := jsoniter.NewStream(jsoniter.ConfigDefault, nil, 64)
	err = mapper.WriteTagged(empty, "Shape", "type", "dot", func(s *jsoniter.Stream) error {
		s.WriteEmptyObject()
		return s.Error
	})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"dot"}`, string(empty.Buffer()))

	scalar := jsoniter.NewStream(jsoniter.ConfigDefault, nil, 64)
	err = mapper.WriteTagged(scalar, "Shape", "type", "n", func(s *jsoniter.Stream) error {
		s.WriteInt(1)
		return s.Error
	})
	require.ErrorIs(t, err, mapper.ErrUnsupported)
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, mapper.Equal([]int{1}, []int{1}))
	assert.False(t, mapper.Equal(map[string]int{"a": 1}, nil))
}
