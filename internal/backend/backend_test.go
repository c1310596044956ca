package backend

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONIter_Hooks(t *testing.T) {
	b := JSONIter{}

	assert.Equal(t, "in.ReadNil()", b.SkipNull("in"))
	assert.Equal(t, "mapper.NextName(in)", b.NextName("in"))
	assert.Equal(t, `mapper.DrainObject(in, a.OnUnknown, "Pair")`, b.FinalMove("in", "a.OnUnknown", "Pair"))
	assert.Equal(t, `out.WriteObjectField("a\"b")`, b.WriteProperty("out", `a"b`))
	assert.Equal(t, "out.WriteMore()", b.Delimiter("out"))
	assert.Equal(t, `mapper.SplitTag("Shape", raw, "type")`, b.SplitTag("Shape", "raw", "type"))
	assert.Equal(t, "*jsoniter.Iterator", b.InputType())
	assert.Equal(t, "[]byte", b.RawType())
}

func TestCoreOnly(t *testing.T) {
	_, ok := AsBuffered(JSONIter{})
	assert.True(t, ok)

	core := CoreOnly(JSONIter{})
	_, ok = AsBuffered(core)
	assert.False(t, ok)
	assert.Equal(t, "in.ReadNil()", core.SkipNull("in"))
}

func TestLookup(t *testing.T) {
	b, err := Lookup("jsoniter")
	require.NoError(t, err)
	assert.Equal(t, "jsoniter", b.Name())

	_, err = Lookup("msgpack")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
