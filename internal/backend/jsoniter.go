package backend

import (
	"strconv"
)

// JSONIter emits code for github.com/json-iterator/go iterators and streams.
type JSONIter struct{}

var _ Buffered = JSONIter{}

func (JSONIter) Name() string { return "jsoniter" }

func (JSONIter) Imports() []Import {
	return []Import{{Name: "jsoniter", Path: "github.com/json-iterator/go"}}
}

func (JSONIter) InputType() string  { return "*jsoniter.Iterator" }
func (JSONIter) OutputType() string { return "*jsoniter.Stream" }

func (JSONIter) SkipNull(in string) string { return in + ".ReadNil()" }
func (JSONIter) NextName(in string) string { return "mapper.NextName(" + in + ")" }
func (JSONIter) Err(stream string) string  { return stream + ".Error" }

func (JSONIter) FinalMove(in, handler, owner string) string {
	return "mapper.DrainObject(" + in + ", " + handler + ", " + strconv.Quote(owner) + ")"
}

func (JSONIter) StartObject(out string) string { return out + ".WriteObjectStart()" }
func (JSONIter) EndObject(out string) string   { return out + ".WriteObjectEnd()" }
func (JSONIter) WriteNull(out string) string   { return out + ".WriteNil()" }
func (JSONIter) Delimiter(out string) string   { return out + ".WriteMore()" }

func (JSONIter) WriteProperty(out, name string) string {
	return out + ".WriteObjectField(" + strconv.Quote(name) + ")"
}

func (JSONIter) RawType() string          { return "[]byte" }
func (JSONIter) Capture(in string) string { return "mapper.Capture(" + in + ")" }
func (JSONIter) Replay(raw string) string { return "mapper.Replay(" + raw + ")" }

func (JSONIter) SplitTag(owner, raw, tagProp string) string {
	return "mapper.SplitTag(" + strconv.Quote(owner) + ", " + raw + ", " + strconv.Quote(tagProp) + ")"
}

func (JSONIter) WriteTagged(out, owner, tagProp, tag, write string) string {
	return "mapper.WriteTagged(" + out + ", " + strconv.Quote(owner) + ", " + strconv.Quote(tagProp) + ", " +
		strconv.Quote(tag) + ", " + write + ")"
}
