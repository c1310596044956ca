package mapper

import (
	"bytes"
	"reflect"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

// Unmarshal decodes data with p.
func Unmarshal[T any](p Parser[T], data []byte) (T, error) {
	in := jsoniter.ConfigDefault.BorrowIterator(data)
	defer jsoniter.ConfigDefault.ReturnIterator(in)

	v, err := p.Parse(in)
	if err != nil {
		return v, err
	}

	return v, readErr(in)
}

// Marshal encodes v with s.
func Marshal[T any](s Serializer[T], v T) ([]byte, error) {
	out := jsoniter.ConfigDefault.BorrowStream(nil)
	defer jsoniter.ConfigDefault.ReturnStream(out)

	if err := s.Serialize(v, out); err != nil {
		return nil, err
	}

	if out.Error != nil {
		return nil, out.Error
	}

	return append([]byte(nil), out.Buffer()...), nil
}

// Equal reports whether a and b are deeply equal. Generated serializers use it
// to suppress values equal to their default when T is not comparable.
func Equal[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// Capture returns a copy of the raw bytes of the next value.
func Capture(in *jsoniter.Iterator) []byte {
	return append([]byte(nil), in.SkipAndReturnBytes()...)
}

// Replay returns an iterator positioned at the start of raw.
func Replay(raw []byte) *jsoniter.Iterator {
	return jsoniter.ParseBytes(jsoniter.ConfigDefault, raw)
}

// SplitTag removes the string property tagProp from the raw object and
// returns its value together with the remaining object.
func SplitTag(owner string, raw []byte, tagProp string) (string, []byte, error) {
	in := Replay(raw)
	out := jsoniter.NewStream(jsoniter.ConfigDefault, nil, len(raw))

	var (
		tag   string
		found bool
		more  bool
	)

	out.WriteObjectStart()
	in.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
		if key == tagProp && !found {
			tag = it.ReadString()
			found = true

			return it.Error == nil
		}

		if more {
			out.WriteMore()
		}

		more = true
		out.WriteObjectField(key)
		out.WriteRaw(string(it.SkipAndReturnBytes()))

		return it.Error == nil
	})
	out.WriteObjectEnd()

	if err := readErr(in); err != nil {
		return "", nil, err
	}

	if !found {
		return "", nil, MissingProperty(owner, tagProp)
	}

	return tag, append([]byte(nil), out.Buffer()...), nil
}

// WriteTagged writes the object produced by write with tagProp: tag injected
// as its first property.
func WriteTagged(out *jsoniter.Stream, owner, tagProp, tag string, write func(*jsoniter.Stream) error) error {
	tmp := jsoniter.NewStream(jsoniter.ConfigDefault, nil, 64)
	if err := write(tmp); err != nil {
		return err
	}

	if tmp.Error != nil {
		return tmp.Error
	}

	body := bytes.TrimSpace(tmp.Buffer())
	if len(body) < 2 || body[0] != '{' || body[len(body)-1] != '}' {
		return &PropertyError{Type: owner, Property: tag, Err: errors.Wrap(ErrUnsupported, "embedded tag needs an object payload")}
	}

	out.WriteObjectStart()
	out.WriteObjectField(tagProp)
	out.WriteString(tag)

	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		out.WriteMore()
		out.WriteRaw(string(inner))
	}

	out.WriteObjectEnd()

	return out.Error
}
