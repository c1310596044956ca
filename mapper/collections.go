package mapper

import (
	"cmp"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

// List maps a JSON array to []T. null decodes to a nil slice and a nil slice
// encodes to null.
func List[T any](item Mapper[T]) Mapper[[]T] {
	return Join(ListParser[T](item), ListSerializer[T](item))
}

// ListParser is the decode half of List.
func ListParser[T any](item Parser[T]) Parser[[]T] {
	return ParserFunc[[]T](func(in *jsoniter.Iterator) ([]T, error) {
		if in.ReadNil() {
			return nil, readErr(in)
		}

		res := []T{}
		for in.ReadArray() {
			v, err := item.Parse(in)
			if err != nil {
				return nil, err
			}

			res = append(res, v)
		}

		return res, readErr(in)
	})
}

// ListSerializer is the encode half of List.
func ListSerializer[T any](item Serializer[T]) Serializer[[]T] {
	return SerializerFunc[[]T](func(v []T, out *jsoniter.Stream) error {
		if v == nil {
			out.WriteNil()
			return out.Error
		}

		out.WriteArrayStart()
		for i, e := range v {
			if i > 0 {
				out.WriteMore()
			}

			if err := item.Serialize(e, out); err != nil {
				return err
			}
		}
		out.WriteArrayEnd()

		return out.Error
	})
}

// Map maps a JSON object to map[string]V. Keys are written in sorted order.
func Map[V any](item Mapper[V]) Mapper[map[string]V] {
	return Join(MapParser[V](item), MapSerializer[V](item))
}

// MapParser is the decode half of Map.
func MapParser[V any](item Parser[V]) Parser[map[string]V] {
	return ParserFunc[map[string]V](func(in *jsoniter.Iterator) (map[string]V, error) {
		if in.ReadNil() {
			return nil, readErr(in)
		}

		var itemErr error

		res := map[string]V{}
		in.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			v, err := item.Parse(it)
			if err != nil {
				itemErr = err
				return false
			}

			res[key] = v

			return true
		})

		if itemErr != nil {
			return nil, itemErr
		}

		return res, readErr(in)
	})
}

// MapSerializer is the encode half of Map.
func MapSerializer[V any](item Serializer[V]) Serializer[map[string]V] {
	return SerializerFunc[map[string]V](func(v map[string]V, out *jsoniter.Stream) error {
		if v == nil {
			out.WriteNil()
			return out.Error
		}

		keys := lo.Keys(v)
		slices.Sort(keys)

		out.WriteObjectStart()
		for i, k := range keys {
			if i > 0 {
				out.WriteMore()
			}

			out.WriteObjectField(k)
			if err := item.Serialize(v[k], out); err != nil {
				return err
			}
		}
		out.WriteObjectEnd()

		return out.Error
	})
}

// Set maps a JSON array to map[T]struct{}. Elements are written in ascending
// order; duplicates in the input collapse.
func Set[T cmp.Ordered](item Mapper[T]) Mapper[map[T]struct{}] {
	return Join(SetParser[T](item), SetSerializer[T](item))
}

// SetParser is the decode half of Set.
func SetParser[T cmp.Ordered](item Parser[T]) Parser[map[T]struct{}] {
	list := ListParser(item)

	return ParserFunc[map[T]struct{}](func(in *jsoniter.Iterator) (map[T]struct{}, error) {
		items, err := list.Parse(in)
		if err != nil || items == nil {
			return nil, err
		}

		res := make(map[T]struct{}, len(items))
		for _, e := range items {
			res[e] = struct{}{}
		}

		return res, nil
	})
}

// SetSerializer is the encode half of Set.
func SetSerializer[T cmp.Ordered](item Serializer[T]) Serializer[map[T]struct{}] {
	list := ListSerializer(item)

	return SerializerFunc[map[T]struct{}](func(v map[T]struct{}, out *jsoniter.Stream) error {
		if v == nil {
			return list.Serialize(nil, out)
		}

		items := lo.Keys(v)
		slices.Sort(items)

		return list.Serialize(items, out)
	})
}

// Ptr maps null to a nil *T and anything else through item.
func Ptr[T any](item Mapper[T]) Mapper[*T] {
	return Join(PtrParser[T](item), PtrSerializer[T](item))
}

// PtrParser is the decode half of Ptr.
func PtrParser[T any](item Parser[T]) Parser[*T] {
	return ParserFunc[*T](func(in *jsoniter.Iterator) (*T, error) {
		if in.ReadNil() {
			return nil, readErr(in)
		}

		v, err := item.Parse(in)
		if err != nil {
			return nil, err
		}

		return &v, nil
	})
}

// PtrSerializer is the encode half of Ptr.
func PtrSerializer[T any](item Serializer[T]) Serializer[*T] {
	return SerializerFunc[*T](func(v *T, out *jsoniter.Stream) error {
		if v == nil {
			out.WriteNil()
			return out.Error
		}

		return item.Serialize(*v, out)
	})
}
