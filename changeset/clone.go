package changeset

import (
	"encoding/json"
	"reflect"
	"time"
)

// Clone produces an independent deep copy of a value graph: mutating the
// copy never affects the original. It is used when array- or map-valued
// scalar fields are taken into a snapshot, so that later in-place mutation
// of the live entity cannot retroactively alter the snapshot.
//
// Scalars, timestamps, and other leaf values are returned as-is; maps,
// slices, and arrays are copied recursively. Byte blobs copy their content.
func Clone(value any) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out

	case json.RawMessage:
		out := make(json.RawMessage, len(v))
		copy(out, v)
		return out

	case time.Time:
		return v

	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Clone(item)
		}
		return out

	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = Clone(item)
		}
		return out
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return value
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			setCloned(out.Index(i), rv.Index(i))
		}
		return out.Interface()

	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			setCloned(out.Index(i), rv.Index(i))
		}
		return out.Interface()

	case reflect.Map:
		if rv.IsNil() {
			return value
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cloned := Clone(iter.Value().Interface())
			if cloned == nil {
				out.SetMapIndex(iter.Key(), reflect.Zero(rv.Type().Elem()))
				continue
			}
			out.SetMapIndex(iter.Key(), reflect.ValueOf(cloned))
		}
		return out.Interface()

	default:
		return value
	}
}

// setCloned assigns the clone of src to dst, falling back to the element
// type's zero value when the clone is nil (nil pointers, nil interfaces).
func setCloned(dst, src reflect.Value) {
	cloned := Clone(src.Interface())
	if cloned == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}

	dst.Set(reflect.ValueOf(cloned))
}

// isCloneable reports whether a snapshot field value needs a deep copy
// before it is stored: anything map-, slice-, or array-shaped.
func isCloneable(value any) bool {
	if value == nil {
		return false
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}
