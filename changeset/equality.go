package changeset

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"
)

// DeepEqual reports structural equality between two values: scalars by
// value, slices and arrays by length and pairwise recursive equality in
// order, maps by identical key sets and pairwise recursive equality of
// values regardless of key order. Maps whose key types differ are never
// equal. Byte blobs compare by content and timestamps by instant,
// independent of monotonic clock or location.
//
// Snapshots are cycle-free by construction, so DeepEqual is never fed
// cyclic structures by this package. It has no side effects.
func DeepEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	if ab, ok := asBytes(a); ok {
		bb, okB := asBytes(b)
		return okB && bytes.Equal(ab, bb)
	}

	if at, ok := a.(time.Time); ok {
		bt, okB := b.(time.Time)
		return okB && at.Equal(bt)
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)

	switch {
	case isSequence(va) && isSequence(vb):
		return sequencesEqual(va, vb)

	case va.Kind() == reflect.Map && vb.Kind() == reflect.Map:
		// Maps with different key types are never equal; indexing one map
		// with the other's keys would not even be legal.
		if va.Type().Key() != vb.Type().Key() {
			return false
		}
		return mapsEqual(va, vb)

	default:
		return reflect.DeepEqual(a, b)
	}
}

func asBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case json.RawMessage:
		return v, true
	default:
		return nil, false
	}
}

func isSequence(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func sequencesEqual(va, vb reflect.Value) bool {
	if va.Len() != vb.Len() {
		return false
	}

	for i := 0; i < va.Len(); i++ {
		if !DeepEqual(va.Index(i).Interface(), vb.Index(i).Interface()) {
			return false
		}
	}

	return true
}

func mapsEqual(va, vb reflect.Value) bool {
	if va.Len() != vb.Len() {
		return false
	}

	iter := va.MapRange()
	for iter.Next() {
		other := vb.MapIndex(iter.Key())
		if !other.IsValid() {
			return false
		}

		if !DeepEqual(iter.Value().Interface(), other.Interface()) {
			return false
		}
	}

	return true
}
