package changeset_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ormkit/changeset-go/changeset"
)

//nolint:funlen
func Test_DeepEqual_StructuralEquality(t *testing.T) {
	someTime := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	someID := uuid.New()

	tests := []struct {
		name  string
		a     any
		b     any
		equal bool
	}{
		{name: "both_nil", a: nil, b: nil, equal: true},
		{name: "nil_vs_value", a: nil, b: 1, equal: false},
		{name: "value_vs_nil", a: "x", b: nil, equal: false},
		{name: "equal_strings", a: "hello", b: "hello", equal: true},
		{name: "unequal_strings", a: "hello", b: "world", equal: false},
		{name: "equal_ints", a: 42, b: 42, equal: true},
		{name: "int_vs_string", a: 42, b: "42", equal: false},
		{name: "equal_uuids", a: someID, b: someID, equal: true},
		{name: "unequal_uuids", a: someID, b: uuid.New(), equal: false},
		{
			name:  "slices_equal_in_order",
			a:     []any{1, "two", 3.0},
			b:     []any{1, "two", 3.0},
			equal: true,
		},
		{
			name:  "slices_order_sensitive",
			a:     []any{1, 2},
			b:     []any{2, 1},
			equal: false,
		},
		{
			name:  "slices_different_length",
			a:     []any{1, 2, 3},
			b:     []any{1, 2},
			equal: false,
		},
		{
			name:  "maps_key_order_insensitive",
			a:     map[string]any{"a": 1, "b": map[string]any{"c": []any{1, 2}}},
			b:     map[string]any{"b": map[string]any{"c": []any{1, 2}}, "a": 1},
			equal: true,
		},
		{
			name:  "maps_different_key_sets",
			a:     map[string]any{"a": 1},
			b:     map[string]any{"a": 1, "b": 2},
			equal: false,
		},
		{
			name:  "maps_different_values",
			a:     map[string]any{"a": 1},
			b:     map[string]any{"a": 2},
			equal: false,
		},
		{
			name:  "typed_maps_by_content",
			a:     map[int]string{1: "a", 2: "b"},
			b:     map[int]string{2: "b", 1: "a"},
			equal: true,
		},
		{
			name:  "maps_with_different_key_types",
			a:     map[string]any{"k": 1},
			b:     map[int]any{1: 1},
			equal: false,
		},
		{
			name:  "byte_blobs_by_content",
			a:     []byte{0x01, 0x02},
			b:     []byte{0x01, 0x02},
			equal: true,
		},
		{
			name:  "byte_blob_vs_raw_message",
			a:     []byte(`{"a":1}`),
			b:     json.RawMessage(`{"a":1}`),
			equal: true,
		},
		{
			name:  "unequal_byte_blobs",
			a:     []byte{0x01},
			b:     []byte{0x02},
			equal: false,
		},
		{
			name:  "timestamps_by_instant",
			a:     someTime,
			b:     someTime.In(time.FixedZone("CET", 3600)),
			equal: true,
		},
		{
			name:  "unequal_timestamps",
			a:     someTime,
			b:     someTime.Add(time.Second),
			equal: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, changeset.DeepEqual(tc.a, tc.b))
		})
	}
}

func Test_DeepEqual_ReflexiveAndSymmetric(t *testing.T) {
	values := []any{
		nil,
		"text",
		123,
		4.5,
		true,
		uuid.New(),
		[]any{1, map[string]any{"k": "v"}},
		map[string]any{"nested": []any{"a", "b"}},
		map[int]string{1: "a"},
		[]byte("blob"),
	}

	for _, x := range values {
		assert.True(t, changeset.DeepEqual(x, x), "DeepEqual(x, x) must hold for %v", x)
	}

	for _, a := range values {
		for _, b := range values {
			assert.Equal(t, changeset.DeepEqual(a, b), changeset.DeepEqual(b, a),
				"symmetry must hold for %v and %v", a, b)
		}
	}
}

func Test_DeepEqual_MixedMapKeyTypesNeverPanic(t *testing.T) {
	pairs := [][2]any{
		{map[string]any{"k": 1}, map[int]any{1: 1}},
		{map[int]any{1: 1}, map[string]any{"k": 1}},
		{map[string]any{"k": map[string]any{"n": 1}}, map[string]any{"k": map[int]string{1: "n"}}},
		{map[any]any{"k": 1}, map[string]any{"k": 1}},
	}

	for _, pair := range pairs {
		assert.NotPanics(t, func() {
			assert.False(t, changeset.DeepEqual(pair[0], pair[1]))
		})
	}
}
