package changeset

import (
	"errors"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrUnknownSnapshotField is returned when a snapshot field order names
	// a field that is not present in the field map.
	ErrUnknownSnapshotField = errors.New("snapshot field order names an unknown field")

	// ErrIncompleteSnapshotOrder is returned when an explicit field order
	// does not cover every field of the snapshot.
	ErrIncompleteSnapshotOrder = errors.New("snapshot field order does not cover all fields")
)

/***** Snapshot *****/

// Snapshot is an immutable, flat mapping from field name to comparable
// value, taken from a live entity by PrepareEntity. The type itself is the
// "prepared" marker: normalizing a value that already is a Snapshot is an
// identity operation by construction, so idempotence is a type-level
// property rather than a runtime flag.
//
// Snapshots preserve the field order of the metadata they were built from;
// diff results iterate in that order.
type Snapshot struct {
	names  []string
	fields map[string]any
}

// BuildSnapshot is a factory method for Snapshot, for hosts that already
// hold normalized flat data (for example the state loaded from the store).
//
// The optional order lists field names in iteration order; it must cover
// exactly the keys of fields. Without an explicit order, fields iterate in
// sorted name order.
func BuildSnapshot(fields map[string]any, order ...string) (Snapshot, error) {
	names := make([]string, 0, len(fields))

	if len(order) == 0 {
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		return newSnapshot(names, fields), nil
	}

	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		if _, ok := fields[name]; !ok {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownSnapshotField, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) != len(fields) {
		return Snapshot{}, ErrIncompleteSnapshotOrder
	}

	return newSnapshot(names, fields), nil
}

func newSnapshot(names []string, fields map[string]any) Snapshot {
	owned := make(map[string]any, len(fields))
	for name, value := range fields {
		owned[name] = value
	}

	return Snapshot{names: names, fields: owned}
}

// Names returns the snapshot's field names in declaration order.
func (s Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns a field value and whether the field exists in the snapshot.
func (s Snapshot) Get(name string) (any, bool) {
	value, ok := s.fields[name]
	return value, ok
}

// Len returns the number of fields in the snapshot.
func (s Snapshot) Len() int {
	return len(s.names)
}

// Fields returns a shallow copy of the snapshot's field map.
func (s Snapshot) Fields() map[string]any {
	out := make(map[string]any, len(s.fields))
	for name, value := range s.fields {
		out[name] = value
	}
	return out
}

// ToJSON serializes the snapshot as a JSON object in field order.
func (s Snapshot) ToJSON() ([]byte, error) {
	return encodeOrdered(s.names, s.fields)
}

/***** Changes *****/

// Changes is the result of a diff: the subset of the second snapshot's
// fields that are absent from or unequal to the first snapshot. Iteration
// order matches the second snapshot's own field order.
type Changes struct {
	names  []string
	fields map[string]any
}

// IsEmpty reports whether no fields changed.
func (c Changes) IsEmpty() bool {
	return len(c.names) == 0
}

// Names returns the changed field names in the second snapshot's order.
func (c Changes) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns a changed field's new value and whether the field changed.
func (c Changes) Get(name string) (any, bool) {
	value, ok := c.fields[name]
	return value, ok
}

// Len returns the number of changed fields.
func (c Changes) Len() int {
	return len(c.names)
}

// Fields returns a shallow copy of the changed field map, suitable for
// building an UPDATE statement.
func (c Changes) Fields() map[string]any {
	out := make(map[string]any, len(c.fields))
	for name, value := range c.fields {
		out[name] = value
	}
	return out
}

// ToJSON serializes the changes as a JSON object in field order.
func (c Changes) ToJSON() ([]byte, error) {
	return encodeOrdered(c.names, c.fields)
}

// encodeOrdered writes a JSON object with keys in the given order, which a
// plain map marshal would not preserve.
func encodeOrdered(names []string, fields map[string]any) ([]byte, error) {
	stream := jsoniter.ConfigFastest.BorrowStream(nil)
	defer jsoniter.ConfigFastest.ReturnStream(stream)

	stream.WriteObjectStart()
	for idx, name := range names {
		if idx > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(name)
		stream.WriteVal(fields[name])
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())

	return out, nil
}
