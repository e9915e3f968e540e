package changeset

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// compositeKeySeparator joins the per-field values of a composite identity.
// The join order is fixed by the metadata's declared key-field order, never
// by the order fields happen to be enumerated on an instance.
const compositeKeySeparator = "~"

// defaultCompositeKeyDepthLimit bounds the recursion through nested entity
// references while resolving composite key segments. Metadata-level cycles
// (two entities whose composite keys reference each other) would otherwise
// never terminate.
const defaultCompositeKeyDepthLimit = 8

// Identifier is the capability check for opaque, driver-issued identifier
// types (for example a document store's object ID). Any type exposing its
// identity as a string through this interface is treated as
// primary-key-shaped, without the core knowing the driver's concrete type.
type Identifier interface {
	IdentityString() string
}

// IsIdentity reports whether value is primary-key-shaped: a string, any
// numeric kind, a uuid.UUID, or an Identifier implementation.
func IsIdentity(value any) bool {
	if value == nil {
		return false
	}

	if _, ok := value.(uuid.UUID); ok {
		return true
	}

	if _, ok := value.(Identifier); ok {
		return true
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// ExtractIdentity returns the identity value carried by data, or nil when no
// identity is determinable. A nil result is a normal outcome, not an error.
//
// Primary-key-shaped input is returned as-is. A live *Entity resolves its
// own metadata through the registry; a *Reference resolves its entity or,
// when unresolved, yields the raw identity it was created with.
func ExtractIdentity(data any, registry MetadataRegistry) any {
	return extractIdentity(data, registry, defaultCompositeKeyDepthLimit)
}

// IdentityFromData extracts an identity from a raw data map using explicit
// metadata: the composite identity for composite keys, otherwise the primary
// key field's value, falling back to the serialized-form field, else nil.
func IdentityFromData(data map[string]any, meta EntityMetadata, registry MetadataRegistry) any {
	if data == nil {
		return nil
	}

	return identityFromFields(mapFieldGetter(data), meta, registry, defaultCompositeKeyDepthLimit)
}

// CompositeIdentity builds the deterministic composite identity string for
// an entity: each key field's resolved identity, joined with "~" in the
// metadata's declared key-field order. A nil or missing key field
// contributes an empty segment; callers must treat an identity containing an
// empty segment as "not fully assigned yet".
func CompositeIdentity(entity *Entity, meta EntityMetadata, registry MetadataRegistry) string {
	return compositeIdentity(entity.Get, meta, registry, defaultCompositeKeyDepthLimit)
}

func extractIdentity(data any, registry MetadataRegistry, depth int) any {
	if data == nil {
		return nil
	}

	if IsIdentity(data) {
		return data
	}

	switch v := data.(type) {
	case *Reference:
		if v == nil {
			return nil
		}
		if v.IsResolved() {
			return extractIdentity(v.entity, registry, depth)
		}
		return v.id

	case *Entity:
		if v == nil || registry == nil {
			return nil
		}
		meta, err := registry.Get(v.typeName)
		if err != nil {
			return nil
		}
		return identityFromFields(v.Get, meta, registry, depth)

	default:
		return nil
	}
}

// fieldGetter abstracts over live entities and raw data maps so identity
// resolution works on both.
type fieldGetter func(name string) (any, bool)

func mapFieldGetter(data map[string]any) fieldGetter {
	return func(name string) (any, bool) {
		value, ok := data[name]
		return value, ok
	}
}

func identityFromFields(get fieldGetter, meta EntityMetadata, registry MetadataRegistry, depth int) any {
	if meta.composite {
		return compositeIdentity(get, meta, registry, depth)
	}

	if value, ok := get(meta.primaryKeys[0]); ok && value != nil {
		return resolveKeySegment(value, registry, depth)
	}

	if meta.serializedKey != "" {
		if value, ok := get(meta.serializedKey); ok && value != nil {
			return value
		}
	}

	return nil
}

func compositeIdentity(get fieldGetter, meta EntityMetadata, registry MetadataRegistry, depth int) string {
	segments := make([]string, 0, len(meta.primaryKeys))

	for _, name := range meta.primaryKeys {
		raw, _ := get(name)
		segments = append(segments, cast.ToString(resolveKeySegment(raw, registry, depth)))
	}

	return strings.Join(segments, compositeKeySeparator)
}

// resolveKeySegment unwraps a key field whose value is itself a reference to
// another entity into that entity's identity. Composite keys may be
// partially foreign-key-based. Recursion stops at the depth bound, where a
// still-nested reference resolves to nil and so yields an empty segment.
func resolveKeySegment(value any, registry MetadataRegistry, depth int) any {
	if !isEntityRef(value) {
		return value
	}

	if depth <= 0 {
		return nil
	}

	return extractIdentity(value, registry, depth-1)
}

// isUnassignedIdentity reports whether an identity value counts as "not yet
// assigned": nil, the zero value of its kind (empty string, zero number,
// uuid.Nil), or an Identifier with an empty identity string. Composite
// identity strings are checked separately with hasEmptySegment.
func isUnassignedIdentity(value any) bool {
	if value == nil {
		return true
	}

	if id, ok := value.(Identifier); ok {
		return id.IdentityString() == ""
	}

	return reflect.ValueOf(value).IsZero()
}

// hasEmptySegment reports whether a composite identity string carries an
// empty segment, meaning one of its key fields is not yet assigned.
func hasEmptySegment(composite string) bool {
	for _, segment := range strings.Split(composite, compositeKeySeparator) {
		if segment == "" {
			return true
		}
	}

	return false
}
