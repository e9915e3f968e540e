package changeset

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrEmptyTypeName is returned when metadata is built without a type name.
	ErrEmptyTypeName = errors.New("entity type name must not be empty")

	// ErrNoProperties is returned when metadata is built without any properties.
	ErrNoProperties = errors.New("entity metadata must declare at least one property")

	// ErrDuplicateProperty is returned when two descriptors share a name.
	ErrDuplicateProperty = errors.New("duplicate property name in entity metadata")

	// ErrMissingPrimaryKey is returned when no descriptor carries the Primary flag.
	ErrMissingPrimaryKey = errors.New("entity metadata must declare a primary key")

	// ErrVirtualPrimaryKey is returned when a primary key field is marked virtual.
	ErrVirtualPrimaryKey = errors.New("a primary key field must not be virtual")

	// ErrDuplicateEntityType is returned when registering an already-known type.
	ErrDuplicateEntityType = errors.New("entity type is already registered")

	// ErrMetadataNotFound is returned when looking up an unregistered type.
	ErrMetadataNotFound = errors.New("no metadata registered for entity type")
)

/***** ReferenceKind *****/

// ReferenceKind describes how a property relates to other entities.
type ReferenceKind int

const (
	// KindNone marks a plain scalar (or nested structure) property.
	KindNone ReferenceKind = iota

	// KindOneToOne marks a single reference with a dedicated counterpart.
	KindOneToOne

	// KindManyToOne marks a single reference shared by many owners.
	KindManyToOne

	// KindOneToMany marks a collection owned through the other side's foreign key.
	KindOneToMany

	// KindManyToMany marks a collection persisted through a join table.
	KindManyToMany
)

// String returns the canonical name of the reference kind.
func (k ReferenceKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOneToOne:
		return "one-to-one"
	case KindManyToOne:
		return "many-to-one"
	case KindOneToMany:
		return "one-to-many"
	case KindManyToMany:
		return "many-to-many"
	default:
		return "unknown"
	}
}

// IsToOne reports whether the kind holds a single reference.
func (k ReferenceKind) IsToOne() bool {
	return k == KindOneToOne || k == KindManyToOne
}

// IsToMany reports whether the kind holds a collection of references.
func (k ReferenceKind) IsToMany() bool {
	return k == KindOneToMany || k == KindManyToMany
}

/***** Codec *****/

// Codec converts a custom scalar between its in-memory representation and
// the comparable form the storage layer understands. The change detector
// only needs the storage direction.
type Codec interface {
	ToStorage(value any) any
}

/***** PropertyDescriptor *****/

// PropertyDescriptor describes one field of an entity type.
//
// The zero value describes a persisted scalar field; only deviations from
// that need to be set. Virtual inverts the usual "persist" flag so that the
// zero value means "persisted".
type PropertyDescriptor struct {
	Name    string
	Kind    ReferenceKind
	Owner   bool   // true if this side persists the foreign key
	Inverse string // field name of the counterpart on the other side, if any
	Virtual bool   // computed field, never part of snapshots
	Primary bool
	Codec   Codec // optional custom scalar codec
}

/***** EntityMetadata *****/

// EntityMetadata is the static, externally supplied descriptor for one
// entity type. It is immutable once built and safe for concurrent reads.
//
// Construct it with BuildEntityMetadata or
// BuildEntityMetadataWithSerializedKey.
type EntityMetadata struct {
	typeName      string
	primaryKeys   []string // declared key-field order, fixed for composite joins
	serializedKey string   // fallback field name for raw data (e.g. "id" next to "_id")
	composite     bool
	properties    []PropertyDescriptor
	byName        map[string]int
}

// BuildEntityMetadata is a factory method for EntityMetadata.
//
// Properties keep their declaration order, which also fixes the key-field
// order used when joining composite identities. It returns an error if the
// type name is empty, a property name repeats, no property is marked
// Primary, or a primary key field is virtual.
func BuildEntityMetadata(typeName string, properties ...PropertyDescriptor) (EntityMetadata, error) {
	return BuildEntityMetadataWithSerializedKey(typeName, "", properties...)
}

// BuildEntityMetadataWithSerializedKey is a factory method for EntityMetadata
// that additionally sets the serialized-form primary key field name, used as
// a fallback when extracting an identity from raw data that carries the
// serialized field instead of the raw one.
func BuildEntityMetadataWithSerializedKey(
	typeName string,
	serializedKey string,
	properties ...PropertyDescriptor,
) (EntityMetadata, error) {

	if typeName == "" {
		return EntityMetadata{}, ErrEmptyTypeName
	}

	if len(properties) == 0 {
		return EntityMetadata{}, fmt.Errorf("%w: %s", ErrNoProperties, typeName)
	}

	meta := EntityMetadata{
		typeName:      typeName,
		serializedKey: serializedKey,
		properties:    make([]PropertyDescriptor, len(properties)),
		byName:        make(map[string]int, len(properties)),
	}
	copy(meta.properties, properties)

	for idx, prop := range meta.properties {
		if _, exists := meta.byName[prop.Name]; exists {
			return EntityMetadata{}, fmt.Errorf("%w: %s.%s", ErrDuplicateProperty, typeName, prop.Name)
		}
		meta.byName[prop.Name] = idx

		if prop.Primary {
			if prop.Virtual {
				return EntityMetadata{}, fmt.Errorf("%w: %s.%s", ErrVirtualPrimaryKey, typeName, prop.Name)
			}
			meta.primaryKeys = append(meta.primaryKeys, prop.Name)
		}
	}

	if len(meta.primaryKeys) == 0 {
		return EntityMetadata{}, fmt.Errorf("%w: %s", ErrMissingPrimaryKey, typeName)
	}

	meta.composite = len(meta.primaryKeys) > 1

	return meta, nil
}

// TypeName returns the entity type name this metadata describes.
func (m EntityMetadata) TypeName() string {
	return m.typeName
}

// PrimaryKeys returns the primary-key field names in declared order.
func (m EntityMetadata) PrimaryKeys() []string {
	out := make([]string, len(m.primaryKeys))
	copy(out, m.primaryKeys)
	return out
}

// IsComposite reports whether the primary key spans multiple fields.
func (m EntityMetadata) IsComposite() bool {
	return m.composite
}

// SerializedPrimaryKey returns the serialized-form fallback field name, or "".
func (m EntityMetadata) SerializedPrimaryKey() string {
	return m.serializedKey
}

// Properties returns the property descriptors in declaration order.
func (m EntityMetadata) Properties() []PropertyDescriptor {
	out := make([]PropertyDescriptor, len(m.properties))
	copy(out, m.properties)
	return out
}

// Property returns the descriptor for the named field and whether it exists.
func (m EntityMetadata) Property(name string) (PropertyDescriptor, bool) {
	idx, ok := m.byName[name]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return m.properties[idx], true
}

/***** Registry *****/

// MetadataRegistry is the narrow interface through which the change
// detector consumes the external metadata registry.
type MetadataRegistry interface {
	// Get returns the metadata for the given entity type name.
	// A lookup failure is a configuration error and must be returned as such.
	Get(typeName string) (EntityMetadata, error)
}

// Registry is an in-memory MetadataRegistry implementation. It is created
// once at startup, filled via Register, and safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	metadata map[string]EntityMetadata
}

// NewRegistry creates an empty metadata registry.
func NewRegistry() *Registry {
	return &Registry{
		metadata: make(map[string]EntityMetadata),
	}
}

// Register adds metadata for a new entity type.
// Registering the same type name twice returns ErrDuplicateEntityType.
func (r *Registry) Register(meta EntityMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.metadata[meta.typeName]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntityType, meta.typeName)
	}

	r.metadata[meta.typeName] = meta

	return nil
}

// MustRegister is like Register but panics on error, for startup wiring.
func (r *Registry) MustRegister(meta EntityMetadata) {
	if err := r.Register(meta); err != nil {
		panic(err)
	}
}

// Get returns the metadata for the given entity type name, or
// ErrMetadataNotFound if the type was never registered.
func (r *Registry) Get(typeName string) (EntityMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[typeName]
	if !exists {
		return EntityMetadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, typeName)
	}

	return meta, nil
}

// All returns the registered metadata, keyed by type name.
func (r *Registry) All() map[string]EntityMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]EntityMetadata, len(r.metadata))
	for name, meta := range r.metadata {
		out[name] = meta
	}

	return out
}

// Ensure Registry implements MetadataRegistry.
var _ MetadataRegistry = (*Registry)(nil)
