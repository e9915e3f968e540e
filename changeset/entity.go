package changeset

/***** Unset sentinel *****/

// unsetValue is the type of the Unset sentinel. It is unexported so that
// Unset is the only value of this type outside the package.
type unsetValue struct{}

// Unset marks a bidirectional relation field as uninitialized.
//
// It is distinct from an explicit nil: a relation field assigned nil is kept
// in snapshots (the host decided the relation is empty), while a field
// holding Unset is dropped (the host never touched it).
var Unset = unsetValue{}

// IsUnset reports whether value is the Unset sentinel.
func IsUnset(value any) bool {
	_, ok := value.(unsetValue)
	return ok
}

/***** Entity *****/

// Entity is a live domain object: a declared entity type name plus a mutable
// field map. Field values may be scalars, nested map[string]any structures,
// []any arrays, *Entity (direct reference), *Reference (lazy indirection),
// *Collection, or the Unset sentinel.
//
// Entities are created and mutated by the host application; the change
// detector only reads them.
type Entity struct {
	typeName string
	fields   map[string]any
}

// BuildEntity creates an empty Entity of the given declared type.
// The type name is the key under which the entity's metadata is registered.
func BuildEntity(typeName string) *Entity {
	return &Entity{
		typeName: typeName,
		fields:   make(map[string]any),
	}
}

// TypeName returns the declared entity type name.
func (e *Entity) TypeName() string {
	return e.typeName
}

// Set assigns a field value and returns the entity for chaining.
func (e *Entity) Set(name string, value any) *Entity {
	e.fields[name] = value
	return e
}

// Get returns a field value and whether the field is present on the entity.
func (e *Entity) Get(name string) (any, bool) {
	value, ok := e.fields[name]
	return value, ok
}

// Has reports whether the field is present on the entity at all.
func (e *Entity) Has(name string) bool {
	_, ok := e.fields[name]
	return ok
}

// Remove deletes a field from the entity, making it "not an own field".
func (e *Entity) Remove(name string) {
	delete(e.fields, name)
}

// Fields returns a shallow copy of the entity's field map.
func (e *Entity) Fields() map[string]any {
	out := make(map[string]any, len(e.fields))
	for name, value := range e.fields {
		out[name] = value
	}
	return out
}

/***** Reference *****/

// Reference is a lazy indirection around a related entity: it holds either
// the resolved *Entity or, when unresolved, just its raw identity value.
// Relation fields declared as "wrapped" carry a Reference instead of a
// directly-embedded *Entity; the normalizer treats both the same way.
type Reference struct {
	entity *Entity
	id     any
}

// Ref wraps a resolved entity in a Reference.
func Ref(entity *Entity) *Reference {
	return &Reference{entity: entity}
}

// RefID creates an unresolved Reference carrying only the identity value.
func RefID(id any) *Reference {
	return &Reference{id: id}
}

// IsResolved reports whether the Reference holds a live entity.
func (r *Reference) IsResolved() bool {
	return r.entity != nil
}

// Entity returns the resolved entity, or nil for an unresolved Reference.
func (r *Reference) Entity() *Entity {
	return r.entity
}

// RawIdentity returns the identity an unresolved Reference was created with.
// For a resolved Reference it returns nil; use ExtractIdentity instead.
func (r *Reference) RawIdentity() any {
	return r.id
}

/***** Collection *****/

// Collection is an ordered container of related entities belonging to a
// one-to-many or many-to-many field. Collections never appear in snapshots:
// they are persisted through separate join/foreign-key operations, not
// field-level diffing.
type Collection struct {
	items []*Entity
}

// NewCollection creates a Collection holding the given entities in order.
func NewCollection(items ...*Entity) *Collection {
	c := &Collection{}
	return c.Add(items...)
}

// Add appends entities to the collection and returns it for chaining.
func (c *Collection) Add(items ...*Entity) *Collection {
	c.items = append(c.items, items...)
	return c
}

// Items returns a copy of the collection's entity slice.
func (c *Collection) Items() []*Entity {
	out := make([]*Entity, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of entities in the collection.
func (c *Collection) Len() int {
	return len(c.items)
}

// isEntityRef reports whether value is a reference to another entity,
// either directly embedded or behind a Reference indirection.
func isEntityRef(value any) bool {
	switch v := value.(type) {
	case *Entity:
		return v != nil
	case *Reference:
		return v != nil
	default:
		return false
	}
}
