package changeset

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNilEntity is returned when a nil entity is handed to PrepareEntity.
	ErrNilEntity = errors.New("entity must not be nil")

	// ErrNotAnEntity is returned when PrepareEntity receives a value that is
	// neither an *Entity nor an already-prepared Snapshot.
	ErrNotAnEntity = errors.New("value is neither an entity nor a snapshot")
)

// ChangeDetector converts live entities into snapshots and computes
// field-level changes between them. It holds the metadata registry handle
// and the optional observability hooks; all of its operations are
// synchronous, pure computations owned entirely by the caller.
//
// Construct it with New.
type ChangeDetector struct {
	registry      MetadataRegistry
	logger        Logger
	metrics       MetricsCollector
	keyDepthLimit int
}

// New creates a ChangeDetector backed by the given metadata registry.
func New(registry MetadataRegistry, opts ...Option) (*ChangeDetector, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	cd := &ChangeDetector{
		registry:      registry,
		keyDepthLimit: defaultCompositeKeyDepthLimit,
	}

	for _, opt := range opts {
		if err := opt(cd); err != nil {
			return nil, err
		}
	}

	return cd, nil
}

// PrepareEntity converts a live entity into an immutable Snapshot.
//
// It is idempotent: a value that already is a Snapshot is returned
// unchanged. An unknown entity type surfaces the registry's lookup error
// unmodified; that is a configuration error in the surrounding system.
//
// For each property descriptor of the entity's metadata, in declaration
// order, the field is dropped from the snapshot when any of these holds:
//   - the field is not present as an own field on the entity at all
//   - the field holds a Collection
//   - the field is a primary-key field whose value is not yet assigned
//   - the field references an entity whose own identity is not yet assigned
//   - the field is the inverse (non-owning) side of a one-to-one relation
//   - the field is a to-one relation holding the Unset sentinel
//     (an explicit nil is kept)
//   - the descriptor marks the field as virtual
//
// Every surviving entity reference is reduced to its identity value, custom
// codecs are applied, and nested arrays and structures are deep-cloned so
// the snapshot is immune to later in-place mutation of the live entity.
func (cd *ChangeDetector) PrepareEntity(value any) (Snapshot, error) {
	switch v := value.(type) {
	case Snapshot:
		return v, nil

	case *Entity:
		if v == nil {
			return Snapshot{}, ErrNilEntity
		}
		return cd.normalize(v)

	default:
		return Snapshot{}, fmt.Errorf("%w: %T", ErrNotAnEntity, value)
	}
}

// ExtractIdentity is ExtractIdentity bound to the detector's registry and
// configured depth limit.
func (cd *ChangeDetector) ExtractIdentity(data any) any {
	return extractIdentity(data, cd.registry, cd.keyDepthLimit)
}

// CompositeIdentity builds the composite identity string for an entity of a
// registered type. The registry's lookup error is surfaced unmodified.
func (cd *ChangeDetector) CompositeIdentity(entity *Entity) (string, error) {
	if entity == nil {
		return "", ErrNilEntity
	}

	meta, err := cd.registry.Get(entity.typeName)
	if err != nil {
		return "", err
	}

	return compositeIdentity(entity.Get, meta, cd.registry, cd.keyDepthLimit), nil
}

func (cd *ChangeDetector) normalize(entity *Entity) (Snapshot, error) {
	start := time.Now()

	meta, err := cd.registry.Get(entity.typeName)
	if err != nil {
		cd.logError("resolving entity metadata failed", "entity_type", entity.typeName, "error", err)
		return Snapshot{}, err
	}

	names := make([]string, 0, len(meta.properties))
	fields := make(map[string]any, len(meta.properties))

	for _, prop := range meta.properties {
		value, include, fieldErr := cd.normalizeField(entity, prop)
		if fieldErr != nil {
			return Snapshot{}, fieldErr
		}

		if !include {
			continue
		}

		names = append(names, prop.Name)
		fields[prop.Name] = value
	}

	labels := map[string]string{"entity_type": entity.typeName}
	cd.observeDuration(metricPrepareDuration, metricPrepareTotal, start, labels)
	cd.logDebug("entity normalized",
		"entity_type", entity.typeName,
		"snapshot_fields", len(names),
		"declared_properties", len(meta.properties))

	return newSnapshot(names, fields), nil
}

// normalizeField applies the exclusion rules to one property and, when the
// field survives, reduces its value to the comparable snapshot form.
func (cd *ChangeDetector) normalizeField(entity *Entity, prop PropertyDescriptor) (any, bool, error) {
	raw, ok := entity.Get(prop.Name)
	if !ok {
		return nil, false, nil
	}

	if prop.Virtual {
		return nil, false, nil
	}

	if _, isCollection := raw.(*Collection); isCollection {
		return nil, false, nil
	}

	if prop.Primary && isUnassignedIdentity(raw) {
		return nil, false, nil
	}

	if prop.Kind == KindOneToOne && !prop.Owner {
		return nil, false, nil
	}

	if prop.Kind.IsToOne() && IsUnset(raw) {
		return nil, false, nil
	}

	if isEntityRef(raw) {
		return cd.referenceIdentity(raw)
	}

	if prop.Codec != nil {
		return prop.Codec.ToStorage(raw), true, nil
	}

	if isCloneable(raw) {
		return Clone(raw), true, nil
	}

	return raw, true, nil
}

// referenceIdentity reduces an entity reference to its identity value.
// A reference to an entity whose identity is not yet assigned is excluded:
// there is nothing meaningful to compare until the entity is saved.
func (cd *ChangeDetector) referenceIdentity(value any) (any, bool, error) {
	switch v := value.(type) {
	case *Reference:
		if !v.IsResolved() {
			if isUnassignedIdentity(v.id) {
				return nil, false, nil
			}
			return v.id, true, nil
		}
		return cd.referenceIdentity(v.entity)

	case *Entity:
		meta, err := cd.registry.Get(v.typeName)
		if err != nil {
			return nil, false, err
		}

		if meta.composite {
			id := compositeIdentity(v.Get, meta, cd.registry, cd.keyDepthLimit)
			if hasEmptySegment(id) {
				return nil, false, nil
			}
			return id, true, nil
		}

		id := identityFromFields(v.Get, meta, cd.registry, cd.keyDepthLimit)
		if isUnassignedIdentity(id) {
			return nil, false, nil
		}

		return id, true, nil

	default:
		return nil, false, nil
	}
}
