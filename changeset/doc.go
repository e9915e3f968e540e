// Package changeset provides the change-detection core of a persistence
// layer: it converts a live, possibly-cyclic graph of domain objects into
// canonical, comparable snapshots and computes the minimal set of
// field-level changes between two such snapshots.
//
// The package is pure, synchronous computation over in-memory data. It does
// not generate SQL, open connections, or cache anything. It only decides
// what changed, so the host persistence layer can decide how to write it.
//
// Key types:
//   - Entity: a live domain object (type name + mutable field map)
//   - EntityMetadata / PropertyDescriptor: externally supplied shape descriptors
//   - Snapshot: an immutable, flat field-to-value mapping taken from an Entity
//   - Changes: the subset of fields that differ between two snapshots
//   - ChangeDetector: the façade wiring a metadata registry to the operations
//
// Common usage pattern:
//
//	registry := changeset.NewRegistry()
//	_ = registry.Register(authorMetadata)
//
//	detector, err := changeset.New(registry,
//		changeset.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	before, err := detector.PrepareEntity(author)
//	// ... host application mutates author ...
//	after, err := detector.PrepareEntity(author)
//
//	changes := changeset.Diff(before, after)
//	for _, name := range changes.Names() {
//		// write changes.Get(name) to the store
//	}
//
// Snapshots replace entity references with identity values, omit
// collections and virtual fields, and deep-clone nested scalar structures,
// so a snapshot can never be retroactively altered by mutating the live
// entity it was taken from.
package changeset
