package changeset

import (
	"time"
)

// Diff compares two snapshots and returns the subset of b's fields that are
// absent from or structurally unequal to the corresponding field in a: what
// would need to change to turn a into b, restricted to the fields b
// declares. Fields present only in a are ignored. The result iterates in
// b's own field order.
func Diff(a, b Snapshot) Changes {
	changes := Changes{fields: make(map[string]any)}

	for _, name := range b.names {
		newValue := b.fields[name]

		oldValue, exists := a.fields[name]
		if exists && DeepEqual(oldValue, newValue) {
			continue
		}

		changes.names = append(changes.names, name)
		changes.fields[name] = newValue
	}

	return changes
}

// Diff is the package-level Diff with the detector's observability applied.
func (cd *ChangeDetector) Diff(a, b Snapshot) Changes {
	start := time.Now()

	changes := Diff(a, b)

	cd.observeDuration(metricDiffDuration, metricDiffTotal, start, nil)
	cd.observeValue(metricChangedFields, float64(changes.Len()), nil)
	cd.logDebug("snapshots diffed", "changed_fields", changes.Len())

	return changes
}

// DiffEntities normalizes both sides and diffs the resulting snapshots.
// Either side may already be a Snapshot, in which case it is used as-is.
func (cd *ChangeDetector) DiffEntities(a, b any) (Changes, error) {
	snapshotA, err := cd.PrepareEntity(a)
	if err != nil {
		return Changes{}, err
	}

	snapshotB, err := cd.PrepareEntity(b)
	if err != nil {
		return Changes{}, err
	}

	return cd.Diff(snapshotA, snapshotB), nil
}
