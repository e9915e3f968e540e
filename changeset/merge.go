package changeset

// Merge recursively merges the sources into target and returns target.
//
// Sources are processed left to right, each overriding the previous. For
// every key of a source: when the value is a plain nested structure
// (map[string]any), it is merged recursively into the corresponding nested
// structure on the target, creating one when absent or when the target
// holds a non-structure value; any other value, including arrays, replaces
// the target's value wholesale.
//
// A nil target starts a fresh map, so Merge(nil, a, b) composes a and b.
// Merge is a generic primitive for configuration and default composition;
// it is not entity-aware.
func Merge(target map[string]any, sources ...map[string]any) map[string]any {
	if target == nil {
		target = make(map[string]any)
	}

	for _, source := range sources {
		for key, value := range source {
			nested, isNested := value.(map[string]any)
			if !isNested {
				target[key] = value
				continue
			}

			existing, hasNested := target[key].(map[string]any)
			if !hasNested {
				existing = make(map[string]any, len(nested))
			}

			target[key] = Merge(existing, nested)
		}
	}

	return target
}
