package event

// DeepMerge merges overlay into base and returns the result as a new map.
// Neither input is modified.
//
// Keys present only in one input are copied through. When both inputs hold an
// object under the same key the objects are merged recursively; any other
// combination is right-biased, the overlay value replaces the base value
// wholesale. Merging never fails: a non-object where an object was expected
// is simply a replacement.
func DeepMerge(base, overlay map[string]any) map[string]any {
	merged := CloneMap(base)
	if merged == nil {
		merged = make(map[string]any, len(overlay))
	}
	for k, v := range overlay {
		bm, baseIsMap := merged[k].(map[string]any)
		vm, overlayIsMap := v.(map[string]any)
		if baseIsMap && overlayIsMap {
			merged[k] = DeepMerge(bm, vm)
			continue
		}
		merged[k] = cloneValue(v)
	}
	return merged
}

// CloneMap returns a deep copy of m. Nested maps and slices are copied;
// all other values are shared, which is safe for plain JSON scalars.
// Returns nil when m is nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
