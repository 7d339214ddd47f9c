package graph

import "fmt"

// Dangling describes a reference whose target was already a tombstone when
// the compactor ran. The reference is left as-is and reported, not fixed.
type Dangling struct {
	Slot   int    // slot of the record holding the reference
	Field  string // field path within the record, for diagnostics
	Target int    // the stale slot the reference pointed at
}

func (d Dangling) String() string {
	return fmt.Sprintf("slot %d field %s points at removed slot %d", d.Slot, d.Field, d.Target)
}

// Compact removes tombstones and rewrites every reference in the surviving
// records to the new contiguous numbering. Relative order of live records
// is preserved, so names and paths remain stable for later matching passes.
//
// The returned map translates old slot numbers to new ones. References whose
// old target was a tombstone are reported as dangling and left pointing at
// the stale slot.
func (d *Document) Compact() (map[int]int, []Dangling) {
	remap := make(map[int]int, len(d.records))
	live := make([]Record, 0, len(d.records))
	for i, r := range d.records {
		if r == nil {
			continue
		}
		remap[i] = len(live)
		live = append(live, r)
	}

	var dangling []Dangling
	for newSlot, r := range live {
		rewriteRefs(r, "", remap, func(field string, target int) {
			dangling = append(dangling, Dangling{Slot: newSlot, Field: field, Target: target})
		})
	}

	d.records = live
	return remap, dangling
}

// rewriteRefs walks v recursively and rewrites every reference object's
// target through remap. miss is called for targets absent from the map.
func rewriteRefs(v any, path string, remap map[int]int, miss func(field string, target int)) {
	switch val := v.(type) {
	case map[string]any:
		if target, ok := AsRef(val); ok {
			if newSlot, live := remap[target]; live {
				val[RefKey] = float64(newSlot)
			} else {
				miss(path, target)
			}
			return
		}
		for k, child := range val {
			rewriteRefs(child, joinPath(path, k), remap, miss)
		}
	case Record:
		rewriteRefs(map[string]any(val), path, remap, miss)
	case []any:
		for i, child := range val {
			rewriteRefs(child, fmt.Sprintf("%s[%d]", path, i), remap, miss)
		}
	}
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
