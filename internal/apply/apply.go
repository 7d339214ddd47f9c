// Package apply executes a compiled migration plan against the target
// document, mutating records in place.
//
// Missing slots make individual instructions no-ops rather than errors: the
// plan was built from a projection that may be stale in lenient ways, and
// skipping the unit of work while counting it is the contract.
package apply

import (
	"fmt"

	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/plan"
)

// Stats reports what an application pass did.
type Stats struct {
	Applied int
	Skipped int
	Diags   []string
}

func (s *Stats) diagf(format string, args ...any) {
	s.Diags = append(s.Diags, fmt.Sprintf(format, args...))
}

// Apply executes instructions in order against doc.
func Apply(doc *graph.Document, instructions []plan.Instruction) *Stats {
	stats := &Stats{}
	for _, in := range instructions {
		switch in := in.(type) {
		case plan.RedirectFieldToNode:
			applySet(doc, in.NodeSlot, in.Field, in.Value, stats)
		case plan.RedirectFieldToComponent:
			applySet(doc, in.ComponentSlot, in.Field, in.Value, stats)
		case plan.CopyFields:
			applyCopy(doc, in, stats)
		case plan.ReplaceComponentType:
			applyReplace(doc, in, stats)
		case plan.RemoveComponent:
			applyRemove(doc, in, stats)
		default:
			stats.Skipped++
			stats.diagf("unknown instruction %T, skipped", in)
		}
	}
	return stats
}

func applySet(doc *graph.Document, slot int, field string, value any, stats *Stats) {
	r := doc.At(slot)
	if r == nil {
		stats.Skipped++
		return
	}
	r[field] = value
	stats.Applied++
}

func applyCopy(doc *graph.Document, in plan.CopyFields, stats *Stats) {
	r := doc.At(in.ComponentSlot)
	if r == nil {
		stats.Skipped++
		return
	}
	for _, fv := range in.Fields {
		r[fv.Field] = fv.Value
	}
	stats.Applied++
}

func applyReplace(doc *graph.Document, in plan.ReplaceComponentType, stats *Stats) {
	if doc.At(in.NodeSlot) == nil {
		stats.Skipped++
		stats.diagf("replace %s: node slot %d is gone, skipped", in.OldKind, in.NodeSlot)
		return
	}
	r := doc.At(in.ComponentSlot)
	if r == nil {
		stats.Skipped++
		stats.diagf("replace %s: component slot %d is gone, skipped", in.OldKind, in.ComponentSlot)
		return
	}
	r[graph.TypeKey] = in.NewKind
	for _, fv := range in.Fields {
		r[fv.Field] = fv.Value
	}
	stats.Applied++
}

// applyRemove vacates the component slot and drops its entry from the owning
// node's component-reference list. The recorded index is trusted when it
// still points at the component; otherwise the list is scanned. A slot a
// previous instruction already vacated still has its remaining list entries
// dropped, one per instruction, so duplicate occurrences never dangle.
func applyRemove(doc *graph.Document, in plan.RemoveComponent, stats *Stats) {
	node := doc.At(in.NodeSlot)
	if node == nil {
		stats.Skipped++
		return
	}

	comps, _ := node["_components"].([]any)
	idx := -1
	if in.Index >= 0 && in.Index < len(comps) {
		if slot, ok := graph.AsRef(comps[in.Index]); ok && slot == in.ComponentSlot {
			idx = in.Index
		}
	}
	if idx == -1 {
		for i, entry := range comps {
			if slot, ok := graph.AsRef(entry); ok && slot == in.ComponentSlot {
				idx = i
				break
			}
		}
	}
	if idx == -1 && doc.At(in.ComponentSlot) == nil {
		stats.Skipped++
		return
	}
	if idx != -1 {
		node["_components"] = append(comps[:idx:idx], comps[idx+1:]...)
	}

	doc.Tombstone(in.ComponentSlot)
	stats.Applied++
}
