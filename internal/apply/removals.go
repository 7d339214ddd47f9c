package apply

import (
	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/plan"
	"github.com/prefabmig/prefabmig/internal/tree"
)

// PlanRemovals scans the (already mutated) document for components whose
// kind is on the removal list and emits one remove-component instruction per
// occurrence. It runs against the flat array rather than a projection so
// duplicate kinds on one node each get their own instruction.
//
// Node paths are resolved through a fresh projection when possible and are
// informational only; nodes unreachable from the root fall back to their
// name.
func PlanRemovals(doc *graph.Document, removals map[string]bool) []plan.Instruction {
	if len(removals) == 0 {
		return nil
	}

	pathBySlot := map[int]string{}
	if root, err := tree.Project(doc); err == nil {
		for path, n := range tree.PathMap(root) {
			pathBySlot[n.Slot] = path
		}
	}

	var instructions []plan.Instruction
	for slot := 0; slot < doc.Len(); slot++ {
		node := doc.At(slot)
		if node == nil || !node.IsNode() {
			continue
		}
		comps, _ := node["_components"].([]any)
		for idx, entry := range comps {
			target, ok := graph.AsRef(entry)
			if !ok {
				continue
			}
			comp := doc.At(target)
			if comp == nil || !removals[comp.Type()] {
				continue
			}
			path := pathBySlot[slot]
			if path == "" {
				path, _ = node["_name"].(string)
			}
			instructions = append(instructions, plan.RemoveComponent{
				NodeSlot:      slot,
				ComponentSlot: target,
				Kind:          comp.Type(),
				Index:         idx,
				Path:          path,
			})
		}
	}
	return instructions
}
