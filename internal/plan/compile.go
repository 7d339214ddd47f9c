package plan

import (
	"fmt"
	"sort"

	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/rules"
	"github.com/prefabmig/prefabmig/internal/tree"
)

// reservedFields never migrate between components: they wire a component to
// its owner or carry slot bookkeeping, and both differ per document.
var reservedFields = map[string]bool{
	"node":     true,
	"_id":      true,
	"__id__":   true,
	"__prefab": true,
}

// Result is a compiled migration plan.
type Result struct {
	// Instructions holds the field transforms and generic copies, in
	// application order.
	Instructions []Instruction
	// ScriptReplacements holds the component-type replacement pass, applied
	// after Instructions and followed by a reindex.
	ScriptReplacements []Instruction
	// Unmatched lists source paths with no structural match in the target;
	// they produce no instructions.
	Unmatched []string
	// Diags accumulates non-fatal skip diagnostics.
	Diags []string
}

func (r *Result) diagf(format string, args ...any) {
	r.Diags = append(r.Diags, fmt.Sprintf(format, args...))
}

// Compile walks every path present in both maps and emits the migration
// plan: rule-based field transforms, then generic field migration, then the
// script-type replacement pass. Paths present only in the target are left
// untouched; paths present only in the source are reported and skipped.
func Compile(source, target map[string]*tree.Node, cfg *rules.Config) *Result {
	res := &Result{}

	var matched []string
	for _, path := range sortedPaths(source) {
		if target[path] == nil {
			res.Unmatched = append(res.Unmatched, path)
			res.diagf("no structural match for %q, skipped", path)
			continue
		}
		matched = append(matched, path)
	}

	for _, path := range matched {
		src, dst := source[path], target[path]
		compileTransforms(res, src, dst, cfg)
		compileGeneric(res, src, dst, cfg)
	}
	for _, path := range matched {
		compileScripts(res, path, source[path], target[path], cfg)
	}

	return res
}

// compileTransforms emits the rule-based field transforms for one matched
// node pair.
func compileTransforms(res *Result, src, dst *tree.Node, cfg *rules.Config) {
	for _, kind := range sortedKinds(src.Components) {
		comp := src.Components[kind]
		for _, rule := range cfg.Transforms[kind] {
			if rule.Target == rules.TargetSelf {
				for _, field := range sortedFieldKeys(rule.Fields) {
					value, ok := comp.Fields[field]
					if !ok {
						continue
					}
					for _, dest := range rule.Fields[field] {
						res.Instructions = append(res.Instructions, RedirectFieldToNode{
							NodeSlot: dst.Slot,
							Field:    dest,
							Value:    rawValue(value),
							Source:   kind,
						})
					}
				}
				continue
			}

			// Rules targeting another component require that kind to exist
			// on the target node.
			destComp := dst.Components[rule.Target]
			if destComp == nil {
				continue
			}
			for _, field := range sortedFieldKeys(rule.Fields) {
				value, ok := comp.Fields[field]
				if !ok {
					continue
				}
				for _, dest := range rule.Fields[field] {
					res.Instructions = append(res.Instructions, RedirectFieldToComponent{
						ComponentSlot: destComp.Slot,
						Field:         dest,
						Value:         rawValue(value),
						Source:        kind,
					})
				}
			}
		}
	}
}

// compileGeneric emits one copy-fields instruction per component kind shared
// by the matched pair, covering every field present on both sides that is
// not reserved, not reference-typed, and not excluded by the kind's
// whitelist.
func compileGeneric(res *Result, src, dst *tree.Node, cfg *rules.Config) {
	for _, kind := range sortedKinds(src.Components) {
		comp := src.Components[kind]
		destComp := dst.Components[kind]
		if destComp == nil {
			continue
		}

		var fields []FieldValue
		for _, field := range sortedValueKeys(comp.Fields) {
			if reservedFields[field] {
				continue
			}
			if _, isRef := comp.Fields[field].(tree.Ref); isRef {
				// Cross-references never migrate: slot identity differs
				// between the two documents.
				continue
			}
			if cfg.FieldExcluded(kind, field) {
				continue
			}
			if _, onTarget := destComp.Fields[field]; !onTarget {
				continue
			}
			fields = append(fields, FieldValue{Field: field, Value: comp.Fields[field]})
		}
		if len(fields) > 0 {
			res.Instructions = append(res.Instructions, CopyFields{
				ComponentSlot: destComp.Slot,
				Kind:          kind,
				Fields:        fields,
			})
		}
	}
}

// compileScripts emits the component-type replacement pass for one matched
// node pair.
func compileScripts(res *Result, path string, src, dst *tree.Node, cfg *rules.Config) {
	for _, kind := range sortedKinds(src.Components) {
		remap, ok := cfg.ScriptFor(kind)
		if !ok {
			continue
		}
		comp := src.Components[kind]
		destComp := dst.Components[kind]
		if destComp == nil {
			res.diagf("script %s at %q has no counterpart on the target node, skipped", kind, path)
			continue
		}

		var fields []FieldValue
		if len(remap.Fields) > 0 {
			for _, field := range sortedStringKeys(remap.Fields) {
				value, present := comp.Fields[field]
				if !present {
					continue
				}
				fields = append(fields, FieldValue{Field: remap.Fields[field], Value: rawValue(value)})
			}
		} else {
			for _, field := range sortedValueKeys(comp.Fields) {
				if reservedFields[field] {
					continue
				}
				fields = append(fields, FieldValue{Field: field, Value: rawValue(comp.Fields[field])})
			}
		}

		res.ScriptReplacements = append(res.ScriptReplacements, ReplaceComponentType{
			NodeSlot:      dst.Slot,
			ComponentSlot: destComp.Slot,
			OldKind:       kind,
			NewKind:       remap.To,
			Fields:        fields,
		})
	}
}

// rawValue lowers a flattened tree reference back to the serialized
// reference form before it is written into a record.
func rawValue(v any) any {
	if ref, ok := v.(tree.Ref); ok {
		return graph.NewRef(ref.Slot)
	}
	return v
}

func sortedPaths(m map[string]*tree.Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKinds(m map[string]*tree.Component) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedFieldKeys(m map[string]rules.FieldDest) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedValueKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedStringKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
