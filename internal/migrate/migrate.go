// Package migrate runs the full migration pipeline on a source/target
// document pair and drives batches of files through it.
package migrate

import (
	"fmt"

	"github.com/prefabmig/prefabmig/internal/apply"
	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/plan"
	"github.com/prefabmig/prefabmig/internal/rules"
	"github.com/prefabmig/prefabmig/internal/tree"
)

// Outcome summarizes what one migration did to the target document.
type Outcome struct {
	Plan        *plan.Result
	Applied     int
	Skipped     int
	Removed     int
	Substituted int
	Dangling    []graph.Dangling
	Diags       []string
}

// Run migrates target in place using source as the donor graph.
//
// Phases, in order: project and path-index both documents, compile the plan,
// apply field transforms and copies, apply script-type replacements, compact,
// plan and apply removals against the mutated graph, compact again, then run
// the global string substitution pass. Structural failures (malformed array,
// no root) abort the document; everything else degrades to counted skips.
func Run(source, target *graph.Document, cfg *rules.Config) (*Outcome, error) {
	srcRoot, err := tree.Project(source)
	if err != nil {
		return nil, fmt.Errorf("project source: %w", err)
	}
	dstRoot, err := tree.Project(target)
	if err != nil {
		return nil, fmt.Errorf("project target: %w", err)
	}

	compiled := plan.Compile(tree.PathMap(srcRoot), tree.PathMap(dstRoot), cfg)
	out := &Outcome{Plan: compiled}
	out.Diags = append(out.Diags, compiled.Diags...)

	stats := apply.Apply(target, compiled.Instructions)
	out.Applied += stats.Applied
	out.Skipped += stats.Skipped
	out.Diags = append(out.Diags, stats.Diags...)

	stats = apply.Apply(target, compiled.ScriptReplacements)
	out.Applied += stats.Applied
	out.Skipped += stats.Skipped
	out.Diags = append(out.Diags, stats.Diags...)

	// Type replacement does not vacate slots but the later phases assume
	// freshly-compacted numbering, so reindex unconditionally.
	_, dangling := target.Compact()
	out.Dangling = append(out.Dangling, dangling...)

	removals := apply.PlanRemovals(target, cfg.Removals)
	stats = apply.Apply(target, removals)
	out.Removed = stats.Applied
	out.Skipped += stats.Skipped
	out.Diags = append(out.Diags, stats.Diags...)

	_, dangling = target.Compact()
	out.Dangling = append(out.Dangling, dangling...)

	changed, err := target.Substitute(cfg.Substitutions)
	if err != nil {
		return nil, fmt.Errorf("substitution pass: %w", err)
	}
	out.Substituted = changed

	for _, d := range out.Dangling {
		out.Diags = append(out.Diags, "dangling reference after compaction: "+d.String())
	}
	return out, nil
}
