package migrate

import (
	"errors"
	"testing"

	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/rules"
)

func mustRules(t *testing.T, yaml string) *rules.Config {
	t.Helper()
	cfg, err := rules.Parse([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

// Graph A has Root/Button with a cc.UIOpacity (_opacity: 200); graph B has
// the same path but no cc.UIOpacity. The self-targeted rule transfers the
// field onto B's node, and no cc.UIOpacity ever exists in the output.
func TestRunSelfRuleTransfersField(t *testing.T) {
	source := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_children": []any{graph.NewRef(1)}},
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Button", "_parent": graph.NewRef(0), "_components": []any{graph.NewRef(2)}},
		graph.Record{graph.TypeKey: "cc.UIOpacity", "node": graph.NewRef(1), "_opacity": 200.0},
	)
	target := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_children": []any{graph.NewRef(1)}},
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Button", "_parent": graph.NewRef(0)},
	)
	cfg := mustRules(t, `
transforms:
  cc.UIOpacity:
    - target: self
      fields:
        _opacity: _opacity
removals:
  - cc.UIOpacity
`)

	out, err := Run(source, target, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if out.Applied != 1 {
		t.Errorf("Applied = %d, want 1", out.Applied)
	}
	if got := target.At(1)["_opacity"]; got != 200.0 {
		t.Errorf("Button _opacity = %v, want 200", got)
	}
	for i := 0; i < target.Len(); i++ {
		if target.At(i).Type() == "cc.UIOpacity" {
			t.Error("cc.UIOpacity must not exist in the output")
		}
	}
	if out.Removed != 0 {
		t.Errorf("Removed = %d, want 0 (the component was never present on the target)", out.Removed)
	}
}

// A kind that is both transform-ruled and on the removal list: its field
// reaches the node before the component is removed.
func TestRunTransferBeforeRemoval(t *testing.T) {
	source := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_components": []any{graph.NewRef(1)}},
		graph.Record{graph.TypeKey: "cc.UIOpacity", "node": graph.NewRef(0), "_opacity": 128.0},
	)
	target := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_components": []any{graph.NewRef(1)}},
		graph.Record{graph.TypeKey: "cc.UIOpacity", "node": graph.NewRef(0), "_opacity": 255.0},
	)
	cfg := mustRules(t, `
transforms:
  cc.UIOpacity:
    - target: self
      fields:
        _opacity: _opacity
removals:
  - cc.UIOpacity
`)

	out, err := Run(source, target, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if got := target.At(0)["_opacity"]; got != 128.0 {
		t.Errorf("node _opacity = %v, want the transferred 128", got)
	}
	if out.Removed != 1 {
		t.Errorf("Removed = %d, want 1", out.Removed)
	}
	if target.Len() != 1 {
		t.Errorf("Len = %d, want 1 after compaction", target.Len())
	}
	if comps, _ := target.At(0)["_components"].([]any); len(comps) != 0 {
		t.Errorf("component list = %v, want empty", comps)
	}
}

// Generic migration: shared fields move verbatim unless reserved,
// whitelisted-out, or reference-typed.
func TestRunGenericMigration(t *testing.T) {
	source := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_components": []any{graph.NewRef(1)}},
		graph.Record{
			graph.TypeKey: "cc.Label",
			"node":        graph.NewRef(0),
			"_string":     "migrated",
			"_fontSize":   42.0,
		},
	)
	target := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_components": []any{graph.NewRef(1)}},
		graph.Record{
			graph.TypeKey: "cc.Label",
			"node":        graph.NewRef(0),
			"_string":     "",
			"_fontSize":   12.0,
		},
	)

	_, err := Run(source, target, &rules.Config{})
	if err != nil {
		t.Fatal(err)
	}

	label := target.At(1)
	if label["_string"] != "migrated" || label["_fontSize"] != 42.0 {
		t.Errorf("label = %v, want migrated values", label)
	}
	// The ownership reference still points at the target's own node.
	if slot, _ := graph.AsRef(label["node"]); slot != 0 {
		t.Errorf("node ref = %d, want 0", slot)
	}
}

func TestRunSubstitutions(t *testing.T) {
	source := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root"},
	)
	target := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_texture": "assets/abc@v1/tex.png"},
	)
	cfg := &rules.Config{
		Substitutions: []graph.Substitution{
			{From: "abc@v1", To: "xyz@v2"},
			{From: "abc", To: "xyz"},
		},
	}

	out, err := Run(source, target, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := target.At(0)["_texture"]; got != "assets/xyz@v2/tex.png" {
		t.Errorf("_texture = %v, want the variant-qualified substitution to win", got)
	}
	if out.Substituted != 1 {
		t.Errorf("Substituted = %d, want 1", out.Substituted)
	}
}

func TestRunRootNotFoundAborts(t *testing.T) {
	source := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "A", "_parent": graph.NewRef(1)},
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "B", "_parent": graph.NewRef(0)},
	)
	target := graph.New(graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root"})

	if _, err := Run(source, target, &rules.Config{}); !errors.Is(err, graph.ErrRootNotFound) {
		t.Errorf("err = %v, want ErrRootNotFound", err)
	}
}

// Removal correctness end to end: after the pipeline no slot has the removed
// kind and no surviving reference points at a vacated slot.
func TestRunRemovalLeavesNoDanglingRefs(t *testing.T) {
	source := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root"},
	)
	target := graph.New(
		graph.Record{graph.TypeKey: graph.NodeType, "_name": "Root", "_components": []any{graph.NewRef(1), graph.NewRef(2)}},
		graph.Record{graph.TypeKey: "cc.BlockInputEvents", "node": graph.NewRef(0)},
		graph.Record{graph.TypeKey: "cc.Sprite", "node": graph.NewRef(0)},
	)
	cfg := mustRules(t, `
removals:
  - cc.BlockInputEvents
`)

	out, err := Run(source, target, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if out.Removed != 1 {
		t.Errorf("Removed = %d, want 1", out.Removed)
	}
	if target.Len() != 2 {
		t.Fatalf("Len = %d, want 2", target.Len())
	}
	comps := target.At(0)["_components"].([]any)
	if len(comps) != 1 {
		t.Fatalf("component list = %v, want one survivor", comps)
	}
	slot, _ := graph.AsRef(comps[0])
	if got := target.At(slot).Type(); got != "cc.Sprite" {
		t.Errorf("surviving component = %q, want cc.Sprite", got)
	}
	if len(out.Dangling) != 0 {
		t.Errorf("dangling = %v, want none", out.Dangling)
	}
}
