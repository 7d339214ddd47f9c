package plan

import (
	"testing"

	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/rules"
	"github.com/prefabmig/prefabmig/internal/tree"
	"github.com/prefabmig/prefabmig/internal/uuids"
)

func node(name string, slot int, comps ...*tree.Component) *tree.Node {
	n := &tree.Node{
		Name:       name,
		Slot:       slot,
		Components: make(map[string]*tree.Component),
		Children:   make(map[string]*tree.Node),
	}
	for _, c := range comps {
		n.Components[c.Kind] = c
	}
	return n
}

func comp(kind string, slot int, fields map[string]any) *tree.Component {
	if fields == nil {
		fields = map[string]any{}
	}
	return &tree.Component{Kind: kind, Slot: slot, Fields: fields}
}

func mustParse(t *testing.T, yaml string) *rules.Config {
	t.Helper()
	cfg, err := rules.Parse([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestCompileSelfTargetRule(t *testing.T) {
	cfg := mustParse(t, `
transforms:
  cc.UIOpacity:
    - target: self
      fields:
        _opacity: _opacity
`)
	source := map[string]*tree.Node{
		"Root/Button": node("Button", 3, comp("cc.UIOpacity", 4, map[string]any{"_opacity": 200.0})),
	}
	target := map[string]*tree.Node{
		"Root/Button": node("Button", 7),
	}

	res := Compile(source, target, cfg)

	if len(res.Instructions) != 1 {
		t.Fatalf("got %d instructions, want 1: %+v", len(res.Instructions), res.Instructions)
	}
	in, ok := res.Instructions[0].(RedirectFieldToNode)
	if !ok {
		t.Fatalf("instruction = %T, want RedirectFieldToNode", res.Instructions[0])
	}
	if in.NodeSlot != 7 || in.Field != "_opacity" || in.Value != 200.0 {
		t.Errorf("instruction = %+v", in)
	}
}

func TestCompileComponentTargetRule(t *testing.T) {
	cfg := mustParse(t, `
transforms:
  cc.Sprite:
    - target: cc.UIRenderer
      fields:
        _color: [_color, _tint]
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp("cc.Sprite", 1, map[string]any{
			"_color":    map[string]any{"r": 255.0},
			"_material": tree.Ref{Kind: "cc.Material", Slot: 5},
		})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0, comp("cc.UIRenderer", 2, nil)),
	}

	res := Compile(source, target, cfg)

	// One field with two destination names: one instruction per destination.
	if len(res.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2: %+v", len(res.Instructions), res.Instructions)
	}
	first := res.Instructions[0].(RedirectFieldToComponent)
	second := res.Instructions[1].(RedirectFieldToComponent)
	if first.Field != "_color" || second.Field != "_tint" {
		t.Errorf("destinations = %q, %q", first.Field, second.Field)
	}
	if first.ComponentSlot != 2 {
		t.Errorf("component slot = %d, want 2", first.ComponentSlot)
	}
}

func TestCompileComponentTargetMissingIsSilent(t *testing.T) {
	cfg := mustParse(t, `
transforms:
  cc.Sprite:
    - target: cc.UIRenderer
      fields:
        _color: _color
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp("cc.Sprite", 1, map[string]any{"_color": 1.0})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0), // no cc.UIRenderer
	}

	res := Compile(source, target, cfg)
	if len(res.Instructions) != 0 {
		t.Errorf("rule should be skipped silently, got %+v", res.Instructions)
	}
}

func TestCompileRuleRewritesRefValues(t *testing.T) {
	cfg := mustParse(t, `
transforms:
  cc.Widget:
    - target: cc.Layout
      fields:
        _target: _target
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp("cc.Widget", 1, map[string]any{
			"_target": tree.Ref{Kind: "cc.Node", Slot: 9},
		})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0, comp("cc.Layout", 3, nil)),
	}

	res := Compile(source, target, cfg)
	in := res.Instructions[0].(RedirectFieldToComponent)
	slot, ok := graph.AsRef(in.Value)
	if !ok || slot != 9 {
		t.Errorf("ref value = %v, want raw reference to slot 9", in.Value)
	}
}

func TestCompileSelfTargetRewritesRefValues(t *testing.T) {
	cfg := mustParse(t, `
transforms:
  cc.Widget:
    - target: self
      fields:
        _target: _widgetTarget
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp("cc.Widget", 1, map[string]any{
			"_target": tree.Ref{Kind: "cc.Node", Slot: 0},
		})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0),
	}

	res := Compile(source, target, cfg)
	in := res.Instructions[0].(RedirectFieldToNode)
	slot, ok := graph.AsRef(in.Value)
	if !ok || slot != 0 {
		t.Errorf("ref value = %#v, want raw reference to slot 0", in.Value)
	}
}

func TestCompileGenericMigration(t *testing.T) {
	cfg := mustParse(t, `
whitelist:
  cc.Label:
    - _string
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0,
			comp("cc.Label", 1, map[string]any{
				"_string":   "hello",
				"_fontSize": 20.0, // excluded by whitelist
				"node":      tree.Ref{Kind: "cc.Node", Slot: 0},
			}),
			comp("cc.Sprite", 2, map[string]any{
				"_sizeMode": 1.0,
				"_atlas":    tree.Ref{Kind: "cc.SpriteAtlas", Slot: 8}, // reference-typed
				"_srcOnly":  true,                                      // not on target
			}),
		),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0,
			comp("cc.Label", 4, map[string]any{"_string": "", "_fontSize": 12.0}),
			comp("cc.Sprite", 5, map[string]any{"_sizeMode": 0.0, "_atlas": nil}),
		),
	}

	res := Compile(source, target, cfg)

	if len(res.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2: %+v", len(res.Instructions), res.Instructions)
	}
	label := res.Instructions[0].(CopyFields)
	if label.Kind != "cc.Label" || label.ComponentSlot != 4 {
		t.Errorf("label copy = %+v", label)
	}
	if len(label.Fields) != 1 || label.Fields[0].Field != "_string" {
		t.Errorf("label fields = %+v, want only _string (whitelist excludes _fontSize, node is reserved)", label.Fields)
	}
	sprite := res.Instructions[1].(CopyFields)
	if len(sprite.Fields) != 1 || sprite.Fields[0].Field != "_sizeMode" {
		t.Errorf("sprite fields = %+v, want only _sizeMode (refs never copy, _srcOnly absent on target)", sprite.Fields)
	}
}

func TestCompileUnmatchedSourcePath(t *testing.T) {
	source := map[string]*tree.Node{
		"Root":       node("Root", 0),
		"Root/Extra": node("Extra", 1),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0),
	}

	res := Compile(source, target, &rules.Config{})

	if len(res.Unmatched) != 1 || res.Unmatched[0] != "Root/Extra" {
		t.Errorf("Unmatched = %v, want [Root/Extra]", res.Unmatched)
	}
	if len(res.Diags) == 0 {
		t.Error("unmatched path should leave a diagnostic")
	}
}

func TestCompileScriptReplacement(t *testing.T) {
	long := "e9ec654c-97a2-4787-9325-e6a10375219a"
	short := uuids.Shorten(long)
	cfg := mustParse(t, `
scripts:
  `+long+`:
    to: 11111111-2222-3333-4444-555555555555
    fields:
      _speed: _velocity
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp(short, 1, map[string]any{
			"_speed": 5.0,
			"_other": "ignored by the field map",
		})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0, comp(short, 2, nil)),
	}

	res := Compile(source, target, cfg)

	if len(res.ScriptReplacements) != 1 {
		t.Fatalf("got %d replacements, want 1", len(res.ScriptReplacements))
	}
	rep := res.ScriptReplacements[0].(ReplaceComponentType)
	if rep.OldKind != short || rep.NewKind != uuids.Shorten("11111111-2222-3333-4444-555555555555") {
		t.Errorf("replacement kinds = %q -> %q", rep.OldKind, rep.NewKind)
	}
	if rep.ComponentSlot != 2 {
		t.Errorf("component slot = %d, want 2 (the target's)", rep.ComponentSlot)
	}
	if len(rep.Fields) != 1 || rep.Fields[0].Field != "_velocity" || rep.Fields[0].Value != 5.0 {
		t.Errorf("fields = %+v, want [_velocity=5]", rep.Fields)
	}
}

func TestCompileScriptReplacementVerbatimFields(t *testing.T) {
	long := "e9ec654c-97a2-4787-9325-e6a10375219a"
	short := uuids.Shorten(long)
	cfg := mustParse(t, `
scripts:
  `+long+`:
    to: 11111111-2222-3333-4444-555555555555
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp(short, 1, map[string]any{
			"_speed": 5.0,
			"node":   tree.Ref{Kind: "cc.Node", Slot: 0}, // reserved
		})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0, comp(short, 2, nil)),
	}

	res := Compile(source, target, cfg)
	rep := res.ScriptReplacements[0].(ReplaceComponentType)
	if len(rep.Fields) != 1 || rep.Fields[0].Field != "_speed" {
		t.Errorf("fields = %+v, want every non-reserved field (_speed only)", rep.Fields)
	}
}

func TestCompileScriptMissingOnTargetIsDiagnosed(t *testing.T) {
	long := "e9ec654c-97a2-4787-9325-e6a10375219a"
	short := uuids.Shorten(long)
	cfg := mustParse(t, `
scripts:
  `+long+`:
    to: 11111111-2222-3333-4444-555555555555
`)
	source := map[string]*tree.Node{
		"Root": node("Root", 0, comp(short, 1, map[string]any{"_speed": 5.0})),
	}
	target := map[string]*tree.Node{
		"Root": node("Root", 0),
	}

	res := Compile(source, target, cfg)
	if len(res.ScriptReplacements) != 0 {
		t.Errorf("replacement should be skipped, got %+v", res.ScriptReplacements)
	}
	if len(res.Diags) == 0 {
		t.Error("skip should leave a diagnostic")
	}
}
