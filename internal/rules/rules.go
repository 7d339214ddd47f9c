// Package rules holds the static configuration tables that drive a
// migration: component field-transform rules, the removal list, per-kind
// field whitelists, the script-identifier remap table, and the asset
// substitution list.
//
// All tables are loaded once, normalized, and passed to the planner as an
// immutable value; nothing in here mutates after Load.
package rules

import (
	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/uuids"
)

// TargetSelf marks a transform rule whose destination is the owning node
// rather than another component.
const TargetSelf = "self"

// Transform maps fields of one source component kind onto a destination:
// either the node itself (Target == TargetSelf) or another component kind
// that must exist on the matched target node.
type Transform struct {
	Target string               `yaml:"target"`
	Fields map[string]FieldDest `yaml:"fields"`
}

// FieldDest is one or more destination field names. In YAML it may be
// written as a scalar or a sequence.
type FieldDest []string

// UnmarshalYAML accepts both "field: dest" and "field: [a, b]".
func (d *FieldDest) UnmarshalYAML(unmarshal func(any) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*d = FieldDest{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*d = FieldDest(many)
	return nil
}

// ScriptRemap replaces one script component type with another. When Fields
// is empty every non-reserved field is carried over verbatim; otherwise only
// the mapped fields are, renamed per the map.
type ScriptRemap struct {
	To     string            `yaml:"to"`
	Fields map[string]string `yaml:"fields"`
}

// Config is the full rule set threaded through planning.
type Config struct {
	// Transforms maps source component kind to its transform rules.
	Transforms map[string][]Transform
	// Removals is the set of component kinds deleted from the target.
	Removals map[string]bool
	// Whitelist restricts generic field migration per component kind:
	// when a kind has an entry, only the listed fields migrate.
	Whitelist map[string]map[string]bool
	// Scripts maps a source script identifier (compact form) to its
	// replacement. Keys are normalized at load so lookups work whichever
	// identifier form the graph uses.
	Scripts map[string]ScriptRemap
	// Substitutions is the ordered global string-substitution list.
	Substitutions []graph.Substitution
}

// ScriptFor looks up the remap entry for a component kind, normalizing the
// kind to compact form first.
func (c *Config) ScriptFor(kind string) (ScriptRemap, bool) {
	r, ok := c.Scripts[uuids.NormalizeShort(kind)]
	return r, ok
}

// FieldExcluded reports whether generic migration must skip field on the
// given component kind: a whitelist exists for the kind and the field is
// not on it.
func (c *Config) FieldExcluded(kind, field string) bool {
	allowed, ok := c.Whitelist[kind]
	if !ok {
		return false
	}
	return !allowed[field]
}
