// Package plan compiles a rule-driven migration into an ordered list of
// instructions. Planning is pure: it reads the projected trees and the rule
// tables and emits data; nothing here touches the flat array.
package plan

import "fmt"

// Instruction is one unit of planned mutation. Instructions are data, not
// behavior: the applier interprets them in a separate pass so a plan can be
// printed and inspected before anything is committed.
type Instruction interface {
	// Describe renders a one-line human-readable summary.
	Describe() string

	isInstruction()
}

// FieldValue is an ordered field assignment.
type FieldValue struct {
	Field string
	Value any
}

// RedirectFieldToNode assigns one field directly on a node record.
type RedirectFieldToNode struct {
	NodeSlot int
	Field    string
	Value    any
	// Source names the component kind the value came from, for diagnostics.
	Source string
}

// RedirectFieldToComponent assigns one field on a component record.
type RedirectFieldToComponent struct {
	ComponentSlot int
	Field         string
	Value         any
	Source        string
}

// CopyFields bundles every generically-migrated field of one component into
// a single instruction.
type CopyFields struct {
	ComponentSlot int
	Kind          string
	Fields        []FieldValue
}

// ReplaceComponentType overwrites a component's type discriminator and
// assigns the mapped fields.
type ReplaceComponentType struct {
	NodeSlot      int
	ComponentSlot int
	OldKind       string
	NewKind       string
	Fields        []FieldValue
}

// RemoveComponent vacates a component slot and drops its entry from the
// owning node's component-reference list.
type RemoveComponent struct {
	NodeSlot      int
	ComponentSlot int
	Kind          string
	// Index is the component's position within the node's
	// component-reference list at planning time.
	Index int
	// Path locates the node for diagnostics.
	Path string
}

func (RedirectFieldToNode) isInstruction()      {}
func (RedirectFieldToComponent) isInstruction() {}
func (CopyFields) isInstruction()               {}
func (ReplaceComponentType) isInstruction()     {}
func (RemoveComponent) isInstruction()          {}

func (i RedirectFieldToNode) Describe() string {
	return fmt.Sprintf("set node[%d].%s from %s", i.NodeSlot, i.Field, i.Source)
}

func (i RedirectFieldToComponent) Describe() string {
	return fmt.Sprintf("set component[%d].%s from %s", i.ComponentSlot, i.Field, i.Source)
}

func (i CopyFields) Describe() string {
	return fmt.Sprintf("copy %d field(s) to %s[%d]", len(i.Fields), i.Kind, i.ComponentSlot)
}

func (i ReplaceComponentType) Describe() string {
	return fmt.Sprintf("replace %s[%d] with %s (%d field(s))", i.OldKind, i.ComponentSlot, i.NewKind, len(i.Fields))
}

func (i RemoveComponent) Describe() string {
	return fmt.Sprintf("remove %s[%d] from node[%d] at %s", i.Kind, i.ComponentSlot, i.NodeSlot, i.Path)
}
