// Package graph models a serialized prefab as a flat array of records
// addressed by slot position.
//
// Slot position is the only addressing scheme: every cross-reference inside
// the document is an object of the form {"__id__": N} pointing at slot N.
// A vacated slot is a tombstone (nil entry) until the next Compact pass
// rewrites the whole document to contiguous numbering.
package graph

import (
	"errors"
	"fmt"
)

// Well-known record keys in the serialized format.
const (
	// TypeKey discriminates what kind of record a slot holds.
	TypeKey = "__type__"
	// RefKey is the single field of a reference object.
	RefKey = "__id__"
	// NodeType is the discriminator of scene-node records.
	NodeType = "cc.Node"
)

var (
	// ErrMalformedGraph indicates the input was not the expected flat
	// array of records. Fatal for the document.
	ErrMalformedGraph = errors.New("malformed graph: expected an array of records")
	// ErrRootNotFound indicates no node lacks a resolvable parent
	// reference. Fatal for the document.
	ErrRootNotFound = errors.New("root node not found")
)

// Record is one entry of the flat array: a field-name to value mapping as
// decoded from JSON. Values are scalars, nested maps, slices, or reference
// objects.
type Record map[string]any

// Type returns the record's discriminator, or "" when absent.
func (r Record) Type() string {
	s, _ := r[TypeKey].(string)
	return s
}

// IsNode reports whether the record is a scene node.
func (r Record) IsNode() bool {
	return r.Type() == NodeType
}

// Document is the flat record array. A nil entry is a tombstone.
type Document struct {
	records []Record
}

// FromValue wraps a decoded JSON value as a Document. The value must be an
// array whose entries are null or objects; anything else is ErrMalformedGraph.
func FromValue(v any) (*Document, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrMalformedGraph, v)
	}
	records := make([]Record, len(arr))
	for i, entry := range arr {
		switch e := entry.(type) {
		case nil:
			// tombstone
		case map[string]any:
			records[i] = Record(e)
		default:
			return nil, fmt.Errorf("%w: slot %d holds %T", ErrMalformedGraph, i, entry)
		}
	}
	return &Document{records: records}, nil
}

// New builds a Document directly from records. Intended for tests and for
// the compactor, which rebuilds the array wholesale.
func New(records ...Record) *Document {
	return &Document{records: records}
}

// Len returns the number of slots, tombstones included.
func (d *Document) Len() int { return len(d.records) }

// At returns the record in slot i, or nil when the slot is out of range or
// a tombstone.
func (d *Document) At(i int) Record {
	if i < 0 || i >= len(d.records) {
		return nil
	}
	return d.records[i]
}

// Tombstone vacates slot i. Out-of-range slots are ignored.
func (d *Document) Tombstone(i int) {
	if i >= 0 && i < len(d.records) {
		d.records[i] = nil
	}
}

// Value converts the document back to a plain JSON-compatible array for
// serialization.
func (d *Document) Value() []any {
	out := make([]any, len(d.records))
	for i, r := range d.records {
		if r != nil {
			out[i] = map[string]any(r)
		}
	}
	return out
}

// AsRef reports whether v is a reference object and returns its target slot.
// A reference holds exactly the one integer field.
func AsRef(v any) (int, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return 0, false
	}
	return refTarget(m)
}

func refTarget(m map[string]any) (int, bool) {
	switch id := m[RefKey].(type) {
	case float64:
		return int(id), true
	case int:
		return id, true
	default:
		return 0, false
	}
}

// NewRef builds a reference object pointing at slot.
func NewRef(slot int) map[string]any {
	return map[string]any{RefKey: float64(slot)}
}
