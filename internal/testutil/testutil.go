// Package testutil builds prefab fixtures for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// NodeRecord builds a minimal node record. Children and components are slot
// numbers, encoded as reference objects.
func NodeRecord(name string, parent int, children, components []int) map[string]any {
	r := map[string]any{
		"__type__": "cc.Node",
		"_name":    name,
		"_active":  true,
	}
	if parent >= 0 {
		r["_parent"] = Ref(parent)
	}
	if len(children) > 0 {
		r["_children"] = refs(children)
	}
	if len(components) > 0 {
		r["_components"] = refs(components)
	}
	return r
}

// ComponentRecord builds a component record of the given kind owned by the
// node in slot node.
func ComponentRecord(kind string, node int, fields map[string]any) map[string]any {
	r := map[string]any{
		"__type__": kind,
		"node":     Ref(node),
	}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// Ref builds a serialized reference object.
func Ref(slot int) map[string]any {
	return map[string]any{"__id__": float64(slot)}
}

func refs(slots []int) []any {
	out := make([]any, len(slots))
	for i, s := range slots {
		out[i] = Ref(s)
	}
	return out
}

// WritePrefab serializes records to a prefab file under dir, creating parent
// directories as needed, and returns the full path.
func WritePrefab(t *testing.T, dir, rel string, records []any) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteFile writes arbitrary file content under dir and returns the path.
func WriteFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
