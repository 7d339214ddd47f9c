package prefab

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prefabmig/prefabmig/internal/graph"
	"github.com/prefabmig/prefabmig/internal/testutil"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePrefab(t, dir, "button.prefab", []any{
		testutil.NodeRecord("Root", -1, nil, []int{1}),
		testutil.ComponentRecord("cc.Sprite", 0, map[string]any{"_sizeMode": 1.0}),
	})

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("Len = %d, want 2", doc.Len())
	}

	out := filepath.Join(dir, "out.prefab")
	if err := Save(out, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc2, err := Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if doc2.Len() != 2 {
		t.Errorf("reloaded Len = %d, want 2", doc2.Len())
	}
	if got := doc2.At(1)["_sizeMode"]; got != 1.0 {
		t.Errorf("_sizeMode = %v, want 1", got)
	}
	if slot, ok := graph.AsRef(doc2.At(1)["node"]); !ok || slot != 0 {
		t.Errorf("node ref = (%d, %v)", slot, ok)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, data := range []string{`{"a": 1}`, `"scalar"`, `not json`} {
		if _, err := Decode([]byte(data)); !errors.Is(err, graph.ErrMalformedGraph) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformedGraph", data, err)
		}
	}
}

func TestDecodeTombstones(t *testing.T) {
	doc, err := Decode([]byte(`[null, {"__type__": "cc.Node", "_name": "Root"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.At(0) != nil {
		t.Error("slot 0 should be a tombstone")
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "a.prefab", "[]")

	if err := Backup(path, ".orig"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path + ".orig")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("backup content = %q", data)
	}
}
