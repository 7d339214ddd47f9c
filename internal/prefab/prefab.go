// Package prefab is the load/save boundary: it parses serialized prefab
// files into graph documents and writes mutated documents back. The core
// packages never touch raw bytes.
package prefab

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prefabmig/prefabmig/internal/atomicfile"
	"github.com/prefabmig/prefabmig/internal/graph"
)

// Load reads and decodes one prefab file.
func Load(path string) (*graph.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode parses prefab JSON into a document.
func Decode(data []byte) (*graph.Document, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedGraph, err)
	}
	return graph.FromValue(v)
}

// Encode serializes a document. Field ordering within records is not
// contractual; only values and reference validity are preserved.
func Encode(doc *graph.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc.Value(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode prefab: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the document to path atomically.
func Save(path string, doc *graph.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(path, data, 0)
}

// Backup copies the file at path to path+suffix before it is overwritten.
func Backup(path, suffix string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read for backup: %w", err)
	}
	return atomicfile.WriteFile(path+suffix, data, 0)
}
