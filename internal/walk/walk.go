// Package walk discovers prefab files under a directory tree.
package walk

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Result describes one discovered prefab file.
type Result struct {
	Path         string
	RelativePath string
	Err          error
}

// PrefabFiles walks root recursively and calls handler for every file with
// the given extension. Hidden directories (dot-prefixed) are skipped, as are
// editor backup files. Traversal errors are delivered through the handler so
// one unreadable subtree does not end the walk.
func PrefabFiles(root, ext string, handler func(Result) error) error {
	if ext == "" {
		ext = ".prefab"
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if err != nil {
			return handler(Result{Path: path, RelativePath: rel, Err: err})
		}
		if d.IsDir() {
			if name := d.Name(); path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ext) {
			return nil
		}
		if strings.HasSuffix(strings.TrimSuffix(path, ext), "~") {
			return nil
		}
		return handler(Result{Path: path, RelativePath: rel})
	})
}
