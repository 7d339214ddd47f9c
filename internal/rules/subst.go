package rules

import (
	"path"
	"sort"
	"strings"

	"github.com/prefabmig/prefabmig/internal/graph"
)

// fallbackSubstitution is appended to every substitution list: the standing
// asset-type rename between the two serialization formats.
var fallbackSubstitution = graph.Substitution{From: "cc.Texture2D", To: "cc.ImageAsset"}

// BuildSubstitutions derives the ordered global substitution list from two
// identifier-to-asset-path tables, one per dataset.
//
// Source and target identifiers correspond when their asset filenames match:
// an exact match including any "@variant" suffix is preferred, then a match
// with the suffix stripped from both sides. Pairs whose source identifier
// carries a "@variant" suffix are ordered before plain pairs so qualified
// identifiers are substituted before their unqualified prefixes. The fixed
// fallback pair is always appended last.
func BuildSubstitutions(source, target map[string]string) []graph.Substitution {
	exact := make(map[string]string, len(target))    // filename -> target id
	stripped := make(map[string]string, len(target)) // variant-stripped filename -> target id
	for _, id := range sortedKeys(target) {
		name := path.Base(target[id])
		if _, ok := exact[name]; !ok {
			exact[name] = id
		}
		plain := stripVariant(name)
		if _, ok := stripped[plain]; !ok {
			stripped[plain] = id
		}
	}

	var subs []graph.Substitution
	for _, id := range sortedKeys(source) {
		name := path.Base(source[id])
		to, ok := exact[name]
		if !ok {
			to, ok = stripped[stripVariant(name)]
		}
		if !ok || to == id {
			continue
		}
		subs = append(subs, graph.Substitution{From: id, To: to})
	}

	// Variant-qualified identifiers first, plain ones after; stable so the
	// sorted-key order above is otherwise preserved.
	sort.SliceStable(subs, func(i, j int) bool {
		qi := strings.Contains(subs[i].From, "@")
		qj := strings.Contains(subs[j].From, "@")
		return qi && !qj
	})

	return append(subs, fallbackSubstitution)
}

func stripVariant(name string) string {
	if i := strings.IndexByte(name, '@'); i >= 0 {
		return name[:i]
	}
	return name
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
