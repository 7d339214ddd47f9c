// Package tree projects the flat prefab array into a navigable node
// hierarchy and indexes it by root-relative path for cross-version matching.
package tree

import (
	"fmt"

	"github.com/prefabmig/prefabmig/internal/graph"
)

// Node fields with structural meaning in the serialized format.
const (
	nameField       = "_name"
	parentField     = "_parent"
	childrenField   = "_children"
	componentsField = "_components"
)

// Ref is a typed reference preserved in the projected tree: the kind of the
// record it points at plus its slot in the flat array. Matching code works
// on Refs and never re-resolves slots itself.
type Ref struct {
	Kind string
	Slot int
}

// Component is a projected component record.
type Component struct {
	// Kind is the component's type discriminator.
	Kind string
	// Slot is the component's own position in the flat array, kept so
	// instructions can address the record directly.
	Slot int
	// Fields holds every field except the discriminator. Reference-valued
	// fields are flattened to Ref.
	Fields map[string]any
}

// Node is one projected scene node.
type Node struct {
	Name string
	// Slot is the node's position in the flat array.
	Slot int
	// Components maps component kind to the projected component. When a
	// node carries two components of the same kind, the last one wins.
	Components map[string]*Component
	// Children maps child name to child node. Duplicate sibling names
	// collapse, last writer wins; see PathMap.
	Children map[string]*Node
}

// Project builds the tree view of doc.
//
// The root is the first node in array order without a resolvable parent
// reference; when several qualify the first encountered wins (an explicit
// tie-break, kept from the serialized format's conventions). Unresolvable
// child and component references are skipped silently.
func Project(doc *graph.Document) (*Node, error) {
	nodes := make(map[int]graph.Record)
	components := make(map[int]graph.Record)
	for i := 0; i < doc.Len(); i++ {
		r := doc.At(i)
		if r == nil {
			continue
		}
		if r.IsNode() {
			nodes[i] = r
		} else if r.Type() != "" {
			components[i] = r
		}
	}

	rootSlot := -1
	for i := 0; i < doc.Len(); i++ {
		r, ok := nodes[i]
		if !ok {
			continue
		}
		parent, hasParent := graph.AsRef(r[parentField])
		if !hasParent || nodes[parent] == nil {
			rootSlot = i
			break
		}
	}
	if rootSlot == -1 {
		return nil, graph.ErrRootNotFound
	}

	return projectNode(rootSlot, nodes, components), nil
}

func projectNode(slot int, nodes, components map[int]graph.Record) *Node {
	r := nodes[slot]
	name, _ := r[nameField].(string)
	n := &Node{
		Name:       name,
		Slot:       slot,
		Components: make(map[string]*Component),
		Children:   make(map[string]*Node),
	}

	if comps, ok := r[componentsField].([]any); ok {
		for _, entry := range comps {
			target, ok := graph.AsRef(entry)
			if !ok {
				continue
			}
			cr, ok := components[target]
			if !ok {
				continue
			}
			c := projectComponent(target, cr, nodes, components)
			n.Components[c.Kind] = c
		}
	}

	if children, ok := r[childrenField].([]any); ok {
		for _, entry := range children {
			target, ok := graph.AsRef(entry)
			if !ok {
				continue
			}
			if nodes[target] == nil {
				continue
			}
			child := projectNode(target, nodes, components)
			n.Children[child.Name] = child
		}
	}

	return n
}

// projectComponent copies the component's fields, flattening any
// reference-valued field into a {kind, slot} pair so downstream code never
// has to chase raw slot numbers.
func projectComponent(slot int, r graph.Record, nodes, components map[int]graph.Record) *Component {
	c := &Component{
		Kind:   r.Type(),
		Slot:   slot,
		Fields: make(map[string]any, len(r)),
	}
	for k, v := range r {
		if k == graph.TypeKey {
			continue
		}
		if target, ok := graph.AsRef(v); ok {
			kind := ""
			if tr := nodes[target]; tr != nil {
				kind = tr.Type()
			} else if tr := components[target]; tr != nil {
				kind = tr.Type()
			}
			c.Fields[k] = Ref{Kind: kind, Slot: target}
			continue
		}
		c.Fields[k] = v
	}
	return c
}

// PathMap indexes the tree by "/"-joined node names, the root's own name
// first. Names are taken as-is; a name containing "/" corrupts its path,
// a documented limitation. Duplicate sibling names have already collapsed
// during projection, so for those the last sibling in child order is the
// one a path resolves to.
func PathMap(root *Node) map[string]*Node {
	paths := make(map[string]*Node)
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		path := n.Name
		if prefix != "" {
			path = fmt.Sprintf("%s/%s", prefix, n.Name)
		}
		paths[path] = n
		for _, child := range n.Children {
			walk(child, path)
		}
	}
	walk(root, "")
	return paths
}
