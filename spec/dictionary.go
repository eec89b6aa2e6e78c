package spec

import (
	"fmt"
	"strings"

	"github.com/erraggy/kvapi/kverrors"
)

// NodeID identifies a node by its naming path from the root, with segments
// joined by '/'.
type NodeID string

// MakeNodeID joins segments into a NodeID.
func MakeNodeID(segments ...string) NodeID {
	return NodeID(strings.Join(segments, "/"))
}

// Segments returns the segments of the naming path.
func (id NodeID) Segments() []string {
	if id == "" {
		return nil
	}
	return strings.Split(string(id), "/")
}

// Parent returns the ID of the parent node, or "" for a root.
func (id NodeID) Parent() NodeID {
	i := strings.LastIndexByte(string(id), '/')
	if i < 0 {
		return ""
	}
	return id[:i]
}

// Last returns the final segment.
func (id NodeID) Last() string {
	return string(id[strings.LastIndexByte(string(id), '/')+1:])
}

// Endpoint is the payload of a leaf node.
type Endpoint struct {
	// Path is the entry path as written.
	Path string
	// Query is the per-entry query expression (optional).
	Query *Expression
	// ResultType is the decode target.
	ResultType TypeRef
	// Pos is the position of the entry that produced the endpoint.
	Pos Position
}

// Node is one vertex of the namespace tree.
type Node struct {
	ID      NodeID
	Segment string
	// Parent is "" for roots.
	Parent NodeID
	Depth  int
	// IsRoot is true when the segment was the first segment of some entry.
	IsRoot bool
	// Endpoint is set when the node is a leaf endpoint. A node may be both a
	// leaf and an intermediate node.
	Endpoint *Endpoint
	// Children in first-seen order.
	Children []NodeID
}

// IsLeaf reports whether the node carries an endpoint.
func (n *Node) IsLeaf() bool {
	return n.Endpoint != nil
}

// Dictionary is the namespace tree built from a specification's entries.
// Nodes are stored in creation order and the tree is immutable once built.
type Dictionary struct {
	nodes []*Node
	index map[NodeID]int
	roots []NodeID
}

// BuildDictionary builds the namespace tree from entries, in order.
//
// Each entry's naming path (its rename, or its path) is split into segments.
// Every prefix of the segment list is a node; the first is a root and the
// last receives the endpoint payload. The original path, not the rename, is
// kept for the URL.
func BuildDictionary(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{index: make(map[NodeID]int)}

	for _, e := range entries {
		segs := Segments(e.NamingPath())
		if len(segs) == 0 {
			return nil, &kverrors.ConfigError{
				Option:  "dict",
				Value:   e.NamingPath(),
				Path:    e.Pos.File,
				Line:    e.Pos.Line,
				Column:  e.Pos.Column,
				Message: "endpoint name has no segments after splitting on '/' and '.'",
			}
		}

		for i := range segs {
			node := d.lookupOrCreate(segs[:i+1])
			if i < len(segs)-1 {
				continue
			}
			if node.Endpoint != nil {
				return nil, &kverrors.ConfigError{
					Option: "dict",
					Value:  string(node.ID),
					Path:   e.Pos.File,
					Line:   e.Pos.Line,
					Column: e.Pos.Column,
					Message: fmt.Sprintf("duplicate endpoint: %q and %q both name %q (first declared at %s)",
						node.Endpoint.Path, e.Path, node.ID, node.Endpoint.Pos),
				}
			}
			node.Endpoint = &Endpoint{
				Path:       e.Path,
				Query:      e.Query,
				ResultType: e.ResultType,
				Pos:        e.Pos,
			}
		}
	}

	if len(d.nodes) == 0 {
		return nil, &kverrors.ConfigError{
			Option:  "dict",
			Message: "a dictionary of \"endpoint\": Type entries is required",
		}
	}
	return d, nil
}

func (d *Dictionary) lookupOrCreate(segs []string) *Node {
	id := MakeNodeID(segs...)
	if i, ok := d.index[id]; ok {
		return d.nodes[i]
	}
	node := &Node{
		ID:      id,
		Segment: segs[len(segs)-1],
		Parent:  id.Parent(),
		Depth:   len(segs) - 1,
		IsRoot:  len(segs) == 1,
	}
	d.index[id] = len(d.nodes)
	d.nodes = append(d.nodes, node)
	if node.IsRoot {
		d.roots = append(d.roots, id)
	} else {
		parent := d.nodes[d.index[node.Parent]]
		parent.Children = append(parent.Children, id)
	}
	return node
}

// Node returns the node with the given ID.
func (d *Dictionary) Node(id NodeID) (*Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.nodes[i], true
}

// Nodes returns every node in creation order. Parents precede children.
func (d *Dictionary) Nodes() []*Node {
	out := make([]*Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// Roots returns the root IDs in first-seen order.
func (d *Dictionary) Roots() []NodeID {
	out := make([]NodeID, len(d.roots))
	copy(out, d.roots)
	return out
}

// Leaves returns the nodes that carry an endpoint, in creation order.
func (d *Dictionary) Leaves() []*Node {
	var out []*Node
	for _, n := range d.nodes {
		if n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the child IDs of id in first-seen order.
func (d *Dictionary) Children(id NodeID) []NodeID {
	n, ok := d.Node(id)
	if !ok {
		return nil
	}
	out := make([]NodeID, len(n.Children))
	copy(out, n.Children)
	return out
}

// Len returns the number of nodes.
func (d *Dictionary) Len() int {
	return len(d.nodes)
}

// Walk calls fn for every node depth first, children in first-seen order.
// Walking stops when fn returns false.
func (d *Dictionary) Walk(fn func(n *Node) bool) {
	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		n := d.nodes[d.index[id]]
		if !fn(n) {
			return false
		}
		for _, c := range n.Children {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for _, r := range d.roots {
		if !visit(r) {
			return
		}
	}
}
