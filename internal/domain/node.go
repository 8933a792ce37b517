package domain

import "fmt"

// Kind distinguishes nodes that can hold children from those that cannot
type Kind int

const (
	KindLeaf Kind = iota
	KindBranch
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindBranch:
		return "branch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind as "leaf" or "branch"
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindLeaf && k != KindBranch {
		return nil, fmt.Errorf("unknown node kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts any spelling ParseKind understands
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts "leaf"/"branch" (also "file"/"folder", "dir") to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "leaf", "file":
		return KindLeaf, nil
	case "branch", "folder", "dir", "directory":
		return KindBranch, nil
	default:
		return KindLeaf, fmt.Errorf("unknown node kind %q", s)
	}
}

// Node is an entry in a Tree. Selection and expansion are not stored on the
// node; they are looked up in the owning tree's id-sets.
type Node struct {
	id       string
	name     string
	kind     Kind
	parent   *Node
	children []*Node
	index    int
	tree     *Tree
}

// ID returns the node's unique identifier
func (n *Node) ID() string { return n.id }

// Name returns the display name
func (n *Node) Name() string { return n.name }

// Kind returns whether the node is a leaf or a branch
func (n *Node) Kind() Kind { return n.kind }

// IsBranch reports whether the node can hold children
func (n *Node) IsBranch() bool { return n.kind == KindBranch }

// IsLeaf reports whether the node is a leaf
func (n *Node) IsLeaf() bool { return n.kind == KindLeaf }

// Parent returns the parent node, or nil for roots and detached clones
func (n *Node) Parent() *Node { return n.parent }

// ParentID returns the parent's id, or "" for roots
func (n *Node) ParentID() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.id
}

// Children returns the ordered children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// HasChildren reports whether the node is a branch with at least one child
func (n *Node) HasChildren() bool { return n.kind == KindBranch && len(n.children) > 0 }

// Index returns the node's position within its level
func (n *Node) Index() int { return n.index }

// PositionInSet is the 1-based index used by assistive technology
func (n *Node) PositionInSet() int { return n.index + 1 }

// SetSize returns the number of nodes in the node's level
func (n *Node) SetSize() int { return len(n.Level()) }

// Level returns the sibling array containing the node: the parent's
// children, or the tree's roots.
func (n *Node) Level() []*Node {
	if n.parent != nil {
		return n.parent.children
	}
	if n.tree == nil {
		return []*Node{n}
	}
	return n.tree.roots
}

// Depth returns the number of ancestors (roots are at depth 0)
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Selected reports whether the node's id is in the tree's selection
func (n *Node) Selected() bool {
	return n.tree != nil && n.tree.selected.Has(n.id)
}

// Expanded reports whether the node is a branch whose id is in the tree's
// expanded set. Leaves are never expanded.
func (n *Node) Expanded() bool {
	return n.kind == KindBranch && n.tree != nil && n.tree.expanded.Has(n.id)
}

// Path returns the names from the root down to this node
func (n *Node) Path() []string {
	var names []string
	for cur := n; cur != nil; cur = cur.parent {
		names = append(names, cur.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// reindex rewrites the cached index of level[start:end]
func reindex(level []*Node, start, end int) {
	if end > len(level) {
		end = len(level)
	}
	for i := start; i < end; i++ {
		level[i].index = i
	}
}

// walk visits n and every descendant in pre-order; returning false stops the walk
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !child.walk(fn) {
			return false
		}
	}
	return true
}

func mustKnownKind(k Kind) {
	switch k {
	case KindLeaf, KindBranch:
	default:
		panic(fmt.Sprintf("arbor: unknown node kind %d", int(k)))
	}
}
