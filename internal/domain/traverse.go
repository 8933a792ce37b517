package domain

import (
	"iter"
	"slices"
)

// First returns the first visible node, or nil for an empty tree
func (t *Tree) First() *Node {
	if len(t.roots) == 0 {
		return nil
	}
	return t.roots[0]
}

// Last returns the last visible node, or nil for an empty tree
func (t *Tree) Last() *Node {
	if len(t.roots) == 0 {
		return nil
	}
	return lastVisibleDescendant(t.roots[len(t.roots)-1])
}

// Next returns the node after n in visible order, or nil at the end.
// There is no wraparound.
func (t *Tree) Next(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Expanded() && len(n.children) > 0 {
		return n.children[0]
	}
	return t.NextNonChild(n)
}

// NextNonChild returns the first node after n's subtree: the next sibling of
// n or of its nearest ancestor that has one.
func (t *Tree) NextNonChild(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		level := cur.Level()
		if cur.index+1 < len(level) {
			return level[cur.index+1]
		}
	}
	return nil
}

// Previous returns the node before n in visible order, or nil at the start
func (t *Tree) Previous(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.index > 0 {
		return lastVisibleDescendant(n.Level()[n.index-1])
	}
	return n.parent
}

func lastVisibleDescendant(n *Node) *Node {
	for n.Expanded() && len(n.children) > 0 {
		n = n.children[len(n.children)-1]
	}
	return n
}

// All yields every node in pre-order regardless of expansion
func (t *Tree) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, root := range t.roots {
			if !root.walk(yield) {
				return
			}
		}
	}
}

// VisibleSeq yields visible nodes lazily by walking Next
func (t *Tree) VisibleSeq() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := t.First(); n != nil; n = t.Next(n) {
			if !yield(n) {
				return
			}
		}
	}
}

// Visible returns the visible nodes in order: roots, plus the children of
// every expanded branch whose ancestors are all expanded. The slice is cached
// until the next structural or expansion change and must not be modified.
func (t *Tree) Visible() []*Node {
	if t.visibleVersion == t.version && t.visible != nil {
		return t.visible
	}
	visible := make([]*Node, 0, len(t.visible))
	for n := range t.VisibleSeq() {
		visible = append(visible, n)
	}
	index := make(map[*Node]int, len(visible))
	for i, n := range visible {
		index[n] = i
	}
	t.visible = visible
	t.visibleIndex = index
	t.visibleVersion = t.version
	return visible
}

// VisibleIndex returns n's row in Visible(), or -1 when n is hidden
func (t *Tree) VisibleIndex(n *Node) int {
	t.Visible()
	if i, ok := t.visibleIndex[n]; ok {
		return i
	}
	return -1
}

// IsVisible reports whether every ancestor of n is expanded
func (t *Tree) IsVisible(n *Node) bool {
	for p := n.parent; p != nil; p = p.parent {
		if !p.Expanded() {
			return false
		}
	}
	return true
}

// Contains reports whether id is a strict descendant of ancestorID
func (t *Tree) Contains(ancestorID, id string) bool {
	n, ok := t.byID[id]
	if !ok {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		if p.id == ancestorID {
			return true
		}
	}
	return false
}

// isWithin reports whether n is ancestor or an ancestor's descendant (inclusive)
func isWithin(n, ancestor *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

func indexPath(n *Node) []int {
	var path []int
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur.index)
	}
	slices.Reverse(path)
	return path
}

// Compare orders two nodes of the same tree by pre-order position: an
// ancestor sorts before its descendants.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	return slices.Compare(indexPath(a), indexPath(b))
}
