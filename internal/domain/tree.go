package domain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ClipboardOp says what Paste does with the clipboard set
type ClipboardOp int

const (
	ClipboardCopy ClipboardOp = iota
	ClipboardCut
)

func (op ClipboardOp) String() string {
	if op == ClipboardCut {
		return "cut"
	}
	return "copy"
}

// IDGenerator returns a fresh node id on every call
type IDGenerator func() string

// Option configures a Tree
type Option func(*Tree)

// WithIDGenerator replaces the default random id generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(t *Tree) { t.newID = gen }
}

// Record is the flat form of a node: a row keyed by id with the parent id and
// the position inside the parent. An empty ParentID means a root.
type Record struct {
	ID       string `json:"id" yaml:"id"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Index    int    `json:"index" yaml:"index"`
}

// Tree is an ordered forest of nodes plus the id-sets describing view state.
// A Tree is not safe for concurrent use.
type Tree struct {
	roots []*Node
	byID  map[string]*Node

	selected  *IDSet
	expanded  *IDSet
	clipboard *IDSet
	clipOp    ClipboardOp

	newID     IDGenerator
	listeners []subscription
	nextSub   int

	version        uint64
	visible        []*Node
	visibleIndex   map[*Node]int
	visibleVersion uint64
}

// New returns an empty tree
func New(opts ...Option) *Tree {
	t := &Tree{
		byID:      make(map[string]*Node),
		selected:  NewIDSet(),
		expanded:  NewIDSet(),
		clipboard: NewIDSet(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	// force the first Visible call to build the cache
	t.version = 1
	return t
}

// Build returns a tree loaded from records
func Build(records []Record, opts ...Option) (*Tree, error) {
	t := New(opts...)
	if err := t.Load(records); err != nil {
		return nil, err
	}
	return t, nil
}

// Load replaces the tree structure with records. Siblings are ordered by
// Index. A record whose parent is missing becomes a root. Ids in the
// selection, expansion and clipboard sets that no longer resolve are dropped,
// so view state survives a reload from the same source.
func (t *Tree) Load(records []Record) error {
	byID := make(map[string]*Node, len(records))
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record %q: empty id", r.Name)
		}
		if _, dup := byID[r.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		if r.Kind != KindLeaf && r.Kind != KindBranch {
			return fmt.Errorf("record %s: unknown kind %d", r.ID, int(r.Kind))
		}
		byID[r.ID] = &Node{id: r.ID, name: r.Name, kind: r.Kind, tree: t}
	}

	order := make(map[*Node]int, len(records))
	var roots []*Node
	for _, r := range records {
		n := byID[r.ID]
		order[n] = r.Index
		parent, ok := byID[r.ParentID]
		if r.ParentID == "" || !ok {
			roots = append(roots, n)
			continue
		}
		if parent.kind != KindBranch {
			return fmt.Errorf("%w: leaf %s cannot hold %s", ErrInvalidTarget, parent.id, n.id)
		}
		n.parent = parent
		parent.children = append(parent.children, n)
	}

	byIndex := func(a, b *Node) int { return cmp.Compare(order[a], order[b]) }
	slices.SortStableFunc(roots, byIndex)
	reindex(roots, 0, len(roots))
	reached := 0
	for _, root := range roots {
		root.walk(func(n *Node) bool {
			reached++
			if n.kind == KindBranch {
				slices.SortStableFunc(n.children, byIndex)
				reindex(n.children, 0, len(n.children))
			}
			return true
		})
	}
	if reached != len(byID) {
		return fmt.Errorf("%w: %d nodes unreachable from any root", ErrCircularReference, len(byID)-reached)
	}

	t.roots = roots
	t.byID = byID
	t.selected.RemoveFunc(t.isStale)
	t.expanded.RemoveFunc(func(id string) bool {
		n, ok := t.byID[id]
		return !ok || n.kind != KindBranch
	})
	t.clipboard.RemoveFunc(t.isStale)
	t.touch()
	return nil
}

func (t *Tree) isStale(id string) bool {
	_, ok := t.byID[id]
	return !ok
}

// Records exports the structure in pre-order
func (t *Tree) Records() []Record {
	records := make([]Record, 0, len(t.byID))
	for n := range t.All() {
		records = append(records, Record{
			ID:       n.id,
			ParentID: n.ParentID(),
			Name:     n.name,
			Kind:     n.kind,
			Index:    n.index,
		})
	}
	return records
}

// touch invalidates cached derived data after a structural or expansion change
func (t *Tree) touch() {
	t.version++
}

// Version increases on every change that can affect the visible list
func (t *Tree) Version() uint64 { return t.version }

// Len returns the number of nodes
func (t *Tree) Len() int { return len(t.byID) }

// Roots returns the top-level nodes. The slice must not be modified.
func (t *Tree) Roots() []*Node { return t.roots }

// Get resolves an id
func (t *Tree) Get(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// IsSelected reports whether id is selected
func (t *Tree) IsSelected(id string) bool { return t.selected.Has(id) }

// IsExpanded reports whether id is an expanded branch
func (t *Tree) IsExpanded(id string) bool {
	n, ok := t.byID[id]
	return ok && n.Expanded()
}

// Selected returns the selected ids in the order they were touched
func (t *Tree) Selected() []string { return t.selected.IDs() }

// SelectedNodes returns the selected nodes in document order
func (t *Tree) SelectedNodes() []*Node {
	nodes := t.resolve(t.selected.IDs())
	slices.SortFunc(nodes, Compare)
	return nodes
}

// Expanded returns the expanded ids
func (t *Tree) Expanded() []string { return t.expanded.IDs() }

// Clipboard returns the clipboard ids and the pending operation
func (t *Tree) Clipboard() ([]string, ClipboardOp) { return t.clipboard.IDs(), t.clipOp }

// InClipboard reports whether id was copied or cut
func (t *Tree) InClipboard(id string) bool { return t.clipboard.Has(id) }

func (t *Tree) resolve(ids []string) []*Node {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := t.byID[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Select adds id to the selection (or re-touches it as the anchor)
func (t *Tree) Select(id string) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	t.selected.Add(id)
	return true
}

// Deselect removes id from the selection
func (t *Tree) Deselect(id string) bool {
	return t.selected.Remove(id)
}

// ToggleSelect flips the selection of id and returns the new state
func (t *Tree) ToggleSelect(id string) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	return t.selected.Toggle(id)
}

// SelectOnly replaces the selection with id
func (t *Tree) SelectOnly(id string) bool {
	if _, ok := t.byID[id]; !ok {
		return false
	}
	t.selected.Clear()
	t.selected.Add(id)
	return true
}

// SelectAll selects every node, visible or not
func (t *Tree) SelectAll() {
	for n := range t.All() {
		t.selected.Add(n.id)
	}
}

// DeselectAll empties the selection
func (t *Tree) DeselectAll() {
	t.selected.Clear()
}

// Anchor returns the most recently selected node that still exists
func (t *Tree) Anchor() (*Node, bool) {
	id, ok := t.selected.Newest(func(id string) bool {
		_, live := t.byID[id]
		return live
	})
	if !ok {
		return nil, false
	}
	return t.byID[id], true
}

// SelectRange selects every visible node between the anchor and targetID,
// inclusive, in either direction. An empty anchorID uses Anchor(); with no
// anchor at all only the target is selected. An anchorID that no longer
// resolves selects nothing. The target becomes the newest
// member so repeated range selections pivot around it.
func (t *Tree) SelectRange(anchorID, targetID string) []string {
	target, ok := t.byID[targetID]
	if !ok {
		return nil
	}
	var anchor *Node
	if anchorID != "" {
		if anchor, ok = t.byID[anchorID]; !ok {
			return nil
		}
	} else {
		anchor, _ = t.Anchor()
	}
	if anchor == nil {
		t.selected.Add(target.id)
		return []string{target.id}
	}

	from, to := anchor, target
	if Compare(from, to) > 0 {
		from, to = to, from
	}
	var ids []string
	for n := from; n != nil; n = t.Next(n) {
		ids = append(ids, n.id)
		if n == to {
			break
		}
	}
	// target not reachable through the visible walk (hidden): select both ends
	if len(ids) == 0 || ids[len(ids)-1] != to.id {
		ids = []string{from.id, to.id}
	}
	for _, id := range ids {
		if id != target.id {
			t.selected.Add(id)
		}
	}
	t.selected.Add(target.id)
	return ids
}

// Expand marks a branch expanded. Leaves and unknown ids are ignored.
func (t *Tree) Expand(id string) bool {
	n, ok := t.byID[id]
	if !ok || n.kind != KindBranch || t.expanded.Has(id) {
		return false
	}
	t.expanded.Add(id)
	t.touch()
	return true
}

// Collapse marks a branch collapsed
func (t *Tree) Collapse(id string) bool {
	if !t.expanded.Remove(id) {
		return false
	}
	t.touch()
	return true
}

// ToggleExpand flips a branch and returns whether it is now expanded
func (t *Tree) ToggleExpand(id string) bool {
	if t.IsExpanded(id) {
		t.Collapse(id)
		return false
	}
	return t.Expand(id)
}

// ExpandSiblings expands every branch in the level containing id
func (t *Tree) ExpandSiblings(id string) int {
	n, ok := t.byID[id]
	if !ok {
		return 0
	}
	count := 0
	for _, sib := range n.Level() {
		if t.Expand(sib.id) {
			count++
		}
	}
	return count
}

// ExpandAll expands every branch
func (t *Tree) ExpandAll() {
	for n := range t.All() {
		if n.kind == KindBranch {
			t.expanded.Add(n.id)
		}
	}
	t.touch()
}

// CollapseAll collapses every branch
func (t *Tree) CollapseAll() {
	t.expanded.Clear()
	t.touch()
}

// ExpandToDepth expands every branch shallower than depth
func (t *Tree) ExpandToDepth(depth int) {
	for n := range t.All() {
		if n.kind == KindBranch && n.Depth() < depth {
			t.expanded.Add(n.id)
		}
	}
	t.touch()
}

// Reveal expands every ancestor of id so that it becomes visible
func (t *Tree) Reveal(id string) bool {
	n, ok := t.byID[id]
	if !ok {
		return false
	}
	for p := n.parent; p != nil; p = p.parent {
		t.expanded.Add(p.id)
	}
	t.touch()
	return true
}
