package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Position places a moved or pasted node relative to a target node
type Position int

const (
	Before Position = iota
	After
	Inside
)

func (p Position) String() string {
	switch p {
	case Before:
		return "before"
	case After:
		return "after"
	case Inside:
		return "inside"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// ParsePosition converts "before", "after" or "inside"
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(s) {
	case "before":
		return Before, nil
	case "after":
		return After, nil
	case "inside", "into":
		return Inside, nil
	default:
		return Before, fmt.Errorf("unknown position %q", s)
	}
}

// DeleteResult reports what Delete removed and where focus should go
type DeleteResult struct {
	// RemovedIDs holds every removed id, descendants included
	RemovedIDs []string
	// NearestID is the node to focus afterwards, "" when the tree is empty
	NearestID string
}

func (t *Tree) levelOf(parent *Node) *[]*Node {
	if parent == nil {
		return &t.roots
	}
	return &parent.children
}

// freshID returns an id unused by the tree and absent from reserved, which
// holds ids handed to nodes not registered yet. The new id is added to
// reserved when it is non-nil.
func (t *Tree) freshID(reserved map[string]bool) string {
	for range 8 {
		id := t.newID()
		if _, taken := t.byID[id]; taken || id == "" || reserved[id] {
			continue
		}
		if reserved != nil {
			reserved[id] = true
		}
		return id
	}
	panic("arbor: id generator keeps returning ids already in use")
}

// register indexes n's subtree. Every id is checked before the first one is
// written, so a duplicate leaves the tree untouched.
func (t *Tree) register(n *Node) {
	seen := make(map[string]bool)
	n.walk(func(c *Node) bool {
		if _, dup := t.byID[c.id]; dup || seen[c.id] {
			panic(fmt.Sprintf("arbor: node id %s already in use", c.id))
		}
		seen[c.id] = true
		return true
	})
	n.walk(func(c *Node) bool {
		c.tree = t
		t.byID[c.id] = c
		return true
	})
}

func (t *Tree) attach(n, parent *Node, index int) {
	level := t.levelOf(parent)
	*level = slices.Insert(*level, index, n)
	reindex(*level, index, len(*level))
	n.parent = parent
}

func (t *Tree) detach(n *Node) {
	level := t.levelOf(n.parent)
	*level = slices.Delete(*level, n.index, n.index+1)
	reindex(*level, n.index, len(*level))
	n.parent = nil
}

func checkIndex(level []*Node, index int) {
	if index < 0 || index > len(level) {
		panic(fmt.Sprintf("arbor: index %d out of range [0,%d]", index, len(level)))
	}
}

func siblingNamed(level []*Node, name string, except *Node) *Node {
	for _, sib := range level {
		if sib != except && sib.name == name {
			return sib
		}
	}
	return nil
}

// uniqueName returns name, or name with a " copy" suffix when a node in
// level already uses it.
func uniqueName(level []*Node, name string) string {
	if siblingNamed(level, name, nil) == nil {
		return name
	}
	candidate := name + " copy"
	for i := 2; siblingNamed(level, candidate, nil) != nil; i++ {
		candidate = fmt.Sprintf("%s copy %d", name, i)
	}
	return candidate
}

func subtreeRecords(n *Node) []Record {
	var records []Record
	n.walk(func(c *Node) bool {
		records = append(records, Record{
			ID:       c.id,
			ParentID: c.ParentID(),
			Name:     c.name,
			Kind:     c.kind,
			Index:    c.index,
		})
		return true
	})
	return records
}

// Insert creates a node under parentID ("" for the root list) at index.
// index must lie in [0, len(level)]; anything else panics.
func (t *Tree) Insert(parentID string, index int, name string, kind Kind) (*Node, error) {
	mustKnownKind(kind)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	var parent *Node
	if parentID != "" {
		p, ok := t.byID[parentID]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s not found", ErrInvalidTarget, parentID)
		}
		if p.kind != KindBranch {
			return nil, fmt.Errorf("%w: %s is a leaf", ErrInvalidTarget, parentID)
		}
		parent = p
	}
	level := *t.levelOf(parent)
	checkIndex(level, index)
	if sib := siblingNamed(level, name, nil); sib != nil {
		return nil, &ConflictError{Name: name, ExistingID: sib.id}
	}

	n := &Node{id: t.freshID(nil), name: name, kind: kind}
	t.register(n)
	t.attach(n, parent, index)
	t.touch()
	t.emit(Event{
		Type:     EventInsert,
		ID:       n.id,
		ParentID: parentID,
		Index:    n.index,
		Name:     n.name,
		Records:  subtreeRecords(n),
	})
	return n, nil
}

// Rename changes a node's display name. An empty name or one already used by
// a sibling is rejected without touching the tree; the conflict is also
// published as an EventNameConflict. Unknown ids are ignored.
func (t *Tree) Rename(id, name string) error {
	n, ok := t.byID[id]
	if !ok {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name == n.name {
		return nil
	}
	if sib := siblingNamed(n.Level(), name, n); sib != nil {
		t.emit(Event{Type: EventNameConflict, ID: id, Name: name, ConflictID: sib.id})
		return &ConflictError{ID: id, Name: name, ExistingID: sib.id}
	}
	old := n.name
	n.name = name
	t.emit(Event{Type: EventRename, ID: id, OldName: old, Name: name})
	return nil
}

// placement turns a target and position into a parent and insertion index
func (t *Tree) placement(target *Node, pos Position) (*Node, int, error) {
	switch pos {
	case Before:
		return target.parent, target.index, nil
	case After:
		return target.parent, target.index + 1, nil
	case Inside:
		if target.kind != KindBranch {
			return nil, 0, ErrInvalidTarget
		}
		return target, len(target.children), nil
	default:
		panic(fmt.Sprintf("arbor: unknown position %d", int(pos)))
	}
}

// Move relocates id relative to targetID. Moving a node next to or into
// itself or one of its descendants fails with ErrCircularReference before
// anything changes. Unknown ids are ignored.
func (t *Tree) Move(id, targetID string, pos Position) error {
	n, ok := t.byID[id]
	if !ok {
		return nil
	}
	target, ok := t.byID[targetID]
	if !ok {
		return nil
	}
	if isWithin(target, n) {
		return &MoveError{SourceID: id, DestID: targetID, Err: ErrCircularReference}
	}
	parent, index, err := t.placement(target, pos)
	if err != nil {
		return &MoveError{SourceID: id, DestID: targetID, Err: err}
	}
	t.moveTo(n, parent, index)
	return nil
}

// MoveAt relocates id into parentID ("" for the root list) so that it is
// inserted before the node currently at index. index must lie in
// [0, len(level)].
func (t *Tree) MoveAt(id, parentID string, index int) error {
	n, ok := t.byID[id]
	if !ok {
		return nil
	}
	var parent *Node
	if parentID != "" {
		p, ok := t.byID[parentID]
		if !ok {
			return nil
		}
		if isWithin(p, n) {
			return &MoveError{SourceID: id, DestID: parentID, Err: ErrCircularReference}
		}
		if p.kind != KindBranch {
			return &MoveError{SourceID: id, DestID: parentID, Err: ErrInvalidTarget}
		}
		parent = p
	}
	checkIndex(*t.levelOf(parent), index)
	t.moveTo(n, parent, index)
	return nil
}

// moveTo assumes the circular check already passed
func (t *Tree) moveTo(n, parent *Node, index int) {
	oldParent, oldIndex := n.parent, n.index
	if parent == oldParent {
		newIndex := index
		if index > oldIndex {
			newIndex--
		}
		if newIndex == oldIndex {
			return
		}
		level := *t.levelOf(parent)
		// rotate only the window between the two positions
		if newIndex > oldIndex {
			copy(level[oldIndex:newIndex], level[oldIndex+1:newIndex+1])
			level[newIndex] = n
			reindex(level, oldIndex, newIndex+1)
		} else {
			copy(level[newIndex+1:oldIndex+1], level[newIndex:oldIndex])
			level[newIndex] = n
			reindex(level, newIndex, oldIndex+1)
		}
	} else {
		t.detach(n)
		t.attach(n, parent, index)
	}
	t.touch()
	t.emit(Event{
		Type:        EventMove,
		ID:          n.id,
		OldParentID: idOf(oldParent),
		OldIndex:    oldIndex,
		ParentID:    idOf(parent),
		Index:       n.index,
	})
}

func idOf(n *Node) string {
	if n == nil {
		return ""
	}
	return n.id
}

// Topmost resolves ids to live nodes, drops duplicates and nodes inside
// another listed node, and sorts the rest in document order.
func (t *Tree) Topmost(ids []string) []*Node {
	listed := make(map[*Node]bool, len(ids))
	for _, n := range t.resolve(ids) {
		listed[n] = true
	}
	var nodes []*Node
	for n := range listed {
		covered := false
		for p := n.parent; p != nil; p = p.parent {
			if listed[p] {
				covered = true
				break
			}
		}
		if !covered {
			nodes = append(nodes, n)
		}
	}
	slices.SortFunc(nodes, Compare)
	return nodes
}

// Delete removes the listed nodes with their subtrees. Ids nested under
// another listed id are removed once. Every removed id is purged from the
// selection, expansion and clipboard sets. NearestID is the first surviving
// node after the deleted block in visible order, or failing that the last one
// before it.
func (t *Tree) Delete(ids []string) DeleteResult {
	targets := t.Topmost(ids)
	if len(targets) == 0 {
		return DeleteResult{}
	}
	doomed := make(map[*Node]bool, len(targets))
	for _, n := range targets {
		doomed[n] = true
	}
	gone := func(n *Node) bool {
		for cur := n; cur != nil; cur = cur.parent {
			if doomed[cur] {
				return true
			}
		}
		return false
	}

	nearest := t.nearestSurvivor(targets[0], gone)

	var result DeleteResult
	for _, n := range targets {
		parentID, index := n.ParentID(), n.index
		var removed []string
		n.walk(func(c *Node) bool {
			removed = append(removed, c.id)
			return true
		})
		t.detach(n)
		for _, id := range removed {
			t.byID[id].tree = nil
			delete(t.byID, id)
			t.selected.Remove(id)
			t.expanded.Remove(id)
			t.clipboard.Remove(id)
		}
		result.RemovedIDs = append(result.RemovedIDs, removed...)
		t.touch()
		t.emit(Event{Type: EventDelete, ID: n.id, ParentID: parentID, Index: index, RemovedIDs: removed})
	}
	if nearest != nil {
		result.NearestID = nearest.id
	}
	return result
}

func (t *Tree) nearestSurvivor(first *Node, gone func(*Node) bool) *Node {
	if !t.IsVisible(first) {
		for a := first.parent; a != nil; a = a.parent {
			if t.IsVisible(a) {
				return a
			}
		}
	}
	for c := t.NextNonChild(first); c != nil; c = t.NextNonChild(c) {
		if !gone(c) {
			return c
		}
	}
	for c := t.Previous(first); c != nil; c = t.Previous(c) {
		if !gone(c) {
			return c
		}
	}
	return nil
}

// Clone returns a detached deep copy of id with fresh ids and the same names,
// kinds and child order. The copy is not part of the tree until inserted.
func (t *Tree) Clone(id string) *Node {
	n, ok := t.byID[id]
	if !ok {
		return nil
	}
	return t.cloneNode(n, nil, make(map[string]bool))
}

func (t *Tree) cloneNode(n, parent *Node, reserved map[string]bool) *Node {
	c := &Node{id: t.freshID(reserved), name: n.name, kind: n.kind, parent: parent, index: n.index}
	if parent == nil {
		c.index = 0
	}
	if n.kind == KindBranch {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = t.cloneNode(child, c, reserved)
		}
	}
	return c
}

// insertClones copies sources into parent starting at index, renaming on
// sibling collisions, and returns the inserted roots. Every source is cloned
// before the first copy lands, so a destination inside a source never gets
// copied into itself.
func (t *Tree) insertClones(sources []*Node, parent *Node, index int) []*Node {
	reserved := make(map[string]bool)
	clones := make([]*Node, len(sources))
	for i, src := range sources {
		clones[i] = t.cloneNode(src, nil, reserved)
	}

	for i, c := range clones {
		c.name = uniqueName(*t.levelOf(parent), c.name)
		t.register(c)
		t.attach(c, parent, index)
		index = c.index + 1
		t.touch()
		t.emit(Event{
			Type:     EventInsert,
			ID:       c.id,
			ParentID: idOf(parent),
			Index:    c.index,
			Name:     c.name,
			Records:  subtreeRecords(c),
			SourceID: sources[i].id,
		})
	}
	return clones
}

// CopyTo duplicates ids relative to targetID (drag-copy). Unknown targets are
// ignored.
func (t *Tree) CopyTo(ids []string, targetID string, pos Position) ([]*Node, error) {
	target, ok := t.byID[targetID]
	if !ok {
		return nil, nil
	}
	sources := t.Topmost(ids)
	if len(sources) == 0 {
		return nil, nil
	}
	parent, index, err := t.placement(target, pos)
	if err != nil {
		return nil, &MoveError{SourceID: sources[0].id, DestID: targetID, Err: err}
	}
	return t.insertClones(sources, parent, index), nil
}
