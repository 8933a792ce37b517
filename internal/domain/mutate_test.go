package domain

import (
	"errors"
	"slices"
	"testing"
)

func childIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids
}

func assertIndexes(t *testing.T, tree *Tree) {
	t.Helper()
	check := func(level []*Node) {
		for i, n := range level {
			if n.Index() != i {
				t.Errorf("node %s has index %d at position %d", n.ID(), n.Index(), i)
			}
		}
	}
	check(tree.Roots())
	for n := range tree.All() {
		check(n.Children())
	}
}

func recordEvents(tree *Tree) *[]Event {
	var events []Event
	tree.Subscribe(func(e Event) { events = append(events, e) })
	return &events
}

func TestInsert(t *testing.T) {
	tree := sampleTree(t)
	events := recordEvents(tree)

	n, err := tree.Insert("1", 1, "new.txt", KindLeaf)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if n.ID() != "new-1" {
		t.Errorf("ID() = %s, want new-1", n.ID())
	}
	if got := childIDs(mustGet(t, tree, "1").Children()); !slices.Equal(got, []string{"1.1", "new-1", "1.2"}) {
		t.Errorf("children = %v", got)
	}
	assertIndexes(t, tree)
	if len(*events) != 1 || (*events)[0].Type != EventInsert || (*events)[0].Index != 1 {
		t.Errorf("events = %+v", *events)
	}

	if _, err := tree.Insert("1", 0, "1.2", KindLeaf); !errors.Is(err, ErrNameConflict) {
		t.Errorf("Insert() duplicate name error = %v, want ErrNameConflict", err)
	}
	if _, err := tree.Insert("2", 0, "x", KindLeaf); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Insert() into leaf error = %v, want ErrInvalidTarget", err)
	}
	if _, err := tree.Insert("", 0, "  ", KindLeaf); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Insert() blank name error = %v, want ErrEmptyName", err)
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		newName  string
		wantErr  error
		wantName string
		event    EventType
		noEvent  bool
	}{
		{name: "ok", id: "1.2", newName: "renamed", wantName: "renamed", event: EventRename},
		{name: "trimmed", id: "1.2", newName: "  padded ", wantName: "padded", event: EventRename},
		{name: "empty", id: "1.2", newName: "   ", wantErr: ErrEmptyName, wantName: "1.2", noEvent: true},
		{name: "sibling conflict", id: "1.2", newName: "1.1", wantErr: ErrNameConflict, wantName: "1.2", event: EventNameConflict},
		{name: "same name", id: "1.2", newName: "1.2", wantName: "1.2", noEvent: true},
		{name: "cousin name allowed", id: "1.2", newName: "1.1.1", wantName: "1.1.1", event: EventRename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree(t)
			events := recordEvents(tree)

			err := tree.Rename(tt.id, tt.newName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Rename() error = %v, want %v", err, tt.wantErr)
			}
			if got := mustGet(t, tree, tt.id).Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if tt.noEvent {
				if len(*events) != 0 {
					t.Errorf("events = %+v, want none", *events)
				}
				return
			}
			if len(*events) != 1 || (*events)[0].Type != tt.event {
				t.Errorf("events = %+v, want one %v", *events, tt.event)
			}
		})
	}

	t.Run("unknown id is a no-op", func(t *testing.T) {
		tree := sampleTree(t)
		if err := tree.Rename("nope", "x"); err != nil {
			t.Errorf("Rename() error = %v", err)
		}
	})

	t.Run("conflict error names both nodes", func(t *testing.T) {
		tree := sampleTree(t)
		err := tree.Rename("2", "3")
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("Rename() error = %v, want *ConflictError", err)
		}
		if conflict.ID != "2" || conflict.ExistingID != "3" {
			t.Errorf("conflict = %+v", conflict)
		}
	})
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		target   string
		pos      Position
		roots    []string
		parentOf string
		children []string
	}{
		{
			name:   "same level before earlier sibling",
			id:     "3",
			target: "1",
			pos:    Before,
			roots:  []string{"3", "1", "2"},
		},
		{
			name:   "same level after later sibling",
			id:     "1",
			target: "3",
			pos:    After,
			roots:  []string{"2", "3", "1"},
		},
		{
			name:   "same level onto own position",
			id:     "2",
			target: "3",
			pos:    Before,
			roots:  []string{"1", "2", "3"},
		},
		{
			name:     "across levels inside branch",
			id:       "2",
			target:   "1.1",
			pos:      Inside,
			roots:    []string{"1", "3"},
			parentOf: "1.1",
			children: []string{"1.1.1", "1.1.2", "1.1.3", "2"},
		},
		{
			name:     "across levels before nested node",
			id:       "3",
			target:   "1.1.2",
			pos:      Before,
			roots:    []string{"1", "2"},
			parentOf: "1.1",
			children: []string{"1.1.1", "3", "1.1.2", "1.1.3"},
		},
		{
			name:     "out to root level",
			id:       "1.1.3",
			target:   "1",
			pos:      After,
			roots:    []string{"1", "1.1.3", "2", "3"},
			parentOf: "1.1",
			children: []string{"1.1.1", "1.1.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree(t)
			if err := tree.Move(tt.id, tt.target, tt.pos); err != nil {
				t.Fatalf("Move() error = %v", err)
			}
			if got := childIDs(tree.Roots()); !slices.Equal(got, tt.roots) {
				t.Errorf("roots = %v, want %v", got, tt.roots)
			}
			if tt.parentOf != "" {
				if got := childIDs(mustGet(t, tree, tt.parentOf).Children()); !slices.Equal(got, tt.children) {
					t.Errorf("children of %s = %v, want %v", tt.parentOf, got, tt.children)
				}
			}
			assertIndexes(t, tree)
		})
	}
}

func TestMoveRejections(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		target  string
		pos     Position
		wantErr error
	}{
		{name: "into own descendant", id: "1", target: "1.1", pos: Inside, wantErr: ErrCircularReference},
		{name: "before own descendant", id: "1", target: "1.1.2", pos: Before, wantErr: ErrCircularReference},
		{name: "onto itself", id: "1.1", target: "1.1", pos: Inside, wantErr: ErrCircularReference},
		{name: "inside a leaf", id: "3", target: "2", pos: Inside, wantErr: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree(t)
			before := tree.Records()
			events := recordEvents(tree)

			err := tree.Move(tt.id, tt.target, tt.pos)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Move() error = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(tree.Records(), before) {
				t.Error("tree changed after rejected move")
			}
			if len(*events) != 0 {
				t.Errorf("events = %+v, want none", *events)
			}
		})
	}

	t.Run("unknown ids are ignored", func(t *testing.T) {
		tree := sampleTree(t)
		if err := tree.Move("nope", "1", Inside); err != nil {
			t.Errorf("Move() error = %v", err)
		}
		if err := tree.Move("2", "nope", Inside); err != nil {
			t.Errorf("Move() error = %v", err)
		}
	})
}

func TestMoveEvent(t *testing.T) {
	tree := sampleTree(t)
	events := recordEvents(tree)

	if err := tree.Move("1.2", "3", After); err != nil {
		t.Fatal(err)
	}
	want := Event{Type: EventMove, ID: "1.2", OldParentID: "1", OldIndex: 1, ParentID: "", Index: 3}
	if len(*events) != 1 {
		t.Fatalf("events = %+v", *events)
	}
	got := (*events)[0]
	if got.Type != want.Type || got.ID != want.ID || got.OldParentID != want.OldParentID ||
		got.OldIndex != want.OldIndex || got.ParentID != want.ParentID || got.Index != want.Index {
		t.Errorf("event = %+v, want %+v", got, want)
	}
}

func TestMoveAtPanicsOnBadIndex(t *testing.T) {
	tree := sampleTree(t)
	defer func() {
		if recover() == nil {
			t.Error("MoveAt() with index out of range should panic")
		}
	}()
	_ = tree.MoveAt("2", "1", 7)
}

func TestDelete(t *testing.T) {
	flat := func(t *testing.T) *Tree {
		t.Helper()
		tree, err := Build([]Record{
			{ID: "1.1", Name: "1.1", Index: 0},
			{ID: "1.2", Name: "1.2", Index: 1},
			{ID: "2", Name: "2", Index: 2},
		})
		if err != nil {
			t.Fatal(err)
		}
		return tree
	}

	t.Run("nearest is the following sibling", func(t *testing.T) {
		tree := flat(t)
		tree.Select("1.2")
		res := tree.Delete(tree.Selected())
		if res.NearestID != "2" {
			t.Errorf("NearestID = %s, want 2", res.NearestID)
		}
	})

	t.Run("nearest falls back to previous", func(t *testing.T) {
		tree := flat(t)
		res := tree.Delete([]string{"2"})
		if res.NearestID != "1.2" {
			t.Errorf("NearestID = %s, want 1.2", res.NearestID)
		}
	})

	t.Run("deleting everything leaves no focus", func(t *testing.T) {
		tree := flat(t)
		tree.SelectAll()
		res := tree.Delete(tree.Selected())
		if res.NearestID != "" || tree.Len() != 0 {
			t.Errorf("NearestID = %q, Len = %d", res.NearestID, tree.Len())
		}
	})

	t.Run("nested selection removed once", func(t *testing.T) {
		tree := sampleTree(t, "1", "1.1")
		events := recordEvents(tree)
		res := tree.Delete([]string{"1.1.2", "1.1", "1.1.2"})

		want := []string{"1.1", "1.1.1", "1.1.2", "1.1.3"}
		if !slices.Equal(res.RemovedIDs, want) {
			t.Errorf("RemovedIDs = %v, want %v", res.RemovedIDs, want)
		}
		if len(*events) != 1 {
			t.Errorf("events = %d, want 1", len(*events))
		}
		if res.NearestID != "1.2" {
			t.Errorf("NearestID = %s, want 1.2", res.NearestID)
		}
		assertIndexes(t, tree)
	})

	t.Run("skips deleted nodes going forward", func(t *testing.T) {
		tree := sampleTree(t, "1")
		res := tree.Delete([]string{"1.2", "2"})
		if res.NearestID != "3" {
			t.Errorf("NearestID = %s, want 3", res.NearestID)
		}
	})

	t.Run("hidden target focuses visible ancestor", func(t *testing.T) {
		tree := sampleTree(t, "1")
		res := tree.Delete([]string{"1.1.2"})
		if res.NearestID != "1.1" {
			t.Errorf("NearestID = %s, want 1.1", res.NearestID)
		}
	})

	t.Run("purges selection expansion and clipboard", func(t *testing.T) {
		tree := sampleTree(t, "1", "1.1")
		tree.Select("1.1.3")
		tree.Select("2")
		tree.CopyToClipboard([]string{"1.1.1", "3"}, ClipboardCopy)

		res := tree.Delete([]string{"1"})

		for _, id := range res.RemovedIDs {
			if tree.IsSelected(id) || tree.IsExpanded(id) || tree.InClipboard(id) {
				t.Errorf("%s still referenced after delete", id)
			}
			if _, ok := tree.Get(id); ok {
				t.Errorf("%s still resolvable after delete", id)
			}
		}
		if !tree.IsSelected("2") || !tree.InClipboard("3") {
			t.Error("surviving ids must stay in their sets")
		}
	})
}

func TestClone(t *testing.T) {
	tree := sampleTree(t)
	clone := tree.Clone("1")

	var original, copied []*Node
	mustGet(t, tree, "1").walk(func(n *Node) bool { original = append(original, n); return true })
	clone.walk(func(n *Node) bool { copied = append(copied, n); return true })

	if len(original) != len(copied) {
		t.Fatalf("clone has %d nodes, want %d", len(copied), len(original))
	}
	for i := range original {
		if copied[i].Name() != original[i].Name() || copied[i].Kind() != original[i].Kind() {
			t.Errorf("node %d: got %s/%v, want %s/%v", i, copied[i].Name(), copied[i].Kind(), original[i].Name(), original[i].Kind())
		}
		if _, clash := tree.Get(copied[i].ID()); clash {
			t.Errorf("clone id %s collides with the tree", copied[i].ID())
		}
	}
	if clone.Parent() != nil {
		t.Error("clone should be detached")
	}
	if tree.Len() != len(sampleRecords()) {
		t.Error("Clone must not change the tree")
	}
}

// a (leaf), b[c] with c an empty branch
func nestedCopyTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := Build([]Record{
		{ID: "a", Name: "a", Index: 0},
		{ID: "b", Name: "b", Kind: KindBranch, Index: 1},
		{ID: "c", ParentID: "b", Name: "c", Kind: KindBranch, Index: 0},
	}, WithIDGenerator(sequentialIDs("new-")))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tree
}

// assertNestedCopy checks that copying [a, b] into c added one copy of each
// and that the copy of b holds an empty copy of c
func assertNestedCopy(t *testing.T, tree *Tree, inserted []string) {
	t.Helper()
	if tree.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", tree.Len())
	}
	c := mustGet(t, tree, "c")
	children := c.Children()
	if got := childIDs(children); !slices.Equal(got, inserted) {
		t.Fatalf("c children = %v, want %v", got, inserted)
	}
	if children[0].Name() != "a" || children[1].Name() != "b" {
		t.Fatalf("copied names = %s, %s", children[0].Name(), children[1].Name())
	}
	bCopy := children[1].Children()
	if len(bCopy) != 1 || bCopy[0].Name() != "c" {
		t.Fatalf("copy of b children = %v, want one c", childIDs(bCopy))
	}
	if n := len(bCopy[0].Children()); n != 0 {
		t.Errorf("copy of c has %d children, want 0", n)
	}
	assertIndexes(t, tree)
}

func TestCopyTo(t *testing.T) {
	t.Run("after a sibling", func(t *testing.T) {
		tree := sampleTree(t)
		inserted, err := tree.CopyTo([]string{"1.1"}, "1.2", After)
		if err != nil {
			t.Fatalf("CopyTo() error = %v", err)
		}
		if len(inserted) != 1 || inserted[0].Name() != "1.1 copy" {
			t.Fatalf("inserted = %v", inserted)
		}
		if got := childIDs(mustGet(t, tree, "1").Children()); len(got) != 3 || got[2] != inserted[0].ID() {
			t.Errorf("children = %v", got)
		}
		if len(inserted[0].Children()) != 3 {
			t.Errorf("copy has %d children, want 3", len(inserted[0].Children()))
		}
		assertIndexes(t, tree)
	})

	t.Run("into a branch inside a later source", func(t *testing.T) {
		tree := nestedCopyTree(t)
		inserted, err := tree.CopyTo([]string{"a", "b"}, "c", Inside)
		if err != nil {
			t.Fatalf("CopyTo() error = %v", err)
		}
		assertNestedCopy(t, tree, childIDs(inserted))
	})

	t.Run("repeating id generator still yields distinct ids", func(t *testing.T) {
		ids := []string{"x", "x", "y", "z", "z", "w"}
		next := 0
		tree, err := Build(sampleRecords(), WithIDGenerator(func() string {
			id := ids[next%len(ids)]
			next++
			return id
		}))
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		inserted, err := tree.CopyTo([]string{"1.1"}, "1.2", After)
		if err != nil {
			t.Fatalf("CopyTo() error = %v", err)
		}
		if tree.Len() != len(sampleRecords())+4 {
			t.Fatalf("Len() = %d, want %d", tree.Len(), len(sampleRecords())+4)
		}
		got := []string{inserted[0].ID()}
		got = append(got, childIDs(inserted[0].Children())...)
		slices.Sort(got)
		if !slices.Equal(got, []string{"w", "x", "y", "z"}) {
			t.Errorf("copied ids = %v, want [w x y z]", got)
		}
	})

	t.Run("exhausted id generator leaves the tree untouched", func(t *testing.T) {
		tree, err := Build(sampleRecords(), WithIDGenerator(func() string { return "dup" }))
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		before := tree.Records()

		func() {
			defer func() {
				if recover() == nil {
					t.Error("CopyTo() should panic when no fresh id is available")
				}
			}()
			tree.CopyTo([]string{"1.1"}, "1.2", After)
		}()

		if _, ok := tree.Get("dup"); ok {
			t.Error("a partial copy was registered")
		}
		if got := tree.Records(); !slices.Equal(got, before) {
			t.Errorf("records changed after a failed copy: %v", got)
		}
	})
}

func TestRegisterRejectsDuplicateBeforeWriting(t *testing.T) {
	tree := sampleTree(t)
	n := &Node{id: "fresh", kind: KindBranch}
	n.children = []*Node{
		{id: "fresh-child", parent: n},
		{id: "2", parent: n, index: 1},
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("register() should panic on an id already in use")
			}
		}()
		tree.register(n)
	}()

	if tree.Len() != len(sampleRecords()) {
		t.Errorf("Len() = %d, want %d", tree.Len(), len(sampleRecords()))
	}
	for _, id := range []string{"fresh", "fresh-child"} {
		if _, ok := tree.Get(id); ok {
			t.Errorf("%s was registered before the duplicate was found", id)
		}
	}
	if mustGet(t, tree, "2").Parent() != nil {
		t.Error("the existing node must stay in place")
	}
}

func TestPaste(t *testing.T) {
	t.Run("empty clipboard is a no-op", func(t *testing.T) {
		tree := sampleTree(t)
		res, err := tree.Paste("1")
		if err != nil || !res.Noop {
			t.Errorf("Paste() = %+v, %v", res, err)
		}
	})

	t.Run("copy into branch keeps clipboard", func(t *testing.T) {
		tree := sampleTree(t)
		tree.CopyToClipboard([]string{"2", "3"}, ClipboardCopy)
		res, err := tree.Paste("1.1")
		if err != nil {
			t.Fatal(err)
		}
		if len(res.IDs) != 2 || res.ParentID != "1.1" {
			t.Fatalf("result = %+v", res)
		}
		children := mustGet(t, tree, "1.1").Children()
		if got := children[3].Name() + "," + children[4].Name(); got != "2,3" {
			t.Errorf("pasted names = %s", got)
		}
		if ids, _ := tree.Clipboard(); len(ids) != 2 {
			t.Errorf("clipboard = %v, want kept", ids)
		}
		if _, ok := tree.Get("2"); !ok {
			t.Error("copy must not touch the source")
		}
	})

	t.Run("copy next to itself gets unique name", func(t *testing.T) {
		tree := sampleTree(t)
		tree.CopyToClipboard([]string{"2"}, ClipboardCopy)
		tree.Paste("2")
		tree.Paste("2")
		var names []string
		for _, r := range tree.Roots() {
			names = append(names, r.Name())
		}
		if !slices.Equal(names, []string{"1", "2", "2 copy 2", "2 copy", "3"}) {
			t.Errorf("names = %v", names)
		}
	})

	t.Run("cut onto leaf moves after it", func(t *testing.T) {
		tree := sampleTree(t)
		tree.CopyToClipboard([]string{"1.1.1", "3"}, ClipboardCut)
		res, err := tree.Paste("1.2")
		if err != nil {
			t.Fatal(err)
		}
		if got := childIDs(mustGet(t, tree, "1").Children()); !slices.Equal(got, []string{"1.1", "1.2", "1.1.1", "3"}) {
			t.Errorf("children = %v", got)
		}
		if !slices.Equal(res.IDs, []string{"1.1.1", "3"}) {
			t.Errorf("IDs = %v", res.IDs)
		}
		if ids, _ := tree.Clipboard(); len(ids) != 0 {
			t.Errorf("clipboard = %v, want cleared", ids)
		}
		assertIndexes(t, tree)
	})

	t.Run("cut into own descendant rejected", func(t *testing.T) {
		tree := sampleTree(t)
		tree.CopyToClipboard([]string{"1"}, ClipboardCut)
		before := tree.Records()
		_, err := tree.Paste("1.1")
		if !errors.Is(err, ErrCircularReference) {
			t.Fatalf("Paste() error = %v, want ErrCircularReference", err)
		}
		if !slices.Equal(tree.Records(), before) {
			t.Error("tree changed after rejected paste")
		}
		if ids, _ := tree.Clipboard(); len(ids) != 1 {
			t.Error("rejected paste must keep the clipboard")
		}
	})

	t.Run("copy into a branch inside a later source", func(t *testing.T) {
		tree := nestedCopyTree(t)
		tree.CopyToClipboard([]string{"a", "b"}, ClipboardCopy)
		res, err := tree.Paste("c")
		if err != nil {
			t.Fatalf("Paste() error = %v", err)
		}
		if res.ParentID != "c" {
			t.Errorf("ParentID = %s, want c", res.ParentID)
		}
		assertNestedCopy(t, tree, res.IDs)
	})

	t.Run("root destination appends", func(t *testing.T) {
		tree := sampleTree(t)
		tree.CopyToClipboard([]string{"1.2"}, ClipboardCut)
		if _, err := tree.Paste(""); err != nil {
			t.Fatal(err)
		}
		if got := childIDs(tree.Roots()); !slices.Equal(got, []string{"1", "2", "3", "1.2"}) {
			t.Errorf("roots = %v", got)
		}
	})
}
