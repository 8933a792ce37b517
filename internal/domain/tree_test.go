package domain

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

// sampleRecords is 1[1.1[1.1.1, 1.1.2, 1.1.3], 1.2], 2, 3 with ids equal to names
func sampleRecords() []Record {
	return []Record{
		{ID: "1", Name: "1", Kind: KindBranch, Index: 0},
		{ID: "1.1", ParentID: "1", Name: "1.1", Kind: KindBranch, Index: 0},
		{ID: "1.1.1", ParentID: "1.1", Name: "1.1.1", Kind: KindLeaf, Index: 0},
		{ID: "1.1.2", ParentID: "1.1", Name: "1.1.2", Kind: KindLeaf, Index: 1},
		{ID: "1.1.3", ParentID: "1.1", Name: "1.1.3", Kind: KindLeaf, Index: 2},
		{ID: "1.2", ParentID: "1", Name: "1.2", Kind: KindLeaf, Index: 1},
		{ID: "2", Name: "2", Kind: KindLeaf, Index: 1},
		{ID: "3", Name: "3", Kind: KindLeaf, Index: 2},
	}
}

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func sampleTree(t *testing.T, expanded ...string) *Tree {
	t.Helper()
	tree, err := Build(sampleRecords(), WithIDGenerator(sequentialIDs("new-")))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, id := range expanded {
		tree.Expand(id)
	}
	return tree
}

func visibleIDs(tree *Tree) []string {
	var ids []string
	for _, n := range tree.Visible() {
		ids = append(ids, n.ID())
	}
	return ids
}

func mustGet(t *testing.T, tree *Tree, id string) *Node {
	t.Helper()
	n, ok := tree.Get(id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	return n
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		wantErr error
		roots   []string
	}{
		{
			name:    "sample tree",
			records: sampleRecords(),
			roots:   []string{"1", "2", "3"},
		},
		{
			name: "siblings sorted by index",
			records: []Record{
				{ID: "b", Name: "b", Index: 1},
				{ID: "a", Name: "a", Index: 0},
			},
			roots: []string{"a", "b"},
		},
		{
			name: "dangling parent becomes root",
			records: []Record{
				{ID: "a", Name: "a", ParentID: "missing"},
			},
			roots: []string{"a"},
		},
		{
			name: "duplicate id",
			records: []Record{
				{ID: "a", Name: "a"},
				{ID: "a", Name: "b"},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "leaf parent",
			records: []Record{
				{ID: "a", Name: "a", Kind: KindLeaf},
				{ID: "b", Name: "b", ParentID: "a"},
			},
			wantErr: ErrInvalidTarget,
		},
		{
			name: "parent cycle",
			records: []Record{
				{ID: "a", Name: "a", Kind: KindBranch, ParentID: "b"},
				{ID: "b", Name: "b", Kind: KindBranch, ParentID: "a"},
			},
			wantErr: ErrCircularReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Build(tt.records)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			var roots []string
			for _, r := range tree.Roots() {
				roots = append(roots, r.ID())
			}
			if !slices.Equal(roots, tt.roots) {
				t.Errorf("roots = %v, want %v", roots, tt.roots)
			}
		})
	}
}

func TestLoadKeepsViewState(t *testing.T) {
	tree := sampleTree(t, "1", "1.1")
	tree.Select("1.1.2")
	tree.Select("2")
	tree.CopyToClipboard([]string{"3"}, ClipboardCut)

	// reload without 2 and with 1.1 turned into a leaf
	records := sampleRecords()
	records = slices.DeleteFunc(records, func(r Record) bool {
		return r.ID == "2" || r.ParentID == "1.1"
	})
	for i := range records {
		if records[i].ID == "1.1" {
			records[i].Kind = KindLeaf
		}
	}
	if err := tree.Load(records); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := tree.Selected(); len(got) != 0 {
		t.Errorf("selected = %v, want stale ids purged", got)
	}
	if got := tree.Expanded(); !slices.Equal(got, []string{"1"}) {
		t.Errorf("expanded = %v, want [1]", got)
	}
	if ids, op := tree.Clipboard(); !slices.Equal(ids, []string{"3"}) || op != ClipboardCut {
		t.Errorf("clipboard = %v %v, want [3] cut", ids, op)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	tree := sampleTree(t)
	rebuilt, err := Build(tree.Records())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !slices.Equal(rebuilt.Records(), tree.Records()) {
		t.Errorf("records differ after rebuild")
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name     string
		expanded []string
		want     []string
	}{
		{
			name: "all collapsed",
			want: []string{"1", "2", "3"},
		},
		{
			name:     "root expanded",
			expanded: []string{"1"},
			want:     []string{"1", "1.1", "1.2", "2", "3"},
		},
		{
			name:     "nested expanded",
			expanded: []string{"1", "1.1"},
			want:     []string{"1", "1.1", "1.1.1", "1.1.2", "1.1.3", "1.2", "2", "3"},
		},
		{
			name:     "inner expanded under collapsed root",
			expanded: []string{"1.1"},
			want:     []string{"1", "2", "3"},
		},
		{
			name:     "leaf expansion ignored",
			expanded: []string{"2"},
			want:     []string{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree(t, tt.expanded...)
			if got := visibleIDs(tree); !slices.Equal(got, tt.want) {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleCacheInvalidation(t *testing.T) {
	tree := sampleTree(t)
	before := visibleIDs(tree)
	tree.Expand("1")
	after := visibleIDs(tree)
	if slices.Equal(before, after) {
		t.Fatalf("Visible() not refreshed after Expand: %v", after)
	}
	tree.Collapse("1")
	if got := visibleIDs(tree); !slices.Equal(got, before) {
		t.Errorf("Visible() = %v after Collapse, want %v", got, before)
	}
}

func TestNextPrevious(t *testing.T) {
	tree := sampleTree(t, "1", "1.1")
	visible := tree.Visible()

	if tree.Previous(tree.First()) != nil {
		t.Error("Previous(first) should be nil")
	}
	if tree.Next(tree.Last()) != nil {
		t.Error("Next(last) should be nil")
	}
	for i, n := range visible {
		if i+1 < len(visible) && tree.Next(n) != visible[i+1] {
			t.Errorf("Next(%s) = %v, want %s", n.ID(), tree.Next(n), visible[i+1].ID())
		}
		if i > 0 && tree.Previous(n) != visible[i-1] {
			t.Errorf("Previous(%s) = %v, want %s", n.ID(), tree.Previous(n), visible[i-1].ID())
		}
	}

	if got := tree.NextNonChild(mustGet(t, tree, "1.1")); got.ID() != "1.2" {
		t.Errorf("NextNonChild(1.1) = %s, want 1.2", got.ID())
	}
	if got := tree.NextNonChild(mustGet(t, tree, "1.2")); got.ID() != "2" {
		t.Errorf("NextNonChild(1.2) = %s, want 2", got.ID())
	}
}

func TestEmptyTree(t *testing.T) {
	tree := New()
	if tree.First() != nil || tree.Last() != nil {
		t.Error("empty tree should have no first or last node")
	}
	if got := tree.Visible(); len(got) != 0 {
		t.Errorf("Visible() = %v, want empty", got)
	}
	if res := tree.Delete([]string{"x"}); len(res.RemovedIDs) != 0 {
		t.Errorf("Delete() on empty tree removed %v", res.RemovedIDs)
	}
}

func TestDepthAndLevel(t *testing.T) {
	tree := sampleTree(t)
	tests := []struct {
		id        string
		depth     int
		levelSize int
		position  int
	}{
		{id: "1", depth: 0, levelSize: 3, position: 1},
		{id: "1.2", depth: 1, levelSize: 2, position: 2},
		{id: "1.1.3", depth: 2, levelSize: 3, position: 3},
		{id: "3", depth: 0, levelSize: 3, position: 3},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n := mustGet(t, tree, tt.id)
			if n.Depth() != tt.depth {
				t.Errorf("Depth() = %d, want %d", n.Depth(), tt.depth)
			}
			if n.SetSize() != tt.levelSize {
				t.Errorf("SetSize() = %d, want %d", n.SetSize(), tt.levelSize)
			}
			if n.PositionInSet() != tt.position {
				t.Errorf("PositionInSet() = %d, want %d", n.PositionInSet(), tt.position)
			}
		})
	}
}

func TestContainsAndCompare(t *testing.T) {
	tree := sampleTree(t)
	if !tree.Contains("1", "1.1.2") {
		t.Error("1 should contain 1.1.2")
	}
	if tree.Contains("1.1.2", "1.1.2") {
		t.Error("a node does not contain itself")
	}
	if tree.Contains("2", "1.1") {
		t.Error("2 should not contain 1.1")
	}
	if Compare(mustGet(t, tree, "1"), mustGet(t, tree, "1.1.3")) >= 0 {
		t.Error("ancestor should sort before descendant")
	}
	if Compare(mustGet(t, tree, "1.2"), mustGet(t, tree, "1.1.3")) <= 0 {
		t.Error("1.2 should sort after 1.1.3")
	}
}

func TestSelectRange(t *testing.T) {
	t.Run("forward from anchor", func(t *testing.T) {
		tree := sampleTree(t, "1")
		tree.Select("1.1")
		tree.SelectRange("", "2")

		got := tree.Selected()
		slices.Sort(got)
		if !slices.Equal(got, []string{"1.1", "1.2", "2"}) {
			t.Errorf("selected = %v, want [1.1 1.2 2]", got)
		}
	})

	t.Run("backward from anchor", func(t *testing.T) {
		tree := sampleTree(t, "1")
		tree.Select("3")
		tree.SelectRange("", "1.2")

		got := tree.Selected()
		slices.Sort(got)
		if !slices.Equal(got, []string{"1.2", "2", "3"}) {
			t.Errorf("selected = %v, want [1.2 2 3]", got)
		}
	})

	t.Run("anchor is newest live selection", func(t *testing.T) {
		tree := sampleTree(t, "1")
		tree.Select("1.1")
		tree.Select("3")
		tree.Delete([]string{"3"})
		tree.Select("1.2")
		tree.Select("1.1") // re-touch makes 1.1 the anchor again

		anchor, ok := tree.Anchor()
		if !ok || anchor.ID() != "1.1" {
			t.Fatalf("Anchor() = %v, want 1.1", anchor)
		}
	})

	t.Run("no anchor selects target only", func(t *testing.T) {
		tree := sampleTree(t)
		tree.SelectRange("", "2")
		if got := tree.Selected(); !slices.Equal(got, []string{"2"}) {
			t.Errorf("selected = %v, want [2]", got)
		}
	})

	t.Run("unknown explicit anchor selects nothing", func(t *testing.T) {
		tree := sampleTree(t, "1")
		tree.Select("1.1")
		tree.Delete([]string{"3"})

		for _, anchorID := range []string{"3", "missing"} {
			if got := tree.SelectRange(anchorID, "2"); got != nil {
				t.Errorf("SelectRange(%q, 2) = %v, want nil", anchorID, got)
			}
		}
		if got := tree.Selected(); !slices.Equal(got, []string{"1.1"}) {
			t.Errorf("selected = %v, want [1.1] unchanged", got)
		}
	})
}

func TestSelectAllDeselectAll(t *testing.T) {
	tree := sampleTree(t)
	tree.SelectAll()
	if len(tree.Selected()) != tree.Len() {
		t.Errorf("SelectAll selected %d of %d", len(tree.Selected()), tree.Len())
	}
	if !mustGet(t, tree, "1.1.3").Selected() {
		t.Error("hidden nodes should be selected too")
	}
	tree.DeselectAll()
	if len(tree.Selected()) != 0 {
		t.Errorf("DeselectAll left %v", tree.Selected())
	}
}

func TestExpandSiblings(t *testing.T) {
	records := append(sampleRecords(), Record{ID: "4", Name: "4", Kind: KindBranch, Index: 3})
	tree, err := Build(records)
	if err != nil {
		t.Fatal(err)
	}
	if n := tree.ExpandSiblings("2"); n != 2 {
		t.Errorf("ExpandSiblings() expanded %d, want 2", n)
	}
	if !tree.IsExpanded("1") || !tree.IsExpanded("4") {
		t.Error("root branches should be expanded")
	}
	if tree.IsExpanded("2") {
		t.Error("leaves are never expanded")
	}
	if tree.IsExpanded("1.1") {
		t.Error("ExpandSiblings must not recurse")
	}
}

func TestReveal(t *testing.T) {
	tree := sampleTree(t)
	tree.Reveal("1.1.2")
	if !tree.IsVisible(mustGet(t, tree, "1.1.2")) {
		t.Errorf("1.1.2 should be visible after Reveal, visible = %v", visibleIDs(tree))
	}
}

func TestPageBoundary(t *testing.T) {
	tree := sampleTree(t, "1", "1.1")
	pos := RowPositions(tree, 20)

	tests := []struct {
		name   string
		start  string
		dir    Direction
		budget float64
		want   string
	}{
		{name: "down three rows", start: "1", dir: Down, budget: 60, want: "1.1.2"},
		{name: "down past end", start: "1.2", dir: Down, budget: 1000, want: "3"},
		{name: "up two rows", start: "1.2", dir: Up, budget: 45, want: "1.1.2"},
		{name: "budget smaller than a row", start: "2", dir: Up, budget: 10, want: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.PageBoundary(mustGet(t, tree, tt.start), tt.dir, tt.budget, pos)
			if got.ID() != tt.want {
				t.Errorf("PageBoundary() = %s, want %s", got.ID(), tt.want)
			}
		})
	}

	t.Run("stops at unpositioned node", func(t *testing.T) {
		partial := func(n *Node) (float64, bool) {
			if n.ID() == "1.1.2" {
				return 0, false
			}
			return pos(n)
		}
		got := tree.PageBoundary(mustGet(t, tree, "1"), Down, 1000, partial)
		if got.ID() != "1.1.1" {
			t.Errorf("PageBoundary() = %s, want 1.1.1", got.ID())
		}
	})
}

func TestSubscribe(t *testing.T) {
	tree := sampleTree(t)
	var got []EventType
	unsubscribe := tree.Subscribe(func(e Event) { got = append(got, e.Type) })

	tree.Rename("2", "two")
	unsubscribe()
	tree.Rename("3", "three")

	if !slices.Equal(got, []EventType{EventRename}) {
		t.Errorf("events = %v, want [rename]", got)
	}
}
