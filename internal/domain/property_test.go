package domain

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// genTree draws a random forest where every node hangs under an earlier branch
func genTree(rt *rapid.T) *Tree {
	count := rapid.IntRange(1, 25).Draw(rt, "count")
	var records []Record
	var branches []string
	for i := range count {
		r := Record{ID: fmt.Sprintf("n%d", i), Name: fmt.Sprintf("n%d", i), Index: i}
		if rapid.Bool().Draw(rt, "branch") {
			r.Kind = KindBranch
		}
		if len(branches) > 0 && rapid.IntRange(0, 3).Draw(rt, "nest") > 0 {
			r.ParentID = rapid.SampledFrom(branches).Draw(rt, "parent")
		}
		if r.Kind == KindBranch {
			branches = append(branches, r.ID)
		}
		records = append(records, r)
	}
	tree, err := Build(records, WithIDGenerator(sequentialIDs("c")))
	if err != nil {
		rt.Fatalf("Build() error = %v", err)
	}
	for _, id := range branches {
		if rapid.Bool().Draw(rt, "expand") {
			tree.Expand(id)
		}
	}
	return tree
}

func allIDs(tree *Tree) []string {
	var ids []string
	for n := range tree.All() {
		ids = append(ids, n.ID())
	}
	return ids
}

func checkInvariants(rt *rapid.T, tree *Tree) {
	seen := 0
	for n := range tree.All() {
		seen++
		level := n.Level()
		if n.Index() >= len(level) || level[n.Index()] != n {
			rt.Fatalf("index of %s does not match its position", n.ID())
		}
		if p := n.Parent(); p != nil {
			if n.Depth() != p.Depth()+1 {
				rt.Fatalf("depth of %s is %d, parent depth %d", n.ID(), n.Depth(), p.Depth())
			}
			if p.IsLeaf() {
				rt.Fatalf("leaf %s has child %s", p.ID(), n.ID())
			}
		} else if n.Depth() != 0 {
			rt.Fatalf("root %s has depth %d", n.ID(), n.Depth())
		}
		if got, ok := tree.Get(n.ID()); !ok || got != n {
			rt.Fatalf("%s not indexed", n.ID())
		}
		if n.IsLeaf() && tree.IsExpanded(n.ID()) {
			rt.Fatalf("leaf %s reported expanded", n.ID())
		}
	}
	if seen != tree.Len() {
		rt.Fatalf("walked %d nodes, tree has %d: cycle or detached node", seen, tree.Len())
	}

	visible := tree.Visible()
	for i, n := range visible {
		next := tree.Next(n)
		if i+1 < len(visible) {
			if next != visible[i+1] {
				rt.Fatalf("Next(%s) disagrees with Visible()", n.ID())
			}
			if tree.Previous(next) != n {
				rt.Fatalf("Previous(Next(%s)) != %s", n.ID(), n.ID())
			}
		} else if next != nil {
			rt.Fatalf("Next(last) = %s, want nil", next.ID())
		}
	}
	if len(visible) > 0 && tree.Previous(visible[0]) != nil {
		rt.Fatal("Previous(first) should be nil")
	}
}

func TestTreeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree := genTree(rt)
		checkInvariants(rt, tree)

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for range steps {
			ids := allIDs(tree)
			if len(ids) == 0 {
				return
			}
			id := rapid.SampledFrom(ids).Draw(rt, "id")
			target := rapid.SampledFrom(ids).Draw(rt, "target")

			switch rapid.IntRange(0, 5).Draw(rt, "op") {
			case 0:
				tree.ToggleExpand(id)
			case 1:
				pos := Position(rapid.IntRange(0, 2).Draw(rt, "pos"))
				circular := id == target || tree.Contains(id, target)
				err := tree.Move(id, target, pos)
				if circular && err == nil {
					rt.Fatalf("Move(%s, %s) into itself succeeded", id, target)
				}
			case 2:
				tree.Select(id)
				tree.CopyToClipboard([]string{id}, ClipboardCut)
				res := tree.Delete([]string{id, target})
				for _, gone := range res.RemovedIDs {
					if tree.IsSelected(gone) || tree.IsExpanded(gone) || tree.InClipboard(gone) {
						rt.Fatalf("%s survived in a set after delete", gone)
					}
					if _, ok := tree.Get(gone); ok {
						rt.Fatalf("%s still resolvable after delete", gone)
					}
				}
				if res.NearestID != "" {
					if _, ok := tree.Get(res.NearestID); !ok {
						rt.Fatalf("nearest %s was deleted", res.NearestID)
					}
				}
			case 3:
				op := ClipboardOp(rapid.IntRange(0, 1).Draw(rt, "clipOp"))
				tree.CopyToClipboard([]string{id}, op)
				circular := op == ClipboardCut && (id == target || tree.Contains(id, target))
				_, err := tree.Paste(target)
				if circular && err == nil {
					rt.Fatalf("cut-paste of %s into %s succeeded", id, target)
				}
			case 4:
				tree.Select(id)
				tree.SelectRange("", target)
			case 5:
				clone := tree.Clone(id)
				clone.walk(func(c *Node) bool {
					if _, clash := tree.Get(c.ID()); clash {
						rt.Fatalf("clone id %s already in tree", c.ID())
					}
					return true
				})
			}
			checkInvariants(rt, tree)
		}
	})
}

func TestIDSetProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		set := NewIDSet()
		model := map[string]bool{}
		var last string
		for range rapid.IntRange(1, 50).Draw(rt, "ops") {
			id := rapid.SampledFrom([]string{"a", "b", "c", "d"}).Draw(rt, "id")
			if rapid.Bool().Draw(rt, "add") {
				set.Add(id)
				model[id] = true
				last = id
			} else {
				set.Remove(id)
				delete(model, id)
				if last == id {
					last = ""
				}
			}
			if set.Len() != len(model) {
				rt.Fatalf("Len() = %d, want %d", set.Len(), len(model))
			}
			for k := range model {
				if !set.Has(k) {
					rt.Fatalf("missing %s", k)
				}
			}
			if last != "" {
				if newest, _ := set.Newest(nil); newest != last {
					rt.Fatalf("Newest() = %s, want %s", newest, last)
				}
			}
		}
	})
}
