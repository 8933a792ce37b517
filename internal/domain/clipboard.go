package domain

// PasteResult reports what Paste did
type PasteResult struct {
	Op ClipboardOp
	// IDs holds the pasted nodes: fresh clones for copy, the moved nodes for cut
	IDs      []string
	ParentID string
	// Noop is set when nothing was pasted (empty clipboard or unknown destination)
	Noop bool
}

// CopyToClipboard replaces the clipboard with the live ids and remembers op.
// It returns the number of ids kept.
func (t *Tree) CopyToClipboard(ids []string, op ClipboardOp) int {
	t.clipboard.Clear()
	t.clipOp = op
	for _, id := range ids {
		if _, ok := t.byID[id]; ok {
			t.clipboard.Add(id)
		}
	}
	return t.clipboard.Len()
}

// ClearClipboard empties the clipboard
func (t *Tree) ClearClipboard() {
	t.clipboard.Clear()
	t.clipOp = ClipboardCopy
}

// Paste inserts the clipboard at destID: inside it when it is a branch,
// after it when it is a leaf, at the end of the root list when destID is "".
// A copy inserts fresh clones and keeps the clipboard for further pastes; a
// cut moves the originals and empties the clipboard. Cutting onto a node that
// is itself in the clipboard, or lies inside one, fails with
// ErrCircularReference and changes nothing.
func (t *Tree) Paste(destID string) (PasteResult, error) {
	sources := t.Topmost(t.clipboard.IDs())
	if len(sources) == 0 {
		return PasteResult{Op: t.clipOp, Noop: true}, nil
	}

	var (
		dest   *Node
		parent *Node
		index  = len(t.roots)
	)
	if destID != "" {
		d, ok := t.byID[destID]
		if !ok {
			return PasteResult{Op: t.clipOp, Noop: true}, nil
		}
		dest = d
		switch d.kind {
		case KindBranch:
			parent, index = d, len(d.children)
		case KindLeaf:
			parent, index = d.parent, d.index+1
		default:
			mustKnownKind(d.kind)
		}
	}

	result := PasteResult{Op: t.clipOp, ParentID: idOf(parent)}
	switch t.clipOp {
	case ClipboardCopy:
		for _, c := range t.insertClones(sources, parent, index) {
			result.IDs = append(result.IDs, c.id)
		}
	case ClipboardCut:
		if dest != nil {
			for _, src := range sources {
				if isWithin(dest, src) {
					return PasteResult{Op: t.clipOp}, &MoveError{SourceID: src.id, DestID: destID, Err: ErrCircularReference}
				}
			}
		}
		for _, src := range sources {
			t.moveTo(src, parent, index)
			index = src.index + 1
			result.IDs = append(result.IDs, src.id)
		}
		t.ClearClipboard()
	}
	return result, nil
}
