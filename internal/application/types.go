package application

import (
	"strings"

	"arbor/internal/domain"
)

// Re-export domain types for use by adapters
type (
	Tree        = domain.Tree
	Node        = domain.Node
	Record      = domain.Record
	Kind        = domain.Kind
	Position    = domain.Position
	ClipboardOp = domain.ClipboardOp
	Event       = domain.Event
)

const (
	KindLeaf   = domain.KindLeaf
	KindBranch = domain.KindBranch

	Before = domain.Before
	After  = domain.After
	Inside = domain.Inside

	ClipboardCopy = domain.ClipboardCopy
	ClipboardCut  = domain.ClipboardCut
)

// ParseKind converts "leaf"/"branch" style names to a Kind
func ParseKind(s string) (Kind, error) {
	return domain.ParseKind(s)
}

// ParsePosition converts "before"/"after"/"inside" to a Position
func ParsePosition(s string) (Position, error) {
	return domain.ParsePosition(s)
}

// NodePath joins the names from the root down to n with "/"
func NodePath(n *Node) string {
	return strings.Join(n.Path(), "/")
}
