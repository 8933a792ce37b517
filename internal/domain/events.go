package domain

import "slices"

// EventType identifies what a mutation did
type EventType int

const (
	EventInsert EventType = iota
	EventMove
	EventRename
	EventDelete
	EventNameConflict
)

func (t EventType) String() string {
	switch t {
	case EventInsert:
		return "insert"
	case EventMove:
		return "move"
	case EventRename:
		return "rename"
	case EventDelete:
		return "delete"
	case EventNameConflict:
		return "name-conflict"
	default:
		return "unknown"
	}
}

// Event describes one structural change, emitted after the tree is consistent
// again. Which fields are set depends on Type:
//
//	insert:        ID, ParentID, Index, Name, Records (the inserted subtree, pre-order),
//	               SourceID (the node it was cloned from, "" for a new node)
//	move:          ID, OldParentID, OldIndex, ParentID, Index
//	rename:        ID, OldName, Name
//	delete:        ID, ParentID, Index (before removal), RemovedIDs (subtree)
//	name-conflict: ID, Name (rejected), ConflictID
type Event struct {
	Type        EventType
	ID          string
	ParentID    string
	Index       int
	OldParentID string
	OldIndex    int
	Name        string
	OldName     string
	ConflictID  string
	Records     []Record
	SourceID    string
	RemovedIDs  []string
}

// Listener receives events synchronously
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn for every future event and returns a func that
// removes it again.
func (t *Tree) Subscribe(fn Listener) (unsubscribe func()) {
	t.nextSub++
	id := t.nextSub
	t.listeners = append(t.listeners, subscription{id: id, fn: fn})
	return func() {
		t.listeners = slices.DeleteFunc(t.listeners, func(s subscription) bool {
			return s.id == id
		})
	}
}

func (t *Tree) emit(e Event) {
	// listeners may unsubscribe while being notified
	subs := slices.Clone(t.listeners)
	for _, s := range subs {
		s.fn(e)
	}
}
