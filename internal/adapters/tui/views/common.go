package views

import (
	"arbor/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// NameMode says what a name prompt is for
type NameMode int

const (
	NameCreateLeaf NameMode = iota
	NameCreateBranch
	NameRename
)

// Messages for view switching
type SwitchToNameMsg struct {
	Mode NameMode
	// Node is the rename target, or the node the new one is created next to
	// (inside it when it is a branch). nil creates at the root level.
	Node *domain.Node
}

type SwitchToDeleteMsg struct {
	Nodes []*domain.Node
}

type SwitchToFindMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// DoneMsg returns to the browser after a command ran in another view.
// FocusID moves the cursor when set.
type DoneMsg struct {
	Message string
	FocusID string
}

// FailedMsg returns to the browser after a command failed. The in-memory tree
// may be ahead of the store, so the browser reloads it.
type FailedMsg struct {
	Err error
}

// OpenEditorMsg requests opening a leaf in the editor
type OpenEditorMsg struct {
	ID string
}
