package views

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/adapters/tui/styles"
	"arbor/internal/application/commands"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	tree  *domain.Tree
	store ports.TreeStore
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(tree *domain.Tree, store ports.TreeStore) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		tree:              tree,
		store:             store,
	}
}

type deleteConfirmedMsg struct{}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case deleteConfirmedMsg:
		return m, m.doDelete()

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			func() tea.Msg { return deleteConfirmedMsg{} },
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

// doDelete runs on the update loop, never in a tea.Cmd goroutine, because
// it mutates the shared tree
func (m *DeleteModel) doDelete() tea.Cmd {
	ids := make([]string, 0, len(m.Targets))
	for _, n := range m.Targets {
		ids = append(ids, n.ID())
	}

	result, err := commands.NewDeleteCommand(m.tree, m.store, ids).Execute(context.Background())
	if err != nil {
		return func() tea.Msg { return FailedMsg{Err: err} }
	}
	return func() tea.Msg {
		return DoneMsg{Message: result.Message, FocusID: result.NearestID}
	}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Delete Confirmation"))
	b.WriteString("\n\n")

	b.WriteString(styles.ErrorMsg.Render("This action cannot be undone!"))
	b.WriteString("\n\n")

	b.WriteString(RenderTargetInfo(m.Targets, "Delete"))
	b.WriteString("\n\n")

	for _, n := range m.Targets {
		if n.HasChildren() {
			b.WriteString(styles.MutedText.Render("  Everything inside the listed branches is deleted too."))
			b.WriteString("\n\n")
			break
		}
	}

	b.WriteString(RenderConfirmPrompt("Are you sure?"))

	return styles.App.Render(b.String())
}
