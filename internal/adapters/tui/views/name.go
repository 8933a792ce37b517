package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/adapters/tui/styles"
	"arbor/internal/application"
	"arbor/internal/application/commands"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// NameModel prompts for a node name, either for a new node or a rename.
// A name already used by a sibling keeps the prompt open with the conflict
// shown under the field.
type NameModel struct {
	ViewState
	tree  *domain.Tree
	store ports.TreeStore
	mode  NameMode
	node  *domain.Node
	form  *InputForm
}

// NewNameModel creates a new name prompt
func NewNameModel(tree *domain.Tree, store ports.TreeStore) *NameModel {
	return &NameModel{
		tree:  tree,
		store: store,
		form:  NewInputForm(NewInputField("Name:", "name", application.MaxNameLength)),
	}
}

// Open prepares the prompt for mode. For a rename the field starts with the
// current name.
func (m *NameModel) Open(mode NameMode, node *domain.Node) {
	m.mode = mode
	m.node = node
	m.ClearMessage()
	m.form.Reset()
	if mode == NameRename && node != nil {
		m.form.SetValue(0, node.Name())
	}
}

// Init initializes the name prompt
func (m *NameModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the name prompt
func (m *NameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// submit runs on the update loop because the commands mutate the shared tree
func (m *NameModel) submit() tea.Cmd {
	name := m.form.Value(0)
	ctx := context.Background()

	var (
		message string
		focusID string
		err     error
	)
	if m.mode == NameRename {
		var res *commands.RenameResult
		res, err = commands.NewRenameCommand(m.tree, m.store, m.node.ID(), name).Execute(ctx)
		if err == nil {
			message, focusID = res.Message, res.ID
		}
	} else {
		kind := domain.KindLeaf
		if m.mode == NameCreateBranch {
			kind = domain.KindBranch
		}
		parentID, index := m.placement()
		create := commands.NewCreateCommand(m.tree, m.store, parentID, name, kind)
		create.Index = index
		var res *commands.CreateResult
		res, err = create.Execute(ctx)
		if err == nil {
			message, focusID = res.Message, res.Node.ID()
		}
	}

	var conflict *domain.ConflictError
	var invalid *application.ValidationError
	switch {
	case errors.As(err, &conflict):
		m.form.SetError(0, m.conflictText(conflict))
		return nil
	case errors.As(err, &invalid):
		m.form.SetError(0, invalid.Message)
		return nil
	case err != nil:
		return func() tea.Msg { return FailedMsg{Err: err} }
	}
	return func() tea.Msg { return DoneMsg{Message: message, FocusID: focusID} }
}

// placement puts a new node inside a focused branch, after a focused leaf,
// or at the end of the root list
func (m *NameModel) placement() (parentID string, index int) {
	switch {
	case m.node == nil:
		return "", -1
	case m.node.IsBranch():
		return m.node.ID(), -1
	default:
		return m.node.ParentID(), m.node.Index() + 1
	}
}

func (m *NameModel) conflictText(err *domain.ConflictError) string {
	if existing, ok := m.tree.Get(err.ExistingID); ok {
		return fmt.Sprintf("%q already exists here (%s)", err.Name, application.NodePath(existing))
	}
	return fmt.Sprintf("%q already exists here", err.Name)
}

func (m *NameModel) title() string {
	switch m.mode {
	case NameCreateBranch:
		return "New Branch"
	case NameRename:
		return "Rename"
	default:
		return "New Leaf"
	}
}

// View renders the name prompt
func (m *NameModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(m.title()))
	b.WriteString("\n\n")

	switch {
	case m.mode == NameRename:
		b.WriteString(styles.Subtitle.Render("Renaming " + application.NodePath(m.node)))
	case m.node == nil:
		b.WriteString(styles.Subtitle.Render("Creating at the top level"))
	case m.node.IsBranch():
		b.WriteString(styles.Subtitle.Render("Creating inside " + application.NodePath(m.node)))
	default:
		b.WriteString(styles.Subtitle.Render("Creating after " + application.NodePath(m.node)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.form.RenderField(0))
	b.WriteString("\n\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n\n")
	}

	submit := "create"
	if m.mode == NameRename {
		submit = "rename"
	}
	b.WriteString(m.form.RenderHelp(submit))

	return styles.App.Render(b.String())
}
