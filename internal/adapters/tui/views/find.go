package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/adapters/tui/styles"
	"arbor/internal/application/commands"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// FindKeyMap defines key bindings for the find view
type FindKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	CopyPath key.Binding
	Cancel   key.Binding
}

var FindKeys = FindKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to"),
	),
	CopyPath: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy path"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// findLimit caps the matches kept per query
const findLimit = 200

// FindModel is a fuzzy finder over every node path, collapsed or not
type FindModel struct {
	ViewState
	tree    *domain.Tree
	system  ports.Clipboard
	input   textinput.Model
	results []commands.FindResult
	list    *Viewport
}

// NewFindModel creates a new find view; system may be nil
func NewFindModel(tree *domain.Tree, system ports.Clipboard) *FindModel {
	input := textinput.New()
	input.Placeholder = "Find..."
	input.Focus()

	return &FindModel{
		tree:   tree,
		system: system,
		input:  input,
		list:   NewViewport(10),
	}
}

// Init initializes the find view
func (m *FindModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *FindModel) Reset() {
	m.input.SetValue("")
	m.input.Focus()
	m.results = nil
	m.list.Reset()
	m.ClearMessage()
}

// SetSize updates the view dimensions; the list gets what the input,
// title and help lines leave over
func (m *FindModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.list.SetHeight(height - 12)
}

// Update handles messages for the find view
func (m *FindModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, FindKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }

		case key.Matches(msg, FindKeys.Up):
			m.list.CursorUp()
			return m, nil

		case key.Matches(msg, FindKeys.Down):
			m.list.CursorDown()
			return m, nil

		case key.Matches(msg, FindKeys.Select):
			if r, ok := m.current(); ok {
				id := r.Node.ID()
				return m, func() tea.Msg { return DoneMsg{FocusID: id} }
			}
			return m, nil

		case key.Matches(msg, FindKeys.CopyPath):
			m.copyPath()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.search()
	}
	return m, cmd
}

// search runs on the update loop; it only reads the tree
func (m *FindModel) search() {
	find := commands.NewFindCommand(m.tree, m.input.Value())
	find.Limit = findLimit
	results, err := find.Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.results = results
	m.list.SetTotal(len(results))
	m.list.SetCursor(0)
}

func (m *FindModel) current() (commands.FindResult, bool) {
	i := m.list.Cursor()
	if i < 0 || i >= len(m.results) {
		return commands.FindResult{}, false
	}
	return m.results[i], true
}

func (m *FindModel) copyPath() {
	r, ok := m.current()
	if !ok {
		return
	}
	if m.system == nil || !m.system.Available() {
		m.SetMessage("No system clipboard available", true)
		return
	}
	if err := m.system.WriteText(r.Path); err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.SetMessage("Copied "+r.Path, false)
}

// View renders the find view
func (m *FindModel) View() string {
	v := NewViewBuilder().Title("Find")
	v.Line(styles.InputFocused.Render(m.input.View())).BlankLine()

	switch {
	case len(m.results) > 0:
		v.Subtitle(fmt.Sprintf("%d matches", len(m.results)))
		start, end := m.list.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderResult(m.results[i], i == m.list.Cursor()))
		}
		if end < len(m.results) {
			v.Muted(fmt.Sprintf("... and %d more", len(m.results)-end))
		}
	case strings.TrimSpace(m.input.Value()) != "":
		v.Muted("No matches")
	default:
		v.Muted("Type to search every node by path")
	}

	v.BlankLine().Message(m.Message, m.MessageErr)
	v.Help(FindKeys.Up, FindKeys.Down, FindKeys.Select, FindKeys.CopyPath, FindKeys.Cancel)
	return v.String()
}

func (m *FindModel) renderResult(r commands.FindResult, focused bool) string {
	path := r.Path
	if r.Node.IsBranch() {
		path += "/"
	}
	width := m.Width - 6
	if focused {
		return styles.NodeCursor.Render(Truncate(path, width))
	}
	if !Fits(path, width) {
		return Truncate(path, width)
	}
	return RenderMatches(path, r.MatchedIndexes)
}
