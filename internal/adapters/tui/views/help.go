package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"arbor/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	// editable is false for read-only sources, which hides the editing keys
	editable bool
}

// NewHelpModel creates a new help view model
func NewHelpModel(editable bool) *HelpModel {
	return &HelpModel{editable: editable}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Arbor Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("k / j / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("h / ←", "Collapse / go to parent"))
	b.WriteString(helpLine("l / →", "Expand / first child"))
	b.WriteString(helpLine("enter", "Toggle branch / open leaf"))
	b.WriteString(helpLine("*", "Expand all siblings"))
	b.WriteString(helpLine("pgup / pgdn", "Page up/down"))
	b.WriteString(helpLine("home / end", "First / last row"))
	b.WriteString(helpLine("/", "Find by path"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Selection"))
	b.WriteString("\n")
	b.WriteString(helpLine("space", "Toggle selection"))
	b.WriteString(helpLine("shift+↑ / shift+↓", "Extend selection"))
	b.WriteString(helpLine("ctrl+a", "Select all"))
	b.WriteString(helpLine("esc", "Clear selection"))
	b.WriteString("\n")

	if m.editable {
		b.WriteString(styles.InputLabel.Render("Editing"))
		b.WriteString("\n")
		b.WriteString(helpLine("n / N", "New leaf / branch"))
		b.WriteString(helpLine("r / F2", "Rename"))
		b.WriteString(helpLine("d / delete", "Delete selection"))
		b.WriteString(helpLine("c / x", "Copy / cut selection"))
		b.WriteString(helpLine("v", "Paste"))
		b.WriteString(helpLine("D", "Duplicate selection"))
		b.WriteString("\n")
	}

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

// padRight pads by display width so arrows and other symbols line up
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
