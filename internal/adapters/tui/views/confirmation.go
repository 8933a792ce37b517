package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/adapters/tui/styles"
	"arbor/internal/application"
	"arbor/internal/domain"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// maxListedTargets caps how many nodes a confirmation lists by name
const maxListedTargets = 8

// ConfirmationModel provides a base for confirmation-style views
type ConfirmationModel struct {
	ViewState
	Targets []*domain.Node
	Keys    ConfirmKeyMap
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// SetTargets sets the nodes the confirmation is about
func (m *ConfirmationModel) SetTargets(nodes []*domain.Node) {
	m.Targets = nodes
	m.ClearMessage()
}

// HandleKeyMsg processes key messages for confirmation views.
// Returns (handled, cmd) where handled is true if the key was processed.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, func() tea.Msg { return onCancel() }
	case key.Matches(msg, m.Keys.Confirm):
		return true, func() tea.Msg { return onConfirm() }
	}
	return false, nil
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}

// RenderTargetInfo lists the target nodes by path under an action heading
func RenderTargetInfo(nodes []*domain.Node, action string) string {
	if len(nodes) == 0 {
		return ""
	}

	var b strings.Builder
	label := kindLabel(nodes[0].Kind())
	if len(nodes) > 1 {
		label = fmt.Sprintf("%d nodes", len(nodes))
	}
	b.WriteString(styles.InputLabel.Render(action + " " + label + ":"))

	for i, n := range nodes {
		if i == maxListedTargets {
			b.WriteString("\n  ")
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", len(nodes)-i)))
			break
		}
		b.WriteString("\n  ")
		b.WriteString(application.NodePath(n))
		if n.IsBranch() {
			b.WriteString("/")
		}
	}

	return b.String()
}

func kindLabel(k domain.Kind) string {
	switch k {
	case domain.KindBranch:
		return "branch"
	case domain.KindLeaf:
		return "leaf"
	default:
		return k.String()
	}
}
