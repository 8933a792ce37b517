package views

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"arbor/internal/adapters/tui/styles"
	"arbor/internal/application/commands"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Enter       key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	ExpandLevel key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	Clear       key.Binding
	NewLeaf     key.Binding
	NewBranch   key.Binding
	Rename      key.Binding
	Delete      key.Binding
	Copy        key.Binding
	Cut         key.Binding
	Paste       key.Binding
	Duplicate   key.Binding
	Find        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle/open"),
	),
	ExtendUp: key.NewBinding(
		key.WithKeys("shift+up", "K"),
		key.WithHelp("shift+↑", "extend up"),
	),
	ExtendDown: key.NewBinding(
		key.WithKeys("shift+down", "J"),
		key.WithHelp("shift+↓", "extend down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end", "last"),
	),
	ExpandLevel: key.NewBinding(
		key.WithKeys("*"),
		key.WithHelp("*", "expand siblings"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "select all"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	NewLeaf: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new leaf"),
	),
	NewBranch: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new branch"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r", "f2"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Cut: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cut"),
	),
	Paste: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "paste"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	Find: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// chromeRows is the height taken by the title, status and help lines
const chromeRows = 10

// BrowserModel is the model for the tree browser view. Focus is tracked by
// node id so it survives reloads and structural changes.
type BrowserModel struct {
	ViewState
	tree   *domain.Tree
	store  ports.TreeStore
	system ports.Clipboard
	title  string

	// ReadOnly disables every key that changes the tree
	ReadOnly bool
	// CanOpen enables opening leaves in the editor
	CanOpen bool
	// PageFraction scales the page step; values outside (0, 1] mean a full page
	PageFraction float64

	cursor string
	view   *Viewport

	// rangeFrom and rangeIDs track a shift-extended selection in progress
	rangeFrom string
	rangeIDs  []string
}

// NewBrowserModel creates a new browser model; system may be nil
func NewBrowserModel(tree *domain.Tree, store ports.TreeStore, system ports.Clipboard, title string) *BrowserModel {
	m := &BrowserModel{
		tree:   tree,
		store:  store,
		system: system,
		title:  title,
		view:   NewViewport(20),
	}
	m.sync()
	return m
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

type recordsLoadedMsg struct {
	records []domain.Record
	version uint64
}

type errMsg struct {
	err error
}

// Reload reads the store in the background. The records are applied on the
// update loop and dropped when the tree changed while they were loading.
func (m *BrowserModel) Reload() tea.Cmd {
	if m.store == nil {
		return nil
	}
	version := m.tree.Version()
	return func() tea.Msg {
		records, err := m.store.Load(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return recordsLoadedMsg{records: records, version: version}
	}
}

// Fail reports a failed command and resynchronizes with the store, which
// may not hold the change the tree already made
func (m *BrowserModel) Fail(err error) tea.Cmd {
	m.SetMessage(err.Error(), true)
	return m.Reload()
}

// Focus moves the cursor to id, expanding its ancestors
func (m *BrowserModel) Focus(id string) {
	if m.tree.Reveal(id) {
		m.cursor = id
	}
	m.sync()
}

// Focused returns the node under the cursor, nil for an empty tree
func (m *BrowserModel) Focused() *domain.Node {
	n, ok := m.tree.Get(m.cursor)
	if !ok {
		return nil
	}
	return n
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case recordsLoadedMsg:
		if msg.version != m.tree.Version() {
			return m, m.Reload()
		}
		if err := m.tree.Load(msg.records); err != nil {
			m.SetMessage(err.Error(), true)
		}
		m.sync()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	focused := m.Focused()

	if !key.Matches(msg, BrowserKeys.ExtendUp, BrowserKeys.ExtendDown) {
		m.rangeFrom, m.rangeIDs = "", nil
	}

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.moveTo(m.tree.Previous(focused))

	case key.Matches(msg, BrowserKeys.Down):
		m.moveTo(m.tree.Next(focused))

	case key.Matches(msg, BrowserKeys.ExtendUp):
		m.extend(m.tree.Previous(focused))

	case key.Matches(msg, BrowserKeys.ExtendDown):
		m.extend(m.tree.Next(focused))

	case key.Matches(msg, BrowserKeys.PageUp):
		m.moveTo(m.pageBoundary(focused, domain.Up))

	case key.Matches(msg, BrowserKeys.PageDown):
		m.moveTo(m.pageBoundary(focused, domain.Down))

	case key.Matches(msg, BrowserKeys.Home):
		m.moveTo(m.tree.First())

	case key.Matches(msg, BrowserKeys.End):
		m.moveTo(m.tree.Last())

	case key.Matches(msg, BrowserKeys.Left):
		if focused == nil {
			return nil
		}
		if m.tree.IsExpanded(focused.ID()) {
			m.tree.Collapse(focused.ID())
		} else if p := focused.Parent(); p != nil {
			m.cursor = p.ID()
		}
		m.sync()

	case key.Matches(msg, BrowserKeys.Right):
		if focused == nil || !focused.IsBranch() {
			return nil
		}
		if !m.tree.IsExpanded(focused.ID()) {
			m.tree.Expand(focused.ID())
		} else if focused.HasChildren() {
			m.cursor = focused.Children()[0].ID()
		}
		m.sync()

	case key.Matches(msg, BrowserKeys.Enter):
		if focused == nil {
			return nil
		}
		if focused.IsBranch() {
			m.tree.ToggleExpand(focused.ID())
			m.sync()
			return nil
		}
		if m.CanOpen {
			id := focused.ID()
			return func() tea.Msg { return OpenEditorMsg{ID: id} }
		}

	case key.Matches(msg, BrowserKeys.ExpandLevel):
		if focused != nil {
			n := m.tree.ExpandSiblings(focused.ID())
			m.SetMessage(fmt.Sprintf("Expanded %d branches", n), false)
			m.sync()
		}

	case key.Matches(msg, BrowserKeys.Toggle):
		if focused != nil {
			m.tree.ToggleSelect(focused.ID())
		}

	case key.Matches(msg, BrowserKeys.SelectAll):
		m.tree.SelectAll()
		m.SetMessage(fmt.Sprintf("Selected %d nodes", m.tree.Len()), false)

	case key.Matches(msg, BrowserKeys.Clear):
		m.tree.DeselectAll()

	case key.Matches(msg, BrowserKeys.Find):
		return func() tea.Msg { return SwitchToFindMsg{} }

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	default:
		if m.ReadOnly {
			return nil
		}
		return m.handleEditKey(msg, focused)
	}

	return nil
}

func (m *BrowserModel) handleEditKey(msg tea.KeyMsg, focused *domain.Node) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.NewLeaf):
		return func() tea.Msg { return SwitchToNameMsg{Mode: NameCreateLeaf, Node: focused} }

	case key.Matches(msg, BrowserKeys.NewBranch):
		return func() tea.Msg { return SwitchToNameMsg{Mode: NameCreateBranch, Node: focused} }

	case key.Matches(msg, BrowserKeys.Rename):
		if focused == nil {
			return nil
		}
		return func() tea.Msg { return SwitchToNameMsg{Mode: NameRename, Node: focused} }

	case key.Matches(msg, BrowserKeys.Delete):
		targets := m.targets()
		if len(targets) == 0 {
			return nil
		}
		return func() tea.Msg { return SwitchToDeleteMsg{Nodes: targets} }

	case key.Matches(msg, BrowserKeys.Copy):
		return m.toClipboard(domain.ClipboardCopy)

	case key.Matches(msg, BrowserKeys.Cut):
		return m.toClipboard(domain.ClipboardCut)

	case key.Matches(msg, BrowserKeys.Paste):
		return m.paste()

	case key.Matches(msg, BrowserKeys.Duplicate):
		return m.duplicate()
	}
	return nil
}

// targets is the selection, or the focused node when nothing is selected
func (m *BrowserModel) targets() []*domain.Node {
	if nodes := m.tree.SelectedNodes(); len(nodes) > 0 {
		return nodes
	}
	if n := m.Focused(); n != nil {
		return []*domain.Node{n}
	}
	return nil
}

func ids(nodes []*domain.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

func (m *BrowserModel) toClipboard(op domain.ClipboardOp) tea.Cmd {
	targets := m.targets()
	if len(targets) == 0 {
		return nil
	}
	res, err := commands.NewClipboardCommand(m.tree, m.system, ids(targets), op).Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	m.SetMessage(res.Message, false)
	return nil
}

func (m *BrowserModel) paste() tea.Cmd {
	res, err := commands.NewPasteCommand(m.tree, m.store, m.cursor).Execute(context.Background())
	if err != nil {
		return m.Fail(err)
	}
	if len(res.IDs) > 0 {
		m.Focus(res.IDs[0])
	}
	m.SetMessage(res.Message, false)
	return nil
}

func (m *BrowserModel) duplicate() tea.Cmd {
	targets := m.targets()
	if len(targets) == 0 {
		return nil
	}
	res, err := commands.NewDuplicateCommand(m.tree, m.store, ids(targets), "", domain.After).Execute(context.Background())
	if err != nil {
		return m.Fail(err)
	}
	if len(res.IDs) > 0 {
		m.Focus(res.IDs[0])
	}
	m.SetMessage(res.Message, false)
	return nil
}

func (m *BrowserModel) moveTo(n *domain.Node) {
	if n == nil {
		return
	}
	m.cursor = n.ID()
	m.sync()
}

// extend grows or shrinks the shift selection that started at the row where
// the first shift move happened
func (m *BrowserModel) extend(n *domain.Node) {
	if n == nil {
		return
	}
	if m.rangeFrom == "" {
		m.rangeFrom = m.cursor
		m.tree.Select(m.cursor)
	}
	picked := m.tree.SelectRange(m.rangeFrom, n.ID())
	for _, id := range m.rangeIDs {
		if !slices.Contains(picked, id) {
			m.tree.Deselect(id)
		}
	}
	m.rangeIDs = picked
	m.moveTo(n)
}

// pageBoundary finds the node a page away with every row one unit high and
// the viewport as the budget
func (m *BrowserModel) pageBoundary(from *domain.Node, dir domain.Direction) *domain.Node {
	budget := float64(m.view.Height() - 1)
	if m.PageFraction > 0 && m.PageFraction < 1 {
		budget = float64(int(budget * m.PageFraction))
	}
	return m.tree.PageBoundary(from, dir, budget, domain.RowPositions(m.tree, 1))
}

// sync repairs the cursor after the tree changed and scrolls to it. A
// deleted cursor falls back to the first row; a hidden one to its nearest
// visible ancestor.
func (m *BrowserModel) sync() {
	n, ok := m.tree.Get(m.cursor)
	if !ok {
		n = m.tree.First()
	}
	for n != nil && !m.tree.IsVisible(n) {
		n = n.Parent()
	}
	m.cursor = ""
	if n != nil {
		m.cursor = n.ID()
	}
	m.view.SetTotal(len(m.tree.Visible()))
	if n != nil {
		m.view.SetCursor(m.tree.VisibleIndex(n))
	}
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.view.SetHeight(height - chromeRows)
	m.sync()
}

// View renders the browser
func (m *BrowserModel) View() string {
	v := NewViewBuilder().Title(m.title)
	v.Subtitle(m.status())

	visible := m.tree.Visible()
	if len(visible) == 0 {
		v.Muted("Empty tree")
	}
	start, end := m.view.VisibleRange()
	for i := start; i < end && i < len(visible); i++ {
		v.Line(m.renderNode(visible[i]))
	}

	if m.Message != "" {
		v.BlankLine().Line(RenderMessage(m.Message, m.MessageErr))
	}
	v.BlankLine()
	if m.ReadOnly {
		v.Help(BrowserKeys.Up, BrowserKeys.Left, BrowserKeys.Right, BrowserKeys.Toggle, BrowserKeys.Find, BrowserKeys.Help, BrowserKeys.Quit)
	} else {
		v.Help(BrowserKeys.NewLeaf, BrowserKeys.Rename, BrowserKeys.Delete, BrowserKeys.Copy, BrowserKeys.Cut, BrowserKeys.Paste, BrowserKeys.Find, BrowserKeys.Help, BrowserKeys.Quit)
	}
	return v.String()
}

func (m *BrowserModel) status() string {
	parts := []string{fmt.Sprintf("%d nodes", m.tree.Len())}
	if n := len(m.tree.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if clip, op := m.tree.Clipboard(); len(clip) > 0 {
		parts = append(parts, fmt.Sprintf("%d to %s", len(clip), op))
	}
	if m.ReadOnly {
		parts = append(parts, "read-only")
	}
	return strings.Join(parts, " · ")
}

func (m *BrowserModel) renderNode(n *domain.Node) string {
	indent := strings.Repeat("  ", n.Depth())

	var prefix string
	switch {
	case n.IsLeaf():
		prefix = styles.TreeLeaf
	case !n.HasChildren():
		prefix = styles.TreeEmpty
	case m.tree.IsExpanded(n.ID()):
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	text := n.Name()
	if n.IsBranch() {
		text += "/"
	}
	// App padding takes four columns, the indicator two
	text = Truncate(text, m.Width-4-len(indent)-2)

	var style lipgloss.Style
	switch {
	case n.ID() == m.cursor:
		style = styles.NodeCursor
	case m.tree.IsSelected(n.ID()):
		style = styles.NodeMarked
	case m.tree.InClipboard(n.ID()):
		_, op := m.tree.Clipboard()
		style = styles.NodeCopied
		if op == domain.ClipboardCut {
			style = styles.NodeCut
		}
	case n.IsBranch():
		style = styles.NodeBranch
	default:
		style = styles.NodeLeaf
	}

	return indent + styles.TreeBranch.Render(prefix) + style.Render(text)
}
