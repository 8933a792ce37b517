package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/adapters/tui/views"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewName
	ViewDelete
	ViewFind
	ViewHelp
)

// Options configures the application
type Options struct {
	Title    string
	ReadOnly bool
	// Clipboard receives node paths on copy and cut; nil keeps them in-app
	Clipboard ports.Clipboard
	// Editor and Paths together enable opening leaves; Paths maps a node id
	// to a file on disk
	Editor ports.EditorOpener
	Paths  func(id string) (string, error)
	// Changes signals that the store changed underneath the tree
	Changes <-chan struct{}
	// PageFraction is the share of the viewport PgUp/PgDn move; 0 means a
	// full page
	PageFraction float64
}

// App is the main TUI application model
type App struct {
	tree    *domain.Tree
	store   ports.TreeStore
	editor  ports.EditorOpener
	paths   func(id string) (string, error)
	changes <-chan struct{}

	state   ViewState
	browser *views.BrowserModel
	name    *views.NameModel
	del     *views.DeleteModel
	find    *views.FindModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application over tree, writing through store
func NewApp(tree *domain.Tree, store ports.TreeStore, opts Options) *App {
	title := opts.Title
	if title == "" {
		title = "Arbor"
	}

	browser := views.NewBrowserModel(tree, store, opts.Clipboard, title)
	browser.ReadOnly = opts.ReadOnly
	browser.CanOpen = opts.Editor != nil && opts.Paths != nil
	browser.PageFraction = opts.PageFraction

	return &App{
		tree:    tree,
		store:   store,
		editor:  opts.Editor,
		paths:   opts.Paths,
		changes: opts.Changes,
		state:   ViewBrowser,
		browser: browser,
		name:    views.NewNameModel(tree, store),
		del:     views.NewDeleteModel(tree, store),
		find:    views.NewFindModel(tree, opts.Clipboard),
		help:    views.NewHelpModel(!opts.ReadOnly),
	}
}

type treeChangedMsg struct{}

// waitForChange blocks on the change feed; the loop re-arms it after every
// change
func (a *App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-a.changes; !ok {
			return nil
		}
		return treeChangedMsg{}
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.browser.Init(), a.waitForChange())
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.name.SetSize(msg.Width, msg.Height)
		a.del.SetSize(msg.Width, msg.Height)
		a.find.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case treeChangedMsg:
		return a, tea.Batch(a.browser.Reload(), a.waitForChange())

	// View switching messages
	case views.SwitchToNameMsg:
		a.state = ViewName
		a.name.Open(msg.Mode, msg.Node)
		return a, a.name.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.del.SetTargets(msg.Nodes)
		return a, nil

	case views.SwitchToFindMsg:
		a.state = ViewFind
		a.find.Reset()
		return a, a.find.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	// Results of commands run in other views
	case views.DoneMsg:
		a.state = ViewBrowser
		if msg.FocusID != "" {
			a.browser.Focus(msg.FocusID)
		}
		if msg.Message != "" {
			a.browser.SetMessage(msg.Message, false)
		}
		return a, nil

	case views.FailedMsg:
		a.state = ViewBrowser
		return a, a.browser.Fail(msg.Err)

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.ID)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage(msg.err.Error(), true)
		}
		return a, nil
	}

	// Background results (reloads) always belong to the browser
	if _, isKey := msg.(tea.KeyMsg); !isKey && a.state != ViewBrowser {
		_, cmd := a.browser.Update(msg)
		_, viewCmd := a.current().Update(msg)
		return a, tea.Batch(cmd, viewCmd)
	}

	_, cmd := a.current().Update(msg)
	return a, cmd
}

func (a *App) current() tea.Model {
	switch a.state {
	case ViewName:
		return a.name
	case ViewDelete:
		return a.del
	case ViewFind:
		return a.find
	case ViewHelp:
		return a.help
	default:
		return a.browser
	}
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(id string) tea.Cmd {
	if a.editor == nil || a.paths == nil {
		return nil
	}

	path, err := a.paths(id)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}
	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	return a.current().View()
}
