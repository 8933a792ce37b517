package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/adapters/clipboard"
	"arbor/internal/adapters/editor"
	"arbor/internal/adapters/filesystem"
	"arbor/internal/adapters/storage"
	"arbor/internal/adapters/tui"
	"arbor/internal/application/commands"
	"arbor/internal/config"
)

func main() {
	settings, err := config.Resolve("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	target := storage.TargetFrom(settings)

	flag.StringVar(&target.Database, "db", target.Database, "path to the arbor database")
	flag.StringVar(&target.File, "file", "", "edit a YAML or JSON tree document instead of the database")
	flag.BoolVar(&target.ShowHidden, "hidden", target.ShowHidden, "include dot files when browsing a directory")
	readOnly := flag.Bool("read-only", false, "browse without changing anything")
	expandDepth := flag.Int("expand", settings.ExpandDepth, "expand branches above this depth on start")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: arbor [flags] [directory]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 0 {
		target.Dir = flag.Arg(0)
	}

	if err := run(target, settings, *readOnly, *expandDepth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(target storage.Target, settings config.Settings, readOnly bool, expandDepth int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize adapters
	store, err := storage.Open(target)
	if err != nil {
		return err
	}
	defer store.Close()

	load := commands.NewLoadTreeCommand(store)
	load.ExpandDepth = expandDepth
	res, err := load.Execute(ctx)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Title:        "Arbor · " + target.Describe(),
		ReadOnly:     readOnly,
		PageFraction: settings.PageFraction,
	}

	if cb := (clipboard.System{}); cb.Available() {
		opts.Clipboard = cb
	} else {
		log.Printf("warning: no system clipboard found, copy and cut stay inside arbor")
	}

	// A directory tree can open leaves in the editor and follow changes made
	// by other programs
	if repo, ok := store.(*filesystem.Repository); ok {
		opts.Editor = editor.NewOpener()
		opts.Paths = repo.GetPath

		watcher, err := filesystem.NewWatcher(repo.Root(), target.ShowHidden)
		if err != nil {
			log.Printf("warning: %v, external changes will not show up", err)
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
			opts.Changes = watcher.Changes()
		}
	}

	// Create and run TUI app
	app := tui.NewApp(res.Tree, store, opts)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
