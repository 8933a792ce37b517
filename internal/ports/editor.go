package ports

import "os/exec"

// EditorOpener opens leaf files of a directory-backed tree in an external editor
type EditorOpener interface {
	// OpenFile opens path in the user's editor ($EDITOR, $VISUAL, then common editors)
	OpenFile(path string) error

	// Command returns the editor process for path without starting it, for
	// handing over the terminal with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
