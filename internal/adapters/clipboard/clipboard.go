// Package clipboard writes node paths to the operating system clipboard
package clipboard

import (
	"github.com/atotto/clipboard"

	"arbor/internal/ports"
)

// System implements ports.Clipboard with the platform clipboard tools
// (pbcopy, xclip/xsel, wl-copy, the Windows API)
type System struct{}

// Ensure System implements Clipboard
var _ ports.Clipboard = System{}

// WriteText replaces the clipboard contents
func (System) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard tool was found at startup
func (System) Available() bool {
	return !clipboard.Unsupported
}
