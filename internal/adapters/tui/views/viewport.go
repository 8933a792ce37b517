package views

// Viewport is a scrolling window of height rows over a list of total rows.
// The window scrolls just enough to keep the cursor row on screen.
type Viewport struct {
	height int
	offset int
	cursor int
	total  int
}

// NewViewport creates a viewport showing height rows
func NewViewport(height int) *Viewport {
	if height <= 0 {
		height = 10
	}
	return &Viewport{height: height}
}

// SetHeight changes the number of visible rows
func (v *Viewport) SetHeight(height int) {
	if height <= 0 {
		height = 1
	}
	v.height = height
	v.follow()
}

// Height returns the number of visible rows
func (v *Viewport) Height() int {
	return v.height
}

// SetTotal sets the number of rows in the list, clamping the cursor
func (v *Viewport) SetTotal(total int) {
	v.total = total
	v.SetCursor(v.cursor)
}

// Total returns the number of rows in the list
func (v *Viewport) Total() int {
	return v.total
}

// Cursor returns the cursor row
func (v *Viewport) Cursor() int {
	return v.cursor
}

// SetCursor moves the cursor, clamped to the list, and scrolls to it
func (v *Viewport) SetCursor(row int) {
	v.cursor = max(0, min(row, v.total-1))
	v.follow()
}

// CursorUp moves the cursor up by one
func (v *Viewport) CursorUp() bool {
	if v.cursor > 0 {
		v.SetCursor(v.cursor - 1)
		return true
	}
	return false
}

// CursorDown moves the cursor down by one
func (v *Viewport) CursorDown() bool {
	if v.cursor < v.total-1 {
		v.SetCursor(v.cursor + 1)
		return true
	}
	return false
}

// VisibleRange returns the start and end indices of the rows on screen
func (v *Viewport) VisibleRange() (start, end int) {
	start = v.offset
	end = min(v.offset+v.height, v.total)
	return
}

// CursorInView returns the cursor position relative to the window
func (v *Viewport) CursorInView() int {
	return v.cursor - v.offset
}

// Reset resets the viewport to its initial state
func (v *Viewport) Reset() {
	v.cursor = 0
	v.offset = 0
	v.total = 0
}

func (v *Viewport) follow() {
	if v.cursor < v.offset {
		v.offset = v.cursor
	} else if v.cursor >= v.offset+v.height {
		v.offset = v.cursor - v.height + 1
	}
	// no blank rows below the list while earlier rows are hidden
	if last := v.total - v.height; v.offset > last {
		v.offset = max(0, last)
	}
}
