package editor

// Direction is a cursor movement direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Cursor is the logical insertion point in the buffer.
type Cursor struct {
	Line int
	Col  int
}

// Move moves the cursor one step, wrapping across line boundaries for
// horizontal moves.
func (c *Cursor) Move(dir Direction, buf *Buffer) {
	switch dir {
	case Up:
		if c.Line > 0 {
			c.Line--
		}
		c.clampCol(buf)
	case Down:
		if c.Line < buf.LineCount()-1 {
			c.Line++
		}
		c.clampCol(buf)
	case Left:
		c.clampCol(buf)
		if c.Col > 0 {
			c.Col--
		} else if c.Line > 0 {
			c.Line--
			c.Col = buf.LineLen(c.Line)
		}
	case Right:
		c.clampCol(buf)
		if c.Col < buf.LineLen(c.Line) {
			c.Col++
		} else if c.Line < buf.LineCount()-1 {
			c.Line++
			c.Col = 0
		}
	}
}

// clampCol pulls Col back to the end of the current line.
func (c *Cursor) clampCol(buf *Buffer) {
	if n := buf.LineLen(c.Line); c.Col > n {
		c.Col = n
	}
}

// Viewport is the visible window into the buffer. Offsets only change
// through Scroll.
type Viewport struct {
	RowOffset int
	ColOffset int
	Rows      int // Text rows (terminal height minus status bar and message line)
	Cols      int // Terminal width
}

// NewViewport sizes a viewport for a terminal of the given dimensions.
func NewViewport(termWidth, termHeight int) *Viewport {
	v := &Viewport{}
	v.Resize(termWidth, termHeight)
	return v
}

// Resize updates the viewport for new terminal dimensions.
func (v *Viewport) Resize(termWidth, termHeight int) {
	v.Cols = max(termWidth, 1)
	v.Rows = max(termHeight-2, 1)
}

// Scroll adjusts the offsets so the cursor lies inside the viewport.
func (v *Viewport) Scroll(c Cursor) {
	if c.Line < v.RowOffset {
		v.RowOffset = c.Line
	}
	if c.Line >= v.RowOffset+v.Rows {
		v.RowOffset = c.Line - v.Rows + 1
	}
	if c.Col < v.ColOffset {
		v.ColOffset = c.Col
	}
	if c.Col >= v.ColOffset+v.Cols {
		v.ColOffset = c.Col - v.Cols + 1
	}
}
