package editor

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Version is shown in the welcome banner.
var Version = "dev"

// Frame is everything a single screen refresh needs.
type Frame struct {
	Buffer   *Buffer
	Cursor   Cursor
	Viewport *Viewport
	Message  StatusMessage
	Now      time.Time
}

// Renderer builds a frame buffer and writes it to the terminal in one go.
type Renderer struct {
	buf bytes.Buffer
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Flush renders f and writes the whole frame with a single Write call.
func (r *Renderer) Flush(w io.Writer, f Frame) error {
	r.Render(f)
	_, err := w.Write(r.buf.Bytes())
	r.buf.Reset()
	return err
}

// Render draws the full screen: text rows, status bar, message line and
// cursor placement. The returned slice is only valid until the next call.
func (r *Renderer) Render(f Frame) []byte {
	r.buf.Reset()
	vp := f.Viewport
	vp.Scroll(f.Cursor)

	// Hide cursor during drawing, then home.
	r.buf.WriteString("\x1b[?25l")
	r.buf.WriteString("\x1b[H")

	r.drawRows(f.Buffer, vp)
	r.drawStatusBar(f.Buffer, f.Cursor, vp)
	r.drawMessage(f.Message, f.Now, vp)

	// Position the cursor.
	fmt.Fprintf(&r.buf, "\x1b[%d;%dH", f.Cursor.Line-vp.RowOffset+1, f.Cursor.Col-vp.ColOffset+1)

	// Show cursor.
	r.buf.WriteString("\x1b[?25h")
	return r.buf.Bytes()
}

func (r *Renderer) drawRows(b *Buffer, vp *Viewport) {
	for i := 0; i < vp.Rows; i++ {
		fileRow := i + vp.RowOffset
		switch {
		case fileRow < b.LineCount():
			line := b.Line(fileRow)
			if len(line) > vp.ColOffset {
				end := min(len(line), vp.ColOffset+vp.Cols)
				r.buf.WriteString(line[vp.ColOffset:end])
			}
		case b.LineCount() == 0 && i == vp.Rows/3:
			r.drawWelcome(vp.Cols)
		default:
			r.buf.WriteByte('~')
		}
		r.buf.WriteString("\x1b[K")
		r.buf.WriteString("\r\n")
	}
}

func (r *Renderer) drawWelcome(cols int) {
	welcome := "Textor editor -- version " + Version
	if len(welcome) > cols {
		welcome = welcome[:cols]
	}
	padding := (cols - len(welcome)) / 2
	if padding > 0 {
		r.buf.WriteByte('~')
		padding--
	}
	r.buf.WriteString(strings.Repeat(" ", padding))
	r.buf.WriteString(welcome)
}

func (r *Renderer) drawStatusBar(b *Buffer, c Cursor, vp *Viewport) {
	// Reverse video for status bar.
	r.buf.WriteString("\x1b[7m")
	r.buf.WriteString(fitWidth(formatStatus(b.Filename, b.LineCount(), c, b.Dirty), vp.Cols))
	r.buf.WriteString("\x1b[m")
	r.buf.WriteString("\r\n")
}

func (r *Renderer) drawMessage(m StatusMessage, now time.Time, vp *Viewport) {
	r.buf.WriteString("\x1b[K")
	if m.Visible(now) {
		r.buf.WriteString(runewidth.Truncate(m.Text, vp.Cols, ""))
	}
}
