package editor

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/JackWReid/textor/internal/terminal"
)

// Mode represents the dispatcher mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePromptFilename
)

// QuitTimes is how many extra Ctrl-Q presses it takes to quit with
// unsaved changes.
const QuitTimes = 2

const helpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit"

// Terminal is what the editor needs from the terminal: timed reads (0, nil
// on timeout), raw writes and the current size.
type Terminal interface {
	io.Reader
	io.Writer
	Size() (width, height int, err error)
}

// App is the top-level editor state.
type App struct {
	term     Terminal
	keys     *terminal.Decoder
	buf      *Buffer
	cursor   Cursor
	viewport *Viewport
	renderer *Renderer
	message  StatusMessage
	mode     Mode

	filename  string // Save-as input typed so far.
	quitTimes int
	quit      bool
	now       func() time.Time
}

// NewApp returns an editor for buf drawing to t. It fails only when the
// terminal size cannot be determined.
func NewApp(t Terminal, buf *Buffer) (*App, error) {
	return newApp(t, buf, time.Now)
}

func newApp(t Terminal, buf *Buffer, now func() time.Time) (*App, error) {
	w, h, err := t.Size()
	if err != nil {
		return nil, err
	}
	a := &App{
		term:      t,
		keys:      terminal.NewDecoder(t),
		buf:       buf,
		viewport:  NewViewport(w, h),
		renderer:  NewRenderer(),
		mode:      ModeNormal,
		quitTimes: QuitTimes,
		now:       now,
	}
	a.setMessage(helpMessage)
	return a, nil
}

// Run renders, reads a key and dispatches it until the user quits.
func (a *App) Run() error {
	for !a.quit {
		a.refresh()
		key, err := a.keys.Next()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		a.handleKey(key)
	}
	return nil
}

func (a *App) setMessage(format string, args ...any) {
	a.message = StatusMessage{Text: fmt.Sprintf(format, args...), Time: a.now()}
}

func (a *App) refresh() {
	if w, h, err := a.term.Size(); err != nil {
		log.Printf("keeping %dx%d viewport: %v", a.viewport.Cols, a.viewport.Rows+2, err)
	} else {
		a.viewport.Resize(w, h)
	}

	if a.mode == ModePromptFilename {
		a.setMessage("Save as: %s (Esc to cancel)", a.filename)
	}

	err := a.renderer.Flush(a.term, Frame{
		Buffer:   a.buf,
		Cursor:   a.cursor,
		Viewport: a.viewport,
		Message:  a.message,
		Now:      a.now(),
	})
	if err != nil {
		log.Printf("write frame: %v", err)
	}
}

func (a *App) handleKey(key terminal.Key) {
	switch a.mode {
	case ModeNormal:
		a.handleNormalKey(key)
	case ModePromptFilename:
		a.handlePromptKey(key)
	}
}

func (a *App) handleNormalKey(key terminal.Key) {
	switch key.Type {
	case terminal.KeyEnter:
		a.insertNewline()
	case terminal.KeyBackspace:
		a.deleteChar()
	case terminal.KeyCtrl:
		switch {
		case key.IsCtrl('q'):
			a.quitKey()
		case key.IsCtrl('s'):
			a.save()
		}
	case terminal.KeyUp:
		a.cursor.Move(Up, a.buf)
	case terminal.KeyDown:
		a.cursor.Move(Down, a.buf)
	case terminal.KeyLeft:
		a.cursor.Move(Left, a.buf)
	case terminal.KeyRight:
		a.cursor.Move(Right, a.buf)
	case terminal.KeyChar:
		a.insertChar(key.Byte)
	}
}

func (a *App) handlePromptKey(key terminal.Key) {
	switch key.Type {
	case terminal.KeyEscape:
		a.filename = ""
		a.mode = ModeNormal
		a.setMessage("Save aborted")
	case terminal.KeyEnter:
		if a.filename == "" {
			return
		}
		name := a.filename
		a.filename = ""
		a.mode = ModeNormal
		a.writeFile(name)
	case terminal.KeyBackspace:
		if n := len(a.filename); n > 0 {
			a.filename = a.filename[:n-1]
		}
	case terminal.KeyChar:
		if key.Byte < 128 {
			a.filename += string(rune(key.Byte))
		}
	}
}

// insertChar inserts a character at the cursor and advances the cursor.
func (a *App) insertChar(ch byte) {
	a.cursor.clampCol(a.buf)
	a.buf.InsertChar(a.cursor.Line, a.cursor.Col, ch)
	a.cursor.Col++
}

// insertNewline splits the current line at the cursor.
func (a *App) insertNewline() {
	a.cursor.clampCol(a.buf)
	if a.buf.SplitLine(a.cursor.Line, a.cursor.Col) {
		a.cursor.Line++
		a.cursor.Col = 0
	}
}

// deleteChar deletes the character before the cursor (backspace).
func (a *App) deleteChar() {
	line, col, ok := a.buf.DeleteCharBefore(a.cursor.Line, a.cursor.Col)
	if ok {
		a.cursor = Cursor{Line: line, Col: col}
	}
}

func (a *App) quitKey() {
	if a.buf.Dirty && a.quitTimes > 0 {
		a.setMessage("WARNING!!! File has unsaved changes. Press Ctrl-S to save or Ctrl-Q %d more times to quit.", a.quitTimes)
		a.quitTimes--
		return
	}
	if _, err := io.WriteString(a.term, "\x1b[2J\x1b[H"); err != nil {
		log.Printf("clear screen: %v", err)
	}
	a.quit = true
}

func (a *App) save() {
	if a.buf.Filename == "" {
		a.mode = ModePromptFilename
		a.filename = ""
		return
	}
	a.writeFile(a.buf.Filename)
}

func (a *App) writeFile(name string) {
	if err := a.buf.Save(name); err != nil {
		log.Printf("save %s: %v", name, err)
		a.setMessage("Can't save! I/O error: %v", err)
		return
	}
	log.Printf("saved %d lines to %s", a.buf.LineCount(), name)
	a.quitTimes = QuitTimes
	a.setMessage("Save to %s successful!", name)
}
