package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrRestored is returned by Write once the terminal has left raw mode.
var ErrRestored = errors.New("terminal restored")

// replyTimeouts bounds how many empty reads cursorSize waits through for the
// cursor position report.
const replyTimeouts = 10

// Terminal manages raw mode, timed reads and terminal dimensions.
type Terminal struct {
	in       *os.File
	out      *os.File
	oldState *term.State

	// mu orders frame writes against Restore.
	mu       sync.Mutex
	restored bool

	// Size learned from the cursor position report when the window size
	// ioctl is unusable.
	fallbackW, fallbackH int
}

// Open switches in to raw mode with a 100ms read timeout. The returned
// Terminal must be released with Restore; Restore is safe to call more than
// once and from every exit path.
func Open(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	t := &Terminal{in: in, out: out, oldState: oldState}

	// MakeRaw leaves VMIN=1, which blocks forever. Poll instead so an idle
	// terminal hands control back every tenth of a second.
	if err := setReadTimeout(fd, 0, 1); err != nil {
		t.Restore()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	if _, _, err := t.Size(); err != nil {
		t.Restore()
		return nil, err
	}
	return t, nil
}

func setReadTimeout(fd int, vmin, vtime uint8) error {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return err
	}
	termios.Cc[unix.VMIN] = vmin
	termios.Cc[unix.VTIME] = vtime
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, termios)
}

// Size returns the current terminal width and height. When the window size
// ioctl fails or reports zero columns, the terminal is asked for the cursor
// position after moving to the bottom-right corner; that answer is kept for
// the rest of the session.
func (t *Terminal) Size() (width, height int, err error) {
	width, height, err = term.GetSize(int(t.out.Fd()))
	if err == nil && width > 0 && height > 0 {
		return width, height, nil
	}
	if t.fallbackW > 0 {
		return t.fallbackW, t.fallbackH, nil
	}
	if err == nil {
		err = fmt.Errorf("got %dx%d", width, height)
	}

	w, h, qerr := cursorSize(t)
	if qerr != nil {
		return 0, 0, fmt.Errorf("query terminal size: %v; cursor position: %w", err, qerr)
	}
	t.fallbackW, t.fallbackH = w, h
	return w, h, nil
}

// cursorSize pushes the cursor as far right and down as it goes, then reads
// the ESC[rows;colsR report.
func cursorSize(rw io.ReadWriter) (width, height int, err error) {
	if _, err := io.WriteString(rw, "\x1b[999C\x1b[999B\x1b[6n"); err != nil {
		return 0, 0, err
	}

	var reply []byte
	var b [1]byte
	timeouts := 0
	for {
		n, err := rw.Read(b[:])
		if err != nil {
			return 0, 0, err
		}
		if n == 0 {
			timeouts++
			if timeouts > replyTimeouts {
				return 0, 0, errors.New("no cursor position report")
			}
			continue
		}
		if b[0] == 'R' {
			break
		}
		reply = append(reply, b[0])
		if len(reply) >= 32 {
			return 0, 0, fmt.Errorf("malformed cursor position report %q", reply)
		}
	}

	if len(reply) < 2 || reply[0] != 0x1b || reply[1] != '[' {
		return 0, 0, fmt.Errorf("malformed cursor position report %q", reply)
	}
	if _, err := fmt.Sscanf(string(reply[2:]), "%d;%d", &height, &width); err != nil {
		return 0, 0, fmt.Errorf("parse cursor position report %q: %w", reply, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("cursor position report gave %dx%d", width, height)
	}
	return width, height, nil
}

// Read reads up to len(p) bytes, waiting at most one read timeout. It
// returns 0, nil when no byte arrived in time.
func (t *Terminal) Read(p []byte) (int, error) {
	n, err := unix.Read(int(t.in.Fd()), p)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Write writes raw bytes to the terminal. After Restore it writes nothing
// and returns ErrRestored.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.restored {
		return 0, ErrRestored
	}
	return t.out.Write(p)
}

// Restore returns the terminal to its original state. Only the first call
// has any effect. It waits for a Write in progress to finish.
func (t *Terminal) Restore() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.restored {
		return
	}
	t.restored = true

	// Show cursor.
	if t.out != nil {
		t.out.WriteString("\x1b[?25h")
	}
	if t.oldState != nil {
		term.Restore(int(t.in.Fd()), t.oldState)
	}
}
