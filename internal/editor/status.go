package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// MessageTimeout is how long a status message stays on screen.
const MessageTimeout = 5 * time.Second

// StatusMessage is a transient message shown below the status bar.
type StatusMessage struct {
	Text string
	Time time.Time
}

// Visible reports whether the message should still be drawn at now. A
// message stamped after now is hidden, so a clock stepping backwards cannot
// pin it on screen.
func (m StatusMessage) Visible(now time.Time) bool {
	age := now.Sub(m.Time)
	return m.Text != "" && age >= 0 && age < MessageTimeout
}

// formatStatus returns the status bar text, before padding.
func formatStatus(filename string, lineCount int, c Cursor, dirty bool) string {
	name := filename
	if name == "" {
		name = "[New File]"
	}
	s := fmt.Sprintf("%s - total: %d lines current: (%d, %d)", name, lineCount, c.Line, c.Col)
	if dirty {
		s += " (modified)"
	}
	return s
}

// fitWidth truncates s to width display cells, then pads it with spaces
// out to width.
func fitWidth(s string, width int) string {
	s = runewidth.Truncate(s, width, "")
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}
