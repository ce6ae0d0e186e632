package editor

import (
	"os"
	"strings"
)

// Buffer holds the text content as a slice of lines (hard lines, split on \n).
// Columns are byte offsets: every byte is one cell.
type Buffer struct {
	lines    []string
	Dirty    bool
	Filename string
}

// NewBuffer returns an empty buffer with no lines.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferFromLines returns a clean buffer holding a copy of lines.
func NewBufferFromLines(lines []string) *Buffer {
	return &Buffer{lines: append([]string(nil), lines...)}
}

// Load reads a file into the buffer, replacing its content.
func (b *Buffer) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	text := string(data)
	// Strip trailing newline to avoid a phantom empty line.
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		b.lines = nil
	} else {
		b.lines = strings.Split(text, "\n")
		for i, l := range b.lines {
			b.lines[i] = strings.TrimSuffix(l, "\r")
		}
	}
	b.Filename = filename
	b.Dirty = false
	return nil
}

// Save writes every line, newline terminated, to filename. On success the
// buffer takes filename as its own and is no longer dirty.
func (b *Buffer) Save(filename string) error {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		return err
	}
	b.Filename = filename
	b.Dirty = false
	return nil
}

// InsertChar inserts ch at the given line and column. Addressing the line
// just past the end appends an empty line first.
func (b *Buffer) InsertChar(line, col int, ch byte) {
	if line == len(b.lines) {
		b.lines = append(b.lines, "")
	}
	if line < 0 || line >= len(b.lines) {
		return
	}
	s := b.lines[line]
	col = clamp(col, 0, len(s))
	b.lines[line] = s[:col] + string([]byte{ch}) + s[col:]
	b.Dirty = true
}

// DeleteCharBefore deletes the cell before (line, col). At column 0 the
// line is joined onto the previous one. It returns where the cursor belongs
// afterwards; ok is false when nothing was deleted.
func (b *Buffer) DeleteCharBefore(line, col int) (newLine, newCol int, ok bool) {
	if line < 0 || line >= len(b.lines) {
		return line, col, false
	}
	s := b.lines[line]
	if col > len(s) {
		col = len(s)
	}
	if col > 0 {
		b.lines[line] = s[:col-1] + s[col:]
		b.Dirty = true
		return line, col - 1, true
	}
	if line == 0 {
		return line, col, false
	}
	prevLen := len(b.lines[line-1])
	b.lines[line-1] += s
	b.lines = append(b.lines[:line], b.lines[line+1:]...)
	b.Dirty = true
	return line - 1, prevLen, true
}

// SplitLine breaks line at col; the tail becomes a new line directly below.
// It reports false, changing nothing, when line does not exist.
func (b *Buffer) SplitLine(line, col int) bool {
	if line < 0 || line >= len(b.lines) {
		return false
	}
	s := b.lines[line]
	col = clamp(col, 0, len(s))
	b.lines = append(b.lines, "")
	copy(b.lines[line+2:], b.lines[line+1:])
	b.lines[line] = s[:col]
	b.lines[line+1] = s[col:]
	b.Dirty = true
	return true
}

// Line returns the text of a given line, or "" when out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the cell length of a given line.
func (b *Buffer) LineLen(i int) int {
	return len(b.Line(i))
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Lines returns a copy of the buffer content.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
