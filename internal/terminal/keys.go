package terminal

import "io"

// KeyType identifies the kind of a decoded key.
type KeyType int

// Key types.
const (
	KeyChar      KeyType = iota // Printable byte
	KeyCtrl                     // Control byte without a dedicated type
	KeyEscape                   // Escape key (standalone or swallowed sequence)
	KeyEnter                    // Enter/Return
	KeyBackspace                // Backspace/Ctrl-H
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
)

func (k KeyType) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyCtrl:
		return "ctrl"
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	}
	return "unknown"
}

// Key is a single logical keypress. Byte holds the raw input byte for
// KeyChar, KeyCtrl and KeyBackspace.
type Key struct {
	Type KeyType
	Byte byte
}

const (
	byteEscape    = 27
	byteEnter     = '\r'
	byteBackspace = 127
)

// Ctrl returns the control byte produced by Ctrl+k.
func Ctrl(k byte) byte {
	return k & 0x1f
}

// IsCtrl reports whether key is the Ctrl+k chord.
func (key Key) IsCtrl(k byte) bool {
	return key.Type == KeyCtrl && key.Byte == Ctrl(k)
}

type decodeState int

const (
	statePlain   decodeState = iota
	stateEscape              // saw ESC
	stateBracket             // saw ESC [
	stateDiscard             // saw ESC <not [>, sequence will be dropped
)

// Decoder turns raw terminal bytes into Keys. A read that returns no bytes
// and no error is treated as a timeout; io.EOF is a real error.
type Decoder struct {
	r   io.Reader
	buf [1]byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next blocks until a key is available. Timeouts while waiting for the
// first byte are retried; the only errors returned come from the reader.
func (d *Decoder) Next() (Key, error) {
	var b byte
	for {
		ok, err := d.readByte()
		if err != nil {
			return Key{}, err
		}
		if ok {
			b = d.buf[0]
			break
		}
	}
	if b != byteEscape {
		return classify(b), nil
	}

	state := stateEscape
	for {
		ok, err := d.readByte()
		if err != nil {
			return Key{}, err
		}
		if !ok {
			// Lone ESC, or a sequence cut short: fail open.
			return Key{Type: KeyEscape}, nil
		}
		b = d.buf[0]

		switch state {
		case stateEscape:
			if b == '[' {
				state = stateBracket
			} else {
				state = stateDiscard
			}
		case stateBracket:
			switch b {
			case 'A':
				return Key{Type: KeyUp}, nil
			case 'B':
				return Key{Type: KeyDown}, nil
			case 'C':
				return Key{Type: KeyRight}, nil
			case 'D':
				return Key{Type: KeyLeft}, nil
			}
			return Key{Type: KeyEscape}, nil
		case stateDiscard:
			return Key{Type: KeyEscape}, nil
		}
	}
}

// readByte makes one read attempt. ok is false on timeout.
func (d *Decoder) readByte() (ok bool, err error) {
	n, err := d.r.Read(d.buf[:])
	if n == 1 {
		return true, nil
	}
	return false, err
}

func classify(b byte) Key {
	switch {
	case b == byteEnter:
		return Key{Type: KeyEnter, Byte: b}
	case b == byteBackspace || b == Ctrl('h'):
		return Key{Type: KeyBackspace, Byte: b}
	case b == byteEscape:
		return Key{Type: KeyEscape, Byte: b}
	case b < 32:
		return Key{Type: KeyCtrl, Byte: b}
	default:
		return Key{Type: KeyChar, Byte: b}
	}
}
