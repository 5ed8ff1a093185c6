// Package notify alerts the user from a terminal: a bell for sound and an
// OSC 777 escape for desktop notifications, which most modern terminal
// emulators turn into a system notification.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal writes notifications to a terminal.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal creates a notifier writing to w (usually os.Stderr).
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Notify(title, body string, sound, desktop bool) error {
	var b strings.Builder
	if desktop {
		fmt.Fprintf(&b, "\x1b]777;notify;%s;%s\x1b\\", clean(title), clean(body))
	}
	if sound {
		b.WriteByte('\a')
	}
	if b.Len() == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, b.String())
	return err
}

// clean strips characters that would end the escape sequence early.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ';':
			return ','
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}
