package notify

import (
	"bytes"
	"testing"
)

func TestTerminalNotify(t *testing.T) {
	tests := []struct {
		name           string
		sound, desktop bool
		want           string
	}{
		{"both", true, true, "\x1b]777;notify;Done;Take a break\x1b\\\a"},
		{"sound only", true, false, "\a"},
		{"desktop only", false, true, "\x1b]777;notify;Done;Take a break\x1b\\"},
		{"neither", false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTerminal(&buf).Notify("Done", "Take a break", tt.sound, tt.desktop); err != nil {
				t.Fatalf("Notify() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Notify() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerminalNotifyEscapesFields(t *testing.T) {
	var buf bytes.Buffer
	_ = NewTerminal(&buf).Notify("a;b", "line\x1bone\n", false, true)
	want := "\x1b]777;notify;a,b;lineone\x1b\\"
	if got := buf.String(); got != want {
		t.Errorf("Notify() wrote %q, want %q", got, want)
	}
}
