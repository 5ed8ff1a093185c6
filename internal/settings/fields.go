package settings

import (
	"fmt"
	"strconv"
)

// Kind is the value type of a Field.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindEnum
)

// Field describes one settable key, named by its YAML key.
type Field struct {
	Key  string
	Help string
	Kind Kind
	// Options lists the allowed values of an enum field.
	Options []string

	get   func(Settings) string
	apply func(*Settings, string) error
}

// Next returns the value after the current one: the negation of a bool,
// the following option of an enum. Int fields have no next value.
func (f Field) Next(s Settings) (string, bool) {
	cur := f.get(s)
	switch f.Kind {
	case KindBool:
		return strconv.FormatBool(cur != "true"), true
	case KindEnum:
		for i, o := range f.Options {
			if o == cur {
				return f.Options[(i+1)%len(f.Options)], true
			}
		}
		if len(f.Options) > 0 {
			return f.Options[0], true
		}
	}
	return "", false
}

// Value returns the field's current value formatted for display.
func (f Field) Value(s Settings) string {
	return f.get(s)
}

func boolField(key, help string, ptr func(*Settings) *bool) Field {
	return Field{
		Key:  key,
		Help: help,
		Kind: KindBool,
		get:  func(s Settings) string { return strconv.FormatBool(*ptr(&s)) },
		apply: func(s *Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: want true or false, got %q", key, v)
			}
			*ptr(s) = b
			return nil
		},
	}
}

func intField(key, help string, ptr func(*Settings) *int) Field {
	return Field{
		Key:  key,
		Help: help,
		Kind: KindInt,
		get:  func(s Settings) string { return strconv.Itoa(*ptr(&s)) },
		apply: func(s *Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("%s: want a positive integer, got %q", key, v)
			}
			*ptr(s) = n
			return nil
		},
	}
}

func enumField(key, help string, allowed []string, ptr func(*Settings) *string) Field {
	return Field{
		Key:     key,
		Help:    help,
		Kind:    KindEnum,
		Options: allowed,
		get:     func(s Settings) string { return *ptr(&s) },
		apply: func(s *Settings, v string) error {
			for _, a := range allowed {
				if a == v {
					*ptr(s) = v
					return nil
				}
			}
			return fmt.Errorf("%s: want one of %v, got %q", key, allowed, v)
		},
	}
}

// Fields lists every settable key in display order.
var Fields = []Field{
	boolField("autoStartBreak", "start the break automatically after a study session",
		func(s *Settings) *bool { return &s.AutoStartBreak }),
	boolField("autoStartStudy", "start the next study session automatically after a break",
		func(s *Settings) *bool { return &s.AutoStartStudy }),
	boolField("soundNotifications", "ring the terminal bell on completion",
		func(s *Settings) *bool { return &s.SoundNotifications }),
	boolField("desktopNotifications", "send a desktop notification on completion",
		func(s *Settings) *bool { return &s.DesktopNotifications }),
	enumField("defaultPaperStyle", "note paper style", []string{"blank", "lined", "grid", "dotted"},
		func(s *Settings) *string { return &s.DefaultPaperStyle }),
	enumField("defaultPaperColor", "note paper color", []string{"white", "cream", "gray", "dark"},
		func(s *Settings) *string { return &s.DefaultPaperColor }),
	enumField("defaultViewMode", "material view mode", []string{"document", "split", "focus"},
		func(s *Settings) *string { return &s.DefaultViewMode }),
	intField("shortBreakMinutes", "short break length",
		func(s *Settings) *int { return &s.ShortBreakMinutes }),
	intField("longBreakMinutes", "long break length",
		func(s *Settings) *int { return &s.LongBreakMinutes }),
	intField("longBreakInterval", "study sessions between long breaks",
		func(s *Settings) *int { return &s.LongBreakInterval }),
}

// Lookup returns the field for key.
func Lookup(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Set parses value and assigns it to key.
func Set(s *Settings, key, value string) error {
	f, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	return f.apply(s, value)
}
