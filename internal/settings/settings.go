// Package settings holds the user's preferences and persists them as a
// YAML file under the XDG config directory.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings is the flat preference record.
type Settings struct {
	AutoStartBreak       bool   `yaml:"autoStartBreak"`
	AutoStartStudy       bool   `yaml:"autoStartStudy"`
	SoundNotifications   bool   `yaml:"soundNotifications"`
	DesktopNotifications bool   `yaml:"desktopNotifications"`
	DefaultPaperStyle    string `yaml:"defaultPaperStyle"`
	DefaultPaperColor    string `yaml:"defaultPaperColor"`
	DefaultViewMode      string `yaml:"defaultViewMode"`

	ShortBreakMinutes int `yaml:"shortBreakMinutes"`
	LongBreakMinutes  int `yaml:"longBreakMinutes"`
	LongBreakInterval int `yaml:"longBreakInterval"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		AutoStartBreak:       true,
		AutoStartStudy:       false,
		SoundNotifications:   true,
		DesktopNotifications: true,
		DefaultPaperStyle:    "blank",
		DefaultPaperColor:    "white",
		DefaultViewMode:      "document",
		ShortBreakMinutes:    5,
		LongBreakMinutes:     15,
		LongBreakInterval:    4,
	}
}

// Normalize replaces out-of-range values with their defaults.
func (s Settings) Normalize() Settings {
	d := Defaults()
	if s.ShortBreakMinutes <= 0 {
		s.ShortBreakMinutes = d.ShortBreakMinutes
	}
	if s.LongBreakMinutes <= 0 {
		s.LongBreakMinutes = d.LongBreakMinutes
	}
	if s.LongBreakInterval <= 0 {
		s.LongBreakInterval = d.LongBreakInterval
	}
	if s.DefaultPaperStyle == "" {
		s.DefaultPaperStyle = d.DefaultPaperStyle
	}
	if s.DefaultPaperColor == "" {
		s.DefaultPaperColor = d.DefaultPaperColor
	}
	if s.DefaultViewMode == "" {
		s.DefaultViewMode = d.DefaultViewMode
	}
	return s
}

// DefaultPath resolves the settings file path:
// 1. STUDYDESK_SETTINGS
// 2. $XDG_CONFIG_HOME/studydesk/settings.yaml (os.UserConfigDir)
func DefaultPath() (string, error) {
	if p := os.Getenv("STUDYDESK_SETTINGS"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "studydesk", "settings.yaml"), nil
}

// Load reads settings from path. A missing file yields defaults with no
// error. A file that fails to parse also yields defaults, and the parse
// error is returned so the caller can report it.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read settings: %w", err)
	}

	// Unset keys keep their default values.
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s.Normalize(), nil
}

// Save writes settings to path, replacing the file atomically.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Store is the in-process owner of the settings record. Consumers get the
// current value with Get and changes through Subscribe; nothing reads the
// file behind the store's back.
type Store struct {
	mu   sync.Mutex
	path string
	cur  Settings
	subs []func(Settings)
}

// Open loads the settings at path into a Store. Corrupt files are logged
// and replaced by defaults in memory; the file is left untouched until the
// next Update.
func Open(path string) *Store {
	s, err := Load(path)
	if err != nil {
		slog.Warn("settings unreadable, using defaults", "path", path, "err", err)
	}
	return &Store{path: path, cur: s}
}

// NewMemory returns a Store that never touches the filesystem.
func NewMemory(s Settings) *Store {
	return &Store{cur: s.Normalize()}
}

// Path returns the backing file path ("" for in-memory stores).
func (st *Store) Path() string {
	return st.path
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cur
}

// Subscribe registers fn to receive every committed change. fn is called
// synchronously after the store's lock is released.
func (st *Store) Subscribe(fn func(Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subs = append(st.subs, fn)
}

// Update applies fn to a copy of the current settings, saves the result
// and notifies subscribers. On a save error the in-memory value is left
// unchanged.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	next := st.cur
	fn(&next)
	next = next.Normalize()

	if st.path != "" {
		if err := Save(st.path, next); err != nil {
			st.mu.Unlock()
			return err
		}
	}
	st.cur = next
	subs := append([]func(Settings){}, st.subs...)
	st.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
	return nil
}
