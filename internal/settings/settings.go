// Package settings persists process-scoped preferences as a line-oriented
// key=value file. Unknown lines are preserved verbatim on rewrite so the
// file can be shared with older and newer versions of the application.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Recognized keys.
const (
	KeyHideLegend                = "HIDE_LEGEND"
	KeyWindowGeometry            = "WINDOW_GEOMETRY"
	KeyHideOperatorGuidance      = "hide_operator_guidance"
	KeyHideConfigurationGuidance = "hide_configuration_guidance"
)

type line struct {
	raw string
	key string // empty for lines that are not key=value
}

// Store holds the settings file contents. Written by the UI thread only.
type Store struct {
	path   string
	lines  []line
	values map[string]string
	dirty  bool
}

// Load reads the settings file at path. A missing file yields an empty
// store; read errors are logged and otherwise ignored to keep the
// application usable.
func Load(path string) *Store {
	s := &Store{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("could not read settings", "path", path, "err", err)
		}
		return s
	}
	for _, raw := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		key := ""
		if i := strings.IndexByte(raw, '='); i > 0 {
			key = raw[:i]
			s.values[key] = raw[i+1:]
		}
		s.lines = append(s.lines, line{raw: raw, key: key})
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key, or "" if unset.
func (s *Store) Get(key string) string {
	return s.values[key]
}

// Set stores a value. New keys are appended as new lines on save.
func (s *Store) Set(key, value string) {
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	found := false
	for i := range s.lines {
		if s.lines[i].key == key {
			s.lines[i].raw = key + "=" + value
			found = true
		}
	}
	if !found {
		s.lines = append(s.lines, line{raw: key + "=" + value, key: key})
	}
	s.dirty = true
}

// Bool returns true when the key's value is "1".
func (s *Store) Bool(key string) bool {
	return s.Get(key) == "1"
}

// SetBool stores "1" or "0".
func (s *Store) SetBool(key string, v bool) {
	if v {
		s.Set(key, "1")
	} else {
		s.Set(key, "0")
	}
}

// Dirty reports whether the store has unsaved changes.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Save rewrites the file, preserving unknown lines in their original
// positions. Errors are returned but callers typically just log them.
func (s *Store) Save() error {
	var sb strings.Builder
	for _, l := range s.lines {
		sb.WriteString(l.raw)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.dirty = false
	return nil
}

// SaveIfDirty flushes pending changes, logging failures.
func (s *Store) SaveIfDirty() {
	if !s.dirty {
		return
	}
	if err := s.Save(); err != nil {
		slog.Warn("could not save settings", "path", s.path, "err", err)
	}
}
