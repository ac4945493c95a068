// Package app holds UI-facing application state: the interaction modes,
// the connection draft machine, selection, and the current document path.
package app

import (
	"sync"

	"github.com/google/uuid"
)

// Mode is the top-level interaction mode.
type Mode int

const (
	// ModeOperator is read-and-probe: scene mutation is disabled.
	ModeOperator Mode = iota
	// ModeConfiguration enables authoring: editors, drags, deletes.
	ModeConfiguration
)

func (m Mode) String() string {
	if m == ModeConfiguration {
		return "Configuration"
	}
	return "Operator"
}

// EventType identifies state-change events.
type EventType int

const (
	EventModeChanged EventType = iota
	EventGroupsModeChanged
	EventResizeModeChanged
	EventDraftChanged
	EventSelectionChanged
	EventFileChanged
	EventModified
	EventThemeChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// DraftPhase is the connection-creation state machine phase.
type DraftPhase int

const (
	DraftIdle DraftPhase = iota
	DraftAwaitingSecond
)

// ConnectionDraft tracks a two-step connection creation.
type ConnectionDraft struct {
	Phase DraftPhase
	Start uuid.UUID // valid when Phase == DraftAwaitingSecond
}

// State is the application-level interaction state. All mutation happens
// on the UI thread; the mutex guards reads from probe callbacks.
type State struct {
	mu sync.RWMutex

	mode       Mode
	groupsMode bool
	resizeMode bool
	draft      ConnectionDraft

	selectedNode  uuid.UUID
	selectedGroup uuid.UUID

	filePath string
	modified bool

	dark bool

	listeners map[EventType][]EventListener
}

// NewState creates state in Operator mode with nothing selected.
func NewState() *State {
	return &State{
		mode:      ModeOperator,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Mode returns the current interaction mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// CanEdit reports whether scene-mutating input is allowed.
func (s *State) CanEdit() bool {
	return s.Mode() == ModeConfiguration
}

// SetMode switches modes. Any in-flight connection draft is cancelled, and
// leaving Configuration drops the groups and resize sub-modes.
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	if s.mode == m {
		s.mu.Unlock()
		return
	}
	s.mode = m
	s.draft = ConnectionDraft{}
	if m == ModeOperator {
		s.groupsMode = false
		s.resizeMode = false
	}
	s.mu.Unlock()

	s.Emit(EventDraftChanged, s.Draft())
	s.Emit(EventModeChanged, m)
}

// ToggleMode flips between Operator and Configuration.
func (s *State) ToggleMode() {
	if s.Mode() == ModeOperator {
		s.SetMode(ModeConfiguration)
	} else {
		s.SetMode(ModeOperator)
	}
}

// GroupsMode reports whether left-drag draws group rectangles.
func (s *State) GroupsMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groupsMode
}

// SetGroupsMode toggles the groups sub-mode. Only meaningful in
// Configuration; ignored in Operator.
func (s *State) SetGroupsMode(on bool) {
	s.mu.Lock()
	if s.mode != ModeConfiguration || s.groupsMode == on {
		s.mu.Unlock()
		return
	}
	s.groupsMode = on
	s.mu.Unlock()
	s.Emit(EventGroupsModeChanged, on)
}

// ResizeMode reports whether group corner handles receive drags.
func (s *State) ResizeMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resizeMode
}

// SetResizeMode toggles group resizing. While on, drawing and selecting
// groups is suppressed.
func (s *State) SetResizeMode(on bool) {
	s.mu.Lock()
	if s.resizeMode == on {
		s.mu.Unlock()
		return
	}
	s.resizeMode = on
	s.mu.Unlock()
	s.Emit(EventResizeModeChanged, on)
}

// Draft returns the current connection draft.
func (s *State) Draft() ConnectionDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// StartDraft enters AwaitingSecond with the given start node.
func (s *State) StartDraft(start uuid.UUID) {
	s.mu.Lock()
	s.draft = ConnectionDraft{Phase: DraftAwaitingSecond, Start: start}
	s.mu.Unlock()
	s.Emit(EventDraftChanged, s.Draft())
}

// CompleteDraft returns the draft's start node and resets to Idle.
// The second return is false when no draft was in flight.
func (s *State) CompleteDraft() (uuid.UUID, bool) {
	s.mu.Lock()
	d := s.draft
	s.draft = ConnectionDraft{}
	s.mu.Unlock()
	if d.Phase != DraftAwaitingSecond {
		return uuid.Nil, false
	}
	s.Emit(EventDraftChanged, s.Draft())
	return d.Start, true
}

// CancelDraft returns to Idle silently. Safe to call when already idle.
func (s *State) CancelDraft() {
	s.mu.Lock()
	wasActive := s.draft.Phase != DraftIdle
	s.draft = ConnectionDraft{}
	s.mu.Unlock()
	if wasActive {
		s.Emit(EventDraftChanged, s.Draft())
	}
}

// SelectedNode returns the selected node's ID, or uuid.Nil.
func (s *State) SelectedNode() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedNode
}

// SelectNode marks a node as selected (uuid.Nil clears).
func (s *State) SelectNode(id uuid.UUID) {
	s.mu.Lock()
	if s.selectedNode == id {
		s.mu.Unlock()
		return
	}
	s.selectedNode = id
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, id)
}

// SelectedGroup returns the selected group's ID, or uuid.Nil. Only the
// selected group shows resize handles.
func (s *State) SelectedGroup() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedGroup
}

// SelectGroup marks a group as selected (uuid.Nil clears).
func (s *State) SelectGroup(id uuid.UUID) {
	s.mu.Lock()
	if s.selectedGroup == id {
		s.mu.Unlock()
		return
	}
	s.selectedGroup = id
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, id)
}

// FilePath returns the path of the currently open map, or "".
func (s *State) FilePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filePath
}

// SetFilePath records the current map path and clears the dirty flag.
// Also cancels any connection draft, as save and load both do.
func (s *State) SetFilePath(path string) {
	s.mu.Lock()
	s.filePath = path
	s.modified = false
	s.draft = ConnectionDraft{}
	s.mu.Unlock()
	s.Emit(EventDraftChanged, s.Draft())
	s.Emit(EventFileChanged, path)
}

// Modified reports whether the scene has unsaved changes.
func (s *State) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Dark reports whether the dark theme variant is active.
func (s *State) Dark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// SetDark switches the theme variant.
func (s *State) SetDark(dark bool) {
	s.mu.Lock()
	if s.dark == dark {
		s.mu.Unlock()
		return
	}
	s.dark = dark
	s.mu.Unlock()
	s.Emit(EventThemeChanged, dark)
}
