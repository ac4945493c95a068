package app

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestInitialState(t *testing.T) {
	s := NewState()
	require.Equal(t, ModeOperator, s.Mode())
	require.False(t, s.CanEdit())
	require.False(t, s.GroupsMode())
	require.False(t, s.ResizeMode())
	require.Equal(t, DraftIdle, s.Draft().Phase)
	require.Equal(t, uuid.Nil, s.SelectedNode())
}

func TestToggleMode(t *testing.T) {
	s := NewState()
	var modes []Mode
	s.On(EventModeChanged, func(data interface{}) {
		modes = append(modes, data.(Mode))
	})

	s.ToggleMode()
	require.Equal(t, ModeConfiguration, s.Mode())
	require.True(t, s.CanEdit())

	s.ToggleMode()
	require.Equal(t, ModeOperator, s.Mode())

	require.Equal(t, []Mode{ModeConfiguration, ModeOperator}, modes)
}

func TestSetModeSameIsSilent(t *testing.T) {
	s := NewState()
	fired := 0
	s.On(EventModeChanged, func(interface{}) { fired++ })

	s.SetMode(ModeOperator)
	require.Zero(t, fired)
}

func TestLeavingConfigurationDropsSubModes(t *testing.T) {
	s := NewState()
	s.SetMode(ModeConfiguration)
	s.SetGroupsMode(true)
	s.SetResizeMode(true)

	s.SetMode(ModeOperator)

	require.False(t, s.GroupsMode())
	require.False(t, s.ResizeMode())
}

func TestGroupsModeIgnoredInOperator(t *testing.T) {
	s := NewState()
	s.SetGroupsMode(true)
	require.False(t, s.GroupsMode())

	s.SetMode(ModeConfiguration)
	s.SetGroupsMode(true)
	require.True(t, s.GroupsMode())
}

func TestDraftMachine(t *testing.T) {
	s := NewState()
	s.SetMode(ModeConfiguration)
	start := uuid.New()

	// Idle completion is a no-op.
	_, ok := s.CompleteDraft()
	require.False(t, ok)

	s.StartDraft(start)
	require.Equal(t, DraftAwaitingSecond, s.Draft().Phase)
	require.Equal(t, start, s.Draft().Start)

	got, ok := s.CompleteDraft()
	require.True(t, ok)
	require.Equal(t, start, got)
	require.Equal(t, DraftIdle, s.Draft().Phase)
}

func TestDraftCancelledByModeSwitch(t *testing.T) {
	s := NewState()
	s.SetMode(ModeConfiguration)
	s.StartDraft(uuid.New())

	s.SetMode(ModeOperator)
	require.Equal(t, DraftIdle, s.Draft().Phase)

	_, ok := s.CompleteDraft()
	require.False(t, ok)
}

func TestDraftCancelledBySaveLoad(t *testing.T) {
	s := NewState()
	s.SetMode(ModeConfiguration)
	s.StartDraft(uuid.New())

	// Save and load both record a file path.
	s.SetFilePath("/tmp/map.json")
	require.Equal(t, DraftIdle, s.Draft().Phase)
}

func TestCancelDraftEventOnlyWhenActive(t *testing.T) {
	s := NewState()
	s.SetMode(ModeConfiguration)

	fired := 0
	s.On(EventDraftChanged, func(interface{}) { fired++ })

	s.CancelDraft()
	require.Zero(t, fired)

	s.StartDraft(uuid.New())
	s.CancelDraft()
	require.Equal(t, 2, fired) // start + cancel
}

func TestSetFilePathClearsDirty(t *testing.T) {
	s := NewState()
	s.SetModified(true)
	require.True(t, s.Modified())

	s.SetFilePath("/tmp/map.json")
	require.False(t, s.Modified())
	require.Equal(t, "/tmp/map.json", s.FilePath())
}

func TestSelection(t *testing.T) {
	s := NewState()
	fired := 0
	s.On(EventSelectionChanged, func(interface{}) { fired++ })

	id := uuid.New()
	s.SelectNode(id)
	require.Equal(t, id, s.SelectedNode())

	s.SelectNode(id) // same id is silent
	require.Equal(t, 1, fired)

	s.SelectNode(uuid.Nil)
	require.Equal(t, uuid.Nil, s.SelectedNode())
	require.Equal(t, 2, fired)
}

func TestDarkToggle(t *testing.T) {
	s := NewState()
	fired := 0
	s.On(EventThemeChanged, func(interface{}) { fired++ })

	s.SetDark(true)
	require.True(t, s.Dark())
	s.SetDark(true)
	require.Equal(t, 1, fired)
}
