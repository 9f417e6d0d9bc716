package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	// Missing file => default state.
	st0, err := s.LoadTUIState()
	require.NoError(t, err)
	require.NotNil(t, st0)
	assert.Equal(t, 1, st0.Version)

	want := &TUIState{
		Version:      1,
		SidebarWidth: 42,
		ShowPreview:  true,
		Focus:        "editor",
		Cursor:       "src/App.jsx",
	}
	require.NoError(t, s.SaveTUIState(want))

	got, err := s.LoadTUIState()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTUIState_CorruptFileFallsBackToDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte("{nope"), 0o644))

	got, err := Store{Dir: dir}.LoadTUIState()
	require.NoError(t, err)
	assert.Equal(t, &TUIState{Version: 1}, got)
}

func TestTUIState_EmptyDirIsNoOp(t *testing.T) {
	t.Parallel()

	var s Store
	st, err := s.LoadTUIState()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Version)
	assert.NoError(t, s.SaveTUIState(&TUIState{SidebarWidth: 3}))
}
