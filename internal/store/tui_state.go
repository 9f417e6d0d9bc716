package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "ui_state.json"

// TUIState stores small layout preferences for restoring the editor screen on relaunch.
//
// It is best effort: callers should tolerate missing/invalid data.
type TUIState struct {
	Version int `json:"version"`

	// SidebarWidth is the file tree width in columns; 0 means "use the default".
	SidebarWidth int `json:"sidebarWidth,omitempty"`

	// ShowPreview renders markdown buffers instead of the raw editor.
	ShowPreview bool `json:"showPreview,omitempty"`

	// Focus is one of: tree|editor
	Focus string `json:"focus,omitempty"`

	// Cursor is the selected tree row, as a path.
	Cursor string `json:"cursor,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted => treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	if st.SidebarWidth < 0 {
		st.SidebarWidth = 0
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "ui_state.json.*.tmp", s.tuiStatePath(), b, 0o644)
}
