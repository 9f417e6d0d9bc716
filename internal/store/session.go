package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hackspace/internal/model"
	"hackspace/internal/workspace"
)

// SessionState is what gets persisted between runs for one workspace.
type SessionState struct {
	Workspace string            `json:"workspace"`
	Tabs      []model.TabEntry  `json:"tabs"`
	Active    string            `json:"active,omitempty"`
	Expanded  []string          `json:"expanded"`
	Buffers   map[string]string `json:"buffers,omitempty"`
	// Stored is saved content for files with no disk location.
	Stored    map[string]string `json:"stored,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// LoadSession returns the saved session for workspace. ok is false when nothing was saved yet.
func (s Store) LoadSession(ctx context.Context, workspace string) (*SessionState, bool, error) {
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		return nil, false, errors.New("load session: empty workspace key")
	}
	db, release, err := s.openSQLite(ctx)
	if err != nil {
		return nil, false, err
	}
	defer release()

	var active, expandedJSON string
	var updatedMs int64
	err = db.QueryRowContext(ctx, `SELECT active_tab, expanded_json, updated_at_unixms FROM sessions WHERE workspace = ?`, workspace).
		Scan(&active, &expandedJSON, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	st := &SessionState{
		Workspace: workspace,
		Active:    active,
		Tabs:      []model.TabEntry{},
		Expanded:  []string{},
		Buffers:   map[string]string{},
		Stored:    map[string]string{},
		UpdatedAt: time.UnixMilli(updatedMs).UTC(),
	}
	if err := json.Unmarshal([]byte(expandedJSON), &st.Expanded); err != nil {
		// Best-effort; a corrupt row just loses expansion state.
		st.Expanded = []string{}
	}

	rows, err := db.QueryContext(ctx, `SELECT name, language, has_errors, modified, path FROM tabs WHERE workspace = ? ORDER BY pos ASC`, workspace)
	if err != nil {
		return nil, false, err
	}
	for rows.Next() {
		var t model.TabEntry
		var hasErrors, modified int
		if err := rows.Scan(&t.Name, &t.Language, &hasErrors, &modified, &t.Path); err != nil {
			_ = rows.Close()
			return nil, false, err
		}
		t.HasErrors = hasErrors != 0
		t.Modified = modified != 0
		st.Tabs = append(st.Tabs, t)
	}
	// Close before the next query: an opened Store has a single connection.
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if err := readContents(ctx, db, `SELECT name, content FROM buffers WHERE workspace = ?`, workspace, st.Buffers); err != nil {
		return nil, false, err
	}
	if err := readContents(ctx, db, `SELECT name, content FROM stored_files WHERE workspace = ?`, workspace, st.Stored); err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func readContents(ctx context.Context, db *sql.DB, query, workspace string, into map[string]string) error {
	rows, err := db.QueryContext(ctx, query, workspace)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return err
		}
		into[name] = content
	}
	return rows.Err()
}

// SaveSession replaces the stored session for st.Workspace.
func (s Store) SaveSession(ctx context.Context, st *SessionState) error {
	if st == nil {
		return errors.New("save session: nil state")
	}
	workspace := strings.TrimSpace(st.Workspace)
	if workspace == "" {
		return errors.New("save session: empty workspace key")
	}
	db, release, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	expanded := st.Expanded
	if expanded == nil {
		expanded = []string{}
	}
	expandedJSON, err := json.Marshal(expanded)
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO sessions(workspace, active_tab, expanded_json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
		workspace, st.Active, string(expandedJSON), nowMs); err != nil {
		return err
	}

	// Replace-all: sessions are small.
	for _, t := range []string{"tabs", "buffers", "stored_files"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t+` WHERE workspace = ?`, workspace); err != nil {
			return err
		}
	}
	for i, t := range st.Tabs {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO tabs(workspace, pos, name, language, has_errors, modified, path) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			workspace, i, t.Name, t.Language, boolToInt(t.HasErrors), boolToInt(t.Modified), t.Path); err != nil {
			return fmt.Errorf("save tab %q: %w", t.Name, err)
		}
	}
	for name, content := range st.Buffers {
		if _, err := tx.ExecContext(ctx, `INSERT INTO buffers(workspace, name, content) VALUES(?, ?, ?)`, workspace, name, content); err != nil {
			return fmt.Errorf("save buffer %q: %w", name, err)
		}
	}
	for name, content := range st.Stored {
		if _, err := tx.ExecContext(ctx, `INSERT INTO stored_files(workspace, name, content) VALUES(?, ?, ?)`, workspace, name, content); err != nil {
			return fmt.Errorf("save file %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// DeleteSession forgets the saved session and journal for workspace.
func (s Store) DeleteSession(ctx context.Context, workspace string) error {
	db, release, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, t := range []string{"sessions", "tabs", "buffers", "stored_files", "events"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t+` WHERE workspace = ?`, workspace); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// StateFrom captures what SaveSession needs from a live controller.
func StateFrom(workspaceKey string, c *workspace.Controller) *SessionState {
	return &SessionState{
		Workspace: workspaceKey,
		Tabs:      c.Session().Tabs(),
		Active:    c.Session().Active(),
		Expanded:  c.Tree().ExpandedPaths(),
		Buffers:   c.DirtyBuffers(),
		Stored:    c.StoredFiles(),
	}
}
