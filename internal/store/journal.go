package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"hackspace/internal/model"
	"hackspace/internal/workspace"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventRecord is one journal row.
type EventRecord struct {
	ID        string          `json:"id" yaml:"id"`
	Seq       int64           `json:"seq" yaml:"seq"`
	Type      string          `json:"type" yaml:"type"`
	Subject   string          `json:"subject" yaml:"subject"`
	Payload   json.RawMessage `json:"payload,omitempty" yaml:"-"`
	ActiveTab string          `json:"activeTab,omitempty" yaml:"activeTab,omitempty"`
	OpenTabs  int             `json:"openTabs" yaml:"openTabs"`
	IssuedAt  time.Time       `json:"issuedAt" yaml:"issuedAt"`
}

// AppendEvent writes ev to the journal of workspaceKey along with a summary of the snapshot
// it produced. Edited content is not journaled, only its length.
func (s Store) AppendEvent(ctx context.Context, workspaceKey string, ev workspace.Event, snap model.Snapshot) error {
	payload := ev
	if ev.Type == workspace.EventFileEdited {
		payload.Content = ""
	}
	pb, err := json.Marshal(struct {
		workspace.Event
		ContentLength int `json:"contentLength,omitempty"`
	}{Event: payload, ContentLength: len(ev.Content)})
	if err != nil {
		return err
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

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE workspace = ?`, workspaceKey).Scan(&seq); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO events(event_id, workspace, type, subject, payload_json, active_tab, open_tabs, issued_at_unixms, seq) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), workspaceKey, string(ev.Type), ev.Subject(), string(pb), snap.ActiveTab, len(snap.OpenTabs), time.Now().UTC().UnixMilli(), seq); err != nil {
		return err
	}
	return tx.Commit()
}

// ReadEventsTail returns the last limit events (oldest first). limit <= 0 returns all.
func (s Store) ReadEventsTail(ctx context.Context, workspaceKey string, limit int) ([]EventRecord, error) {
	db, release, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	q := `SELECT event_id, seq, type, subject, payload_json, active_tab, open_tabs, issued_at_unixms
	      FROM events
	      WHERE workspace = ?
	      ORDER BY seq DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, workspaceKey, limit)
	} else {
		rows, err = db.QueryContext(ctx, q, workspaceKey)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var r EventRecord
		var payloadJSON string
		var tsMs int64
		if err := rows.Scan(&r.ID, &r.Seq, &r.Type, &r.Subject, &payloadJSON, &r.ActiveTab, &r.OpenTabs, &tsMs); err != nil {
			return nil, err
		}
		r.Payload = json.RawMessage(payloadJSON)
		r.IssuedAt = time.UnixMilli(tsMs).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []EventRecord{}
	}
	return out, nil
}

// Journal records controller events into the store. Write failures are logged, never
// propagated: losing a journal row must not break editing.
type Journal struct {
	Store     Store
	Workspace string
	Log       logrus.FieldLogger
}

func (j Journal) Observe(ev workspace.Event, snap model.Snapshot) {
	if strings.TrimSpace(j.Workspace) == "" {
		return
	}
	if err := j.Store.AppendEvent(context.Background(), j.Workspace, ev, snap); err != nil && j.Log != nil {
		j.Log.WithError(err).WithField("event", string(ev.Type)).Warn("journal append failed")
	}
}
