// Package session persists the shell's last presentation state so a
// restart can re-enter the same layout with the same chrome overrides.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite
)

// ShellState is the snapshot written on layout changes and restored on
// startup. It deliberately excludes page state; tabs and navigation
// belong to their own subsystems.
type ShellState struct {
	SessionID         string    `json:"session_id"`
	LayoutKind        string    `json:"layout_kind"`
	PermanentlyHidden bool      `json:"permanently_hidden"`
	OverlayVideo      bool      `json:"overlay_video"`
	Version           int       `json:"version"`
	SavedAt           time.Time `json:"saved_at"`
}

// NewState creates a snapshot for a fresh session.
func NewState(layoutKind string) *ShellState {
	return &ShellState{
		SessionID:  uuid.NewString(),
		LayoutKind: layoutKind,
		Version:    1,
		SavedAt:    time.Now(),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS shell_state (
	session_id TEXT PRIMARY KEY,
	state_json TEXT NOT NULL,
	layout_kind TEXT NOT NULL,
	version INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shell_state_updated_at ON shell_state(updated_at);
`

// Store persists shell state snapshots in sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path. Use ":memory:"
// for an ephemeral store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("create session schema: %w", err), closeErr)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes or updates a snapshot.
func (s *Store) Save(ctx context.Context, state *ShellState) error {
	if state == nil {
		return errors.New("shell state cannot be nil")
	}
	if state.SessionID == "" {
		return errors.New("shell state needs a session id")
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal shell state: %w", err)
	}

	const q = `
INSERT INTO shell_state (session_id, state_json, layout_kind, version, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
	state_json = excluded.state_json,
	layout_kind = excluded.layout_kind,
	version = excluded.version,
	updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, q,
		state.SessionID, string(stateJSON), state.LayoutKind, state.Version, state.SavedAt)
	if err != nil {
		return fmt.Errorf("upsert shell state: %w", err)
	}
	return nil
}

// Load returns the snapshot for sessionID, or (nil, nil) when none
// exists.
func (s *Store) Load(ctx context.Context, sessionID string) (*ShellState, error) {
	const q = `SELECT state_json FROM shell_state WHERE session_id = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, q, sessionID))
}

// Latest returns the most recently saved snapshot, or (nil, nil) when
// the store is empty.
func (s *Store) Latest(ctx context.Context) (*ShellState, error) {
	const q = `SELECT state_json FROM shell_state ORDER BY updated_at DESC LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, q))
}

// Delete removes a session's snapshot. Unknown ids are no-ops.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM shell_state WHERE session_id = ?`
	if _, err := s.db.ExecContext(ctx, q, sessionID); err != nil {
		return fmt.Errorf("delete shell state: %w", err)
	}
	return nil
}

func (s *Store) scanOne(row *sql.Row) (*ShellState, error) {
	var stateJSON string
	if err := row.Scan(&stateJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var state ShellState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, fmt.Errorf("unmarshal shell state: %w", err)
	}
	return &state, nil
}
