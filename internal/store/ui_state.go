package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const uiStateDBName = "ui_state.db"
const uiStateKey = "ui_state"

// UIState restores the last screen on relaunch. Best effort: callers
// must tolerate missing/invalid data and fall back to defaults.
type UIState struct {
	Version int `json:"version"`

	// View is the view name of the app shell (dashboard, projects, ...).
	View string `json:"view,omitempty"`

	// DepartmentFilter is the explicitly selected department (privileged
	// roles only); 0 means "all".
	DepartmentFilter int64 `json:"departmentFilter,omitempty"`

	// Page stores the 1-based page per list name.
	Page map[string]int `json:"page,omitempty"`

	// CalendarMode is day|week|month; CalendarCursor is YYYY-MM-DD.
	CalendarMode   string `json:"calendarMode,omitempty"`
	CalendarCursor string `json:"calendarCursor,omitempty"`
}

func defaultUIState() *UIState {
	return &UIState{Version: 1}
}

func (s Store) uiStatePath() string {
	return filepath.Join(filepath.Clean(s.Dir), uiStateDBName)
}

func (s Store) openUIStateDB(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.uiStatePath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s Store) LoadUIState(ctx context.Context) (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return defaultUIState(), nil
	}
	db, err := s.openUIStateDB(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, uiStateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultUIState(), nil
	}
	if err != nil {
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// Best-effort; treat corrupted state as missing.
		return defaultUIState(), nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveUIState(ctx context.Context, st *UIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	db, err := s.openUIStateDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		uiStateKey, string(b))
	return err
}
