// Package store holds the client-local persistence: the session
// record, cosmetic UI preferences and the last-screen TUI state. All
// of it is best effort — a corrupted file reads as "nothing stored".
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"taskflow-cli/internal/model"
)

const sessionFileName = "session.json"

type Store struct {
	// Dir is the config directory (e.g. ~/.config/taskflow).
	Dir string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: empty dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sessionPath() string {
	return filepath.Join(s.Dir, sessionFileName)
}

// LoadSession returns the persisted session, or nil when there is
// none. Corrupt JSON fails open to the logged-out state: a broken
// file must never lock the user out of the login screen.
func (s Store) LoadSession() (*model.Session, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(s.sessionPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, nil
	}
	if strings.TrimSpace(sess.Login) == "" {
		return nil, nil
	}
	return &sess, nil
}

func (s Store) SaveSession(sess *model.Session) error {
	if sess == nil {
		return s.ClearSession()
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	path := s.sessionPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s Store) ClearSession() error {
	err := os.Remove(s.sessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// DefaultDir resolves the config directory, honoring
// TASKFLOW_CONFIG_DIR for tests and unusual setups.
func DefaultDir() string {
	if dir := strings.TrimSpace(os.Getenv("TASKFLOW_CONFIG_DIR")); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "taskflow")
}
