package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const prefsFileName = "prefs.json"

// Prefs are cosmetic UI preferences. They never leave the machine.
type Prefs struct {
	Version int `json:"version"`

	// Locale is "ru" or "en"; only affects labels.
	Locale string `json:"locale,omitempty"`

	NotifyChat    bool `json:"notifyChat"`
	NotifyReports bool `json:"notifyReports"`
}

// DefaultPrefs returns the out-of-the-box preference set.
func DefaultPrefs() *Prefs {
	return &Prefs{Version: 1, Locale: "ru", NotifyChat: true, NotifyReports: true}
}

func (s Store) prefsPath() string {
	return filepath.Join(s.Dir, prefsFileName)
}

func (s Store) LoadPrefs() (*Prefs, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return DefaultPrefs(), nil
	}
	b, err := os.ReadFile(s.prefsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultPrefs(), nil
		}
		return nil, err
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		// Best-effort; if corrupted, fall back to defaults.
		return DefaultPrefs(), nil
	}
	if p.Version == 0 {
		p.Version = 1
	}
	if p.Locale == "" {
		p.Locale = "ru"
	}
	return &p, nil
}

func (s Store) SavePrefs(p *Prefs) error {
	if p == nil {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if p.Version == 0 {
		p.Version = 1
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	path := s.prefsPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
