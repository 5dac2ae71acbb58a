package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-cli/internal/model"
)

func TestSessionRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	sess := &model.Session{ID: 2, Login: "pm", FullName: "ПМ", Role: model.RoleProjectManager, DepartmentID: 1}
	require.NoError(t, s.SaveSession(sess))

	got, err := s.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.Login, got.Login)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, sess.DepartmentID, got.DepartmentID)
}

func TestSessionMissingFileIsLoggedOut(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	got, err := s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCorruptJSONFailsOpen(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}
	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionFileName), []byte("{not json"), 0o600))

	got, err := s.LoadSession()
	require.NoError(t, err, "corrupt session must read as logged-out, not an error")
	assert.Nil(t, got)
}

func TestClearSession(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	require.NoError(t, s.SaveSession(&model.Session{ID: 1, Login: "x"}))
	require.NoError(t, s.ClearSession())
	require.NoError(t, s.ClearSession(), "clearing twice is fine")

	got, err := s.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPrefsCorruptFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}
	require.NoError(t, os.WriteFile(filepath.Join(dir, prefsFileName), []byte("???"), 0o644))

	p, err := s.LoadPrefs()
	require.NoError(t, err)
	assert.Equal(t, "ru", p.Locale)
	assert.True(t, p.NotifyChat)
}
