package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-cli/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil)
}

func TestLoginParsesUserEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("X-Actor-Login"), "login must not carry an actor header")

		var in model.LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "pm", in.Login)

		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 2, "login": "pm", "role": "Project Manager", "department_id": 1},
		})
	})

	sess, err := c.Login(context.Background(), model.LoginInput{Login: "pm", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), sess.ID)
	assert.True(t, sess.Role.Is(model.RoleProjectManager))
	assert.Equal(t, int64(1), sess.DepartmentID)
}

func TestActorHeaderOnAuthenticatedCalls(t *testing.T) {
	var gotActor string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotActor = r.Header.Get("X-Actor-Login")
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	})
	c.Actor = "pm"

	_, err := c.Projects(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "pm", gotActor)
}

func TestServerErrorMessageExtracted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "Недостаточно прав"})
	})

	err := c.DeleteProject(context.Background(), 7)
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Недостаточно прав", apiErr.Message)
}

func TestUnparseableErrorBodyFallsBackToStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nope</html>"))
	})

	_, err := c.Users(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP 502", apiErr.Message)
}

func TestDepartmentQueryAttachedOnlyWhenSet(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	})

	_, err := c.Tasks(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)

	_, err = c.Tasks(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "department_id=5", gotQuery)
}

func TestIdempotencyKeyOnMutations(t *testing.T) {
	keys := map[string]bool{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			keys[r.Header.Get("Idempotency-Key")] = true
		}
		w.Write([]byte("{}"))
	})

	require.NoError(t, c.DeleteTask(context.Background(), 1))
	require.NoError(t, c.DeleteTask(context.Background(), 1))
	assert.Len(t, keys, 2, "each mutation carries a fresh key")
	assert.NotContains(t, keys, "")
}

func TestCreateReportMultipart(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "итог.txt")
	require.NoError(t, os.WriteFile(file, []byte("резолюция"), 0o644))

	var fields map[string]string
	var fileName string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		if fhs := r.MultipartForm.File["file"]; len(fhs) > 0 {
			fileName = fhs[0].Filename
		}
		w.Write([]byte("{}"))
	})

	err := c.CreateReport(context.Background(), model.ReportInput{
		TargetType:   model.TargetTask,
		TargetID:     3,
		ResultStatus: "Выполнено",
		Title:        "Итог",
		Resolution:   "Сделано",
		CloseItem:    true,
		FilePath:     file,
	})
	require.NoError(t, err)
	assert.Equal(t, "task", fields["target_type"])
	assert.Equal(t, "3", fields["target_id"])
	assert.Equal(t, "true", fields["close_item"])
	assert.Equal(t, "итог.txt", fileName)
}

func TestUploadRejectsOversizeFileBeforeRequest(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.bin")
	f, err := os.Create(big)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxUploadSize+1))
	f.Close()

	requests := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("{}"))
	})

	err = c.CreateReport(context.Background(), model.ReportInput{
		TargetType: model.TargetTask,
		TargetID:   1,
		Title:      "x",
		FilePath:   big,
	})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Файл не должен превышать 50 МБ", apiErr.Message)
	assert.Zero(t, requests, "oversize upload must not reach the wire")
}

func TestPostMessageJSONVsMultipart(t *testing.T) {
	var contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte("{}"))
	})

	require.NoError(t, c.PostDepartmentMessage(context.Background(), model.MessageInput{ScopeID: 1, Body: "привет"}))
	assert.Equal(t, "application/json", contentType)

	file := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, c.PostTaskMessage(context.Background(), model.MessageInput{ScopeID: 2, Body: "", FilePath: file}))
	assert.Contains(t, contentType, "multipart/form-data")
}

func TestMessageDeleteQuery(t *testing.T) {
	var path, query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.RawQuery
		w.Write([]byte("{}"))
	})

	require.NoError(t, c.DeleteDepartmentMessage(context.Background(), 1, 9))
	assert.Equal(t, "/api/v1/messages/department", path)
	assert.Equal(t, "department_id=1&message_id=9", query)
}
