// Package api is the client side of the taskflow REST contract.
//
// Every call goes through a single door: JSON in, JSON out, the
// server's {error: "..."} envelope turned into a typed *Error. Call
// sites get exactly one failure shape to handle.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize caps attachment uploads client-side. The server
// enforces the same limit; checking here keeps a doomed 50MB+ upload
// off the wire.
const MaxUploadSize = 50 << 20

const actorHeader = "X-Actor-Login"

// Error carries the server-supplied message for a non-2xx response.
// When the body had no usable error field the message falls back to
// "HTTP <status>".
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

type Client struct {
	BaseURL string
	// Actor is the login replayed as the X-Actor-Login header on every
	// authenticated call. Empty for the auth endpoints.
	Actor string

	HTTP   *http.Client
	Logger *zap.Logger
}

func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Logger:  logger,
	}
}

// SetActor switches the identity replayed on subsequent calls.
func (c *Client) SetActor(login string) { c.Actor = login }

type callOpts struct {
	noAuth bool
	query  url.Values
}

// do performs one JSON round-trip. body may be nil; out may be nil.
// A non-2xx status always yields *Error; an unparseable response body
// is treated as an empty object so a decode failure never masks the
// HTTP status.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, opts callOpts) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, opts.query), reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req, method, opts)

	return c.send(req, method, path, out)
}

// upload performs one multipart/form-data round-trip. filePath may be
// empty, in which case only the fields are sent.
func (c *Client) upload(ctx context.Context, path string, fields map[string]string, fileField, filePath string, out any, opts callOpts) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if filePath != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("не удалось открыть файл: %w", err)
		}
		defer f.Close()
		st, err := f.Stat()
		if err != nil {
			return err
		}
		if st.Size() > MaxUploadSize {
			return &Error{Status: http.StatusRequestEntityTooLarge, Message: "Файл не должен превышать 50 МБ"}
		}
		part, err := mw.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, opts.query), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.decorate(req, http.MethodPost, opts)

	return c.send(req, http.MethodPost, path, out)
}

// download streams a file endpoint into dest.
func (c *Client) download(ctx context.Context, path string, dest io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return err
	}
	c.decorate(req, http.MethodGet, callOpts{})

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return errorFromBody(resp.StatusCode, raw)
	}
	_, err = io.Copy(dest, resp.Body)
	return err
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) decorate(req *http.Request, method string, opts callOpts) {
	if c.Actor != "" && !opts.noAuth {
		req.Header.Set(actorHeader, c.Actor)
	}
	if method != http.MethodGet {
		// Guards against double-submit: the server may drop a repeated
		// key it has already seen.
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
}

func (c *Client) send(req *http.Request, method, path string, out any) error {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	c.Logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromBody(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	// A malformed success body degrades to the zero value rather than
	// surfacing a secondary parse error.
	_ = json.Unmarshal(raw, out)
	return nil
}

func errorFromBody(status int, raw []byte) *Error {
	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &envelope)
	msg := strings.TrimSpace(envelope.Error)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &Error{Status: status, Message: msg}
}
