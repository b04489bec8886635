// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/correspond-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: server returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

var (
	// ErrAttachmentType rejects files the server would refuse.
	ErrAttachmentType = errors.New("attachment type not allowed")

	// ErrInvalidID rejects non-positive record ids before any request.
	ErrInvalidID = errors.New("invalid id")
)

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// AllowedExtensions lists the attachment extensions the server accepts.
var AllowedExtensions = []string{
	"txt", "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"png", "jpg", "jpeg", "gif", "bmp", "tiff",
	"zip", "rar", "7z", "mp4", "avi", "mov",
}

// AllowedAttachment reports whether the file name has an accepted extension.
func AllowedAttachment(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// =============================================================================
// CLIENT
// =============================================================================

// DefaultTimeout bounds each request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Client talks to one correspondence server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server URL.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// ATTACHMENTS
// =============================================================================

// DeleteAttachment asks the server to delete one attachment. Redirects are
// followed; any final 2xx status is success.
func (c *Client) DeleteAttachment(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("delete attachment: %w: %d", ErrInvalidID, id)
	}
	endpoint := fmt.Sprintf("%s/attachment/%d/delete", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete attachment %d: %w", id, err)
	}
	defer drainAndClose(resp.Body)

	return checkStatus("delete attachment", resp)
}

// =============================================================================
// LISTING
// =============================================================================

// ListRecent returns up to limit records, newest first.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]model.Entry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := c.baseURL + "/api/correspondence"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list correspondence: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list correspondence: %w", err)
	}
	defer drainAndClose(resp.Body)

	if err := checkStatus("list correspondence", resp); err != nil {
		return nil, err
	}

	var entries []model.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("list correspondence: decode: %w", err)
	}
	return entries, nil
}

// =============================================================================
// FORM SUBMISSION
// =============================================================================

// NewPath is the submission path of a new record.
const NewPath = "/correspondence/new"

// EditPath returns the submission path of an existing record.
func EditPath(id int64) string {
	return fmt.Sprintf("/correspondence/%d/edit", id)
}

// SubmitCorrespondence posts a validated form as multipart data to path.
// attachments are local file paths sent under the "attachments" field.
func (c *Client) SubmitCorrespondence(ctx context.Context, path string, values map[string]string, attachments []string) error {
	for _, a := range attachments {
		if !AllowedAttachment(a) {
			return fmt.Errorf("%w: %s", ErrAttachmentType, filepath.Base(a))
		}
		if _, err := os.Stat(a); err != nil {
			return fmt.Errorf("submit correspondence: %w", err)
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, values, attachments))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		pr.Close()
		return fmt.Errorf("submit correspondence: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.Close()
		return fmt.Errorf("submit correspondence: %w", err)
	}
	defer drainAndClose(resp.Body)

	return checkStatus("submit correspondence", resp)
}

func writeForm(mw *multipart.Writer, values map[string]string, attachments []string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := mw.WriteField(name, values[name]); err != nil {
			return err
		}
	}
	for _, path := range attachments {
		if err := writeFile(mw, path); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := mw.CreateFormFile("attachments", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
