// Package client is the admin console's HTTP client for the admin REST API.
package client

import (
	"bytes"
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

	"github.com/01moynul/taptosell-admin/internal/models"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client calls the admin API rooted at baseURL (e.g. http://localhost:4000/api).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token sent on mutating calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Form is a create request: text fields plus image file paths.
type Form struct {
	Fields map[string]string
	Images []string
}

// MutationResponse is the {message, error} body every write returns.
type MutationResponse struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// List fetches every record of a collection via GET /<collection>/all.
func List[T any](ctx context.Context, c *Client, collection string) ([]T, error) {
	var body map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/"+collection+"/all", nil, "", &body); err != nil {
		return nil, err
	}
	raw, ok := body[collection]
	if !ok {
		return nil, fmt.Errorf("list %s: response has no %q key", collection, collection)
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return rows, nil
}

// Delete removes a record by slug.
func (c *Client) Delete(ctx context.Context, collection, slug string) (*MutationResponse, error) {
	var resp MutationResponse
	path := "/" + collection + "/" + url.PathEscape(slug)
	if err := c.do(ctx, http.MethodDelete, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create posts form as multipart data. Images are sent as "image[]" parts.
func (c *Client) Create(ctx context.Context, collection string, form Form) (*MutationResponse, error) {
	body, contentType, err := encodeForm(form)
	if err != nil {
		return nil, err
	}
	var resp MutationResponse
	if err := c.do(ctx, http.MethodPost, "/"+collection, body, contentType, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges admin credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(payload), "application/json", &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Notifications lists persisted notifications, unread first.
func (c *Client) Notifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	path := "/notifications"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp struct {
		Notifications []*models.Notification `json:"notifications"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := "/notifications/" + strconv.FormatInt(id, 10) + "/read"
	return c.do(ctx, http.MethodPatch, path, nil, "", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" && method != http.MethodGet {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var failure MutationResponse
		if json.Unmarshal(data, &failure) == nil && failure.Message != "" {
			apiErr.Message = failure.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encodeForm(form Form) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, form.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, path := range form.Images {
		if err := writeFile(w, path); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("image[]", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read image %s: %w", path, err)
	}
	return nil
}
