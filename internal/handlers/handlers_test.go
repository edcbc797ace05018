package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/taptosell-admin/internal/auth"
	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/push"
	"github.com/01moynul/taptosell-admin/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// --- Mock Repositories ---

// memRepo is an in-memory slug-keyed repository. T is a record pointer type.
type memRepo[T any] struct {
	mu      sync.Mutex
	rows    []T
	nextID  int64
	slugOf  func(T) string
	setID   func(T, int64)
	ListErr error
	SaveErr error
}

func (m *memRepo[T]) List(ctx context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]T(nil), m.rows...), nil
}

func (m *memRepo[T]) Get(ctx context.Context, slug string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if m.slugOf(row) == slug {
			return row, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("get %s: %w", slug, store.ErrNotFound)
}

func (m *memRepo[T]) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := m.Get(ctx, slug)
	return err == nil, nil
}

func (m *memRepo[T]) Create(ctx context.Context, row T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.nextID++
	m.setID(row, m.nextID)
	m.rows = append(m.rows, row)
	return nil
}

func (m *memRepo[T]) Update(ctx context.Context, row T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SaveErr
}

func (m *memRepo[T]) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if m.slugOf(row) == slug {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memRepo[T]) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func newUserRepo(rows ...*models.User) *memRepo[*models.User] {
	return &memRepo[*models.User]{
		rows:   rows,
		nextID: int64(len(rows)),
		slugOf: func(u *models.User) string { return u.Slug },
		setID:  func(u *models.User, id int64) { u.ID = id },
	}
}

func newBrandRepo(rows ...*models.Brand) *memRepo[*models.Brand] {
	return &memRepo[*models.Brand]{
		rows:   rows,
		nextID: int64(len(rows)),
		slugOf: func(b *models.Brand) string { return b.Slug },
		setID:  func(b *models.Brand, id int64) { b.ID = id },
	}
}

func newCategoryRepo(rows ...*models.Category) *memRepo[*models.Category] {
	return &memRepo[*models.Category]{
		rows:   rows,
		nextID: int64(len(rows)),
		slugOf: func(c *models.Category) string { return c.Slug },
		setID:  func(c *models.Category, id int64) { c.ID = id },
	}
}

func newTeamRepo(rows ...*models.TeamMember) *memRepo[*models.TeamMember] {
	return &memRepo[*models.TeamMember]{
		rows:   rows,
		nextID: int64(len(rows)),
		slugOf: func(m *models.TeamMember) string { return m.Slug },
		setID:  func(m *models.TeamMember, id int64) { m.ID = id },
	}
}

type mockNotificationRepo struct {
	Notifications []*models.Notification
	Unread        int64
	Err           error
	LastLimit     int
	LastMarked    int64
}

func (m *mockNotificationRepo) List(ctx context.Context, limit int) ([]*models.Notification, error) {
	m.LastLimit = limit
	return m.Notifications, m.Err
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id int64) error {
	m.LastMarked = id
	return m.Err
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context) (int64, error) {
	return m.Unread, m.Err
}

// --- Fakes for images, push and auth ---

type memImages struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newMemImages() *memImages {
	return &memImages{files: map[string][]byte{}}
}

func (m *memImages) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "http://img.test/" + name
	m.files[url] = b
	return url, nil
}

func (m *memImages) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	m.deleted = append(m.deleted, url)
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []push.Message
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg push.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

func (p *recordingPublisher) last(t *testing.T) push.Message {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.messages)
	return p.messages[len(p.messages)-1]
}

type stubAuth struct {
	token string
	err   error
}

func (s stubAuth) Login(email, password string) (string, error) {
	return s.token, s.err
}

// --- Test environment ---

type testEnv struct {
	h             *Handlers
	users         *memRepo[*models.User]
	brands        *memRepo[*models.Brand]
	categories    *memRepo[*models.Category]
	teams         *memRepo[*models.TeamMember]
	notifications *mockNotificationRepo
	images        *memImages
	publisher     *recordingPublisher
	router        *gin.Engine
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:         newUserRepo(),
		brands:        newBrandRepo(),
		categories:    newCategoryRepo(),
		teams:         newTeamRepo(),
		notifications: &mockNotificationRepo{},
		images:        newMemImages(),
		publisher:     &recordingPublisher{},
	}
	env.h = &Handlers{
		Users:         env.users,
		Brands:        env.brands,
		Categories:    env.categories,
		Teams:         env.teams,
		Notifications: env.notifications,
		Images:        env.images,
		Publisher:     env.publisher,
		Auth:          stubAuth{token: "signed-token"},
		Logger:        zerolog.Nop(),
	}

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", env.h.Login)
	api.GET("/dashboard/stats", env.h.GetDashboardStats)
	api.GET("/notifications", env.h.GetNotifications)
	api.PATCH("/notifications/:id/read", env.h.MarkNotificationAsRead)

	api.GET("/users/all", env.h.GetAllUsers)
	api.GET("/users/:slug", env.h.GetUser)
	api.POST("/users", env.h.CreateUser)
	api.PUT("/users/:slug", env.h.UpdateUser)
	api.DELETE("/users/:slug", env.h.DeleteUser)

	api.GET("/brands/all", env.h.GetAllBrands)
	api.GET("/brands/:slug", env.h.GetBrand)
	api.POST("/brands", env.h.CreateBrand)
	api.PUT("/brands/:slug", env.h.UpdateBrand)
	api.DELETE("/brands/:slug", env.h.DeleteBrand)

	api.GET("/categories/all", env.h.GetAllCategories)
	api.GET("/categories/:slug", env.h.GetCategory)
	api.POST("/categories", env.h.CreateCategory)
	api.PUT("/categories/:slug", env.h.UpdateCategory)
	api.DELETE("/categories/:slug", env.h.DeleteCategory)

	api.GET("/teams/all", env.h.GetAllTeamMembers)
	api.GET("/teams/:slug", env.h.GetTeamMember)
	api.POST("/teams", env.h.CreateTeamMember)
	api.PUT("/teams/:slug", env.h.UpdateTeamMember)
	api.DELETE("/teams/:slug", env.h.DeleteTeamMember)
	env.router = r
	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) get(path string) *httptest.ResponseRecorder {
	return env.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// upload is one file part of a multipart form.
type upload struct {
	field, filename string
	content         []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func assertErrorBody(t *testing.T, rec *httptest.ResponseRecorder, status int, contains string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Contains(t, body["message"], contains)
}

// --- Shared helpers ---

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"nike": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	testCases := []struct {
		name   string
		input  string
		assert func(t *testing.T, got string)
	}{
		{"free slug is used as is", "Adidas Originals", func(t *testing.T, got string) {
			assert.Equal(t, "adidas-originals", got)
		}},
		{"taken slug gets a suffix", "Nike", func(t *testing.T, got string) {
			assert.Regexp(t, `^nike-[0-9a-f]{6}$`, got)
		}},
		{"reserved slug gets a suffix", "All", func(t *testing.T, got string) {
			assert.Regexp(t, `^all-[0-9a-f]{6}$`, got)
		}},
		{"empty name falls back", "!!!", func(t *testing.T, got string) {
			assert.Equal(t, "item", got)
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uniqueSlug(context.Background(), tc.input, exists)
			require.NoError(t, err)
			tc.assert(t, got)
		})
	}
}

func TestUniqueSlug_GivesUp(t *testing.T) {
	always := func(context.Context, string) (bool, error) { return true, nil }
	_, err := uniqueSlug(context.Background(), "Nike", always)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUniqueSlug_LookupError(t *testing.T) {
	boom := errors.New("db down")
	failing := func(context.Context, string) (bool, error) { return false, boom }
	_, err := uniqueSlug(context.Background(), "Nike", failing)
	assert.ErrorIs(t, err, boom)
}

func TestStoreStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, storeStatus(fmt.Errorf("x: %w", store.ErrNotFound)))
	assert.Equal(t, http.StatusConflict, storeStatus(store.ErrDuplicate))
	assert.Equal(t, http.StatusInternalServerError, storeStatus(errors.New("boom")))
}

// --- Auth, dashboard, notifications ---

func TestLogin(t *testing.T) {
	testCases := []struct {
		name           string
		auth           stubAuth
		body           string
		expectedStatus int
		expectedToken  string
	}{
		{"valid credentials", stubAuth{token: "signed-token"}, `{"email":"admin@example.com","password":"secret"}`, http.StatusOK, "signed-token"},
		{"wrong credentials", stubAuth{err: auth.ErrInvalidCredentials}, `{"email":"admin@example.com","password":"nope"}`, http.StatusUnauthorized, ""},
		{"signing failure", stubAuth{err: errors.New("boom")}, `{"email":"admin@example.com","password":"secret"}`, http.StatusInternalServerError, ""},
		{"missing password", stubAuth{}, `{"email":"admin@example.com"}`, http.StatusBadRequest, ""},
		{"bad email", stubAuth{}, `{"email":"admin","password":"x"}`, http.StatusBadRequest, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			env.h.Auth = tc.auth

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := env.do(req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedToken != "" {
				assert.Equal(t, tc.expectedToken, decode(t, rec)["token"])
			}
		})
	}
}

func TestGetDashboardStats(t *testing.T) {
	env := newTestEnv()
	env.users.rows = []*models.User{{Slug: "a"}, {Slug: "b"}}
	env.brands.rows = []*models.Brand{{Slug: "nike"}}
	env.notifications.Unread = 4

	rec := env.get("/api/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, DashboardStats{Users: 2, Brands: 1, UnreadNotifications: 4}, stats)
}

func TestGetDashboardStats_Error(t *testing.T) {
	env := newTestEnv()
	env.notifications.Err = errors.New("db down")

	assertErrorBody(t, env.get("/api/dashboard/stats"), http.StatusInternalServerError, "notifications")
}

func TestGetNotifications(t *testing.T) {
	env := newTestEnv()
	link := "/brands/nike"
	env.notifications.Notifications = []*models.Notification{
		{ID: 1, Title: push.NotificationTitle, Body: `Brand "Nike" was created`, Link: &link},
	}

	rec := env.get("/api/notifications")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultNotificationLimit, env.notifications.LastLimit)
	list := decode(t, rec)["notifications"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "/brands/nike", list[0].(map[string]any)["link"])

	rec = env.get("/api/notifications?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, env.notifications.LastLimit)

	assertErrorBody(t, env.get("/api/notifications?limit=0"), http.StatusBadRequest, "limit")
}

func TestMarkNotificationAsRead(t *testing.T) {
	env := newTestEnv()

	rec := env.do(httptest.NewRequest(http.MethodPatch, "/api/notifications/7/read", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), env.notifications.LastMarked)
	assert.Equal(t, false, decode(t, rec)["error"])

	rec = env.do(httptest.NewRequest(http.MethodPatch, "/api/notifications/abc/read", nil))
	assertErrorBody(t, rec, http.StatusBadRequest, "Invalid id")

	env.notifications.Err = fmt.Errorf("mark: %w", store.ErrNotFound)
	rec = env.do(httptest.NewRequest(http.MethodPatch, "/api/notifications/9/read", nil))
	assertErrorBody(t, rec, http.StatusNotFound, "not found")
}
