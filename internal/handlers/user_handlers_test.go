package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/taptosell-admin/internal/models"
	"github.com/01moynul/taptosell-admin/internal/push"
	"github.com/01moynul/taptosell-admin/internal/store"
)

func seedUsers(env *testEnv) {
	env.users.rows = []*models.User{
		{ID: 1, Name: "Alice Smith", Email: "alice@example.com", Address: "Dhaka", Slug: "alice-smith", Images: models.ImageList{"http://img.test/alice.png"}},
		{ID: 2, Name: "Bob Stone", Email: "bob@example.com", Address: "Chittagong", Slug: "bob-stone"},
		{ID: 3, Name: "Carol", Email: "carol@SMITHS.io", Address: "Sylhet", Slug: "carol"},
	}
	env.users.nextID = 3
}

func slugsOf(t *testing.T, rec *httptest.ResponseRecorder, key string) []string {
	t.Helper()
	rows, ok := decode(t, rec)[key].([]any)
	require.True(t, ok, rec.Body.String())
	slugs := make([]string, 0, len(rows))
	for _, row := range rows {
		slugs = append(slugs, row.(map[string]any)["slug"].(string))
	}
	return slugs
}

func TestGetAllUsers(t *testing.T) {
	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedSlugs  []string
	}{
		{"all users", "", http.StatusOK, []string{"alice-smith", "bob-stone", "carol"}},
		{"search is case-insensitive across fields", "?search=smith", http.StatusOK, []string{"alice-smith", "carol"}},
		{"search by address", "?search=DHAKA", http.StatusOK, []string{"alice-smith"}},
		{"search without match", "?search=zzz", http.StatusOK, []string{}},
		{"sorted descending", "?sort=name&order=desc", http.StatusOK, []string{"carol", "bob-stone", "alice-smith"}},
		{"second page", "?limit=2&page=2", http.StatusOK, []string{"carol"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			seedUsers(env)

			rec := env.get("/api/users/all" + tc.query)
			require.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectedSlugs, slugsOf(t, rec, "users"))
		})
	}
}

func TestGetAllUsers_PaginationMetadata(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	body := decode(t, env.get("/api/users/all?limit=2"))
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 2, body["totalPages"])

	body = decode(t, env.get("/api/users/all"))
	assert.NotContains(t, body, "page")
}

func TestGetAllUsers_BadQuery(t *testing.T) {
	env := newTestEnv()
	assertErrorBody(t, env.get("/api/users/all?limit=1000"), http.StatusBadRequest, "limit")
	assertErrorBody(t, env.get("/api/users/all?order=up"), http.StatusBadRequest, "order")
}

func TestGetAllUsers_RepoError(t *testing.T) {
	env := newTestEnv()
	env.users.ListErr = errors.New("db down")
	assertErrorBody(t, env.get("/api/users/all"), http.StatusInternalServerError, "Database")
}

func TestGetUser(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	rec := env.get("/api/users/bob-stone")
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "bob@example.com", user["email"])

	assertErrorBody(t, env.get("/api/users/nobody"), http.StatusNotFound, "User not found")
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	req := multipartRequest(t, http.MethodPost, "/api/users",
		map[string]string{"name": "Dana White", "email": "dana@example.com", "address": "Khulna"},
		upload{"image[]", "front.png", pngHeader},
		upload{"image[]", "back.PNG", pngHeader},
	)
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "User created successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "dana-white", user["slug"])
	assert.EqualValues(t, 4, user["id"])
	images := user["images"].([]any)
	require.Len(t, images, 2)
	assert.Regexp(t, `^http://img.test/.+\.png$`, images[1])
	assert.Len(t, env.images.files, 2)

	msg := env.publisher.last(t)
	assert.Equal(t, push.Message{Event: push.EventCreated, Collection: store.Users, Name: "Dana White", Slug: "dana-white", SentAt: msg.SentAt}, msg)

	// The listing now includes the new user.
	assert.Contains(t, slugsOf(t, env.get("/api/users/all"), "users"), "dana-white")
}

func TestCreateUser_WithoutImages(t *testing.T) {
	env := newTestEnv()

	req := multipartRequest(t, http.MethodPost, "/api/users", map[string]string{"name": "Eve", "email": "eve@example.com"})
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, []any{}, user["images"])
}

func TestCreateUser_SlugCollision(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	req := multipartRequest(t, http.MethodPost, "/api/users", map[string]string{"name": "Carol", "email": "carol2@example.com"})
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Regexp(t, `^carol-[0-9a-f]{6}$`, decode(t, rec)["user"].(map[string]any)["slug"])
}

func TestCreateUser_Validation(t *testing.T) {
	testCases := []struct {
		name     string
		fields   map[string]string
		files    []upload
		contains string
	}{
		{"missing name", map[string]string{"email": "x@example.com"}, nil, "name is required"},
		{"missing email", map[string]string{"name": "X"}, nil, "email is required"},
		{"invalid email", map[string]string{"name": "X", "email": "not-an-email"}, nil, "valid email"},
		{"non-image upload", map[string]string{"name": "X", "email": "x@example.com"}, []upload{{"image[]", "notes.txt", []byte("plain text")}}, "only image files"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			rec := env.do(multipartRequest(t, http.MethodPost, "/api/users", tc.fields, tc.files...))

			assertErrorBody(t, rec, http.StatusBadRequest, tc.contains)
			assert.Empty(t, env.users.rows)
			assert.Empty(t, env.images.files)
			assert.Empty(t, env.publisher.messages)
		})
	}
}

func TestCreateUser_StoreFailureDiscardsImages(t *testing.T) {
	env := newTestEnv()
	env.users.SaveErr = errors.New("db down")

	req := multipartRequest(t, http.MethodPost, "/api/users",
		map[string]string{"name": "Frank", "email": "frank@example.com"},
		upload{"image", "f.png", pngHeader},
	)
	rec := env.do(req)

	assertErrorBody(t, rec, http.StatusInternalServerError, "Failed to create user")
	assert.Empty(t, env.images.files)
	assert.Len(t, env.images.deleted, 1)
	assert.Empty(t, env.publisher.messages)
}

func TestCreateUser_PublishFailureStillSucceeds(t *testing.T) {
	env := newTestEnv()
	env.publisher.err = errors.New("redis down")

	req := multipartRequest(t, http.MethodPost, "/api/users", map[string]string{"name": "Gail", "email": "gail@example.com"})
	rec := env.do(req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	req := multipartRequest(t, http.MethodPut, "/api/users/alice-smith",
		map[string]string{"address": "Rajshahi"},
		upload{"image[]", "new.png", pngHeader},
	)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alice Smith", user["name"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "Rajshahi", user["address"])
	assert.Equal(t, "alice-smith", user["slug"])
	require.Len(t, user["images"], 1)
	assert.NotEqual(t, "http://img.test/alice.png", user["images"].([]any)[0])

	assert.Equal(t, []string{"http://img.test/alice.png"}, env.images.deleted)
	assert.Equal(t, push.EventUpdated, env.publisher.last(t).Event)
}

func TestUpdateUser_KeepsImagesWhenNoneUploaded(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	rec := env.do(multipartRequest(t, http.MethodPut, "/api/users/alice-smith", map[string]string{"name": "Alice Jones"}))
	require.Equal(t, http.StatusOK, rec.Code)

	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Alice Jones", user["name"])
	assert.Equal(t, []any{"http://img.test/alice.png"}, user["images"])
	assert.Empty(t, env.images.deleted)
}

func TestUpdateUser_Errors(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	rec := env.do(multipartRequest(t, http.MethodPut, "/api/users/nobody", map[string]string{"name": "X"}))
	assertErrorBody(t, rec, http.StatusNotFound, "User not found")

	rec = env.do(multipartRequest(t, http.MethodPut, "/api/users/bob-stone", map[string]string{"email": "bogus"}))
	assertErrorBody(t, rec, http.StatusBadRequest, "valid email")
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/api/users/alice-smith", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "User deleted successfully", body["message"])
	assert.Equal(t, false, body["error"])

	// The deleted row is gone from the listing.
	assert.Equal(t, []string{"bob-stone", "carol"}, slugsOf(t, env.get("/api/users/all"), "users"))
	assert.Equal(t, []string{"http://img.test/alice.png"}, env.images.deleted)

	msg := env.publisher.last(t)
	assert.Equal(t, push.EventDeleted, msg.Event)
	assert.Equal(t, "alice-smith", msg.Slug)
}

func TestDeleteUser_NotFound(t *testing.T) {
	env := newTestEnv()
	seedUsers(env)

	rec := env.do(httptest.NewRequest(http.MethodDelete, "/api/users/nobody", nil))
	assertErrorBody(t, rec, http.StatusNotFound, "User not found")
	assert.Len(t, env.users.rows, 3)
	assert.Empty(t, env.publisher.messages)
}
