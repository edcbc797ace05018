package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/taptosell-admin/internal/models"
)

func TestUsersList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/all", r.URL.Path)
		w.Write([]byte(`{"users":[
			{"name":"Alice","email":"alice@example.com","address":"Dhaka","slug":"alice"},
			{"name":"Bob","email":"bob@example.com","address":"Sylhet","slug":"bob"}
		]}`))
	}))
	defer srv.Close()
	t.Setenv("ADMIN_API_URL", srv.URL+"/api")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"users", "list", "--search", "SYLHET", "--log-level", "disabled"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "bob@example.com")
	assert.NotContains(t, out.String(), "alice@example.com")
	assert.Contains(t, out.String(), "page 1 of 1, 1 users")
}

func TestAPIFlagOverridesEnvironment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"brands":[{"name":"Nike","company":"Nike Inc","slug":"nike"}]}`))
	}))
	defer srv.Close()
	t.Setenv("ADMIN_API_URL", "http://127.0.0.1:1/api")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"brands", "list", "--api", srv.URL + "/api", "--log-level", "disabled"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Nike Inc")
}

func TestInvalidConfigIsReturned(t *testing.T) {
	t.Setenv("REDIS_DB", "first")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"users", "list"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
	assert.Empty(t, out.String())
}

func TestCreateRequiresName(t *testing.T) {
	t.Setenv("ADMIN_API_URL", "http://127.0.0.1:1/api")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"brands", "create", "--company", "Acme"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestPrintNotifications(t *testing.T) {
	link := "/brands/nike"
	var out bytes.Buffer
	printNotifications(&out, []*models.Notification{
		{ID: 2, Title: "TapToSell Admin", Body: `Brand "Nike" was created`, Link: &link, CreatedAt: time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)},
		{ID: 1, Title: "TapToSell Admin", Body: `User "Bob" was deleted`, IsRead: true, CreatedAt: time.Date(2025, 11, 19, 8, 0, 0, 0, time.UTC)},
	})

	assert.Equal(t,
		"*    2  2025-11-20 09:30  TapToSell Admin: Brand \"Nike\" was created  (/brands/nike)\n"+
			"     1  2025-11-19 08:00  TapToSell Admin: User \"Bob\" was deleted\n",
		out.String())

	out.Reset()
	printNotifications(&out, nil)
	assert.Equal(t, "no notifications\n", out.String())
}
