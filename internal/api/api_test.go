package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/madatlas/madatlas-be/internal/auth"
	"github.com/madatlas/madatlas-be/internal/config"
	"github.com/madatlas/madatlas-be/internal/database"
	"github.com/madatlas/madatlas-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   http.Handler
	contacts *services.ContactService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:3000"}}
	userService := services.NewUserService(db)
	postService := services.NewPostService(db)
	contactService := services.NewContactService(db)
	tokenService := auth.NewTokenService("test-secret", time.Hour)

	return &testEnv{
		router:   NewRouter(cfg, userService, postService, contactService, tokenService),
		contacts: contactService,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, username, password, role string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username, "password": password, "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	env.register(t, "alice", "pw", "admin")

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already registered", decodeMap(t, rec)["detail"])
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")

	token := env.login(t, "alice", "pw")

	rec := env.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeMap(t, rec)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, "admin", me["role"])
	assert.NotZero(t, me["id"])
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")

	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect username or password", decodeMap(t, rec)["detail"])
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A well-formed token whose subject has no user row is rejected too
	orphan, err := auth.NewTokenService("test-secret", time.Hour).Issue("ghost", "admin")
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/me", orphan, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")
	token := env.login(t, "alice", "pw")

	rec := env.do(t, http.MethodPost, "/refresh", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decodeMap(t, rec)
	assert.Equal(t, "bearer", refreshed["token_type"])
	assert.NotEmpty(t, refreshed["access_token"])

	rec = env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged out", decodeMap(t, rec)["message"])

	// Logout is stateless; the token still works until it expires
	rec = env.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnlyEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")
	env.register(t, "bob", "pw", "public")

	rec := env.do(t, http.MethodGet, "/admin-only", env.login(t, "alice", "pw"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello admin alice!", decodeMap(t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/admin-only", env.login(t, "bob", "pw"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPostLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")
	token := env.login(t, "alice", "pw")

	rec := env.do(t, http.MethodPost, "/posts/", token, map[string]interface{}{
		"title": "T", "content": "C", "type": "news", "author": "alice",
		"tags": []string{"a", "b"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeMap(t, rec)
	id := int64(created["id"].(float64))
	require.NotZero(t, id)

	rec = env.do(t, http.MethodGet, "/posts/"+itoa(id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, "T", got["title"])
	assert.Equal(t, "C", got["content"])
	assert.Equal(t, "news", got["type"])
	assert.Equal(t, "alice", got["author"])
	assert.Equal(t, []interface{}{"a", "b"}, got["tags"])

	// Partial update: only the title changes
	rec = env.do(t, http.MethodPut, "/posts/"+itoa(id), token, map[string]string{"title": "X"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeMap(t, rec)
	assert.Equal(t, "X", updated["title"])
	assert.Equal(t, "C", updated["content"])

	rec = env.do(t, http.MethodDelete, "/posts/"+itoa(id), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/posts/"+itoa(id), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPostsFiltered(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")
	token := env.login(t, "alice", "pw")

	for _, typ := range []string{"news", "event", "event"} {
		rec := env.do(t, http.MethodPost, "/posts/", token, map[string]string{
			"title": "T", "content": "C", "type": typ, "author": "alice",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/posts/?type=event", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	for _, post := range posts {
		assert.Equal(t, "event", post["type"])
	}
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "bob", "pw", "public")

	payload := map[string]string{"title": "T", "content": "C", "type": "news", "author": "bob"}

	rec := env.do(t, http.MethodPost, "/posts/", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/posts/", env.login(t, "bob", "pw"), payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreatePostRejectsInvalidType(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw", "admin")

	rec := env.do(t, http.MethodPost, "/posts/", env.login(t, "alice", "pw"), map[string]string{
		"title": "T", "content": "C", "type": "podcast", "author": "alice",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactSubmission(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact/", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "category": "general",
		"subject": "Hi", "message": "Hello",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	msg := decodeMap(t, rec)
	assert.NotZero(t, msg["id"])
	assert.NotEmpty(t, msg["created_at"])

	pending, err := env.contacts.Unnotified(10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestContactRejectsInvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/contact/", "", map[string]string{
		"name": "Jane", "email": "not-an-email", "category": "general",
		"subject": "Hi", "message": "Hello",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was inserted
	pending, err := env.contacts.Unnotified(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
