package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-blog/config"
	"github.com/d60-Lab/gin-blog/internal/api/handler"
	"github.com/d60-Lab/gin-blog/internal/api/middleware"
	"github.com/d60-Lab/gin-blog/internal/api/router"
	"github.com/d60-Lab/gin-blog/internal/repository"
	"github.com/d60-Lab/gin-blog/internal/service"
	"github.com/d60-Lab/gin-blog/pkg/database"
)

type testServer struct {
	engine *gin.Engine
	tokens *service.TokenService
}

func newServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		Tracing:  config.TracingConfig{ServiceName: "gin-blog-test"},
	}
	db, err := database.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	tokens, err := service.NewTokenService("router-secret", time.Hour, "test")
	require.NoError(t, err)
	userSvc := service.NewUserService(repository.NewUserRepository(db), tokens)
	postSvc := service.NewPostService(repository.NewPostRepository(db))

	h := handler.NewHandler(userSvc, postSvc)
	return &testServer{engine: router.Setup(cfg, h, tokens, limiter), tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type postBody struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Content  string `json:"content"`
	Category string `json:"category"`
	AuthorID uint   `json:"author_id"`
}

func (s *testServer) register(t *testing.T, username, password string) authBody {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authBody](t, w)
}

func (s *testServer) createPost(t *testing.T, token, title, category string) postBody {
	t.Helper()
	w := s.do(t, http.MethodPost, "/posts", token, gin.H{"title": title, "content": "body of " + title, "category": category})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[postBody](t, w)
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func TestHealth(t *testing.T) {
	s := newServer(t, nil)
	for _, path := range []string{"/health", "/api/health"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]string{"status": "OK", "message": "Server is running"}, decode[map[string]string](t, w))
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	s := newServer(t, nil)

	reg := s.register(t, "alice", "secret1")
	assert.NotZero(t, reg.User.ID)
	assert.Equal(t, "alice", reg.User.Username)
	claims, err := s.tokens.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[authBody](t, w)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	w = s.do(t, http.MethodGet, "/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]interface{}](t, w)
	assert.Equal(t, "alice", me["username"])
	assert.EqualValues(t, reg.User.ID, me["id"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterErrors(t *testing.T) {
	s := newServer(t, nil)
	s.register(t, "bob", "secret1")

	cases := []struct {
		name string
		body gin.H
		msg  string
	}{
		{"missing password", gin.H{"username": "carol"}, "Username and password are required"},
		{"short password", gin.H{"username": "carol", "password": "12345"}, "Password must be at least 6 characters"},
		{"duplicate", gin.H{"username": "bob", "password": "another"}, "Username already exists"},
		{"overlong password", gin.H{"username": "carol", "password": strings.Repeat("p", 73)}, "Password must be at most 72 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, errorMessage(t, w))
		})
	}
}

func TestLoginErrors(t *testing.T) {
	s := newServer(t, nil)
	s.register(t, "dave", "secret1")

	w := s.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "dave"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "dave", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := errorMessage(t, w)

	w = s.do(t, http.MethodPost, "/auth/login", "", gin.H{"username": "nobody", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPassword, errorMessage(t, w))
}

func TestMeWithDeletedAccount(t *testing.T) {
	s := newServer(t, nil)
	token, err := s.tokens.Issue(4242, "ghost")
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", errorMessage(t, w))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(t, http.MethodPost, "/posts", "", gin.H{"title": "t", "content": "c", "category": "dynamics"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, w))

	w = s.do(t, http.MethodDelete, "/api/posts/1", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, w))

	w = s.do(t, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestPostLifecycle(t *testing.T) {
	s := newServer(t, nil)
	author := s.register(t, "erin", "secret1")

	created := s.createPost(t, author.Token, "First", "study-notes")
	assert.Equal(t, author.User.ID, created.AuthorID)
	assert.Equal(t, "", created.Abstract)

	w := s.do(t, http.MethodGet, "/posts/"+itoa(created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[postBody](t, w)
	assert.Equal(t, created, got)

	w = s.do(t, http.MethodPut, "/posts/"+itoa(created.ID), author.Token, gin.H{"title": "Renamed", "abstract": "tl;dr"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[postBody](t, w)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "tl;dr", updated.Abstract)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, "study-notes", updated.Category)

	w = s.do(t, http.MethodDelete, "/posts/"+itoa(created.ID), author.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Post deleted successfully"}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/posts/"+itoa(created.ID), author.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/posts/"+itoa(created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", errorMessage(t, w))
}

func TestListOrderAndCategory(t *testing.T) {
	s := newServer(t, nil)
	author := s.register(t, "frank", "secret1")

	p1 := s.createPost(t, author.Token, "P1", "dynamics")
	p2 := s.createPost(t, author.Token, "P2", "daily-findings")
	p3 := s.createPost(t, author.Token, "P3", "dynamics")

	w := s.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]postBody](t, w)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})

	w = s.do(t, http.MethodGet, "/posts/category/dynamics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dyn := decode[[]postBody](t, w)
	require.Len(t, dyn, 2)
	assert.Equal(t, []uint{p3.ID, p1.ID}, []uint{dyn[0].ID, dyn[1].ID})

	w = s.do(t, http.MethodGet, "/posts/category/unknown", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreatePostValidation(t *testing.T) {
	s := newServer(t, nil)
	author := s.register(t, "gina", "secret1")

	w := s.do(t, http.MethodPost, "/posts", author.Token, gin.H{"title": "t", "category": "dynamics"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title, content, and category are required", errorMessage(t, w))

	w = s.do(t, http.MethodPost, "/posts", author.Token, gin.H{"title": "t", "content": "c", "category": "misc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", errorMessage(t, w))

	w = s.do(t, http.MethodGet, "/posts", "", nil)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdatePostEdgeCases(t *testing.T) {
	s := newServer(t, nil)
	author := s.register(t, "hank", "secret1")
	p := s.createPost(t, author.Token, "Keep", "dynamics")
	path := "/posts/" + itoa(p.ID)

	w := s.do(t, http.MethodPut, path, author.Token, gin.H{"category": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", errorMessage(t, w))

	// 空请求体按文章不存在处理
	w = s.do(t, http.MethodPut, path, author.Token, gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/posts/9999", author.Token, gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/posts/abc", author.Token, gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, path, "", nil)
	got := decode[postBody](t, w)
	assert.Equal(t, "Keep", got.Title)
	assert.Equal(t, "dynamics", got.Category)
}

func TestAnyAuthenticatedUserMayEditAnyPost(t *testing.T) {
	s := newServer(t, nil)
	owner := s.register(t, "ivy", "secret1")
	other := s.register(t, "jack", "secret1")
	p := s.createPost(t, owner.Token, "Shared", "dynamics")

	w := s.do(t, http.MethodPut, "/posts/"+itoa(p.ID), other.Token, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[postBody](t, w)
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, owner.User.ID, got.AuthorID)
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	s := newServer(t, middleware.NewLocalLimiter(2, time.Minute))
	body := gin.H{"username": "nobody", "password": "secret1"}

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := s.do(t, http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests", errorMessage(t, w))

	// 读接口不受影响
	w = s.do(t, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
