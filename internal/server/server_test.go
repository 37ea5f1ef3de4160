package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/todo-api/internal/auth"
	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/logging"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()

	db, err := database.Connect(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store, err := database.NewGormStore(db)
	require.NoError(t, err)
	return store
}

type APITestSuite struct {
	suite.Suite
	store  *database.Store
	router *gin.Engine
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.store = newTestStore(s.T())
	s.router = NewRouter(RouterConfig{
		Store:       s.store,
		Tokens:      auth.NewTokenIssuer([]byte("test-secret"), constants.TokenValidity),
		CORSOrigins: []string{"https://app.example"},
		Logger:      logging.Discard(),
	})
}

func (s *APITestSuite) TearDownTest() {
	s.store.Close(context.Background())
}

func (s *APITestSuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func (s *APITestSuite) login(username, password string) string {
	w, _ := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"username": username, "password": password})
	s.Require().Equal(http.StatusCreated, w.Code)

	w, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	s.Require().Equal(http.StatusOK, w.Code)
	return body["token"].(string)
}

func (s *APITestSuite) TestHealth() {
	w, body := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", body["status"])
}

func (s *APITestSuite) TestBuyMilkScenario() {
	w, body := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"username": "alice", "password": "secret1"})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.NotEmpty(body["message"])

	w, body = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "secret1"})
	s.Require().Equal(http.StatusOK, w.Code)
	token := body["token"].(string)
	s.NotEmpty(token)

	w, task := s.do(http.MethodPost, "/api/todos", token, map[string]string{"title": "Buy milk"})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal("not_started", task["status"])
	s.Equal("medium", task["priority"])
	s.Nil(task["dueDate"])
	s.Equal("", task["description"])
	s.Equal("", task["category"])
	id := task["_id"].(string)

	w, updated := s.do(http.MethodPatch, "/api/todos/"+id, token, map[string]string{"status": "completed"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("completed", updated["status"])
	for _, key := range []string{"_id", "userId", "title", "description", "priority", "category", "dueDate"} {
		s.Equal(task[key], updated[key], key)
	}

	w, _ = s.do(http.MethodDelete, "/api/todos/"+id, token, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/todos", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *APITestSuite) TestEmptyTitleIsRejectedWithoutWrite() {
	token := s.login("alice", "secret1")

	w, body := s.do(http.MethodPost, "/api/todos", token, map[string]string{"title": ""})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_INPUT", body["code"])

	w, _ = s.do(http.MethodGet, "/api/todos", token, nil)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *APITestSuite) TestCrossAccountIsolation() {
	alice := s.login("alice", "secret1")
	bob := s.login("bobby", "secret2")

	w, task := s.do(http.MethodPost, "/api/todos", alice, map[string]string{"title": "Alice only"})
	s.Require().Equal(http.StatusCreated, w.Code)
	id := task["_id"].(string)

	w, _ = s.do(http.MethodGet, "/api/todos", bob, nil)
	s.JSONEq(`[]`, w.Body.String())

	foreign, foreignBody := s.do(http.MethodPatch, "/api/todos/"+id, bob, map[string]string{"title": "Bob's now"})
	unknown, unknownBody := s.do(http.MethodPatch, "/api/todos/00000000-0000-4000-8000-000000000000", bob, map[string]string{"title": "x"})
	s.Equal(http.StatusNotFound, foreign.Code)
	s.Equal(http.StatusNotFound, unknown.Code)
	s.Equal(unknownBody, foreignBody)

	w, _ = s.do(http.MethodDelete, "/api/todos/"+id, bob, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, still := s.do(http.MethodGet, "/api/todos/"+id, alice, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Alice only", still["title"])
}

func (s *APITestSuite) TestAuthRequiredBeforeBodyParsing() {
	w, body := s.do(http.MethodPost, "/api/todos", "", "not json at all")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("UNAUTHORIZED", body["code"])

	w, _ = s.do(http.MethodPatch, "/api/todos/whatever", "garbage", "not json at all")
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestUsernameChangeReissuesToken() {
	token := s.login("alice", "secret1")
	s.login("bobby", "secret2")

	w, _ := s.do(http.MethodPatch, "/api/auth/username", token, map[string]string{"username": "bobby"})
	s.Equal(http.StatusConflict, w.Code)

	w, body := s.do(http.MethodPatch, "/api/auth/username", token, map[string]string{"username": "alicia"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("alicia", body["username"])
	fresh := body["token"].(string)

	w, me := s.do(http.MethodGet, "/api/auth/me", fresh, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("alicia", me["username"])
}

func (s *APITestSuite) TestPasswordChange() {
	token := s.login("alice", "secret1")

	w, _ := s.do(http.MethodPatch, "/api/auth/password", token, map[string]string{"currentPassword": "wrong1", "newPassword": "secret2"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w, body := s.do(http.MethodPatch, "/api/auth/password", token, map[string]string{"currentPassword": "secret1", "newPassword": "secret2"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotEmpty(body["token"])

	w, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "secret2"})
	s.Equal(http.StatusOK, w.Code)
}

func (s *APITestSuite) TestStatsAndGenerateRoutes() {
	token := s.login("alice", "secret1")
	s.do(http.MethodPost, "/api/todos", token, map[string]string{"title": "a"})

	w, stats := s.do(http.MethodGet, "/api/todos/stats", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(float64(1), stats["total"])

	w, _ = s.do(http.MethodPost, "/api/todos/generate", token, map[string]string{"text": "buy milk"})
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newTestStore(t)
	logger := logging.Discard()

	app := &App{
		logger: logger,
		store:  store,
		server: &http.Server{
			Handler: NewRouter(RouterConfig{
				Store:  store,
				Tokens: auth.NewTokenIssuer([]byte("test-secret"), time.Hour),
				Logger: logger,
			}),
			ReadHeaderTimeout: time.Second,
		},
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
