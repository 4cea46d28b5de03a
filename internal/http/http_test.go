package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/users/internal/config"
	"github.com/allisson/users/internal/metrics"
	userHTTP "github.com/allisson/users/internal/user/http"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	return p.err
}

// fixedController answers every request with the same response.
type fixedController struct {
	response userHTTP.Response
	calls    int
}

func (c *fixedController) Handle(_ context.Context, _ userHTTP.Request) userHTTP.Response {
	c.calls++
	return c.response
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testControllers() UserControllers {
	user := map[string]string{"id": "1", "name": "John Doe", "email": "john.doe@example.com"}
	return UserControllers{
		Create: &fixedController{response: userHTTP.Response{Status: http.StatusCreated, Value: user}},
		Get:    &fixedController{response: userHTTP.Response{Status: http.StatusOK, Value: user}},
		Put:    &fixedController{response: userHTTP.Response{Status: http.StatusOK, Value: user}},
		Delete: &fixedController{response: userHTTP.Response{Status: http.StatusNotFound, Error: "gone"}},
	}
}

func newTestServer(t *testing.T, db *fakePinger, cfg *config.Config) *Server {
	t.Helper()

	var server *Server
	if db == nil {
		server = NewServer(nil, "localhost", 0, discardLogger())
	} else {
		server = NewServer(db, "localhost", 0, discardLogger())
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server.SetupRouter(ctx, cfg, testControllers(), nil)
	return server
}

func serve(server *Server, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	server.GetHandler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	server := NewServer(nil, "localhost", 8080, discardLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         *fakePinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "nil database",
			db:         nil,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"not_ready","components":{"database":"error"}}`,
		},
		{
			name:       "ping fails",
			db:         &fakePinger{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"not_ready","components":{"database":"error"}}`,
		},
		{
			name:       "ping succeeds",
			db:         &fakePinger{},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","components":{"database":"ok"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.db, &config.Config{})

			w := serve(server, http.MethodGet, "/ready", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRouter_UserRoutes(t *testing.T) {
	server := newTestServer(t, &fakePinger{}, &config.Config{})

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			http.MethodPost, "/v1/users", `{"name":"John Doe","email":"john.doe@example.com"}`,
			http.StatusCreated, `{"value":{"id":"1","name":"John Doe","email":"john.doe@example.com"}}`,
		},
		{
			http.MethodGet, "/v1/users/1", "",
			http.StatusOK, `{"value":{"id":"1","name":"John Doe","email":"john.doe@example.com"}}`,
		},
		{
			http.MethodPut, "/v1/users/1", `{"name":"John Doe","email":"john.doe@example.com"}`,
			http.StatusOK, `{"value":{"id":"1","name":"John Doe","email":"john.doe@example.com"}}`,
		},
		{
			http.MethodDelete, "/v1/users/1", "",
			http.StatusNotFound, `{"error":"gone"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(server, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())

			requestID := w.Header().Get(userHTTP.HeaderRequestID)
			_, err := uuid.Parse(requestID)
			require.NoError(t, err, "X-Request-Id should be a valid UUID")
			assert.NotEmpty(t, w.Header().Get(userHTTP.HeaderCorrelationID))
		})
	}
}

func TestRouter_KeepsCallerCorrelationID(t *testing.T) {
	server := newTestServer(t, &fakePinger{}, &config.Config{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
	req.Header.Set(userHTTP.HeaderCorrelationID, "corr-123")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, "corr-123", w.Header().Get(userHTTP.HeaderCorrelationID))
}

func TestRouter_AuthEnabled(t *testing.T) {
	server := newTestServer(t, &fakePinger{}, &config.Config{AuthEnabled: true, AuthJWTSecret: "secret"})

	w := serve(server, http.MethodGet, "/v1/users/1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimitEnabled(t *testing.T) {
	server := newTestServer(t, &fakePinger{}, &config.Config{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.1,
		RateLimitBurst:          1,
	})

	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/v1/users/1", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(server, http.MethodGet, "/v1/users/1", "").Code)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server := newTestServer(t, &fakePinger{}, &config.Config{})

	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/nonexistent", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/metrics", "").Code)
}

func TestRouter_HTTPMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("users_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	server := NewServer(&fakePinger{}, "localhost", 0, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	server.SetupRouter(ctx, &config.Config{MetricsNamespace: "users_test"}, testControllers(), provider)

	serve(server, http.MethodGet, "/v1/users/1", "")

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "users_test_http_requests_total")
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())

	err := server.Start(context.Background())
	assert.EqualError(t, err, "router is not configured")
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := newTestServer(t, &fakePinger{}, &config.Config{})

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	var body map[string]any
	assert.Error(t, json.Unmarshal(w.Body.Bytes(), &body))
}
