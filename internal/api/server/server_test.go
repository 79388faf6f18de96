package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/api/middleware"
	"github.com/feral-file/ff-events/internal/api/server"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/health"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/mocks"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func newServer(t *testing.T, cfg server.Config) (*server.Server, *mocks.MockMonitor) {
	ctrl := gomock.NewController(t)
	monitor := mocks.NewMockMonitor(ctrl)
	srv := server.New(cfg, mocks.NewMockOrchestrator(ctrl), monitor, mocks.NewMockReconciler(ctrl))
	return srv, monitor
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", server.Config{Host: "0.0.0.0", Port: 8080}.Addr())
	assert.Equal(t, "[::1]:9000", server.Config{Host: "::1", Port: 9000}.Addr())
}

func TestRouter_RequestID(t *testing.T) {
	srv, monitor := newServer(t, server.Config{})
	monitor.EXPECT().GetSystemHealth(gomock.Any()).Return(health.SystemHealth{Overall: domain.HealthStatusHealthy}).Times(2)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	generated := w.Header().Get(middleware.REQUEST_ID_HEADER)
	assert.NotEmpty(t, generated)
	assert.Contains(t, w.Body.String(), `"requestId":"`+generated+`"`)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, "trace-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "trace-1", w.Header().Get(middleware.REQUEST_ID_HEADER))
}

func TestRouter_NotFound(t *testing.T) {
	srv, _ := newServer(t, server.Config{})
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/events", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/events", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	srv, _ := newServer(t, server.Config{
		MaxBodySize: 64,
		Auth:        middleware.AuthConfig{APIKeys: []string{"key-1"}},
	})
	router := srv.Router()

	body := `{"title":"` + strings.Repeat("a", 256) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
