package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/wfh-poll/internal/controller"
	"github.com/saxenaaman628/wfh-poll/internal/kv"
	"github.com/saxenaaman628/wfh-poll/internal/poll"
	"github.com/saxenaaman628/wfh-poll/internal/testutil"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := poll.NewService(testutil.NewFakeChat(), kv.NewMemoryStore(), testutil.GetTestConfig())
	return NewRouter(controller.New(svc))
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("expected OK, got %q", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("expected incoming request id to be echoed, got %q", got)
	}
}

func TestRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, "/api/slack/interactivity", http.StatusOK},
		{http.MethodPost, "/api/vote", http.StatusOK},
		{http.MethodPost, "/api/slack/commands", http.StatusBadRequest},
		{http.MethodGet, "/api/send-vote", http.StatusNotFound},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, testutil.MakeFormRequest(tt.method, tt.path, nil))
			testutil.AssertStatus(t, w, tt.want)
		})
	}
}
