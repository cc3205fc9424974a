package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupRouter_Health(t *testing.T) {
	dbConn := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := SetupRouter(testConfig(), dbConn)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("expected response to contain 'ok', got: %s", w.Body.String())
	}
}

func TestSetupRouter_ListIsPublic(t *testing.T) {
	dbConn := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := SetupRouter(testConfig(), dbConn)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/pins", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for unauthenticated list, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetupRouter_WritesRequireToken(t *testing.T) {
	dbConn := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := SetupRouter(testConfig(), dbConn)

	for _, tc := range []struct{ method, path string }{
		{"POST", "/api/pins"},
		{"PUT", "/api/pins/some-id"},
		{"DELETE", "/api/pins/some-id"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", tc.method, tc.path, w.Code)
		}
	}
}
