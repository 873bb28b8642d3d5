package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"iolist/internal/domain"
	"iolist/internal/handler"
	"iolist/internal/router"
	"iolist/mocks"
)

func setup(t *testing.T) (*gin.Engine, *mocks.MockIOListService, *mocks.MockCatalogService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ioSvc := new(mocks.MockIOListService)
	catSvc := new(mocks.MockCatalogService)
	r := router.Setup(zap.NewNop(), []string{"*"},
		handler.NewIOListHandler(ioSvc),
		handler.NewCatalogHandler(catSvc),
		handler.NewHealthHandler(nil))
	return r, ioSvc, catSvc
}

func TestRouter_ResultsAliases(t *testing.T) {
	r, ioSvc, _ := setup(t)
	ioSvc.On("Latest", mock.Anything).Return(nil, domain.ErrNoResults)

	for _, path := range []string{"/api/results", "/api/v1/results"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"No results available"}`, w.Body.String(), path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_ComponentDBAliases(t *testing.T) {
	r, _, catSvc := setup(t)
	catSvc.On("Catalog", mock.Anything).Return(domain.NewCatalog(nil), nil)

	for _, path := range []string{"/component_db", "/api/v1/component_db"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{}`, w.Body.String(), path)
	}
}

func TestRouter_Operational(t *testing.T) {
	r, _, _ := setup(t)

	tests := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/swagger/doc.json", http.StatusOK},
		{"/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, tt.path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _, _ := setup(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
