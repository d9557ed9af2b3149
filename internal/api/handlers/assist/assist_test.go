package assist

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	assistService "meal-planner/internal/core/assist"
	"meal-planner/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	// 400 路徑不會打到任何供應商，閘道器留空即可
	svc := assistService.NewService(&config.Config{}, nil, nil, nil, nil, nil)
	handler := NewHandler(svc)

	router := gin.New()
	router.POST("/api/v1/assist", handler.HandleAssist)
	return router
}

func doAssist(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)
	return w
}

func TestAssistMissingAction(t *testing.T) {
	w := doAssist(t, `{"payload":{}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"action is required"}`, w.Body.String())
}

func TestAssistUnknownAction(t *testing.T) {
	w := doAssist(t, `{"action":"make_coffee"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unknown action"}`, w.Body.String())
}

func TestAssistMalformedBody(t *testing.T) {
	w := doAssist(t, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistMalformedPayload(t *testing.T) {
	w := doAssist(t, `{"action":"import_recipe_url","payload":"not an object"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistImportURLRequiresURL(t *testing.T) {
	w := doAssist(t, `{"action":"import_recipe_url","payload":{"url":""}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"url is required"}`, w.Body.String())
}

func TestAssistImportPhotoRequiresPhotos(t *testing.T) {
	w := doAssist(t, `{"action":"import_recipe_photo","payload":{"photos":[]}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"photos are required"}`, w.Body.String())
}
