package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meal-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistMountedWithAndWithoutPrefix(t *testing.T) {
	router, err := SetupRouter(&config.Config{}, nil)
	require.NoError(t, err)

	// 兩個掛載點都要回應，且驗證行為一致
	for path, body := range map[string]string{
		"/assist":        `{"payload":{}}`,
		"/api/v1/assist": `{"action":""}`,
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "action is required", path)
	}
}
