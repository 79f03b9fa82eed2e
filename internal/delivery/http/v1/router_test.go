package v1_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"jobboard-backend/config"
	_ "jobboard-backend/docs"
	"jobboard-backend/internal/delivery/http/middleware"
	v1 "jobboard-backend/internal/delivery/http/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestRouterRoutesAreDocumented(t *testing.T) {
	router := v1.NewRouter(v1.RouterDeps{
		HealthUC: stubHealth{ok: true},
		Config:   &config.Config{RateLimitWindowSeconds: 60, RateLimitGlobalThreshold: 1000, RateLimitApplyThreshold: 100},
	})

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, middleware.APIBasePath, doc.BasePath)

	routes := 0
	for _, route := range router.Routes() {
		if strings.HasPrefix(route.Path, middleware.APIBasePath+"/swagger/") {
			continue
		}
		routes++
		path := pathParam.ReplaceAllString(strings.TrimPrefix(route.Path, middleware.APIBasePath), "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "%s %s is not documented", route.Method, route.Path) {
			assert.Contains(t, ops, strings.ToLower(route.Method), "%s %s is not documented", route.Method, route.Path)
		}
	}
	assert.Greater(t, routes, 30)
}

func TestSwaggerServesDocument(t *testing.T) {
	router := v1.NewRouter(v1.RouterDeps{
		HealthUC: stubHealth{ok: true},
		Config:   &config.Config{RateLimitWindowSeconds: 60, RateLimitGlobalThreshold: 1000, RateLimitApplyThreshold: 100},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/candidates/jobs/{id}/apply"`)
	assert.Contains(t, w.Body.String(), `"domain.WizardSubmission"`)
}
