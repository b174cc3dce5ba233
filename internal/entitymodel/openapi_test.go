package entitymodel

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOpenAPISpecCoversEveryRoute(t *testing.T) {
	spec, err := OpenAPISpec(Catalog())
	require.NoError(t, err)

	var doc struct {
		OpenAPI    string                    `yaml:"openapi"`
		Paths      map[string]map[string]any `yaml:"paths"`
		Components struct {
			Schemas map[string]map[string]any `yaml:"schemas"`
		} `yaml:"components"`
	}
	require.NoError(t, yaml.Unmarshal(spec, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	for _, e := range Catalog().Entities() {
		assert.Contains(t, doc.Paths, "/api/"+e.Route)
		assert.Contains(t, doc.Paths["/api/"+e.Route+"/{id}"], "delete")
	}
	assert.Contains(t, doc.Components.Schemas, "ImpactAssessment")
	assert.Contains(t, doc.Components.Schemas, "ClaimComplainControl")
}

func TestNewOpenAPIHandlerServesYAML(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/openapi", nil)
	rec := httptest.NewRecorder()

	NewOpenAPIHandler(Catalog()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "/api/departments")
}
