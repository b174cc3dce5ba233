package entitymodel

import (
	"net/http"

	"gopkg.in/yaml.v3"

	"sgas/pkg/domain"
)

// OpenAPISpec renders OpenAPI 3 paths and component schemas for every
// catalog entity.
func OpenAPISpec(c *domain.Catalog) ([]byte, error) {
	paths := map[string]any{}
	schemas := map[string]any{
		"Error": map[string]any{
			"type":       "object",
			"properties": map[string]any{"error": map[string]any{"type": "string"}},
		},
		"Reference": map[string]any{
			"type":       "object",
			"properties": map[string]any{"id": map[string]any{"type": "string"}},
		},
	}
	for _, e := range c.Entities() {
		name := schemaName(e)
		schemas[name] = entitySchema(c, e)
		ref := map[string]any{"$ref": "#/components/schemas/" + name}
		body := requestBody(e, ref)
		idParam := []any{map[string]any{"name": "id", "in": "path", "required": true, "schema": map[string]any{"type": "string"}}}
		paths["/api/"+e.Route] = map[string]any{
			"get": map[string]any{
				"summary":    "List " + e.Plural,
				"parameters": filterParams(e),
				"responses": map[string]any{
					"200": jsonResponse(map[string]any{"type": "array", "items": ref}),
					"400": errorResponse(),
				},
			},
			"post": map[string]any{
				"summary":     "Create " + e.Label,
				"requestBody": body,
				"responses": map[string]any{
					"201": jsonResponse(ref),
					"400": errorResponse(),
					"404": errorResponse(),
				},
			},
		}
		paths["/api/"+e.Route+"/{id}"] = map[string]any{
			"parameters": idParam,
			"get": map[string]any{
				"summary":   "Get " + e.Label,
				"responses": map[string]any{"200": jsonResponse(ref), "404": errorResponse()},
			},
			"put": map[string]any{
				"summary":     "Replace " + e.Label,
				"requestBody": body,
				"responses":   map[string]any{"200": jsonResponse(ref), "400": errorResponse(), "404": errorResponse()},
			},
			"delete": map[string]any{
				"summary": "Delete " + e.Label,
				"responses": map[string]any{
					"200": jsonResponse(map[string]any{"type": "object", "properties": map[string]any{"success": map[string]any{"type": "boolean"}}}),
					"400": errorResponse(),
					"404": errorResponse(),
				},
			},
		}
	}
	doc := map[string]any{
		"openapi":    "3.0.3",
		"info":       map[string]any{"title": "SGAS compliance API", "version": Version(c)},
		"paths":      paths,
		"components": map[string]any{"schemas": schemas},
	}
	return yaml.Marshal(doc)
}

func schemaName(e domain.Entity) string {
	return domain.CamelCase("x_" + string(e.Type))[1:]
}

func entitySchema(c *domain.Catalog, e domain.Entity) map[string]any {
	props := map[string]any{
		"id":         map[string]any{"type": "string", "readOnly": true},
		"created_at": map[string]any{"type": "string", "format": "date-time", "readOnly": true},
		"updated_at": map[string]any{"type": "string", "format": "date-time", "readOnly": true},
	}
	var required []string
	for _, f := range e.Fields {
		props[f.API] = fieldSchema(f)
		if f.Required {
			required = append(required, f.API)
		}
	}
	for _, r := range e.Relations {
		target, _ := c.Entity(r.Target)
		item := map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":                 map[string]any{"type": "string"},
				target.DisplayAPI(): map[string]any{},
			},
		}
		if r.Many {
			props[r.API] = map[string]any{"type": "array", "items": item}
		} else {
			props[r.API] = item
			props[r.API+"_id"] = map[string]any{"type": "string", "nullable": !r.Required}
		}
		if r.Required {
			required = append(required, r.API)
		}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(f domain.Field) map[string]any {
	s := map[string]any{}
	switch f.Kind {
	case domain.KindNumber:
		s["type"] = "number"
	case domain.KindInteger:
		s["type"] = "integer"
	case domain.KindBoolean:
		s["type"] = "boolean"
	case domain.KindDate:
		s["type"], s["format"] = "string", "date"
	case domain.KindDateTime:
		s["type"], s["format"] = "string", "date-time"
	case domain.KindEnum:
		s["type"], s["enum"] = "string", f.Enum
	case domain.KindFile:
		s["type"], s["format"] = "string", "uri"
	default:
		s["type"] = "string"
	}
	if !f.Required {
		s["nullable"] = true
	}
	return s
}

func filterParams(e domain.Entity) []any {
	params := []any{}
	for _, r := range e.Relations {
		params = append(params, map[string]any{
			"name":   r.API + "_id",
			"in":     "query",
			"schema": map[string]any{"type": "string"},
		})
	}
	return params
}

func requestBody(e domain.Entity, ref map[string]any) map[string]any {
	content := map[string]any{"application/json": map[string]any{"schema": ref}}
	if e.HasFiles() {
		content["multipart/form-data"] = map[string]any{"schema": map[string]any{"type": "object"}}
	}
	return map[string]any{"required": true, "content": content}
}

func jsonResponse(schema map[string]any) map[string]any {
	return map[string]any{
		"description": "OK",
		"content":     map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}

func errorResponse() map[string]any {
	return map[string]any{
		"description": "Error",
		"content": map[string]any{"application/json": map[string]any{
			"schema": map[string]any{"$ref": "#/components/schemas/Error"},
		}},
	}
}

// NewOpenAPIHandler returns an http.Handler that serves the generated OpenAPI
// YAML with a static content-type.
func NewOpenAPIHandler(c *domain.Catalog) http.Handler {
	spec, err := OpenAPISpec(c)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if err != nil {
			http.Error(w, "openapi spec unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(spec)
	})
}
