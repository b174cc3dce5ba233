package entitymodel

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"sgas/pkg/domain"
)

// Version returns a fingerprint of the catalog declarations. It changes
// whenever an entity, field or relation is added, removed or altered.
func Version(c *domain.Catalog) string {
	data, err := json.Marshal(c.Entities())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// EntityDescription is the public description of one catalog entity.
type EntityDescription struct {
	Type         domain.EntityType `json:"type"`
	Route        string            `json:"route"`
	Label        string            `json:"label"`
	Plural       string            `json:"plural"`
	Lookup       bool              `json:"lookup"`
	DisplayField string            `json:"display_field"`
	Fields       []domain.Field    `json:"fields"`
	Relations    []domain.Relation `json:"relations"`
	ReferencedBy []string          `json:"referenced_by"`
}

// Description is the payload served at /api/schema.
type Description struct {
	Version  string              `json:"version"`
	Entities []EntityDescription `json:"entities"`
}

// Describe renders the catalog for clients that build forms from it.
func Describe(c *domain.Catalog) Description {
	out := Description{Version: Version(c)}
	for _, e := range c.Entities() {
		desc := EntityDescription{
			Type:         e.Type,
			Route:        e.Route,
			Label:        e.Label,
			Plural:       e.Plural,
			Lookup:       e.Lookup,
			DisplayField: e.DisplayAPI(),
			Fields:       e.Fields,
			Relations:    e.Relations,
			ReferencedBy: []string{},
		}
		if desc.Relations == nil {
			desc.Relations = []domain.Relation{}
		}
		for _, ref := range c.ReferencedBy(e.Type) {
			desc.ReferencedBy = append(desc.ReferencedBy, string(ref.Source)+"."+ref.Relation.API)
		}
		out.Entities = append(out.Entities, desc)
	}
	return out
}
