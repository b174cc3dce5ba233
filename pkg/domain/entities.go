// Package domain defines the persistent record shape, the declarative entity
// schema, and the persistence ports shared by every sgas resource.
package domain

import (
	"strings"
	"time"
	"unicode"
)

// EntityType identifies the type of record stored in the compliance domain.
type EntityType string

// FieldKind enumerates the scalar value kinds an entity field may carry.
type FieldKind string

// Supported scalar field kinds.
const (
	KindString   FieldKind = "string"
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindInteger  FieldKind = "integer"
	KindBoolean  FieldKind = "boolean"
	KindDate     FieldKind = "date"
	KindDateTime FieldKind = "datetime"
	KindEnum     FieldKind = "enum"
	// KindFile stores the URL returned by object storage for an uploaded part.
	KindFile FieldKind = "file"
)

// Field declares one scalar column of an entity. API is the snake_case name
// used on the wire; Storage is the camelCase key used inside records.
type Field struct {
	API      string    `json:"api"`
	Storage  string    `json:"storage"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Unique   bool      `json:"unique,omitempty"`
	Enum     []string  `json:"enum,omitempty"`
}

// IsTemporal reports whether the field holds a time value.
func (f Field) IsTemporal() bool {
	return f.Kind == KindDate || f.Kind == KindDateTime
}

// Relation declares a reference from one entity to another. A singular
// relation stores at most one id; Many relations store an unordered set.
type Relation struct {
	API      string     `json:"api"`
	Storage  string     `json:"storage"`
	Target   EntityType `json:"target"`
	Many     bool       `json:"many,omitempty"`
	Required bool       `json:"required"`
}

// Restricts reports whether an existing reference through this relation blocks
// deletion of the target. Optional references are detached instead.
func (r Relation) Restricts() bool {
	return r.Required && !r.Many
}

// Order describes the natural listing order of an entity.
type Order struct {
	// Field is a storage field name; empty orders by creation time.
	Field string `json:"field,omitempty"`
	Desc  bool   `json:"desc"`
}

// Entity is the declarative mapping table for one record type.
type Entity struct {
	Type   EntityType `json:"type"`
	Route  string     `json:"route"`
	Label  string     `json:"label"`
	Plural string     `json:"plural"`
	// DisplayField is the storage name inlined next to the id when the entity
	// is rendered as a related sub-record.
	DisplayField string     `json:"display_field"`
	Lookup       bool       `json:"lookup,omitempty"`
	Order        Order      `json:"order"`
	Fields       []Field    `json:"fields"`
	Relations    []Relation `json:"relations,omitempty"`
}

// Field returns the field with the given storage name.
func (e Entity) Field(storage string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Storage == storage {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByAPI returns the field with the given API name.
func (e Entity) FieldByAPI(api string) (Field, bool) {
	for _, f := range e.Fields {
		if f.API == api {
			return f, true
		}
	}
	return Field{}, false
}

// Relation returns the relation with the given storage name.
func (e Entity) Relation(storage string) (Relation, bool) {
	for _, r := range e.Relations {
		if r.Storage == storage {
			return r, true
		}
	}
	return Relation{}, false
}

// RelationByAPI returns the relation with the given API name.
func (e Entity) RelationByAPI(api string) (Relation, bool) {
	for _, r := range e.Relations {
		if r.API == api {
			return r, true
		}
	}
	return Relation{}, false
}

// UniqueFields lists the fields carrying a secondary uniqueness constraint.
func (e Entity) UniqueFields() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.Unique {
			out = append(out, f)
		}
	}
	return out
}

// FileFields lists the attachment fields of the entity.
func (e Entity) FileFields() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.Kind == KindFile {
			out = append(out, f)
		}
	}
	return out
}

// HasFiles reports whether the entity owns attachments.
func (e Entity) HasFiles() bool {
	return len(e.FileFields()) > 0
}

// DisplayAPI returns the API name of the display field.
func (e Entity) DisplayAPI() string {
	if f, ok := e.Field(e.DisplayField); ok {
		return f.API
	}
	return e.DisplayField
}

// Record is the storage representation of any entity instance. Fields are
// keyed by storage name and hold native values (string, float64, int64, bool,
// time.Time); Links are keyed by relation storage name.
type Record struct {
	ID        string              `json:"id"`
	Fields    map[string]any      `json:"fields"`
	Links     map[string][]string `json:"links,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// NewRecord returns an empty record with initialised maps.
func NewRecord() Record {
	return Record{Fields: map[string]any{}, Links: map[string][]string{}}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	cp := r
	cp.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		cp.Fields[k] = v
	}
	cp.Links = make(map[string][]string, len(r.Links))
	for k, ids := range r.Links {
		cp.Links[k] = append([]string(nil), ids...)
	}
	return cp
}

// Link returns the single id stored for a singular relation.
func (r Record) Link(storage string) string {
	ids := r.Links[storage]
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// String returns a string-valued field or "".
func (r Record) String(storage string) string {
	if v, ok := r.Fields[storage].(string); ok {
		return v
	}
	return ""
}

// References reports whether the relation holds id.
func (r Record) References(storage, id string) bool {
	for _, existing := range r.Links[storage] {
		if existing == id {
			return true
		}
	}
	return false
}

// CamelCase converts a snake_case API name into its storage form.
func CamelCase(api string) string {
	parts := strings.Split(api, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
