package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Reference names a relation on Source that points at another entity.
type Reference struct {
	Source   EntityType
	Relation Relation
}

// Catalog is the validated registry of every entity the service exposes.
// Reverse references are derived from relation declarations at registration.
type Catalog struct {
	entities     []Entity
	byType       map[EntityType]int
	byRoute      map[string]int
	referencedBy map[EntityType][]Reference
}

// NewCatalog applies storage-name defaults to the supplied entities and
// validates the result.
func NewCatalog(entities ...Entity) (*Catalog, error) {
	c := &Catalog{
		byType:       make(map[EntityType]int, len(entities)),
		byRoute:      make(map[string]int, len(entities)),
		referencedBy: make(map[EntityType][]Reference),
	}
	var errs []error
	for _, e := range entities {
		e = withDefaults(e)
		if e.Type == "" {
			errs = append(errs, errors.New("entity type is required"))
			continue
		}
		if _, dup := c.byType[e.Type]; dup {
			errs = append(errs, fmt.Errorf("entity %s registered twice", e.Type))
			continue
		}
		if e.Route == "" {
			errs = append(errs, fmt.Errorf("entity %s: route is required", e.Type))
		} else if other, dup := c.byRoute[e.Route]; dup {
			errs = append(errs, fmt.Errorf("entity %s: route %q already used by %s", e.Type, e.Route, c.entities[other].Type))
		}
		c.byType[e.Type] = len(c.entities)
		if e.Route != "" {
			c.byRoute[e.Route] = len(c.entities)
		}
		c.entities = append(c.entities, e)
	}
	for _, e := range c.entities {
		errs = append(errs, c.validateEntity(e)...)
		for _, rel := range e.Relations {
			c.referencedBy[rel.Target] = append(c.referencedBy[rel.Target], Reference{Source: e.Type, Relation: rel})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustCatalog is NewCatalog for package-level registries.
func MustCatalog(entities ...Entity) *Catalog {
	c, err := NewCatalog(entities...)
	if err != nil {
		panic(err)
	}
	return c
}

func withDefaults(e Entity) Entity {
	fields := make([]Field, len(e.Fields))
	for i, f := range e.Fields {
		if f.Storage == "" {
			f.Storage = CamelCase(f.API)
		}
		fields[i] = f
	}
	e.Fields = fields
	relations := make([]Relation, len(e.Relations))
	for i, r := range e.Relations {
		if r.Storage == "" {
			r.Storage = CamelCase(r.API)
		}
		relations[i] = r
	}
	e.Relations = relations
	if e.Plural == "" {
		e.Plural = e.Label + "s"
	}
	return e
}

func (c *Catalog) validateEntity(e Entity) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("entity %s: "+format, append([]any{e.Type}, args...)...))
	}
	apiNames := make(map[string]struct{})
	storageNames := make(map[string]struct{})
	claim := func(api, storage string) {
		if api == "" || storage == "" {
			fail("field name is required")
			return
		}
		if api == "id" || api == "created_at" || api == "updated_at" {
			fail("field %q is reserved", api)
		}
		if _, dup := apiNames[api]; dup {
			fail("duplicate api name %q", api)
		}
		if _, dup := storageNames[storage]; dup {
			fail("duplicate storage name %q", storage)
		}
		apiNames[api] = struct{}{}
		storageNames[storage] = struct{}{}
	}
	for _, f := range e.Fields {
		claim(f.API, f.Storage)
		switch f.Kind {
		case KindEnum:
			if len(f.Enum) == 0 {
				fail("enum field %q has no values", f.API)
			}
		case KindString, KindText, KindNumber, KindInteger, KindBoolean, KindDate, KindDateTime:
		case KindFile:
			if f.Unique || f.Required {
				fail("file field %q cannot be unique or required", f.API)
			}
		default:
			fail("field %q has unknown kind %q", f.API, f.Kind)
		}
	}
	for _, r := range e.Relations {
		claim(r.API, r.Storage)
		if _, ok := c.byType[r.Target]; !ok {
			fail("relation %q targets unknown entity %q", r.API, r.Target)
		}
		if r.Many && r.Required {
			fail("many-to-many relation %q cannot be required", r.API)
		}
	}
	display, ok := e.Field(e.DisplayField)
	if !ok {
		fail("display field %q not declared", e.DisplayField)
	}
	if e.Order.Field != "" {
		if _, ok := e.Field(e.Order.Field); !ok {
			fail("order field %q not declared", e.Order.Field)
		}
	}
	if e.Lookup {
		if ok && display.Kind != KindString {
			fail("lookup display field %q must be a string", display.API)
		}
		for _, f := range e.Fields {
			if f.Required && f.Storage != e.DisplayField {
				fail("lookup entity cannot require %q besides its display field", f.API)
			}
		}
		for _, r := range e.Relations {
			if r.Required {
				fail("lookup entity cannot require relation %q", r.API)
			}
		}
	}
	return errs
}

// Entities returns the registered entities in registration order.
func (c *Catalog) Entities() []Entity {
	return append([]Entity(nil), c.entities...)
}

// Entity looks an entity up by type.
func (c *Catalog) Entity(t EntityType) (Entity, bool) {
	idx, ok := c.byType[t]
	if !ok {
		return Entity{}, false
	}
	return c.entities[idx], true
}

// ByRoute looks an entity up by its URL route segment.
func (c *Catalog) ByRoute(route string) (Entity, bool) {
	idx, ok := c.byRoute[route]
	if !ok {
		return Entity{}, false
	}
	return c.entities[idx], true
}

// ReferencedBy lists every relation in the catalog that targets t, sorted by
// source entity then relation name.
func (c *Catalog) ReferencedBy(t EntityType) []Reference {
	refs := append([]Reference(nil), c.referencedBy[t]...)
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Source != refs[j].Source {
			return refs[i].Source < refs[j].Source
		}
		return refs[i].Relation.Storage < refs[j].Relation.Storage
	})
	return refs
}

// Normalize restores native value types on a record that went through a
// generic codec such as encoding/json. Keys the entity does not declare are
// dropped.
func (c *Catalog) Normalize(t EntityType, rec Record) (Record, error) {
	e, ok := c.Entity(t)
	if !ok {
		return Record{}, fmt.Errorf("unknown entity %q", t)
	}
	out := rec.Clone()
	out.Fields = make(map[string]any, len(rec.Fields))
	for _, f := range e.Fields {
		raw, present := rec.Fields[f.Storage]
		if !present || raw == nil {
			continue
		}
		v, err := NormalizeValue(f.Kind, raw)
		if err != nil {
			return Record{}, fmt.Errorf("%s %s field %s: %w", t, rec.ID, f.Storage, err)
		}
		out.Fields[f.Storage] = v
	}
	out.Links = make(map[string][]string, len(rec.Links))
	for _, r := range e.Relations {
		if ids := rec.Links[r.Storage]; len(ids) > 0 {
			out.Links[r.Storage] = append([]string(nil), ids...)
		}
	}
	return out, nil
}

// HumanPlural renders an entity's plural label in lower case, used in
// conflict messages such as "department still in use by impact assessments".
func HumanPlural(e Entity) string {
	return strings.ToLower(e.Plural)
}
