package entitymodel

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"sgas/pkg/domain"
)

// Reference is a relation value as supplied by a client. A bare string sets
// both ID and Display; the object form {"id": ..., "<display>": ...} sets them
// separately and marks the id as client-chosen.
type Reference struct {
	ID      string
	Display string
	KeepID  bool
}

// Upload is a file part waiting to be written to object storage.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Input is a decoded create or update payload in storage terms.
type Input struct {
	// Fields holds native values keyed by storage name. File fields appear only
	// when the client sent them explicitly; an empty string clears the file.
	Fields map[string]any
	// References holds the requested ids for every declared relation.
	References map[string][]Reference
	// Uploads holds new file parts keyed by storage name.
	Uploads map[string]Upload
}

// Codec translates between wire payloads and records for every catalog entity.
type Codec struct {
	catalog *domain.Catalog
}

// NewCodec constructs a codec over the supplied catalog.
func NewCodec(catalog *domain.Catalog) *Codec {
	return &Codec{catalog: catalog}
}

// Catalog returns the catalog the codec was built with.
func (c *Codec) Catalog() *domain.Catalog {
	return c.catalog
}

// Decode validates raw (keyed by API name) against the entity declaration.
// files carries multipart uploads keyed by API name and may be nil.
func (c *Codec) Decode(t domain.EntityType, raw map[string]any, files map[string]Upload) (Input, error) {
	e, ok := c.catalog.Entity(t)
	if !ok {
		return Input{}, fmt.Errorf("unknown entity %q", t)
	}
	in := Input{
		Fields:     make(map[string]any),
		References: make(map[string][]Reference),
		Uploads:    make(map[string]Upload),
	}
	verr := domain.ErrValidation{Entity: t}
	for _, f := range e.Fields {
		if f.Kind == domain.KindFile {
			if up, ok := files[f.API]; ok {
				in.Uploads[f.Storage] = up
				continue
			}
			v, present := raw[f.API]
			if !present {
				continue
			}
			s, isString := v.(string)
			if v != nil && !isString {
				verr.AddInvalid(f.API, "expected file url")
				continue
			}
			in.Fields[f.Storage] = strings.TrimSpace(s)
			continue
		}
		v, present := raw[f.API]
		if !present || blank(v) {
			if f.Required {
				verr.Missing = append(verr.Missing, f.API)
			}
			continue
		}
		native, err := domain.NormalizeValue(f.Kind, v)
		if err != nil {
			verr.AddInvalid(f.API, err.Error())
			continue
		}
		if f.Kind == domain.KindEnum && !slices.Contains(f.Enum, native.(string)) {
			verr.AddInvalid(f.API, "must be one of "+strings.Join(f.Enum, ", "))
			continue
		}
		in.Fields[f.Storage] = native
	}
	for _, r := range e.Relations {
		target, _ := c.catalog.Entity(r.Target)
		refs, err := decodeReferences(r, target.DisplayAPI(), raw)
		if err != nil {
			verr.AddInvalid(r.API, err.Error())
			continue
		}
		if r.Required && len(refs) == 0 {
			verr.Missing = append(verr.Missing, r.API)
			continue
		}
		in.References[r.Storage] = refs
	}
	if !verr.Empty() {
		return Input{}, verr
	}
	return in, nil
}

func decodeReferences(r domain.Relation, displayAPI string, raw map[string]any) ([]Reference, error) {
	keys := []string{r.API, r.API + "_id"}
	if r.Many {
		keys = append(keys, r.API+"_ids")
	}
	var v any
	for _, k := range keys {
		if candidate, ok := raw[k]; ok && !blank(candidate) {
			v = candidate
			break
		}
	}
	if v == nil {
		return nil, nil
	}
	var items []any
	switch x := v.(type) {
	case []any:
		if !r.Many {
			return nil, fmt.Errorf("expected a single reference")
		}
		items = x
	case []string:
		if !r.Many {
			return nil, fmt.Errorf("expected a single reference")
		}
		for _, s := range x {
			items = append(items, s)
		}
	default:
		items = []any{x}
	}
	out := make([]Reference, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		ref, err := decodeReference(item, displayAPI)
		if err != nil {
			return nil, err
		}
		if ref == (Reference{}) {
			continue
		}
		key := ref.ID + "\x00" + ref.Display
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ref)
	}
	return out, nil
}

func decodeReference(item any, displayAPI string) (Reference, error) {
	switch x := item.(type) {
	case string:
		s := strings.TrimSpace(x)
		return Reference{ID: s, Display: s}, nil
	case map[string]any:
		ref := Reference{}
		if id, ok := x["id"].(string); ok {
			ref.ID = strings.TrimSpace(id)
			ref.KeepID = ref.ID != ""
		}
		if display, ok := x[displayAPI].(string); ok {
			ref.Display = strings.TrimSpace(display)
		}
		if ref.ID == "" && ref.Display == "" {
			return Reference{}, fmt.Errorf("reference requires id or %s", displayAPI)
		}
		return ref, nil
	case nil:
		return Reference{}, nil
	default:
		return Reference{}, fmt.Errorf("unsupported reference value %T", item)
	}
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	return false
}

// Encode renders rec in wire form, inlining related records as
// {id, <display>} pairs resolved through view.
func (c *Codec) Encode(view domain.TransactionView, t domain.EntityType, rec domain.Record) map[string]any {
	e, _ := c.catalog.Entity(t)
	out := make(map[string]any, len(e.Fields)+2*len(e.Relations)+3)
	out["id"] = rec.ID
	for _, f := range e.Fields {
		v, ok := rec.Fields[f.Storage]
		if !ok {
			out[f.API] = nil
			continue
		}
		out[f.API] = domain.FormatValue(f.Kind, v)
	}
	for _, r := range e.Relations {
		target, _ := c.catalog.Entity(r.Target)
		if r.Many {
			items := make([]any, 0, len(rec.Links[r.Storage]))
			for _, id := range rec.Links[r.Storage] {
				items = append(items, inline(view, target, id))
			}
			out[r.API] = items
			continue
		}
		id := rec.Link(r.Storage)
		if id == "" {
			out[r.API] = nil
			out[r.API+"_id"] = nil
			continue
		}
		out[r.API] = inline(view, target, id)
		out[r.API+"_id"] = id
	}
	out["created_at"] = rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	out["updated_at"] = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return out
}

func inline(view domain.TransactionView, target domain.Entity, id string) map[string]any {
	item := map[string]any{"id": id, target.DisplayAPI(): nil}
	if view == nil {
		return item
	}
	if related, ok := view.Find(target.Type, id); ok {
		if f, ok := target.Field(target.DisplayField); ok {
			if v, ok := related.Fields[f.Storage]; ok {
				item[f.API] = domain.FormatValue(f.Kind, v)
			}
		}
	}
	return item
}

// ParseFilter maps query parameters onto relation filters. Accepted keys are
// the relation API name, "<api>_id" and the camelCase "<storage>Id".
func (c *Codec) ParseFilter(t domain.EntityType, query map[string][]string) (domain.Filter, error) {
	e, ok := c.catalog.Entity(t)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", t)
	}
	filter := domain.Filter{}
	verr := domain.ErrValidation{Entity: t}
	for key, values := range query {
		if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		rel, ok := relationForFilter(e, key)
		if !ok {
			verr.AddInvalid(key, "unknown filter")
			continue
		}
		filter[rel.Storage] = strings.TrimSpace(values[0])
	}
	if !verr.Empty() {
		return nil, verr
	}
	return filter, nil
}

func relationForFilter(e domain.Entity, key string) (domain.Relation, bool) {
	for _, r := range e.Relations {
		if key == r.API || key == r.API+"_id" || key == r.Storage+"Id" {
			return r, true
		}
	}
	return domain.Relation{}, false
}
