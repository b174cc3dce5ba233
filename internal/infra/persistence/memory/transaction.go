package memory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"sgas/pkg/domain"
)

// transaction represents a mutation set applied to a private copy of state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

func (tx *transaction) view() transactionView {
	return transactionView{catalog: tx.store.catalog, state: &tx.state}
}

func (tx *transaction) entity(t domain.EntityType) (domain.Entity, error) {
	e, ok := tx.store.catalog.Entity(t)
	if !ok {
		return domain.Entity{}, fmt.Errorf("unknown entity %q", t)
	}
	return e, nil
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return tx.view()
}

// Find exposes record lookup within the transaction scope.
func (tx *transaction) Find(t domain.EntityType, id string) (Record, bool) {
	return tx.view().Find(t, id)
}

// FindBy exposes field lookup within the transaction scope.
func (tx *transaction) FindBy(t domain.EntityType, field string, value any) (Record, bool) {
	return tx.view().FindBy(t, field, value)
}

// Create stores a new record. A caller-supplied id is kept when unused.
func (tx *transaction) Create(t domain.EntityType, rec Record) (Record, error) {
	e, err := tx.entity(t)
	if err != nil {
		return Record{}, err
	}
	rec = rec.Clone()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	bucket := tx.state.bucket(t)
	if _, exists := bucket[rec.ID]; exists {
		return Record{}, domain.ErrConflict{Entity: t, Field: "id", Reason: fmt.Sprintf("%s %s already exists", strings.ToLower(e.Label), rec.ID)}
	}
	if err := tx.check(e, &rec); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = tx.now
	rec.UpdatedAt = tx.now
	bucket[rec.ID] = rec
	after := rec.Clone()
	tx.recordChange(Change{Entity: t, Action: domain.ActionCreate, ID: rec.ID, After: &after})
	return rec.Clone(), nil
}

// Update mutates a record using the provided mutator function.
func (tx *transaction) Update(t domain.EntityType, id string, mutator func(*Record) error) (Record, error) {
	e, err := tx.entity(t)
	if err != nil {
		return Record{}, err
	}
	bucket := tx.state.bucket(t)
	current, ok := bucket[id]
	if !ok {
		return Record{}, domain.ErrNotFound{Entity: t, ID: id}
	}
	before := current.Clone()
	next := current.Clone()
	if err := mutator(&next); err != nil {
		return Record{}, err
	}
	next.ID = id
	next.CreatedAt = before.CreatedAt
	if err := tx.check(e, &next); err != nil {
		return Record{}, err
	}
	next.UpdatedAt = tx.now
	bucket[id] = next
	after := next.Clone()
	tx.recordChange(Change{Entity: t, Action: domain.ActionUpdate, ID: id, Before: &before, After: &after})
	return next.Clone(), nil
}

// Delete removes a record. Required singular references block the delete;
// optional and many-to-many references are detached from their holders.
func (tx *transaction) Delete(t domain.EntityType, id string) (Record, error) {
	e, err := tx.entity(t)
	if err != nil {
		return Record{}, err
	}
	bucket := tx.state.bucket(t)
	current, ok := bucket[id]
	if !ok {
		return Record{}, domain.ErrNotFound{Entity: t, ID: id}
	}
	refs := tx.store.catalog.ReferencedBy(t)
	for _, ref := range refs {
		if !ref.Relation.Restricts() {
			continue
		}
		for _, holderID := range tx.state.sortedIDs(ref.Source) {
			if ref.Source == t && holderID == id {
				continue
			}
			if tx.state.buckets[ref.Source][holderID].References(ref.Relation.Storage, id) {
				source, _ := tx.store.catalog.Entity(ref.Source)
				return Record{}, domain.ErrConflict{
					Entity: t,
					Field:  ref.Relation.API,
					Reason: fmt.Sprintf("%s still in use by %s", strings.ToLower(e.Label), domain.HumanPlural(source)),
				}
			}
		}
	}
	for _, ref := range refs {
		if ref.Relation.Restricts() {
			continue
		}
		holders := tx.state.buckets[ref.Source]
		for _, holderID := range tx.state.sortedIDs(ref.Source) {
			holder := holders[holderID]
			if (ref.Source == t && holderID == id) || !holder.References(ref.Relation.Storage, id) {
				continue
			}
			before := holder.Clone()
			next := holder.Clone()
			next.Links[ref.Relation.Storage] = slices.DeleteFunc(next.Links[ref.Relation.Storage], func(linked string) bool {
				return linked == id
			})
			if len(next.Links[ref.Relation.Storage]) == 0 {
				delete(next.Links, ref.Relation.Storage)
			}
			next.UpdatedAt = tx.now
			holders[holderID] = next
			after := next.Clone()
			tx.recordChange(Change{Entity: ref.Source, Action: domain.ActionUpdate, ID: holderID, Before: &before, After: &after})
		}
	}
	delete(bucket, id)
	before := current.Clone()
	tx.recordChange(Change{Entity: t, Action: domain.ActionDelete, ID: id, Before: &before})
	return before.Clone(), nil
}

// check validates rec against the entity declaration and normalizes its
// relation sets. It enforces declared keys, strict foreign keys and unique
// fields, excluding rec itself.
func (tx *transaction) check(e domain.Entity, rec *Record) error {
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
	if rec.Links == nil {
		rec.Links = map[string][]string{}
	}
	for key, v := range rec.Fields {
		if _, ok := e.Field(key); !ok {
			return fmt.Errorf("%s: undeclared field %q", e.Type, key)
		}
		if v == nil {
			delete(rec.Fields, key)
		}
	}
	for key, ids := range rec.Links {
		rel, ok := e.Relation(key)
		if !ok {
			return fmt.Errorf("%s: undeclared relation %q", e.Type, key)
		}
		ids = dedupe(ids)
		if len(ids) == 0 {
			delete(rec.Links, key)
			continue
		}
		if !rel.Many && len(ids) > 1 {
			return domain.ErrValidation{Entity: e.Type, Invalid: map[string]string{rel.API: "expected a single reference"}}
		}
		targets := tx.state.buckets[rel.Target]
		for _, id := range ids {
			if _, ok := targets[id]; !ok {
				return domain.ErrNotFound{Entity: rel.Target, ID: id}
			}
		}
		rec.Links[key] = ids
	}
	for _, f := range e.UniqueFields() {
		v, ok := rec.Fields[f.Storage]
		if !ok {
			continue
		}
		for otherID, other := range tx.state.buckets[e.Type] {
			if otherID != rec.ID && sameValue(other.Fields[f.Storage], v) {
				return domain.ErrConflict{Entity: e.Type, Field: f.API, Reason: f.API + " already exists"}
			}
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
