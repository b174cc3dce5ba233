package domain

import "context"

// Filter restricts a listing to records whose singular or many-to-many
// relation (keyed by storage name) holds the given id.
type Filter map[string]string

// Matches reports whether rec satisfies every filter entry.
func (f Filter) Matches(rec Record) bool {
	for rel, id := range f {
		if !rec.References(rel, id) {
			return false
		}
	}
	return true
}

// Transaction exposes the record operations that a persistence implementation
// must support within an atomic scope. Implementations enforce unique fields,
// strict foreign keys and delete guards derived from the catalog.
type Transaction interface {
	Snapshot() TransactionView
	Find(entity EntityType, id string) (Record, bool)
	FindBy(entity EntityType, field string, value any) (Record, bool)
	Create(entity EntityType, rec Record) (Record, error)
	Update(entity EntityType, id string, mutator func(*Record) error) (Record, error)
	Delete(entity EntityType, id string) (Record, error)
}

// TransactionView provides read-only access to snapshot data.
type TransactionView interface {
	Find(entity EntityType, id string) (Record, bool)
	FindBy(entity EntityType, field string, value any) (Record, bool)
	List(entity EntityType, filter Filter) []Record
}

// PersistentStore is a minimal abstraction over durable backends.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	Catalog() *Catalog
}

// Change describes a mutation applied to a record during a transaction.
type Change struct {
	Entity EntityType `json:"entity"`
	Action Action     `json:"action"`
	ID     string     `json:"id"`
	Before *Record    `json:"before,omitempty"`
	After  *Record    `json:"after,omitempty"`
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
