// Package memory provides the transactional in-memory record store. It backs
// tests and ephemeral environments directly, and the SQL stores wrap it with
// a commit hook that writes each change set before the state is swapped.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sgas/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Record aliases domain.Record.
	Record = domain.Record
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// CommitFunc persists a transaction's change set. Returning an error aborts
// the transaction and leaves the in-memory state untouched.
type CommitFunc func(ctx context.Context, changes []Change) error

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

// WithCommitHook installs a durable write executed before each state swap.
func WithCommitHook(fn CommitFunc) Option {
	return func(s *Store) { s.commit = fn }
}

// memoryState holds one bucket per entity. Stored records are never mutated
// in place, so cloning the bucket maps is enough for copy-on-write.
type memoryState struct {
	buckets map[domain.EntityType]map[string]Record
}

func newMemoryState() memoryState {
	return memoryState{buckets: make(map[domain.EntityType]map[string]Record)}
}

func (s memoryState) clone() memoryState {
	out := memoryState{buckets: make(map[domain.EntityType]map[string]Record, len(s.buckets))}
	for t, bucket := range s.buckets {
		cp := make(map[string]Record, len(bucket))
		for id, rec := range bucket {
			cp[id] = rec
		}
		out.buckets[t] = cp
	}
	return out
}

func (s memoryState) bucket(t domain.EntityType) map[string]Record {
	b, ok := s.buckets[t]
	if !ok {
		b = make(map[string]Record)
		s.buckets[t] = b
	}
	return b
}

// sortedIDs returns bucket ids in ascending order for deterministic scans.
func (s memoryState) sortedIDs(t domain.EntityType) []string {
	b := s.buckets[t]
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Records map[domain.EntityType]map[string]Record `json:"records"`
}

// Store provides an in-memory transactional store for catalog records.
type Store struct {
	mu      sync.RWMutex
	catalog *domain.Catalog
	state   memoryState
	engine  *RulesEngine
	nowFn   func() time.Time
	commit  CommitFunc
}

// NewStore constructs an in-memory store for the entities in catalog.
func NewStore(catalog *domain.Catalog, engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		catalog: catalog,
		state:   newMemoryState(),
		engine:  engine,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the entity catalog the store enforces.
func (s *Store) Catalog() *domain.Catalog {
	return s.catalog
}

// RulesEngine exposes the configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetCommitHook replaces the commit hook. Wrapping stores call it once during
// construction, before the store is shared.
func (s *Store) SetCommitHook(fn CommitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit = fn
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{Records: make(map[domain.EntityType]map[string]Record, len(s.state.buckets))}
	for t, bucket := range s.state.buckets {
		cp := make(map[string]Record, len(bucket))
		for id, rec := range bucket {
			cp[id] = rec.Clone()
		}
		out.Records[t] = cp
	}
	return out
}

// ImportState replaces the store state with the provided snapshot. Records of
// entities the catalog no longer declares are skipped; values are normalized
// to their native types.
func (s *Store) ImportState(snapshot Snapshot) error {
	state := newMemoryState()
	for t, records := range snapshot.Records {
		if _, ok := s.catalog.Entity(t); !ok {
			continue
		}
		bucket := state.bucket(t)
		for id, rec := range records {
			normalized, err := s.catalog.Normalize(t, rec)
			if err != nil {
				return err
			}
			normalized.ID = id
			bucket[id] = normalized
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return nil
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Writers are serialized; the state is swapped only after rules pass and the
// commit hook succeeds.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	view := newTransactionView(s.catalog, &tx.state)
	result, err := s.engine.Evaluate(ctx, view, tx.changes)
	if err != nil {
		return Result{}, err
	}
	if result.HasBlocking() {
		return result, domain.RuleViolationError{Result: result}
	}

	if s.commit != nil && len(tx.changes) > 0 {
		if err := s.commit(ctx, tx.changes); err != nil {
			return Result{}, fmt.Errorf("commit: %w", err)
		}
	}
	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	return fn(newTransactionView(s.catalog, &snapshot))
}

// transactionView exposes a read-only snapshot of state.
type transactionView struct {
	catalog *domain.Catalog
	state   *memoryState
}

func newTransactionView(catalog *domain.Catalog, state *memoryState) TransactionView {
	return transactionView{catalog: catalog, state: state}
}

// Find retrieves a record by id.
func (v transactionView) Find(t domain.EntityType, id string) (Record, bool) {
	rec, ok := v.state.buckets[t][id]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

// FindBy returns the oldest record whose field equals value.
func (v transactionView) FindBy(t domain.EntityType, field string, value any) (Record, bool) {
	var (
		found Record
		ok    bool
	)
	for _, id := range v.state.sortedIDs(t) {
		rec := v.state.buckets[t][id]
		if !sameValue(rec.Fields[field], value) {
			continue
		}
		if !ok || rec.CreatedAt.Before(found.CreatedAt) {
			found, ok = rec, true
		}
	}
	if !ok {
		return Record{}, false
	}
	return found.Clone(), true
}

// List returns the records matching filter in the entity's natural order.
func (v transactionView) List(t domain.EntityType, filter domain.Filter) []Record {
	bucket := v.state.buckets[t]
	out := make([]Record, 0, len(bucket))
	for _, rec := range bucket {
		if filter.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	order := domain.Order{Desc: true}
	if e, ok := v.catalog.Entity(t); ok {
		order = e.Order
		if order.Field == "" {
			order.Desc = true
		}
	}
	sortRecords(out, order)
	return out
}

func sortRecords(records []Record, order domain.Order) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		var cmp int
		if order.Field == "" {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		} else {
			cmp = compareValues(a.Fields[order.Field], b.Fields[order.Field])
		}
		if order.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
}

// compareValues orders native field values; absent values sort last.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(strings.ToLower(x), strings.ToLower(y))
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmpOrdered(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[T float64 | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if x, ok := a.(time.Time); ok {
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return a == b
}
