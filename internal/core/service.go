// Package core orchestrates the generic resource operations shared by every
// catalog entity: payload decoding, relation resolution, transactional writes
// and the attachment saga around them.
package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sgas/internal/blob"
	"sgas/internal/entitymodel"
	"sgas/pkg/domain"
)

// CleanupQueue accepts object keys whose deletion failed and must be retried.
type CleanupQueue interface {
	Enqueue(ctx context.Context, key string, cause error) error
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder installs the per-operation metrics sink.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer installs the span factory used around operations.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithCleanupQueue routes failed attachment deletions to q for retry.
func WithCleanupQueue(q CleanupQueue) Option {
	return func(s *Service) { s.cleanup = q }
}

// Service exposes transactional CRUD operations for every catalog entity.
type Service struct {
	store   PersistentStore
	codec   *entitymodel.Codec
	blobs   blob.Store
	cleanup CleanupQueue
	logger  *zap.Logger
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service over store and blobs.
func NewService(store PersistentStore, blobs blob.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		codec:   entitymodel.NewCodec(store.Catalog()),
		blobs:   blobs,
		logger:  zap.NewNop(),
		metrics: noopMetrics{},
		tracer:  NewOTelTracer(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the entity catalog served by the service.
func (s *Service) Catalog() *domain.Catalog {
	return s.store.Catalog()
}

// Codec returns the wire translator used by the service.
func (s *Service) Codec() *entitymodel.Codec {
	return s.codec
}

// Blobs returns the object store holding attachments.
func (s *Service) Blobs() blob.Store {
	return s.blobs
}

func (s *Service) entity(t EntityType) (domain.Entity, error) {
	e, ok := s.store.Catalog().Entity(t)
	if !ok {
		return domain.Entity{}, fmt.Errorf("unknown entity %q", t)
	}
	return e, nil
}

// List returns the entity's records matching query in natural order. Query
// keys name relations; unknown keys fail validation.
func (s *Service) List(ctx context.Context, t EntityType, query map[string][]string) (out []map[string]any, err error) {
	ctx, done := s.observe(ctx, "list_"+string(t))
	defer func() { done(err) }()

	if _, err = s.entity(t); err != nil {
		return nil, err
	}
	filter, err := s.codec.ParseFilter(t, query)
	if err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(view TransactionView) error {
		records := view.List(t, filter)
		out = make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, s.codec.Encode(view, t, rec))
		}
		return nil
	})
	return out, err
}

// Get returns one record in wire form.
func (s *Service) Get(ctx context.Context, t EntityType, id string) (out map[string]any, err error) {
	ctx, done := s.observe(ctx, "get_"+string(t))
	defer func() { done(err) }()

	if _, err = s.entity(t); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(view TransactionView) error {
		rec, ok := view.Find(t, id)
		if !ok {
			return domain.ErrNotFound{Entity: t, ID: id}
		}
		out = s.codec.Encode(view, t, rec)
		return nil
	})
	return out, err
}

// Create validates raw, stores new attachment parts and writes the record
// together with any lookup records it resolves in a single transaction.
func (s *Service) Create(ctx context.Context, t EntityType, raw map[string]any, files map[string]entitymodel.Upload) (out map[string]any, res Result, err error) {
	ctx, done := s.observe(ctx, "create_"+string(t))
	defer func() { done(err) }()

	e, err := s.entity(t)
	if err != nil {
		return nil, Result{}, err
	}
	in, err := s.codec.Decode(t, raw, files)
	if err != nil {
		return nil, Result{}, err
	}
	uploaded, err := s.upload(ctx, e, in.Uploads)
	if err != nil {
		return nil, Result{}, err
	}

	res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
		links, err := s.resolve(tx, e, in.References)
		if err != nil {
			return err
		}
		rec := domain.NewRecord()
		rec.Fields = applyFiles(e, in.Fields, uploaded, nil)
		rec.Links = links
		created, err := tx.Create(t, rec)
		if err != nil {
			return err
		}
		out = s.codec.Encode(tx.Snapshot(), t, created)
		return nil
	})
	if err != nil {
		s.compensate(ctx, uploaded)
		return nil, res, err
	}
	s.logWarnings(t, res)
	return out, res, nil
}

// Update replaces the record's fields and relations. Attachment fields absent
// from the payload keep their stored value; an explicit empty value clears it.
func (s *Service) Update(ctx context.Context, t EntityType, id string, raw map[string]any, files map[string]entitymodel.Upload) (out map[string]any, res Result, err error) {
	ctx, done := s.observe(ctx, "update_"+string(t))
	defer func() { done(err) }()

	e, err := s.entity(t)
	if err != nil {
		return nil, Result{}, err
	}
	if err := s.store.View(ctx, func(view TransactionView) error {
		if _, ok := view.Find(t, id); !ok {
			return domain.ErrNotFound{Entity: t, ID: id}
		}
		return nil
	}); err != nil {
		return nil, Result{}, err
	}
	in, err := s.codec.Decode(t, raw, files)
	if err != nil {
		return nil, Result{}, err
	}
	uploaded, err := s.upload(ctx, e, in.Uploads)
	if err != nil {
		return nil, Result{}, err
	}

	var replaced []string
	res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
		replaced = nil
		links, err := s.resolve(tx, e, in.References)
		if err != nil {
			return err
		}
		updated, err := tx.Update(t, id, func(rec *Record) error {
			fields := applyFiles(e, in.Fields, uploaded, rec.Fields)
			replaced = replacedFiles(e, rec.Fields, fields)
			rec.Fields = fields
			rec.Links = links
			return nil
		})
		if err != nil {
			return err
		}
		out = s.codec.Encode(tx.Snapshot(), t, updated)
		return nil
	})
	if err != nil {
		s.compensate(ctx, uploaded)
		return nil, res, err
	}
	s.logWarnings(t, res)
	s.removeFiles(ctx, t, id, replaced)
	return out, res, nil
}

// Delete removes the record, detaching optional references to it, then
// deletes its attachments on a best-effort basis.
func (s *Service) Delete(ctx context.Context, t EntityType, id string) (res Result, err error) {
	ctx, done := s.observe(ctx, "delete_"+string(t))
	defer func() { done(err) }()

	e, err := s.entity(t)
	if err != nil {
		return Result{}, err
	}
	var removed Record
	res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		removed, err = tx.Delete(t, id)
		return err
	})
	if err != nil {
		return res, err
	}
	var urls []string
	for _, f := range e.FileFields() {
		if u := removed.String(f.Storage); u != "" {
			urls = append(urls, u)
		}
	}
	s.removeFiles(ctx, t, id, urls)
	return res, nil
}

func (s *Service) logWarnings(t EntityType, res Result) {
	for _, v := range res.Violations {
		if v.Severity != SeverityWarn {
			continue
		}
		s.logger.Warn("rule warning",
			zap.String("entity", string(t)),
			zap.String("id", v.EntityID),
			zap.String("rule", v.Rule),
			zap.String("message", v.Message),
		)
	}
}
