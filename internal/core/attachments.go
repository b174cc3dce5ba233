package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sgas/internal/blob"
	"sgas/internal/entitymodel"
	"sgas/pkg/domain"
)

// upload writes every part under the entity route and returns the stored URL
// per file field. A failed part removes the ones already written.
func (s *Service) upload(ctx context.Context, e domain.Entity, parts map[string]entitymodel.Upload) (map[string]string, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("%s: no object storage configured for attachments", e.Type)
	}
	urls := make(map[string]string, len(parts))
	for _, f := range e.FileFields() {
		part, ok := parts[f.Storage]
		if !ok {
			continue
		}
		key := blob.NewKey(e.Route, part.Filename)
		info, err := s.blobs.Put(ctx, key, part.Body, blob.PutOptions{
			ContentType: part.ContentType,
			Metadata:    map[string]string{"filename": part.Filename, "entity": string(e.Type), "field": f.API},
		})
		if err != nil {
			s.compensate(ctx, urls)
			return nil, fmt.Errorf("upload %s: %w", f.API, err)
		}
		url := info.URL
		if url == "" {
			url = s.blobs.URL(key)
		}
		urls[f.Storage] = url
	}
	return urls, nil
}

// applyFiles merges attachment values into decoded fields. Uploaded URLs win,
// then explicit values (empty clears), then the previously stored value.
func applyFiles(e domain.Entity, decoded map[string]any, uploaded map[string]string, stored map[string]any) map[string]any {
	out := make(map[string]any, len(decoded)+len(uploaded))
	for k, v := range decoded {
		out[k] = v
	}
	for _, f := range e.FileFields() {
		if u, ok := uploaded[f.Storage]; ok {
			out[f.Storage] = u
			continue
		}
		if v, ok := decoded[f.Storage]; ok {
			if v == "" {
				delete(out, f.Storage)
			}
			continue
		}
		if v, ok := stored[f.Storage]; ok {
			out[f.Storage] = v
		}
	}
	return out
}

// replacedFiles lists stored attachment URLs that next no longer carries.
func replacedFiles(e domain.Entity, prev, next map[string]any) []string {
	var out []string
	for _, f := range e.FileFields() {
		old, _ := prev[f.Storage].(string)
		if old == "" {
			continue
		}
		if cur, _ := next[f.Storage].(string); cur != old {
			out = append(out, old)
		}
	}
	return out
}

// compensate deletes objects uploaded for a write that did not commit.
func (s *Service) compensate(ctx context.Context, uploaded map[string]string) {
	for _, u := range uploaded {
		key, ok := s.blobs.KeyFromURL(u)
		if !ok {
			continue
		}
		if _, err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("compensating delete failed", zap.String("key", key), zap.Error(err))
			s.enqueue(ctx, key, err)
		}
	}
}

// removeFiles deletes attachments no longer referenced by a committed record.
// Failures never fail the operation; they are logged and queued for retry.
func (s *Service) removeFiles(ctx context.Context, t EntityType, id string, urls []string) {
	if s.blobs == nil {
		return
	}
	for _, u := range urls {
		key, ok := s.blobs.KeyFromURL(u)
		if !ok {
			s.logger.Debug("attachment not managed by object storage", zap.String("entity", string(t)), zap.String("url", u))
			continue
		}
		if _, err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("attachment delete failed",
				zap.String("entity", string(t)),
				zap.String("id", id),
				zap.String("key", key),
				zap.Error(err),
			)
			s.enqueue(ctx, key, err)
		}
	}
}

func (s *Service) enqueue(ctx context.Context, key string, cause error) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.Enqueue(context.WithoutCancel(ctx), key, cause); err != nil {
		s.logger.Error("cleanup enqueue failed", zap.String("key", key), zap.Error(err))
	}
}
