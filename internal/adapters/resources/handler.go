// Package resources exposes every catalog entity over HTTP with one generic
// set of handlers, plus the attachment, schema and health endpoints.
package resources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sgas/internal/blob"
	"sgas/internal/entitymodel"
	"sgas/internal/platform/metrics"
	"sgas/pkg/domain"
)

// DefaultMaxUploadBytes bounds request bodies when no limit is configured.
const DefaultMaxUploadBytes = 32 << 20

// Service is the resource service consumed by the handlers.
type Service interface {
	Catalog() *domain.Catalog
	List(ctx context.Context, t domain.EntityType, query map[string][]string) ([]map[string]any, error)
	Get(ctx context.Context, t domain.EntityType, id string) (map[string]any, error)
	Create(ctx context.Context, t domain.EntityType, raw map[string]any, files map[string]entitymodel.Upload) (map[string]any, domain.Result, error)
	Update(ctx context.Context, t domain.EntityType, id string, raw map[string]any, files map[string]entitymodel.Upload) (map[string]any, domain.Result, error)
	Delete(ctx context.Context, t domain.EntityType, id string) (domain.Result, error)
}

// Option customises a Handler.
type Option func(*Handler)

// WithMetrics records request latency and serves /metrics from m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithMaxUploadBytes bounds request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// Handler serves the REST surface.
type Handler struct {
	svc     Service
	blobs   blob.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
	maxBody int64
}

// New creates a Handler. blobs may be nil when no entity carries files.
func New(svc Service, blobs blob.Store, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: svc, blobs: blobs, logger: logger, maxBody: DefaultMaxUploadBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the chi router for the whole API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.instrument)
	r.Use(h.recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok"})
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	catalog := h.svc.Catalog()
	r.Route("/api", func(r chi.Router) {
		r.Get("/schema", func(w http.ResponseWriter, r *http.Request) {
			h.writeJSON(w, r, http.StatusOK, entitymodel.Describe(catalog))
		})
		r.Method(http.MethodGet, "/openapi.yaml", entitymodel.NewOpenAPIHandler(catalog))
		if h.blobs != nil {
			r.Get("/files/*", h.serveFile)
		}
		for _, e := range catalog.Entities() {
			h.mount(r, e)
		}
	})
	return r
}

func (h *Handler) mount(r chi.Router, e domain.Entity) {
	t := e.Type
	r.Route("/"+e.Route, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) { h.list(w, req, t) })
		r.Post("/", func(w http.ResponseWriter, req *http.Request) { h.create(w, req, e) })
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) { h.get(w, req, t) })
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) { h.update(w, req, e) })
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) { h.delete(w, req, t) })
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, t domain.EntityType) {
	out, err := h.svc.List(r.Context(), t, r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, t domain.EntityType) {
	out, err := h.svc.Get(r.Context(), t, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, e domain.Entity) {
	p, err := h.readPayload(w, r, e)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer p.close()
	out, res, err := h.svc.Create(r.Context(), e.Type, p.fields, p.files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	setWarnings(w, res)
	h.writeJSON(w, r, http.StatusCreated, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, e domain.Entity) {
	p, err := h.readPayload(w, r, e)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer p.close()
	out, res, err := h.svc.Update(r.Context(), e.Type, chi.URLParam(r, "id"), p.fields, p.files)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	setWarnings(w, res)
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, t domain.EntityType) {
	if _, err := h.svc.Delete(r.Context(), t, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// setWarnings reports non-blocking rule results as Warning headers.
func setWarnings(w http.ResponseWriter, res domain.Result) {
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityWarn {
			continue
		}
		msg := strings.ReplaceAll(v.Message, `"`, `'`)
		w.Header().Add("Warning", fmt.Sprintf(`199 sgas "%s"`, msg))
	}
}
