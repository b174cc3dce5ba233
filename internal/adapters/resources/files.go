package resources

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sgas/internal/blob"
)

const presignExpiry = 15 * time.Minute

// serveFile streams an attachment, or redirects to a pre-signed URL when the
// backend can issue one.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		h.writeError(w, r, http.StatusNotFound, "file not found")
		return
	}
	if h.blobs.Driver() == blob.DriverS3 {
		if _, err := h.blobs.Head(r.Context(), key); err != nil {
			h.fileError(w, r, err)
			return
		}
		u, err := h.blobs.PresignURL(r.Context(), key, blob.SignedURLOptions{Method: http.MethodGet, Expiry: presignExpiry})
		if err == nil {
			http.Redirect(w, r, u, http.StatusFound)
			return
		}
		if !errors.Is(err, blob.ErrUnsupported) {
			h.fail(w, r, err)
			return
		}
	}
	info, body, err := h.blobs.Get(r.Context(), key)
	if err != nil {
		h.fileError(w, r, err)
		return
	}
	defer func() { _ = body.Close() }()
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if info.ETag != "" {
		w.Header().Set("ETag", strconv.Quote(info.ETag))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = io.Copy(w, body)
	}
}

func (h *Handler) fileError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, blob.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "file not found")
		return
	}
	h.fail(w, r, err)
}
