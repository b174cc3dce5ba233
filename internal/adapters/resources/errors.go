package resources

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sgas/pkg/domain"
)

const internalMessage = "Internal server error"

// errBadRequest marks malformed request bodies.
type errBadRequest struct {
	msg string
}

func (e errBadRequest) Error() string { return e.msg }

// statusFor maps service errors onto HTTP status codes. Conflicts are client
// errors surfaced as 400.
func statusFor(err error) int {
	var (
		validation domain.ErrValidation
		violation  domain.RuleViolationError
		notFound   domain.ErrNotFound
		conflict   domain.ErrConflict
		badRequest errBadRequest
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &violation), errors.As(err, &badRequest), errors.As(err, &conflict):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error. Internal failures are logged with the
// request id and replaced by a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeError(w, r, status, internalMessage)
		return
	}
	h.writeError(w, r, status, err.Error())
}

// writeJSON encodes payload before writing the status so an unencodable
// payload becomes a logged 500 rather than an empty success.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("encode response",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(map[string]any{"error": internalMessage})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("write response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, map[string]any{"error": message})
}
