package resources

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"sgas/internal/entitymodel"
	"sgas/pkg/domain"
)

// payload is a decoded create or update body.
type payload struct {
	fields map[string]any
	files  map[string]entitymodel.Upload
	form   *multipart.Form
	opened []io.Closer
}

func (p *payload) close() {
	for _, c := range p.opened {
		_ = c.Close()
	}
	if p.form != nil {
		_ = p.form.RemoveAll()
	}
}

// readPayload decodes a JSON object or, for multipart requests, text parts
// and file parts. Repeated text parts form a list.
func (h *Handler) readPayload(w http.ResponseWriter, r *http.Request, e domain.Entity) (*payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/json"
	}
	switch mediaType {
	case "multipart/form-data":
		return readMultipart(r, e, h.maxBody)
	case "application/json", "text/json":
		return readJSON(r)
	default:
		return nil, errBadRequest{msg: "unsupported content type " + mediaType}
	}
}

func readJSON(r *http.Request) (*payload, error) {
	fields := map[string]any{}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		if errors.Is(err, io.EOF) {
			return nil, errBadRequest{msg: "request body must be a JSON object"}
		}
		return nil, errBadRequest{msg: "invalid JSON body: " + err.Error()}
	}
	if fields == nil {
		return nil, errBadRequest{msg: "request body must be a JSON object"}
	}
	return &payload{fields: fields}, nil
}

func readMultipart(r *http.Request, e domain.Entity, limit int64) (*payload, error) {
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errBadRequest{msg: "invalid multipart body: " + err.Error()}
	}
	p := &payload{
		fields: make(map[string]any, len(r.MultipartForm.Value)),
		files:  make(map[string]entitymodel.Upload),
		form:   r.MultipartForm,
	}
	for key, values := range r.MultipartForm.Value {
		p.fields[key] = textPart(e, key, values)
	}
	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		f, ok := e.FieldByAPI(key)
		if !ok || f.Kind != domain.KindFile {
			p.close()
			return nil, errBadRequest{msg: "unexpected file part " + key}
		}
		fh := headers[0]
		body, err := fh.Open()
		if err != nil {
			p.close()
			return nil, errBadRequest{msg: "read file part " + key + ": " + err.Error()}
		}
		p.opened = append(p.opened, body)
		p.files[key] = entitymodel.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        body,
		}
	}
	return p, nil
}

// textPart converts multipart values: many-to-many relations keep every
// value, JSON-object parts become reference objects, others take the first.
func textPart(e domain.Entity, key string, values []string) any {
	if rel, ok := relationForPart(e, key); ok && rel.Many {
		items := make([]any, 0, len(values))
		for _, v := range values {
			items = append(items, jsonOrString(v))
		}
		return items
	}
	if len(values) == 0 {
		return nil
	}
	return jsonOrString(values[0])
}

func relationForPart(e domain.Entity, key string) (domain.Relation, bool) {
	for _, suffix := range []string{"", "_id", "_ids"} {
		if rel, ok := e.RelationByAPI(strings.TrimSuffix(key, suffix)); ok && (suffix == "" || strings.HasSuffix(key, suffix)) {
			return rel, true
		}
	}
	return domain.Relation{}, false
}

func jsonOrString(v string) any {
	trimmed := strings.TrimSpace(v)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return obj
		}
	}
	return v
}
