package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"sgas/internal/blob/core"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New("")
	if s.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", s.Driver())
	}
	info, err := s.Put(ctx, "incidents/a.txt", bytes.NewBufferString("data"), core.PutOptions{ContentType: "text/plain", Metadata: map[string]string{"x": "y"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.URL != "/api/files/incidents/a.txt" || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := s.Put(ctx, "incidents/a.txt", bytes.NewBufferString("dup"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected exists error, got %v", err)
	}
	got, rc, err := s.Get(ctx, "incidents/a.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "data" || got.Metadata["x"] != "y" {
		t.Fatalf("unexpected get %s %+v", b, got)
	}
	got.Metadata["x"] = "mutated"
	h, err := s.Head(ctx, "incidents/a.txt")
	if err != nil || h.Metadata["x"] != "y" {
		t.Fatalf("metadata must be copied: %+v %v", h, err)
	}
	if keys := s.Keys("incidents/"); len(keys) != 1 {
		t.Fatalf("unexpected keys %v", keys)
	}
	if ok, _ := s.Delete(ctx, "incidents/a.txt"); !ok {
		t.Fatalf("expected delete true")
	}
	if ok, _ := s.Delete(ctx, "incidents/a.txt"); ok {
		t.Fatalf("expected delete false")
	}
	if _, err := s.Head(ctx, "incidents/a.txt"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.PresignURL(ctx, "incidents/a.txt", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestMemoryStoreKeyFromURL(t *testing.T) {
	s := New("https://files.example.org/blobs")
	url := s.URL("a/b c.pdf")
	if url != "https://files.example.org/blobs/a/b%20c.pdf" {
		t.Fatalf("unexpected url %s", url)
	}
	key, ok := s.KeyFromURL(url + "?download=1")
	if !ok || key != "a/b c.pdf" {
		t.Fatalf("unexpected key %q %v", key, ok)
	}
}
