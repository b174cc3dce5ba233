package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"

	"sgas/internal/blob/core"
)

func TestStore_MockedBasicFlow(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	info, err := store.Put(ctx, "inspections/file.txt", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "inspections/file.txt" || info.ContentType != "text/plain" || info.Size < 5 {
		t.Fatalf("unexpected info %#v", info)
	}
	if info.URL != "/api/files/inspections/file.txt" {
		t.Fatalf("unexpected url %s", info.URL)
	}
	if _, err := store.Put(ctx, "inspections/file.txt", bytes.NewReader([]byte("ignored")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected duplicate put error, got %v", err)
	}
	_, rc, err := store.Get(ctx, "inspections/file.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "hello" {
		t.Fatalf("get mismatch: %q", string(data))
	}
	url, err := store.PresignURL(ctx, "inspections/file.txt", core.SignedURLOptions{Expiry: 30 * time.Second})
	if err != nil || !strings.Contains(url, "X-Amz-Signature") {
		t.Fatalf("presign: %v %s", err, url)
	}
	if ok, err := store.Delete(ctx, "inspections/file.txt"); err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, err := store.Head(ctx, "inspections/file.txt"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestStore_ErrorPaths(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if _, _, err := store.Get(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found for missing key, got %v", err)
	}
	if _, err := store.PresignURL(ctx, "k", core.SignedURLOptions{Method: "PUT"}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected presign unsupported error")
	}
	if _, err := store.Put(ctx, "../x", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestStore_New(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket: "bkt", Region: "eu-west-1", Endpoint: "https://mock.s3.local", PathStyle: true,
		AccessKeyID: "AKIA", SecretAccessKey: "SECRET", BaseURL: "https://cdn.example.org",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Driver() != core.DriverS3 {
		t.Fatalf("expected DriverS3")
	}
	key, ok := s.KeyFromURL(s.URL("laws/a.pdf"))
	if !ok || key != "laws/a.pdf" {
		t.Fatalf("unexpected key %q %v", key, ok)
	}
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestStore_FromHeadNilBranches(t *testing.T) {
	store := NewMockForTests()
	info := store.fromHead("k", 10, nil, aws.String("\"etagval\""), map[string]string{"x": "y"}, nil)
	if info.ETag != "etagval" || info.ContentType != "" || info.Key != "k" || info.Size != 10 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestStore_MetadataRoundTrip(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	_, err := store.Put(ctx, "laws/act.pdf", strings.NewReader("%PDF"), core.PutOptions{
		ContentType: "application/pdf",
		Metadata:    map[string]string{"entity": "legal_requirement"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Head(ctx, "laws/act.pdf")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.Size != 4 || info.ContentType != "application/pdf" || info.Metadata["entity"] != "legal_requirement" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.ETag == "" {
		t.Fatalf("expected etag")
	}
}

func TestDecodeAWSChunked(t *testing.T) {
	body, err := decodeAWSChunked([]byte("5;chunk-signature=abc\r\nhello\r\n1\r\n!\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n"))
	if err != nil || string(body) != "hello!" {
		t.Fatalf("decode: %q %v", body, err)
	}
	for _, bad := range []string{"not-chunked", "zz\r\nhello\r\n0\r\n", "5\r\nabc"} {
		if _, err := decodeAWSChunked([]byte(bad)); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestFakeBucketRejectsUnsupportedMethods(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPatch, "https://mock.s3.local/mock-bucket/key", nil)
	resp, _ := newFakeBucket().RoundTrip(req)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", resp.StatusCode)
	}
}
