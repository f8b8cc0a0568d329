package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type memStore struct {
	name        string
	contentType string
	data        []byte
}

func (m *memStore) Put(_ context.Context, name string, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.name, m.contentType, m.data = name, contentType, data
	return "https://cdn.example/stories/" + name, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadImageStoresWholeFile(t *testing.T) {
	store := &memStore{}
	svc := NewUploadService(store, 1<<20)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 2000)...)

	url, err := svc.UploadImage(t.Context(), &Identity{UserID: "u1"}, bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if store.contentType != "image/png" || !strings.HasSuffix(store.name, ".png") {
		t.Fatalf("unexpected object %s (%s)", store.name, store.contentType)
	}
	if !bytes.Equal(store.data, body) {
		t.Fatalf("stored %d bytes, want %d", len(store.data), len(body))
	}
	if url != "https://cdn.example/stories/"+store.name {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestUploadImageRejects(t *testing.T) {
	svc := NewUploadService(&memStore{}, 64)
	user := &Identity{UserID: "u1"}
	ctx := t.Context()

	if _, err := svc.UploadImage(ctx, nil, bytes.NewReader(pngHeader), int64(len(pngHeader))); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	text := []byte("just some text")
	if _, err := svc.UploadImage(ctx, user, bytes.NewReader(text), int64(len(text))); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for text, got %v", err)
	}
	if _, err := svc.UploadImage(ctx, user, bytes.NewReader(nil), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty file, got %v", err)
	}
	big := bytes.Repeat([]byte{0}, 100)
	if _, err := svc.UploadImage(ctx, user, bytes.NewReader(big), int64(len(big))); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized file, got %v", err)
	}
}
