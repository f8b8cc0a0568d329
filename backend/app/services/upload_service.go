package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// ObjectStore is where uploaded images end up; objectstore.MinioStore in production.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	store    ObjectStore
	maxBytes int64
}

func NewUploadService(store ObjectStore, maxBytes int64) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes}
}

func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// UploadImage stores an image for use in story content and returns its URL.
// The type is sniffed from the bytes, not taken from the client.
func (s *UploadService) UploadImage(ctx context.Context, user *Identity, r io.Reader, size int64) (string, error) {
	if user == nil {
		return "", ErrUnauthorized
	}
	if r == nil || size <= 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: file larger than %d bytes", ErrInvalidInput, s.maxBytes)
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := imageExt[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported file type %s", ErrInvalidInput, contentType)
	}
	name := uuid.NewString() + ext
	return s.store.Put(ctx, name, io.MultiReader(bytes.NewReader(head), r), size, contentType)
}
