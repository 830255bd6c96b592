package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/andreyxaxa/Access-Gate/internal/repo/persistent"
)

type Object struct {
	Data        []byte
	ContentType string
}

// BlobRepo keeps uploaded objects in a map and builds URLs the same way the
// S3 repo does.
type BlobRepo struct {
	mu      sync.RWMutex
	objects map[string]Object

	baseURL string
	bucket  string
}

func NewBlobRepo(baseURL, bucket string) *BlobRepo {
	return &BlobRepo{
		objects: make(map[string]Object),
		baseURL: baseURL,
		bucket:  bucket,
	}
}

func (r *BlobRepo) Upload(_ context.Context, name string, data []byte, contentType string) (string, error) {
	cp := make([]byte, len(data))
	copy(cp, data)

	r.mu.Lock()
	r.objects[name] = Object{Data: cp, ContentType: contentType}
	r.mu.Unlock()

	u, err := persistent.PublicURL(r.baseURL, r.bucket, name)
	if err != nil {
		return "", fmt.Errorf("BlobRepo - Upload: %w", err)
	}

	return u, nil
}

func (r *BlobRepo) Get(name string) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.objects[name]
	return o, ok
}

func (r *BlobRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.objects)
}
