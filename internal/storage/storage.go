// Package storage writes uploaded files to object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
)

// ObjectStore stores objects and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, path, contentType string, r io.Reader) (string, error)
}

// BucketStore writes to a Cloud Storage bucket.
type BucketStore struct {
	bucket *gcs.BucketHandle
	name   string
}

// NewFirebaseBucketStore opens the named bucket, or the app's default bucket when name is empty.
func NewFirebaseBucketStore(client *fbstorage.Client, name string) (*BucketStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firebase storage client is not initialized")
	}
	var (
		bucket *gcs.BucketHandle
		err    error
	)
	if name == "" {
		bucket, err = client.DefaultBucket()
	} else {
		bucket, err = client.Bucket(name)
	}
	if err != nil {
		return nil, fmt.Errorf("opening storage bucket: %w", err)
	}
	return &BucketStore{bucket: bucket, name: name}, nil
}

// Put streams r into path and returns the object's public URL.
func (s *BucketStore) Put(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing object %s: %w", path, err)
	}

	bucketName := s.name
	if attrs := w.Attrs(); attrs != nil {
		bucketName = attrs.Bucket
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, (&url.URL{Path: path}).EscapedPath()), nil
}

// MemoryStore keeps objects in memory. Used with the memory store driver.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]Object
}

// Object is a stored blob.
type Object struct {
	ContentType string
	Data        []byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (s *MemoryStore) Put(_ context.Context, path, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading object %s: %w", path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[path] = Object{ContentType: contentType, Data: data}
	return "memory://" + path, nil
}

// Get returns a stored object.
func (s *MemoryStore) Get(path string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	return obj, ok
}
