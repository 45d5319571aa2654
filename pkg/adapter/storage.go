package adapter

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Storage is the interface for offsite artifact backup
type Storage interface {
	// Put returns a writer that stores an object under the given key
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get returns a reader over a stored object
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// gcsStorage implements Storage using Cloud Storage
type gcsStorage struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage backed Storage
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &gcsStorage{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *gcsStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	return obj.NewWriter(ctx), nil
}

func (s *gcsStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read backup object", goerr.V("key", key))
	}
	return reader, nil
}
