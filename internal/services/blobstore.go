package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// BlobStore reads and writes whole JSON objects by key. There are no partial updates.
type BlobStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON downloads key and decodes it into dst. Missing keys yield ErrObjectNotFound.
func GetJSON(ctx context.Context, store BlobStore, key string, dst interface{}) error {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return ErrObjectNotFound
	}
	data, err := store.Download(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and overwrites key with it.
func PutJSON(ctx context.Context, store BlobStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Upload(ctx, key, data)
}

// GCSBlobStore keeps objects in a single Google Cloud Storage bucket.
type GCSBlobStore struct {
	client *storage.Client
	bucket string
}

// NewStorageClient creates a storage client. With emulatorHost set the client talks
// to a local emulator without credentials.
func NewStorageClient(ctx context.Context, emulatorHost string, opts ...option.ClientOption) (*storage.Client, error) {
	if emulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func NewGCSBlobStore(client *storage.Client, bucket string) *GCSBlobStore {
	return &GCSBlobStore{client: client, bucket: bucket}
}

func (s *GCSBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := s.client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return true, nil
}

func (s *GCSBlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %q: %w", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %q: %w", key, err)
	}
	return data, nil
}

func (s *GCSBlobStore) Upload(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if strings.HasSuffix(strings.ToLower(key), ".json") {
		w.ContentType = "application/json"
	}
	// Small JSON documents: send in one request instead of a resumable session.
	w.ChunkSize = 0
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *GCSBlobStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

// ClientOptionsFromEnv turns a credentials path or inline JSON into client options.
func ClientOptionsFromEnv(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}
