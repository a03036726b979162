// Package minio provides a core.LongTermStore archiving promoted entries as
// JSON objects in an S3-compatible bucket via the MinIO client. Each
// promotion becomes one object under the configured prefix; object names
// carry a fresh uuid so promotions never overwrite each other.
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/stmgo/core"
)

// Options configure the object store backend.
type Options struct {
	// Prefix is prepended to every object name. Defaults to "promotions".
	Prefix string

	// ContentType is set on stored objects.
	ContentType string
}

// Store archives promoted entries to an S3-compatible bucket.
type Store struct {
	client *minio.Client
	bucket string
	opts   Options
}

var _ core.LongTermStore = (*Store)(nil)

// NewStore creates a Store writing into the given bucket through an existing
// MinIO client.
func NewStore(client *minio.Client, bucket string, optFns ...func(o *Options)) *Store {
	opts := Options{
		Prefix:      "promotions",
		ContentType: "application/json",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, bucket: bucket, opts: opts}
}

// archivedObject is the JSON document written per promotion.
type archivedObject struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Store uploads the text and metadata as one JSON object and returns the
// object name as the archival id.
func (s *Store) Store(ctx context.Context, text string, metadata map[string]any) (string, error) {
	id := path.Join(s.opts.Prefix, uuid.NewString()+".json")

	data, err := json.Marshal(archivedObject{ID: id, Text: text, Metadata: metadata})
	if err != nil {
		return "", fmt.Errorf("encode archived object: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, id, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: s.opts.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put archived object %s: %w", id, err)
	}
	return id, nil
}

// Cleanup releases the store. The MinIO client holds no resources requiring
// an explicit close.
func (s *Store) Cleanup() error { return nil }
