package storage

import (
	"context"
	"time"
)

// ArtifactStore abstracts the object store holding archive copies and HLS
// stream sets. Keys are bucket-relative paths like "originals/<id>.mp4".
type ArtifactStore interface {
	// Upload stores the file at localPath under key with the given content type.
	Upload(ctx context.Context, key, localPath, contentType string) error

	// Delete removes one object. Deleting a key that does not exist is not an
	// error (S3 delete semantics).
	Delete(ctx context.Context, key string) error

	// List returns every key under prefix, one full snapshot per call.
	List(ctx context.Context, prefix string) ([]string, error)

	// PresignGet returns a time-limited download URL for key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PublicURL joins key onto the bucket's public base domain.
	PublicURL(key string) string
}
