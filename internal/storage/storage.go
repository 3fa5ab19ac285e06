// Package storage defines the narrow capability interface for the
// object-storage operations this service needs: listing buckets and
// producing time-limited pre-signed URLs. The MinIO implementation works
// with any S3-compatible provider (AWS S3, MinIO, LocalStack).
package storage

import (
	"context"
	"time"
)

// Storage is the interface for bucket listing and URL presigning.
type Storage interface {
	// ListBuckets returns the names of all buckets the configured
	// credentials can access, in the order the provider reports them.
	// A provider with no buckets yields an empty slice, never nil.
	ListBuckets(ctx context.Context) ([]string, error)

	// PresignGet returns an absolute URL granting GET access to the
	// object at key for the given validity window. Signing is a local
	// computation; no network round-trip occurs.
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)

	// PresignPut returns an absolute URL granting PUT access to the
	// object at key. The content type is part of the signed request, so
	// an upload declaring a different Content-Type is rejected by the
	// provider's own signature verification.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}
