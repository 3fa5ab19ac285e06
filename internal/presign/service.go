// Package presign contains the business logic and HTTP surface for
// issuing time-limited pre-signed object-storage URLs.
package presign

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/presigner/service/internal/storage"
)

// DefaultExpiry is the validity window applied by callers when none is given.
const DefaultExpiry = time.Hour

// DefaultContentType is the upload content type applied when none is given.
const DefaultContentType = "application/octet-stream"

// ErrEmptyKey is returned when an operation is called without an object key.
var ErrEmptyKey = errors.New("object key must not be empty")

// ErrInvalidExpiry is returned when the validity window is zero or negative.
// No local upper bound is enforced; the provider rejects windows beyond its
// own signing horizon (7 days for S3 signature v4).
var ErrInvalidExpiry = errors.New("expiry must be positive")

// Recorder persists audit entries for issued URLs. A nil Recorder disables
// auditing; recording failures are logged and never fail the operation.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Service contains the business logic for bucket listing and presigning.
// It holds no mutable state after construction and is safe for unbounded
// concurrent use.
type Service struct {
	store  storage.Storage
	bucket string
	rec    Recorder
}

// NewService creates a presign Service bound to one bucket. rec may be nil.
func NewService(store storage.Storage, bucket string, rec Recorder) *Service {
	return &Service{store: store, bucket: bucket, rec: rec}
}

// ListBuckets returns the names of all accessible buckets. The result is
// never nil: a provider with no buckets yields an empty slice.
func (s *Service) ListBuckets(ctx context.Context) ([]string, error) {
	names, err := s.store.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// PresignGet issues a pre-signed download URL for the given key.
func (s *Service) PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if err := s.checkPresign(key, expiresIn); err != nil {
		return "", err
	}

	u, err := s.store.PresignGet(ctx, key, expiresIn)
	if err != nil {
		return "", fmt.Errorf("presign download for %q: %w", key, err)
	}

	s.record(ctx, Entry{
		Operation: OperationGet,
		Bucket:    s.bucket,
		Key:       key,
		ExpiresAt: time.Now().Add(expiresIn),
	})
	return u, nil
}

// PresignPut issues a pre-signed upload URL for the given key, bound to
// the declared content type.
func (s *Service) PresignPut(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, error) {
	if err := s.checkPresign(key, expiresIn); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	u, err := s.store.PresignPut(ctx, key, contentType, expiresIn)
	if err != nil {
		return "", fmt.Errorf("presign upload for %q: %w", key, err)
	}

	s.record(ctx, Entry{
		Operation:   OperationPut,
		Bucket:      s.bucket,
		Key:         key,
		ContentType: contentType,
		ExpiresAt:   time.Now().Add(expiresIn),
	})
	return u, nil
}

// checkPresign enforces the presigning preconditions before any storage
// call is made.
func (s *Service) checkPresign(key string, expiresIn time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if expiresIn <= 0 {
		return ErrInvalidExpiry
	}
	if s.bucket == "" {
		return fmt.Errorf("%w: bucket name is not configured", storage.ErrConfiguration)
	}
	return nil
}

// record writes an audit entry when auditing is enabled. Best effort.
func (s *Service) record(ctx context.Context, e Entry) {
	if s.rec == nil {
		return
	}
	if err := s.rec.Record(ctx, e); err != nil {
		log.Printf("audit: record %s %s/%s failed: %v", e.Operation, e.Bucket, e.Key, err)
	}
}
