package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options holds everything needed to construct a MinioStorage. It is an
// explicit struct passed by the caller so tests can inject fake
// credentials without touching process-wide state.
type Options struct {
	// Endpoint overrides the provider endpoint (host[:port], no scheme).
	// When empty it is derived from Region as s3.<region>.amazonaws.com,
	// which makes the client produce virtual-host-style URLs.
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// UseSSL applies only when Endpoint is set; the derived AWS endpoint
	// is always HTTPS.
	UseSSL bool
}

// MinioStorage implements Storage using a MinIO client. The client is
// bound to one (region, credential-pair) tuple at construction, holds no
// per-request state, and is safe for unbounded concurrent use.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage validates the options and constructs the client.
// Construction is pure: no network call is made here. Missing credentials
// or a malformed region/endpoint surface as ErrConfiguration.
func NewMinioStorage(opts Options) (*MinioStorage, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("%w: access key and secret key are required", ErrConfiguration)
	}

	endpoint := opts.Endpoint
	secure := opts.UseSSL
	if endpoint == "" {
		if opts.Region == "" {
			return nil, fmt.Errorf("%w: region is required when no endpoint is set", ErrConfiguration)
		}
		endpoint = fmt.Sprintf("s3.%s.amazonaws.com", opts.Region)
		secure = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create client for %q: %v", ErrConfiguration, endpoint, err)
	}

	return &MinioStorage{client: client, bucket: opts.Bucket}, nil
}

// ListBuckets issues one request to the provider and returns the reported
// bucket names. The provider gives no ordering guarantee; the sequence is
// passed through as received. Failures are not retried.
func (s *MinioStorage) ListBuckets(ctx context.Context) ([]string, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, wrapRequestError("list buckets", err)
	}
	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	return names, nil
}

// PresignGet computes a signed GET URL for (bucket, key) valid for the
// given window. Two calls with identical inputs at different moments
// yield different URLs (the signature embeds the signing timestamp), but
// both remain valid until their respective expiries.
func (s *MinioStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, nil)
	if err != nil {
		return "", wrapRequestError("presign get", err)
	}
	return u.String(), nil
}

// PresignPut computes a signed PUT URL for (bucket, key). The Content-Type
// header is included in the signed request descriptor, not passed as a
// hint, so the provider rejects uploads declaring a different type.
func (s *MinioStorage) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	headers := http.Header{"Content-Type": []string{contentType}}
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, expires, url.Values{}, headers)
	if err != nil {
		return "", wrapRequestError("presign put", err)
	}
	return u.String(), nil
}

var _ Storage = (*MinioStorage)(nil)
