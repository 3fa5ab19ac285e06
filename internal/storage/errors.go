package storage

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// ErrConfiguration is returned when required storage configuration
// (credentials, region, bucket name) is missing or invalid. It is always
// raised before any network activity and is never retried.
var ErrConfiguration = errors.New("storage configuration missing or invalid")

// RequestError is returned when the provider rejects a request or the
// network call fails. It carries the provider's HTTP status and error code.
type RequestError struct {
	Op         string // operation that failed, e.g. "list buckets"
	StatusCode int    // provider HTTP status, 0 when the call never completed
	Code       string // provider error code, e.g. "AccessDenied"
	Err        error
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Op, e.Code, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// wrapRequestError converts a provider error into a *RequestError,
// extracting the S3 status and code when the provider reported one.
func wrapRequestError(op string, err error) error {
	reqErr := &RequestError{Op: op, Err: err}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		reqErr.StatusCode = resp.StatusCode
		reqErr.Code = resp.Code
	}
	return reqErr
}
