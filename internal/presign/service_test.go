package presign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/presigner/service/internal/storage"
)

// fakeStorage implements storage.Storage and records how it was called.
type fakeStorage struct {
	listFn func(ctx context.Context) ([]string, error)
	getFn  func(ctx context.Context, key string, expires time.Duration) (string, error)
	putFn  func(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	listCalls int
	getCalls  int
	putCalls  int
}

func (f *fakeStorage) ListBuckets(ctx context.Context) ([]string, error) {
	f.listCalls++
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []string{}, nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	f.getCalls++
	if f.getFn != nil {
		return f.getFn(ctx, key, expires)
	}
	return "https://demo-bucket.s3.ap-south-1.amazonaws.com/" + key + "?X-Amz-Expires=3600", nil
}

func (f *fakeStorage) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	f.putCalls++
	if f.putFn != nil {
		return f.putFn(ctx, key, contentType, expires)
	}
	return "https://demo-bucket.s3.ap-south-1.amazonaws.com/" + key + "?X-Amz-Expires=3600", nil
}

var _ storage.Storage = (*fakeStorage)(nil)

// fakeRecorder captures audit entries.
type fakeRecorder struct {
	entries []Entry
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, e Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func TestService_PresignGet_EmptyKey(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(fs, "demo-bucket", nil)

	_, err := svc.PresignGet(context.Background(), "", time.Hour)
	if !errors.Is(err, ErrEmptyKey) {
		t.Errorf("PresignGet() error = %v, want ErrEmptyKey", err)
	}
	if fs.getCalls != 0 {
		t.Errorf("storage called %d times, want 0", fs.getCalls)
	}
}

func TestService_Presign_NonPositiveExpiry(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(fs, "demo-bucket", nil)

	for _, expiry := range []time.Duration{0, -time.Second} {
		if _, err := svc.PresignGet(context.Background(), "gym_memory.png", expiry); !errors.Is(err, ErrInvalidExpiry) {
			t.Errorf("PresignGet(expiry=%v) error = %v, want ErrInvalidExpiry", expiry, err)
		}
		if _, err := svc.PresignPut(context.Background(), "gym_memory.png", "image/png", expiry); !errors.Is(err, ErrInvalidExpiry) {
			t.Errorf("PresignPut(expiry=%v) error = %v, want ErrInvalidExpiry", expiry, err)
		}
	}
	if fs.getCalls != 0 || fs.putCalls != 0 {
		t.Errorf("storage called (get=%d, put=%d), want no calls", fs.getCalls, fs.putCalls)
	}
}

func TestService_Presign_MissingBucket(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(fs, "", nil)

	_, err := svc.PresignGet(context.Background(), "gym_memory.png", time.Hour)
	if !errors.Is(err, storage.ErrConfiguration) {
		t.Errorf("PresignGet() error = %v, want ErrConfiguration", err)
	}
	_, err = svc.PresignPut(context.Background(), "gym_memory.png", "", time.Hour)
	if !errors.Is(err, storage.ErrConfiguration) {
		t.Errorf("PresignPut() error = %v, want ErrConfiguration", err)
	}
	if fs.getCalls != 0 || fs.putCalls != 0 {
		t.Errorf("storage called (get=%d, put=%d), want no calls", fs.getCalls, fs.putCalls)
	}
}

func TestService_ListBuckets_NeverNil(t *testing.T) {
	fs := &fakeStorage{listFn: func(ctx context.Context) ([]string, error) {
		return nil, nil
	}}
	svc := NewService(fs, "demo-bucket", nil)

	got, err := svc.ListBuckets(context.Background())
	if err != nil {
		t.Fatalf("ListBuckets() error = %v", err)
	}
	if got == nil {
		t.Fatal("ListBuckets() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("ListBuckets() = %v, want empty", got)
	}
}

func TestService_PresignPut_DefaultContentType(t *testing.T) {
	var gotContentType string
	fs := &fakeStorage{putFn: func(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
		gotContentType = contentType
		return "https://example.test/" + key, nil
	}}
	svc := NewService(fs, "demo-bucket", nil)

	if _, err := svc.PresignPut(context.Background(), "gym_memory.png", "", time.Hour); err != nil {
		t.Fatalf("PresignPut() error = %v", err)
	}
	if gotContentType != DefaultContentType {
		t.Errorf("content type = %q, want %q", gotContentType, DefaultContentType)
	}
}

func TestService_AuditRecorded(t *testing.T) {
	fs := &fakeStorage{}
	rec := &fakeRecorder{}
	svc := NewService(fs, "demo-bucket", rec)

	before := time.Now()
	if _, err := svc.PresignPut(context.Background(), "gym_memory.png", "image/png", time.Hour); err != nil {
		t.Fatalf("PresignPut() error = %v", err)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Operation != OperationPut {
		t.Errorf("Operation = %q, want %q", e.Operation, OperationPut)
	}
	if e.Bucket != "demo-bucket" || e.Key != "gym_memory.png" {
		t.Errorf("entry = %q/%q, want demo-bucket/gym_memory.png", e.Bucket, e.Key)
	}
	if e.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", e.ContentType)
	}
	if e.ExpiresAt.Before(before.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v, want at least one hour after the call", e.ExpiresAt)
	}
}

func TestService_AuditFailureDoesNotFailPresign(t *testing.T) {
	fs := &fakeStorage{}
	rec := &fakeRecorder{err: errors.New("database is down")}
	svc := NewService(fs, "demo-bucket", rec)

	u, err := svc.PresignGet(context.Background(), "gym_memory.png", time.Hour)
	if err != nil {
		t.Fatalf("PresignGet() error = %v, want nil when only auditing fails", err)
	}
	if u == "" {
		t.Error("PresignGet() returned empty URL")
	}
}

func TestService_PresignGet_StorageErrorPropagates(t *testing.T) {
	wantErr := &storage.RequestError{Op: "presign get", Err: errors.New("boom")}
	fs := &fakeStorage{getFn: func(ctx context.Context, key string, expires time.Duration) (string, error) {
		return "", wantErr
	}}
	svc := NewService(fs, "demo-bucket", nil)

	_, err := svc.PresignGet(context.Background(), "gym_memory.png", time.Hour)
	var reqErr *storage.RequestError
	if !errors.As(err, &reqErr) {
		t.Errorf("PresignGet() error = %v, want wrapped *RequestError", err)
	}
}
