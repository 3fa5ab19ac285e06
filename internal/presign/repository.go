package presign

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Audit entry operations.
const (
	OperationGet = "get"
	OperationPut = "put"
)

// Entry is one issued-URL audit record. The URL itself is deliberately
// not persisted: it is a bearer capability and the log must not extend
// its reach beyond the original holder.
type Entry struct {
	ID          int64     `json:"id"`
	Operation   string    `json:"operation"`
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	ContentType string    `json:"contentType,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository persists audit entries in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record inserts one audit entry.
func (r *Repository) Record(ctx context.Context, e Entry) error {
	var contentType *string
	if e.ContentType != "" {
		contentType = &e.ContentType
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO presign_audit (operation, bucket, object_key, content_type, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.Operation, e.Bucket, e.Key, contentType, e.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest audit entries, most recent first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, operation, bucket, object_key, content_type, expires_at, created_at
		 FROM presign_audit
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var contentType *string
		if err := rows.Scan(&e.ID, &e.Operation, &e.Bucket, &e.Key, &contentType, &e.ExpiresAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if contentType != nil {
			e.ContentType = *contentType
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

var _ Recorder = (*Repository)(nil)
