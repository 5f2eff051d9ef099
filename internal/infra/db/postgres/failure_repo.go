package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
)

type FailureRepository struct{ db *sql.DB }

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

var _ domain.Repository = (*FailureRepository)(nil)

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO ingest_failures
  (bucket, object_key, stage, message, details_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	details := f.DetailsJSON
	if strings.TrimSpace(details) == "" {
		details = "{}"
	} else {
		// ensure valid json; if invalid, wrap as string field
		var js any
		if json.Unmarshal([]byte(details), &js) != nil {
			b, _ := json.Marshal(map[string]string{"raw": details})
			details = string(b)
		}
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return r.db.QueryRowContext(ctx, q,
		dashIfEmpty(f.Bucket), dashIfEmpty(f.Key), dashIfEmpty(string(f.Stage)),
		dashIfEmpty(f.Message), details, created,
	).Scan(&f.ID)
}

// ListByKey returns the newest failures first.
func (r *FailureRepository) ListByKey(ctx context.Context, bucket, key string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, bucket, object_key, stage, message, details_json::text, created_at
FROM ingest_failures
WHERE bucket = $1 AND object_key = $2
ORDER BY created_at DESC, id DESC
LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, bucket, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Failure{}
	for rows.Next() {
		var f domain.Failure
		var stage string
		var created time.Time
		if err := rows.Scan(&f.ID, &f.Bucket, &f.Key, &stage, &f.Message, &f.DetailsJSON, &created); err != nil {
			return nil, err
		}
		f.Stage = domain.Stage(stage)
		f.CreatedAt = created.UTC()
		out = append(out, &f)
	}
	return out, rows.Err()
}

func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
