package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

var _ domain.Repository = (*FailureRepository)(nil)

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO ingest_failures
  (bucket, object_key, stage, message, details_json, created_at)
VALUES (?,?,?,?,?,?)
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, q,
		dashIfEmpty(f.Bucket), dashIfEmpty(f.Key), dashIfEmpty(string(f.Stage)),
		dashIfEmpty(f.Message), normalizeDetails(f.DetailsJSON), created)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		f.ID = id
	}
	return nil
}

// ListByKey returns the newest failures first.
func (r *FailureRepository) ListByKey(ctx context.Context, bucket, key string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, bucket, object_key, stage, message, details_json, created_at
FROM ingest_failures
WHERE bucket = ? AND object_key = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, bucket, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Failure{}
	for rows.Next() {
		var f domain.Failure
		var created time.Time
		if err := rows.Scan(&f.ID, &f.Bucket, &f.Key, &f.Stage, &f.Message, &f.DetailsJSON, &created); err != nil {
			return nil, err
		}
		f.CreatedAt = created.UTC()
		out = append(out, &f)
	}
	return out, rows.Err()
}
