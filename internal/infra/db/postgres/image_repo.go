package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
)

type ImageRepository struct{ db *sql.DB }

func NewImageRepository(db *sql.DB) *ImageRepository { return &ImageRepository{db: db} }

var _ domain.Repository = (*ImageRepository)(nil)

const imageColumns = `image_id, owner_id, bucket, object_key, created_at, updated_at, analysis`

// Create inserts a new record. A duplicate id fails on the primary key.
func (r *ImageRepository) Create(ctx context.Context, img *domain.Image) error {
	const q = `
INSERT INTO images (` + imageColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	raw, err := json.Marshal(img.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q,
		string(img.ID), img.OwnerID, img.Bucket, img.Key, img.CreatedAt, img.UpdatedAt, string(raw))
	return err
}

func (r *ImageRepository) Get(ctx context.Context, id domain.ImageID) (*domain.Image, error) {
	const q = `SELECT ` + imageColumns + ` FROM images WHERE image_id=$1 LIMIT 1`
	img, err := scanImage(r.db.QueryRowContext(ctx, q, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return img, err
}

func (r *ImageRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Image, error) {
	const q = `SELECT ` + imageColumns + ` FROM images WHERE owner_id=$1 ORDER BY created_at ASC, image_id ASC`
	return r.query(ctx, q, ownerID)
}

func (r *ImageRepository) All(ctx context.Context) ([]*domain.Image, error) {
	const q = `SELECT ` + imageColumns + ` FROM images ORDER BY created_at ASC, image_id ASC`
	return r.query(ctx, q)
}

func (r *ImageRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(row scanner) (*domain.Image, error) {
	var img domain.Image
	var id string
	var raw []byte
	var created, updated time.Time
	if err := row.Scan(&id, &img.OwnerID, &img.Bucket, &img.Key, &created, &updated, &raw); err != nil {
		return nil, err
	}
	img.ID = domain.ImageID(id)
	img.CreatedAt = created.UTC()
	img.UpdatedAt = updated.UTC()
	if err := json.Unmarshal(raw, &img.Analysis); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	if img.Analysis.Labels == nil {
		img.Analysis.Labels = []analysis.Label{}
	}
	if img.Analysis.Text == nil {
		img.Analysis.Text = []analysis.TextDetection{}
	}
	if img.Analysis.Faces == nil {
		img.Analysis.Faces = []analysis.Face{}
	}
	return &img, nil
}
