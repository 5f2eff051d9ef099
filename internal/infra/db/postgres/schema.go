package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS images (
  image_id   TEXT        PRIMARY KEY,
  owner_id   TEXT        NOT NULL,
  bucket     TEXT        NOT NULL,
  object_key TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  analysis   JSONB       NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_images_owner_created ON images (owner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS ingest_failures (
  id           BIGSERIAL   PRIMARY KEY,
  bucket       TEXT        NOT NULL,
  object_key   TEXT        NOT NULL,
  stage        TEXT        NOT NULL,
  message      TEXT        NOT NULL,
  details_json JSONB       NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_ingest_failures_key ON ingest_failures (bucket, object_key, created_at)`,
}

// EnsureSchema creates the tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
