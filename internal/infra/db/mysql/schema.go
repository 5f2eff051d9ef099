package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS images (
  image_id    VARCHAR(64)  NOT NULL PRIMARY KEY,
  owner_id    VARCHAR(128) NOT NULL,
  bucket      VARCHAR(255) NOT NULL,
  object_key  VARCHAR(1024) NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  updated_at  DATETIME(6)  NOT NULL,
  analysis    JSON         NOT NULL,
  INDEX idx_images_owner_created (owner_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS ingest_failures (
  id           BIGINT AUTO_INCREMENT PRIMARY KEY,
  bucket       VARCHAR(255)  NOT NULL,
  object_key   VARCHAR(1024) NOT NULL,
  stage        VARCHAR(32)   NOT NULL,
  message      TEXT          NOT NULL,
  details_json JSON          NOT NULL,
  created_at   DATETIME(6)   NOT NULL,
  INDEX idx_ingest_failures_key (bucket, object_key(255), created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
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
