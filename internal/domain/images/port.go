package images

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	// Create inserts a new record; it never overwrites an existing id.
	Create(ctx context.Context, img *Image) error
	// Get returns ErrNotFound when no record has id.
	Get(ctx context.Context, id ImageID) (*Image, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Image, error)
	// All is a full scan of the store.
	All(ctx context.Context) ([]*Image, error)
}

// ObjectReader port for fetching uploaded bytes
type ObjectReader interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// URLSigner port for minting time-limited object URLs
type URLSigner interface {
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	PresignPut(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
