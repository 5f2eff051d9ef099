package ingestfailures

import (
	"context"
)

// Repository defines persistence for ingestion failures
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	ListByKey(ctx context.Context, bucket, key string, limit int) ([]*Failure, error)
}
