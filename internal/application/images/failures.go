package images

import (
	"context"
	"errors"
	"strings"

	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
	"github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
)

// ErrLedgerDisabled is returned when no failure ledger is configured.
var ErrLedgerDisabled = errors.New("ingest failure ledger is not configured")

// ListFailures returns recorded ingestion failures for one object, newest
// first. bucket defaults to the upload bucket.
func (s *Service) ListFailures(ctx context.Context, bucket, key string, limit int) ([]*ingestfailures.Failure, error) {
	if s.Failures == nil {
		return nil, ErrLedgerDisabled
	}
	if strings.TrimSpace(key) == "" {
		return nil, domain.Invalid("key", "Missing key parameter")
	}
	if bucket == "" {
		bucket = s.Bucket
	}

	list, err := s.Failures.ListByKey(ctx, bucket, key, limit)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: domain.ServiceDatabase, Op: "listFailures", Err: err}
	}
	if list == nil {
		list = []*ingestfailures.Failure{}
	}
	return list, nil
}
