package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7/pkg/notification"

	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
)

// Ingester is the pipeline entry point driven by storage events.
type Ingester interface {
	Ingest(ctx context.Context, ev domain.ObjectCreated) (*domain.Image, error)
}

// Document is the body MinIO webhook targets (and S3 event forwarders) POST.
type Document struct {
	EventName string               `json:"EventName"`
	Key       string               `json:"Key"`
	Records   []notification.Event `json:"Records"`
}

// Decode reads one event document.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode event document: %w", err)
	}
	return doc, nil
}

// IsObjectCreated accepts both MinIO ("s3:ObjectCreated:Put") and AWS
// ("ObjectCreated:Put") event names.
func IsObjectCreated(name string) bool {
	return strings.HasPrefix(strings.TrimPrefix(name, "s3:"), "ObjectCreated:")
}

// Created extracts the object-created records, in order. Keys are left
// escaped; the pipeline decodes them.
func Created(records []notification.Event) []domain.ObjectCreated {
	var out []domain.ObjectCreated
	for _, r := range records {
		if !IsObjectCreated(r.EventName) {
			continue
		}
		out = append(out, domain.ObjectCreated{
			Bucket: r.S3.Bucket.Name,
			Key:    r.S3.Object.Key,
		})
	}
	return out
}

// IngestAll runs the pipeline for each event in order and stops at the
// first failure. Records already created stay; redelivery creates them again
// with new ids.
func IngestAll(ctx context.Context, ing Ingester, evs []domain.ObjectCreated) ([]domain.ImageID, error) {
	ids := make([]domain.ImageID, 0, len(evs))
	for _, ev := range evs {
		img, err := ing.Ingest(ctx, ev)
		if err != nil {
			return ids, err
		}
		ids = append(ids, img.ID)
	}
	return ids, nil
}
