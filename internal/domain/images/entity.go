package images

import (
	"time"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
)

// ImageID identifier type
type ImageID string

// Image is the persisted record, one per successfully ingested object.
// Records are never updated after creation.
type Image struct {
	ID        ImageID         `json:"imageId"`
	OwnerID   string          `json:"userId"`
	Bucket    string          `json:"bucket"`
	Key       string          `json:"key"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Analysis  analysis.Result `json:"analysis"`
}

// ObjectCreated is one storage notification for a newly written object.
// Key may still carry transport escaping.
type ObjectCreated struct {
	Bucket string
	Key    string
}

// ImageWithURL is a full record plus a freshly signed read URL.
type ImageWithURL struct {
	*Image
	PresignedURL string `json:"presignedUrl"`
}

// Summary is the gallery projection returned by ListByOwner.
type Summary struct {
	ImageID      ImageID          `json:"imageId"`
	CreatedAt    time.Time        `json:"createdAt"`
	PresignedURL string           `json:"presignedUrl"`
	Labels       []analysis.Label `json:"labels"`
}

type LabelMatch struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type TextMatch struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// SearchResult is one matched record with the fields that matched.
type SearchResult struct {
	ImageID        ImageID      `json:"imageId"`
	OwnerID        string       `json:"userId"`
	CreatedAt      time.Time    `json:"createdAt"`
	PresignedURL   string       `json:"presignedUrl"`
	MatchingLabels []LabelMatch `json:"matchingLabels"`
	MatchingText   []TextMatch  `json:"matchingText"`
}

// UploadGrant lets a client PUT one object directly into the upload bucket.
type UploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	Bucket    string `json:"bucket"`
}
