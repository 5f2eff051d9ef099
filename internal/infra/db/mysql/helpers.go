package mysql

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
)

// dashIfEmpty returns "-" when the input is empty/whitespace
func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// normalizeDetails ensures the details column always holds valid JSON
func normalizeDetails(details string) string {
	if strings.TrimSpace(details) == "" {
		return "{}"
	}
	var js any
	if json.Unmarshal([]byte(details), &js) != nil {
		b, _ := json.Marshal(map[string]string{"raw": details})
		return string(b)
	}
	return details
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(row scanner) (*domain.Image, error) {
	var img domain.Image
	var raw []byte
	var created, updated time.Time
	if err := row.Scan(&img.ID, &img.OwnerID, &img.Bucket, &img.Key, &created, &updated, &raw); err != nil {
		return nil, err
	}
	img.CreatedAt = created.UTC()
	img.UpdatedAt = updated.UTC()
	if err := json.Unmarshal(raw, &img.Analysis); err != nil {
		return nil, err
	}
	normalize(&img.Analysis)
	return &img, nil
}

func normalize(r *analysis.Result) {
	if r.Labels == nil {
		r.Labels = []analysis.Label{}
	}
	if r.Text == nil {
		r.Text = []analysis.TextDetection{}
	}
	if r.Faces == nil {
		r.Faces = []analysis.Face{}
	}
}
