package images

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/image-lens/internal/application"
	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
	"github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
)

// URLExpiry is the lifetime of every signed URL this service issues.
const URLExpiry = 3600 * time.Second

var (
	ingestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imagelens_ingestions_total",
			Help: "Ingestion attempts by outcome and failed stage.",
		},
		[]string{"outcome", "stage"},
	)

	ingestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imagelens_ingestion_duration_seconds",
			Help:    "Wall time of successful ingestions, fetch to persisted record.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Service implements the ingestion pipeline and the read-side queries.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	Repo     domain.Repository
	Objects  domain.ObjectReader
	Signer   domain.URLSigner
	Analyzer analysis.Analyzer
	// Failures is optional; nil disables the failure ledger.
	Failures ingestfailures.Repository
	Clock    application.Clock
	IDs      application.IDGenerator
	// Bucket is the upload bucket handed out in upload grants.
	Bucket string
	Log    zerolog.Logger
}
