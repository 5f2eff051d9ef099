package events

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/rs/zerolog"
)

// Notifier is the subset of *minio.Client the listener needs.
type Notifier interface {
	ListenBucketNotification(ctx context.Context, bucketName, prefix, suffix string, events []string) <-chan notification.Info
}

// Listener subscribes to object-created notifications on one bucket and
// ingests every object. Each event is handled independently; a failed
// ingestion is logged and the listener moves on.
type Listener struct {
	notifier Notifier
	bucket   string
	prefix   string
	suffix   string
	ingester Ingester
	logger   zerolog.Logger

	// reconnect is the pause before re-subscribing after the stream ends.
	reconnect time.Duration
}

func NewListener(n Notifier, bucket, prefix, suffix string, ing Ingester, logger zerolog.Logger) *Listener {
	return &Listener{
		notifier:  n,
		bucket:    bucket,
		prefix:    prefix,
		suffix:    suffix,
		ingester:  ing,
		logger:    logger,
		reconnect: 2 * time.Second,
	}
}

// Run blocks until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	for {
		l.logger.Info().Str("bucket", l.bucket).Msg("listening for object-created notifications")
		ch := l.notifier.ListenBucketNotification(ctx, l.bucket, l.prefix, l.suffix,
			[]string{string(notification.ObjectCreatedAll)})

		for info := range ch {
			if info.Err != nil {
				l.logger.Error().Err(info.Err).Msg("notification stream error")
				continue
			}
			l.handle(ctx, info.Records)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.reconnect):
		}
	}
}

func (l *Listener) handle(ctx context.Context, records []notification.Event) {
	for _, ev := range Created(records) {
		img, err := l.ingester.Ingest(ctx, ev)
		if err != nil {
			// already logged and recorded by the pipeline
			continue
		}
		l.logger.Debug().Str("image_id", string(img.ID)).Str("key", img.Key).Msg("notification handled")
	}
}
