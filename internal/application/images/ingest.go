package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
	"github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
)

// Ingest runs the full pipeline for one object-created event: decode key →
// derive owner → fetch bytes → analyze (three-way join) → persist.
// Any failure aborts the whole run and nothing is written. Re-running the
// same event is safe; it produces a new record with a new id.
func (s *Service) Ingest(ctx context.Context, ev domain.ObjectCreated) (*domain.Image, error) {
	start := time.Now()
	log := s.Log.With().Str("bucket", ev.Bucket).Str("raw_key", ev.Key).Logger()
	log.Info().Msg("ingestion started")

	key, err := domain.DecodeKey(ev.Key)
	if err != nil {
		return nil, s.fail(ctx, ev, ingestfailures.StageDecode, err)
	}

	owner, err := domain.OwnerFromKey(key)
	if err != nil {
		return nil, s.fail(ctx, ev, ingestfailures.StageOwner, err)
	}

	data, err := s.Objects.Get(ctx, ev.Bucket, key)
	if err != nil {
		return nil, s.fail(ctx, ev, ingestfailures.StageFetch,
			&domain.ExternalServiceError{Service: domain.ServiceStorage, Op: "getObject", Err: err})
	}

	result, err := s.analyze(ctx, data)
	if err != nil {
		return nil, s.fail(ctx, ev, ingestfailures.StageAnalyze,
			&domain.ExternalServiceError{Service: domain.ServiceAnalysis, Op: opOf(err), Err: err})
	}

	now := s.Clock.Now().UTC()
	img := &domain.Image{
		ID:        domain.ImageID(s.IDs.NewID()),
		OwnerID:   owner,
		Bucket:    ev.Bucket,
		Key:       key,
		CreatedAt: now,
		UpdatedAt: now,
		Analysis:  result,
	}

	if err := s.Repo.Create(ctx, img); err != nil {
		return nil, s.fail(ctx, ev, ingestfailures.StagePersist, &domain.PersistenceError{
			ImageID: img.ID,
			Err:     &domain.ExternalServiceError{Service: domain.ServiceDatabase, Op: "create", Err: err},
		})
	}

	ingestionsTotal.WithLabelValues("success", "").Inc()
	ingestionDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Str("image_id", string(img.ID)).
		Str("owner_id", owner).
		Int("labels", len(result.Labels)).
		Int("text", len(result.Text)).
		Int("faces", len(result.Faces)).
		Dur("duration", time.Since(start)).
		Msg("image processed")

	return img, nil
}

// analyze fans out the three detections over the same buffer and waits for
// all of them. The first failure cancels the siblings and is returned;
// partial results are discarded.
func (s *Service) analyze(ctx context.Context, data []byte) (analysis.Result, error) {
	var res analysis.Result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		labels, err := s.Analyzer.DetectLabels(gctx, data)
		if err != nil {
			return err
		}
		res.Labels = labels
		return nil
	})
	g.Go(func() error {
		text, err := s.Analyzer.DetectText(gctx, data)
		if err != nil {
			return err
		}
		res.Text = text
		return nil
	})
	g.Go(func() error {
		faces, err := s.Analyzer.DetectFaces(gctx, data)
		if err != nil {
			return err
		}
		res.Faces = faces
		return nil
	})

	if err := g.Wait(); err != nil {
		return analysis.Result{}, err
	}

	// store [] rather than null
	if res.Labels == nil {
		res.Labels = []analysis.Label{}
	}
	if res.Text == nil {
		res.Text = []analysis.TextDetection{}
	}
	if res.Faces == nil {
		res.Faces = []analysis.Face{}
	}
	return res, nil
}

func opOf(err error) string {
	var ae *analysis.Error
	if errors.As(err, &ae) {
		return ae.Op
	}
	return "analyze"
}

// fail logs, counts and records a failed ingestion, then hands err back.
// The ledger write is best-effort and never changes the outcome.
func (s *Service) fail(ctx context.Context, ev domain.ObjectCreated, stage ingestfailures.Stage, err error) error {
	ingestionsTotal.WithLabelValues("failure", string(stage)).Inc()
	s.Log.Error().
		Err(err).
		Str("bucket", ev.Bucket).
		Str("raw_key", ev.Key).
		Str("stage", string(stage)).
		Msg("ingestion failed")

	if s.Failures != nil {
		details := map[string]string{"error": err.Error()}
		var ext *domain.ExternalServiceError
		if errors.As(err, &ext) {
			details["service"] = ext.Service
			details["op"] = ext.Op
		}
		b, _ := json.Marshal(details)

		f := &ingestfailures.Failure{
			Bucket:      ev.Bucket,
			Key:         ev.Key,
			Stage:       stage,
			Message:     fmt.Sprintf("ingestion failed at %s", stage),
			DetailsJSON: string(b),
			CreatedAt:   s.Clock.Now().UTC(),
		}
		if lerr := s.Failures.Save(context.WithoutCancel(ctx), f); lerr != nil {
			s.Log.Warn().Err(lerr).Str("raw_key", ev.Key).Msg("failed to record ingestion failure")
		}
	}
	return err
}
