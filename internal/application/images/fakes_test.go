package images

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/image-lens/internal/domain/analysis"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
	"github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
)

// --- repository ---

type memRepo struct {
	mu        sync.Mutex
	items     []*domain.Image
	createErr error
	readErr   error
}

func (r *memRepo) Create(_ context.Context, img *domain.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, it := range r.items {
		if it.ID == img.ID {
			return fmt.Errorf("duplicate id %s", img.ID)
		}
	}
	cp := *img
	r.items = append(r.items, &cp)
	return nil
}

func (r *memRepo) Get(_ context.Context, id domain.ImageID) (*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	for _, it := range r.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) ListByOwner(_ context.Context, owner string) ([]*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	var out []*domain.Image
	for _, it := range r.items {
		if it.OwnerID == owner {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) All(_ context.Context) ([]*domain.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	out := make([]*domain.Image, 0, len(r.items))
	for _, it := range r.items {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// --- storage ---

type fakeObjects struct {
	data    []byte
	err     error
	gotKeys []string
}

func (o *fakeObjects) Get(_ context.Context, bucket, key string) ([]byte, error) {
	o.gotKeys = append(o.gotKeys, bucket+"/"+key)
	if o.err != nil {
		return nil, o.err
	}
	return o.data, nil
}

type fakeSigner struct {
	mu      sync.Mutex
	n       int
	err     error
	expiry  time.Duration
	putKeys []string
}

func (s *fakeSigner) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.n++
	s.expiry = expiry
	return fmt.Sprintf("https://signed.test/%s/%s?sig=%d", bucket, key, s.n), nil
}

func (s *fakeSigner) PresignPut(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.expiry = expiry
	s.putKeys = append(s.putKeys, key)
	return fmt.Sprintf("https://signed.test/%s/%s?put=1", bucket, key), nil
}

// --- analyzer ---

type fakeAnalyzer struct {
	labels []analysis.Label
	text   []analysis.TextDetection
	faces  []analysis.Face

	labelsErr, textErr, facesErr error

	// barrier, when set, is joined by every call before it returns.
	barrier *sync.WaitGroup
	joined  chan struct{}
}

func (a *fakeAnalyzer) wait(ctx context.Context) error {
	if a.barrier == nil {
		return nil
	}
	a.barrier.Done()
	select {
	case <-a.joined:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		return errors.New("analysis calls did not run concurrently")
	}
}

func (a *fakeAnalyzer) DetectLabels(ctx context.Context, _ []byte) ([]analysis.Label, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	if a.labelsErr != nil {
		return nil, &analysis.Error{Op: analysis.OpDetectLabels, Err: a.labelsErr}
	}
	return a.labels, nil
}

func (a *fakeAnalyzer) DetectText(ctx context.Context, _ []byte) ([]analysis.TextDetection, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	if a.textErr != nil {
		return nil, &analysis.Error{Op: analysis.OpDetectText, Err: a.textErr}
	}
	return a.text, nil
}

func (a *fakeAnalyzer) DetectFaces(ctx context.Context, _ []byte) ([]analysis.Face, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	if a.facesErr != nil {
		return nil, &analysis.Error{Op: analysis.OpDetectFaces, Err: a.facesErr}
	}
	return a.faces, nil
}

// --- failure ledger ---

type memFailures struct {
	mu    sync.Mutex
	items []*ingestfailures.Failure
}

func (m *memFailures) Save(_ context.Context, f *ingestfailures.Failure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, f)
	return nil
}

func (m *memFailures) ListByKey(_ context.Context, bucket, key string, limit int) ([]*ingestfailures.Failure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ingestfailures.Failure
	for i := len(m.items) - 1; i >= 0; i-- {
		f := m.items[i]
		if f.Bucket == bucket && f.Key == key {
			out = append(out, f)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- clock / ids ---

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	repo     *memRepo
	objects  *fakeObjects
	signer   *fakeSigner
	analyzer *fakeAnalyzer
	failures *memFailures
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &memRepo{},
		objects:  &fakeObjects{data: []byte("\xff\xd8\xff fake jpeg")},
		signer:   &fakeSigner{},
		analyzer: &fakeAnalyzer{},
		failures: &memFailures{},
	}
	f.svc = &Service{
		Repo:     f.repo,
		Objects:  f.objects,
		Signer:   f.signer,
		Analyzer: f.analyzer,
		Failures: f.failures,
		Clock:    fixedClock{t: testNow},
		IDs:      &seqIDs{},
		Bucket:   "uploads",
		Log:      zerolog.Nop(),
	}
	return f
}
