package images

import (
	"context"
	"errors"
	"strings"

	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
)

// Get ambil 1 image by id, with a fresh read URL
func (s *Service) Get(ctx context.Context, id string) (*domain.ImageWithURL, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("imageId", "Missing imageId parameter")
	}

	img, err := s.Repo.Get(ctx, domain.ImageID(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, &domain.ExternalServiceError{Service: domain.ServiceDatabase, Op: "get", Err: err}
	}

	url, err := s.readURL(ctx, img)
	if err != nil {
		return nil, err
	}
	return &domain.ImageWithURL{Image: img, PresignedURL: url}, nil
}

// ListByOwner returns the gallery view of every record owned by ownerID.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Summary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.Invalid("userId", "Missing userId parameter")
	}

	list, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: domain.ServiceDatabase, Op: "listByOwner", Err: err}
	}

	out := make([]domain.Summary, 0, len(list))
	for _, img := range list {
		url, err := s.readURL(ctx, img)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Summary{
			ImageID:      img.ID,
			CreatedAt:    img.CreatedAt,
			PresignedURL: url,
			Labels:       img.TopLabels(domain.SummaryLabelLimit),
		})
	}
	return out, nil
}

// Search is a linear scan over the owner's records, or over the whole store
// when ownerID is empty, matching query against labels and detected text.
func (s *Service) Search(ctx context.Context, query, ownerID string) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, domain.Invalid("query", "Missing query parameter")
	}
	q := strings.ToLower(query)

	var (
		candidates []*domain.Image
		err        error
	)
	if ownerID != "" {
		candidates, err = s.Repo.ListByOwner(ctx, ownerID)
	} else {
		candidates, err = s.Repo.All(ctx)
	}
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: domain.ServiceDatabase, Op: "scan", Err: err}
	}

	out := make([]domain.SearchResult, 0)
	for _, img := range candidates {
		if !img.Matches(q) {
			continue
		}
		url, err := s.readURL(ctx, img)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SearchResult{
			ImageID:        img.ID,
			OwnerID:        img.OwnerID,
			CreatedAt:      img.CreatedAt,
			PresignedURL:   url,
			MatchingLabels: img.MatchingLabels(q),
			MatchingText:   img.MatchingText(q),
		})
	}
	return out, nil
}

// readURL signs a new GET URL on every call; URLs are never cached.
func (s *Service) readURL(ctx context.Context, img *domain.Image) (string, error) {
	url, err := s.Signer.PresignGet(ctx, img.Bucket, img.Key, URLExpiry)
	if err != nil {
		return "", &domain.ExternalServiceError{Service: domain.ServiceStorage, Op: "presignGet", Err: err}
	}
	return url, nil
}
