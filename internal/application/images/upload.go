package images

import (
	"context"
	"strings"

	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
)

// IssueUploadGrant mints a signed PUT URL for {userID}/{newID}.{ext} in the
// upload bucket. Expiry is enforced by the storage service.
func (s *Service) IssueUploadGrant(ctx context.Context, userID, filename string) (domain.UploadGrant, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(filename) == "" {
		return domain.UploadGrant{}, domain.Invalid("userId,filename", "Missing userId or filename parameter")
	}

	key := domain.UploadKey(userID, s.IDs.NewID(), filename)
	url, err := s.Signer.PresignPut(ctx, s.Bucket, key, URLExpiry)
	if err != nil {
		return domain.UploadGrant{}, &domain.ExternalServiceError{Service: domain.ServiceStorage, Op: "presignPut", Err: err}
	}

	s.Log.Debug().Str("user_id", userID).Str("key", key).Msg("upload grant issued")
	return domain.UploadGrant{UploadURL: url, Key: key, Bucket: s.Bucket}, nil
}
