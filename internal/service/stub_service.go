package service

import (
	"context"

	"github.com/chrisrehm/theo/internal/models"
)

// stubService models a platform on the roster with no working
// implementation. It always fails with a fixed message and never attempts
// network I/O.
type stubService struct {
	platformMeta
}

func newStubService(name, displayName string, maxTextLength int, supportsVideo bool) SocialPlatform {
	return &stubService{
		platformMeta: platformMeta{
			name:          name,
			displayName:   displayName,
			maxTextLength: maxTextLength,
			supportsVideo: supportsVideo,
			stub:          true,
		},
	}
}

func (s *stubService) IsConfigured() bool {
	return false
}

func (s *stubService) VerifyCredentials(ctx context.Context) (bool, error) {
	return false, nil
}

func (s *stubService) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	return models.PostFailure(s.displayName + " integration not yet implemented")
}
