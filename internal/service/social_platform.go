package service

import (
	"context"

	"github.com/chrisrehm/theo/internal/models"
)

// SocialPlatform is the capability contract every platform client meets.
// PostImage never panics and never returns a Go error: configuration
// problems, stub platforms, and upstream failures all come back as a
// structured failure result.
type SocialPlatform interface {
	Name() string
	DisplayName() string
	MaxTextLength() int
	SupportsVideo() bool

	// IsStub reports a registered platform with no working implementation.
	IsStub() bool
	// IsConfigured reports whether the credentials the client needs are present.
	IsConfigured() bool

	VerifyCredentials(ctx context.Context) (bool, error)
	PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult
}

// platformMeta carries the static identity shared by every client.
type platformMeta struct {
	name          string
	displayName   string
	maxTextLength int
	supportsVideo bool
	stub          bool
}

func (m platformMeta) Name() string        { return m.name }
func (m platformMeta) DisplayName() string { return m.displayName }
func (m platformMeta) MaxTextLength() int  { return m.maxTextLength }
func (m platformMeta) SupportsVideo() bool { return m.supportsVideo }
func (m platformMeta) IsStub() bool        { return m.stub }

// notConfigured is the structured failure for a platform whose credentials
// are absent. Callers branch on the "not configured" substring.
func notConfigured(displayName string) models.PostResult {
	return models.PostFailure(displayName + " not configured")
}
