package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/repository"
)

type fakePlatform struct {
	platformMeta
	configured bool
	result     models.PostResult
	gotText    string
	gotAlt     string
	gotImage   string
	calls      int
}

func (f *fakePlatform) IsConfigured() bool { return f.configured }

func (f *fakePlatform) VerifyCredentials(ctx context.Context) (bool, error) {
	return f.configured, nil
}

func (f *fakePlatform) PostImage(ctx context.Context, imagePath, text, altText string) models.PostResult {
	f.calls++
	f.gotImage = imagePath
	f.gotText = text
	f.gotAlt = altText
	if !f.configured {
		return notConfigured(f.displayName)
	}
	return f.result
}

type fakePlatforms struct {
	platform *fakePlatform
}

func (f *fakePlatforms) Get(name string) (SocialPlatform, error) {
	if name != f.platform.name {
		return nil, fmt.Errorf("unknown social media platform: %s", name)
	}
	return f.platform, nil
}

func (f *fakePlatforms) Names() []string            { return []string{f.platform.name} }
func (f *fakePlatforms) All() []SocialPlatform      { return []SocialPlatform{f.platform} }
func (f *fakePlatforms) Configured() []SocialPlatform {
	if f.platform.configured {
		return []SocialPlatform{f.platform}
	}
	return nil
}

func newPostServiceFixture(t *testing.T, platform *fakePlatform) (PostService, repository.PaintingRepository, config.Config, *models.Painting) {
	t.Helper()

	cfg := config.Config{
		MetadataPath:           t.TempDir(),
		PaintingsInstagramPath: t.TempDir(),
		WebsiteURL:             "artbychristopherrehm.com",
	}
	pr := repository.NewPaintingRepository(cfg.MetadataPath)

	p := &models.Painting{
		FilenameBase:     "sunset_lake",
		CollectionFolder: "landscapes",
		Files: models.FileSet{
			Big:       models.StringOrList{"sunset_lake.jpg"},
			Instagram: models.StringOrList{"sunset_lake.jpg"},
		},
		Title:       models.Title{Selected: "Sunset Over the Lake"},
		Description: "Warm evening light on still water.",
		Subject:     "Lake Sunset",
		Medium:      "oil on canvas",
		SocialMedia: models.EmptySocialMedia(),
	}
	if err := pr.Save(context.Background(), p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	imageDir := filepath.Join(cfg.PaintingsInstagramPath, "landscapes")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imageDir, "sunset_lake.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}

	return NewPostService(cfg, pr, &fakePlatforms{platform: platform}), pr, cfg, p
}

func TestPostPaintingRecordsTracking(t *testing.T) {
	platform := &fakePlatform{
		platformMeta: platformMeta{name: "mastodon", displayName: "Mastodon"},
		configured:   true,
		result:       models.PostSuccess("https://mastodon.example/@chris/1"),
	}
	ps, pr, _, p := newPostServiceFixture(t, platform)
	ctx := context.Background()

	result := ps.PostPainting(ctx, p, "mastodon")
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.PostURL != "https://mastodon.example/@chris/1" {
		t.Fatalf("unexpected post URL %q", result.PostURL)
	}

	if !strings.Contains(platform.gotText, "Sunset Over the Lake") {
		t.Fatalf("expected title in caption, got %q", platform.gotText)
	}
	if !strings.Contains(platform.gotText, "#art #artforsale #lakesunset") {
		t.Fatalf("expected hashtags in caption, got %q", platform.gotText)
	}
	if !strings.Contains(platform.gotText, "artbychristopherrehm.com") {
		t.Fatalf("expected website in caption, got %q", platform.gotText)
	}
	if platform.gotAlt != "Sunset Over the Lake, oil on canvas" {
		t.Fatalf("unexpected alt text %q", platform.gotAlt)
	}

	got, err := pr.Get(ctx, "sunset_lake")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	entry := got.SocialMedia["mastodon"]
	if entry.PostCount != 1 {
		t.Fatalf("expected post count 1, got %d", entry.PostCount)
	}
	if entry.PostURL != result.PostURL {
		t.Fatalf("expected recorded URL %q, got %q", result.PostURL, entry.PostURL)
	}
}

func TestFailedPostLeavesTrackingAlone(t *testing.T) {
	platform := &fakePlatform{
		platformMeta: platformMeta{name: "bluesky", displayName: "Bluesky"},
		configured:   true,
		result:       models.PostFailure("HTTP 500: upstream exploded"),
	}
	ps, pr, _, p := newPostServiceFixture(t, platform)
	ctx := context.Background()

	result := ps.PostPainting(ctx, p, "bluesky")
	if result.Success {
		t.Fatal("expected failure")
	}

	got, err := pr.Get(ctx, "sunset_lake")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	entry := got.SocialMedia["bluesky"]
	if entry.PostCount != 0 || entry.LastPosted != nil {
		t.Fatalf("failed post must not touch tracking, got %+v", entry)
	}
}

func TestMissingImageFailsBeforePosting(t *testing.T) {
	platform := &fakePlatform{
		platformMeta: platformMeta{name: "mastodon", displayName: "Mastodon"},
		configured:   true,
		result:       models.PostSuccess("https://example.com"),
	}
	ps, _, cfg, p := newPostServiceFixture(t, platform)

	if err := os.Remove(filepath.Join(cfg.PaintingsInstagramPath, "landscapes", "sunset_lake.jpg")); err != nil {
		t.Fatal(err)
	}

	result := ps.PostPainting(context.Background(), p, "mastodon")
	if result.Success {
		t.Fatal("expected failure for missing image")
	}
	if !strings.Contains(result.Error, "Image not found") {
		t.Fatalf("unexpected error %q", result.Error)
	}
	if platform.calls != 0 {
		t.Fatal("platform must not be called when the image is missing")
	}
}

func TestImagePathFallsBackToBigFilename(t *testing.T) {
	platform := &fakePlatform{platformMeta: platformMeta{name: "mastodon", displayName: "Mastodon"}}
	ps, _, cfg, p := newPostServiceFixture(t, platform)

	p.Files.Instagram = nil
	want := filepath.Join(cfg.PaintingsInstagramPath, "landscapes", "sunset_lake.jpg")
	if got := ps.ImagePath(p); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	p.Files.Big = nil
	if got := ps.ImagePath(p); got != want {
		t.Fatalf("expected base-derived fallback %q, got %q", want, got)
	}
}
