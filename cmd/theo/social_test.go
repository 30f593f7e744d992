package main

import (
	"context"
	"strings"
	"testing"
	"time"

	config "github.com/chrisrehm/theo/configs"
	"github.com/chrisrehm/theo/internal/models"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{
		MetadataPath:           t.TempDir(),
		PaintingsInstagramPath: t.TempDir(),
		SchedulePath:           t.TempDir() + "/schedule.json",
		WebsiteURL:             "artbychristopherrehm.com",
	}
	return newApp(cfg)
}

func saveTestPainting(t *testing.T, a *app, base string) *models.Painting {
	t.Helper()
	p := &models.Painting{
		FilenameBase:     base,
		CollectionFolder: "landscapes",
		Title:            models.Title{Selected: "Sunset Over the Lake"},
		SocialMedia:      models.EmptySocialMedia(),
	}
	if err := a.pr.Save(context.Background(), p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return p
}

func TestResolvePostTargetExplicitArgs(t *testing.T) {
	a := newTestApp(t)
	saveTestPainting(t, a, "sunset_lake")

	name, painting, interactive, err := a.resolvePostTarget(context.Background(), "mastodon", "sunset_lake")
	if err != nil {
		t.Fatalf("resolvePostTarget: %v", err)
	}
	if interactive {
		t.Fatal("explicit args must not be treated as interactive")
	}
	if name != "mastodon" || painting.FilenameBase != "sunset_lake" {
		t.Fatalf("unexpected target %q / %q", name, painting.FilenameBase)
	}
}

func TestResolvePostTargetRejectsUnknownPlatform(t *testing.T) {
	a := newTestApp(t)
	saveTestPainting(t, a, "sunset_lake")

	_, _, _, err := a.resolvePostTarget(context.Background(), "myspace", "sunset_lake")
	if err == nil || !strings.Contains(err.Error(), "unknown social media platform") {
		t.Fatalf("expected unknown-platform error, got %v", err)
	}
}

func TestChoosePlatformWithNothingConfigured(t *testing.T) {
	a := newTestApp(t)

	_, err := a.choosePlatform()
	if err == nil || !strings.Contains(err.Error(), "no platforms configured") {
		t.Fatalf("expected no-platforms error, got %v", err)
	}
}

func TestPlatformOptions(t *testing.T) {
	a := newTestApp(t)

	opts := platformOptions(a.platforms.All())
	if len(opts) != 13 {
		t.Fatalf("expected the full roster, got %d options", len(opts))
	}
	if opts[0].Label != "mastodon" || opts[0].Desc != "Mastodon" {
		t.Fatalf("unexpected first option %+v", opts[0])
	}
}

func TestPaintingOptionsShowPostCounts(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	fresh := saveTestPainting(t, a, "fresh_one")
	posted := saveTestPainting(t, a, "posted_one")
	if err := a.pr.RecordPost(ctx, posted, "mastodon", "https://mastodon.example/1"); err != nil {
		t.Fatalf("RecordPost: %v", err)
	}

	opts := paintingOptions([]*models.Painting{fresh, posted}, "mastodon")
	if opts[0].Desc != "fresh_one" {
		t.Fatalf("unposted painting must show only its base, got %q", opts[0].Desc)
	}
	if !strings.Contains(opts[1].Desc, "posted 1 times") {
		t.Fatalf("posted painting must show its count, got %q", opts[1].Desc)
	}
}

func TestParseWhen(t *testing.T) {
	local, err := parseWhen("2026-03-01T09:00")
	if err != nil {
		t.Fatalf("parseWhen: %v", err)
	}
	want := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	if !local.Equal(want) {
		t.Fatalf("expected %v, got %v", want, local)
	}

	if _, err := parseWhen("2026-03-01T09:00:00Z"); err != nil {
		t.Fatalf("RFC 3339 must parse: %v", err)
	}
	if _, err := parseWhen("next tuesday"); err == nil {
		t.Fatal("expected error for free-form time")
	}
}
