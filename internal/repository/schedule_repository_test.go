package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrisrehm/theo/internal/models"
)

func newTestScheduleRepo(t *testing.T) ScheduleRepository {
	t.Helper()
	return NewScheduleRepository(filepath.Join(t.TempDir(), "schedule.json"))
}

func addPost(t *testing.T, sr ScheduleRepository, platform string, when time.Time) string {
	t.Helper()
	id, err := sr.Add(context.Background(), &models.ScheduledPost{
		ContentID:     "sunset_lake",
		Platform:      platform,
		ScheduledTime: when,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return id
}

func TestEmptySchedule(t *testing.T) {
	sr := newTestScheduleRepo(t)

	posts, err := sr.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty schedule, got %d posts", len(posts))
	}

	due, err := sr.ListDue(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected no due posts, got %d", len(due))
	}
}

func TestAddSchedulesPending(t *testing.T) {
	sr := newTestScheduleRepo(t)

	id := addPost(t, sr, "mastodon", time.Now().Add(time.Hour))
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if len(id) != 8 {
		t.Fatalf("expected 8-char id, got %q", id)
	}

	post, err := sr.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.Status != models.PostStatusPending {
		t.Fatalf("expected pending, got %q", post.Status)
	}
	if post.ContentType != models.ContentTypePainting {
		t.Fatalf("expected painting content type, got %q", post.ContentType)
	}
	if post.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestDueSelection(t *testing.T) {
	sr := newTestScheduleRepo(t)
	now := time.Now()

	past := addPost(t, sr, "mastodon", now.Add(-time.Minute))
	addPost(t, sr, "bluesky", now.Add(time.Hour))

	due, err := sr.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(due) != 1 || due[0].ID != past {
		t.Fatalf("expected only the past post due, got %v", due)
	}

	upcoming, err := sr.ListUpcoming(context.Background(), now)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].Platform != "bluesky" {
		t.Fatalf("expected only the future post upcoming, got %v", upcoming)
	}
}

func TestCancelExcludesFromDue(t *testing.T) {
	sr := newTestScheduleRepo(t)
	now := time.Now()

	id := addPost(t, sr, "mastodon", now.Add(-time.Minute))
	if err := sr.Cancel(context.Background(), id); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	due, err := sr.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("cancelled post should not be due, got %d", len(due))
	}

	post, err := sr.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.Status != models.PostStatusCancelled {
		t.Fatalf("expected cancelled, got %q", post.Status)
	}
}

func TestMarkPostedStoresURL(t *testing.T) {
	sr := newTestScheduleRepo(t)

	id := addPost(t, sr, "mastodon", time.Now().Add(-time.Minute))
	if err := sr.MarkPosted(context.Background(), id, "https://mastodon.example/@chris/1"); err != nil {
		t.Fatalf("MarkPosted: %v", err)
	}

	post, err := sr.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.Status != models.PostStatusPosted {
		t.Fatalf("expected posted, got %q", post.Status)
	}
	if post.PostURL != "https://mastodon.example/@chris/1" {
		t.Fatalf("expected stored post URL, got %q", post.PostURL)
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	sr := newTestScheduleRepo(t)
	ctx := context.Background()

	id := addPost(t, sr, "mastodon", time.Now())
	if err := sr.MarkPosted(ctx, id, "https://example.com/1"); err != nil {
		t.Fatalf("MarkPosted: %v", err)
	}

	if err := sr.Cancel(ctx, id); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending cancelling a posted entry, got %v", err)
	}
	if err := sr.MarkPosted(ctx, id, "https://example.com/2"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending re-posting, got %v", err)
	}
	if err := sr.MarkFailed(ctx, id, "boom"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending failing a posted entry, got %v", err)
	}
}

func TestUnknownIDReturnsNotFound(t *testing.T) {
	sr := newTestScheduleRepo(t)

	if _, err := sr.Get(context.Background(), "missing1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := sr.Cancel(context.Background(), "missing1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	sr := newTestScheduleRepo(t)
	ctx := context.Background()
	now := time.Now()

	older := addPost(t, sr, "mastodon", now.Add(-2*time.Hour))
	newer := addPost(t, sr, "bluesky", now.Add(-time.Hour))
	addPost(t, sr, "flickr", now.Add(time.Hour))

	if err := sr.MarkPosted(ctx, older, "https://example.com/old"); err != nil {
		t.Fatalf("MarkPosted: %v", err)
	}
	if err := sr.MarkFailed(ctx, newer, "timeout"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	history, err := sr.History(ctx, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].ID != newer || history[1].ID != older {
		t.Fatal("expected history sorted newest first")
	}

	limited, err := sr.History(ctx, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit applied, got %d", len(limited))
	}
}

func TestScheduleSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	ctx := context.Background()

	first := NewScheduleRepository(path)
	id, err := first.Add(ctx, &models.ScheduledPost{
		ContentID:     "sunset_lake",
		Platform:      "pixelfed",
		ScheduledTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	second := NewScheduleRepository(path)
	post, err := second.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if post.Platform != "pixelfed" || post.ContentID != "sunset_lake" {
		t.Fatalf("unexpected post after reload: %+v", post)
	}
}

func TestCorruptScheduleFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	sr := NewScheduleRepository(path)
	if _, err := sr.List(context.Background()); err == nil {
		t.Fatal("expected error reading corrupt schedule")
	}
}
