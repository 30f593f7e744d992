package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/repository"
)

func newScheduleApp(t *testing.T) (*fiber.App, repository.ScheduleRepository) {
	t.Helper()

	sr := repository.NewScheduleRepository(filepath.Join(t.TempDir(), "schedule.json"))
	h := NewScheduleHandler(sr, nil)

	app := fiber.New()
	app.Get("/api/schedule", h.ListSchedule)
	app.Post("/api/schedule", h.CreateScheduledPost)
	app.Post("/api/schedule/:id/cancel", h.CancelScheduledPost)
	return app, sr
}

func TestCreateAndListSchedule(t *testing.T) {
	app, _ := newScheduleApp(t)

	body := `{"content_id":"sunset_lake","platform":"mastodon","scheduled_time":"2026-03-01T09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id in the response")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/schedule?status=pending", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	var listed struct {
		ScheduledPosts []*models.ScheduledPost `json:"scheduled_posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(listed.ScheduledPosts) != 1 || listed.ScheduledPosts[0].ID != created.ID {
		t.Fatalf("expected the created post listed, got %+v", listed.ScheduledPosts)
	}
}

func TestCreateScheduleRejectsBadTime(t *testing.T) {
	app, _ := newScheduleApp(t)

	body := `{"content_id":"sunset_lake","platform":"mastodon","scheduled_time":"next tuesday"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedule", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCancelStatusCodes(t *testing.T) {
	app, sr := newScheduleApp(t)
	ctx := context.Background()

	id, err := sr.Add(ctx, &models.ScheduledPost{
		ContentID:     "sunset_lake",
		Platform:      "mastodon",
		ScheduledTime: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/schedule/"+id+"/cancel", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Already cancelled: the terminal state cannot change again.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/schedule/"+id+"/cancel", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/schedule/missing1/cancel", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
