package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/repository"
	"github.com/chrisrehm/theo/internal/service"
)

// CheckSummary reports what one scheduler pass did.
type CheckSummary struct {
	Due    int
	Posted int
	Failed int
}

// CheckScheduleJob finds due schedule entries and posts them one at a
// time. A failed entry is marked failed and the pass moves on; only a
// broken schedule store stops the run.
type CheckScheduleJob struct {
	sr        repository.ScheduleRepository
	pr        repository.PaintingRepository
	ps        service.PostService
	platforms service.PlatformService
	now       func() time.Time
}

func NewCheckScheduleJob(
	sr repository.ScheduleRepository,
	pr repository.PaintingRepository,
	ps service.PostService,
	platforms service.PlatformService) *CheckScheduleJob {
	return &CheckScheduleJob{
		sr:        sr,
		pr:        pr,
		ps:        ps,
		platforms: platforms,
		now:       time.Now,
	}
}

// ProcessDue runs one scheduler pass. Per-entry problems are recorded on
// the entry and logged; the returned error is reserved for schedule store
// failures.
func (c *CheckScheduleJob) ProcessDue(ctx context.Context) (CheckSummary, error) {
	var summary CheckSummary

	due, err := c.sr.ListDue(ctx, c.now())
	if err != nil {
		return summary, err
	}
	summary.Due = len(due)

	for _, entry := range due {
		if err := c.processEntry(ctx, entry); err != nil {
			return summary, err
		}
		// Re-read so a MarkFailed inside processEntry counts correctly.
		updated, err := c.sr.Get(ctx, entry.ID)
		if err != nil {
			return summary, err
		}
		switch updated.Status {
		case models.PostStatusPosted:
			summary.Posted++
		case models.PostStatusFailed:
			summary.Failed++
		}
	}

	return summary, nil
}

func (c *CheckScheduleJob) processEntry(ctx context.Context, entry *models.ScheduledPost) error {
	fail := func(msg string) error {
		slog.Info("scheduled post failed", "id", entry.ID, "platform", entry.Platform, "error", msg)
		return c.sr.MarkFailed(ctx, entry.ID, msg)
	}

	if _, err := c.platforms.Get(entry.Platform); err != nil {
		return fail(err.Error())
	}

	painting, err := c.loadPainting(ctx, entry)
	if err != nil {
		return fail(err.Error())
	}

	result := c.ps.PostPainting(ctx, painting, entry.Platform)
	if !result.Success {
		return fail(result.Error)
	}

	slog.Info("scheduled post published", "id", entry.ID, "platform", entry.Platform, "url", result.PostURL)
	return c.sr.MarkPosted(ctx, entry.ID, result.PostURL)
}

func (c *CheckScheduleJob) loadPainting(ctx context.Context, entry *models.ScheduledPost) (*models.Painting, error) {
	if entry.MetadataPath != "" {
		if p, err := c.pr.Load(ctx, entry.MetadataPath); err == nil {
			return p, nil
		}
	}
	p, err := c.pr.Get(ctx, entry.ContentID)
	if err != nil {
		return nil, fmt.Errorf("painting not found: %s", entry.ContentID)
	}
	return p, nil
}

// Run adapts ProcessDue for cron scheduling.
func (c *CheckScheduleJob) Run() {
	summary, err := c.ProcessDue(context.Background())
	if err != nil {
		slog.Error("schedule check failed", "error", err)
		return
	}
	if summary.Due > 0 {
		slog.Info("schedule check complete", "due", summary.Due, "posted", summary.Posted, "failed", summary.Failed)
	}
}
