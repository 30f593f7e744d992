package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	job "github.com/chrisrehm/theo/internal/jobs"
	"github.com/chrisrehm/theo/internal/models"
	"github.com/chrisrehm/theo/internal/repository"
)

type ScheduleHandler struct {
	sr  repository.ScheduleRepository
	job *job.CheckScheduleJob
}

func NewScheduleHandler(sr repository.ScheduleRepository, checkJob *job.CheckScheduleJob) *ScheduleHandler {
	return &ScheduleHandler{sr: sr, job: checkJob}
}

func (h *ScheduleHandler) ListSchedule(c *fiber.Ctx) error {
	status := c.Query("status")

	posts, err := h.sr.List(c.Context())
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to read schedule",
		})
	}

	if status != "" {
		filtered := posts[:0]
		for _, p := range posts {
			if p.Status == status {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"scheduled_posts": posts,
	})
}

func (h *ScheduleHandler) CreateScheduledPost(c *fiber.Ctx) error {
	var req struct {
		ContentID     string `json:"content_id"`
		MetadataPath  string `json:"metadata_path"`
		Platform      string `json:"platform"`
		ScheduledTime string `json:"scheduled_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if req.ContentID == "" || req.Platform == "" || req.ScheduledTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "content_id, platform and scheduled_time are required",
		})
	}

	when, err := parseScheduledTime(req.ScheduledTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	post := &models.ScheduledPost{
		ContentType:   models.ContentTypePainting,
		ContentID:     req.ContentID,
		MetadataPath:  req.MetadataPath,
		Platform:      req.Platform,
		ScheduledTime: when,
	}
	id, err := h.sr.Add(c.Context(), post)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save schedule",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"id":      id,
	})
}

func (h *ScheduleHandler) CancelScheduledPost(c *fiber.Ctx) error {
	id := c.Params("id")

	err := h.sr.Cancel(c.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scheduled post not found",
		})
	case errors.Is(err, repository.ErrNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Scheduled post is not pending",
		})
	case err != nil:
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save schedule",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post cancelled",
	})
}

func (h *ScheduleHandler) RunCheck(c *fiber.Ctx) error {
	summary, err := h.job.ProcessDue(c.Context())
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"due":    summary.Due,
		"posted": summary.Posted,
		"failed": summary.Failed,
	})
}
