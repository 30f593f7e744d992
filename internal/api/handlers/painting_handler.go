package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/chrisrehm/theo/internal/repository"
)

type PaintingHandler struct {
	pr repository.PaintingRepository
}

func NewPaintingHandler(pr repository.PaintingRepository) *PaintingHandler {
	return &PaintingHandler{pr: pr}
}

func (h *PaintingHandler) ListPaintings(c *fiber.Ctx) error {
	unposted := c.Query("unposted")

	if unposted != "" {
		paintings, err := h.pr.ListUnposted(c.Context(), unposted)
		if err != nil {
			slog.Info(err.Error())
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unable to list paintings",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"paintings": paintings,
		})
	}

	paintings, err := h.pr.List(c.Context())
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list paintings",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"paintings": paintings,
	})
}

func (h *PaintingHandler) GetPainting(c *fiber.Ctx) error {
	base := c.Params("base")

	painting, err := h.pr.Get(c.Context(), base)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Painting not found",
		})
	}
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load painting",
		})
	}

	return c.Status(fiber.StatusOK).JSON(painting)
}
