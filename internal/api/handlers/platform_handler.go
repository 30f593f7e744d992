package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrisrehm/theo/internal/service"
)

type PlatformHandler struct {
	s service.PlatformService
}

func NewPlatformHandler(s service.PlatformService) *PlatformHandler {
	return &PlatformHandler{s: s}
}

func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	type platformInfo struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Status      string `json:"status"`
	}

	var out []platformInfo
	for _, p := range h.s.All() {
		status := "not configured"
		if p.IsStub() {
			status = "stub"
		} else if p.IsConfigured() {
			status = "ready"
		}
		out = append(out, platformInfo{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			Status:      status,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"platforms": out,
	})
}
