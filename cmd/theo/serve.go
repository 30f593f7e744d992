package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/chrisrehm/theo/internal/api/handlers"
	"github.com/chrisrehm/theo/internal/api/middleware"
)

// runServe starts the local HTTP API used by small helper scripts and a
// phone browser on the studio network.
func (a *app) runServe(args []string) error {
	server := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	server.Use(logger.New())

	authMiddleware := middleware.NewAuthMiddleware(a.cfg)

	api := server.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	painting := handlers.NewPaintingHandler(a.pr)
	api.Get("/paintings", painting.ListPaintings)
	api.Get("/paintings/:base", painting.GetPainting)

	schedule := handlers.NewScheduleHandler(a.sr, a.checkJob)
	api.Get("/schedule", schedule.ListSchedule)
	api.Post("/schedule", schedule.CreateScheduledPost)
	api.Post("/schedule/:id/cancel", schedule.CancelScheduledPost)
	api.Post("/check", schedule.RunCheck)

	platform := handlers.NewPlatformHandler(a.platforms)
	api.Get("/platforms", platform.ListPlatforms)

	fmt.Printf("Listening on %s\n", a.cfg.ServeAddr)
	return server.Listen(a.cfg.ServeAddr)
}
