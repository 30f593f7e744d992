package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	config "github.com/chrisrehm/theo/configs"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware checks the static API token. The server is meant for a
// single operator on a trusted network; when no token is configured the
// API is open.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.APIToken == "" {
			return c.Next()
		}

		token := c.Get("X-API-Token")
		if token == "" {
			token = c.Query("api_token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.cfg.APIToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or missing API token",
			})
		}
		return c.Next()
	}
}
