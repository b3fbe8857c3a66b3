package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/config"
	"stacklist_backend/pkg/database"
	"stacklist_backend/pkg/token"
)

// AdminRequired validates the Bearer JWT from the emailed admin link and
// checks the address against the allow-list.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing admin token",
			})
		}

		claims, err := token.ValidateAdminToken(cfg.JWT.Secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired admin token",
			})
		}

		if !cfg.IsAdminEmail(claims.Email) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Not an admin account",
			})
		}

		c.Locals("admin_email", claims.Email)
		return c.Next()
	}
}

// ManagementToken resolves the X-Management-Token header to a user_tokens
// row and stores the owning email and tier in locals.
func ManagementToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Management-Token")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing management token",
			})
		}

		var userToken model.UserToken
		if err := database.GetDB().Where("token = ?", raw).First(&userToken).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid management token",
			})
		}

		c.Locals("token_email", userToken.Email)
		c.Locals("token_tier", string(userToken.Tier))
		return c.Next()
	}
}
