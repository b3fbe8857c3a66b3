package controller

import (
	"github.com/gofiber/fiber/v2"

	"stacklist_backend/pkg/cleanup"
	"stacklist_backend/pkg/database"
)

// TriggerCleanup rejects stale pending submissions. The cleanup_runs guard
// row limits this to one run per hour no matter how often it is called.
func TriggerCleanup(c *fiber.Ctx) error {
	ran, rejected, err := cleanup.Run(database.GetDB())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Cleanup failed",
		})
	}

	if !ran {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Cleanup already ran within the last hour",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Cleanup completed",
		"rejected": rejected,
	})
}
