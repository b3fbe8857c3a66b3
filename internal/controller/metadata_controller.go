package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stacklist_backend/pkg/enrich"
)

type FetchMetadataInput struct {
	URL string `json:"url" validate:"required"`
}

// FetchMetadata runs the enrichment pipeline and returns the assembled
// preview record. The caller inserts the listing in a separate request.
func FetchMetadata(c *fiber.Ctx) error {
	input := new(FetchMetadataInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	preview, err := orchestrator.Preview(c.UserContext(), input.URL)
	if err != nil {
		var dup *enrich.DuplicateError
		if errors.As(err, &dup) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":  "This URL has already been submitted",
				"title":  dup.Title,
				"status": dup.Status,
			})
		}
		var invalid *enrich.ValidationError
		if errors.As(err, &invalid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": invalid.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch metadata",
		})
	}

	return c.JSON(preview)
}
