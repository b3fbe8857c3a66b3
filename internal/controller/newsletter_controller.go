package controller

import (
	"net/mail"

	"github.com/gofiber/fiber/v2"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/database"
)

type NewsletterInput struct {
	Email string `json:"email" validate:"required,email"`
}

func Subscribe(c *fiber.Ctx) error {
	input := new(NewsletterInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input format",
		})
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	var existing model.NewsletterSubscription
	if err := database.GetDB().Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Already subscribed",
		})
	}

	subscription := model.NewsletterSubscription{Email: input.Email}
	if err := database.GetDB().Create(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete subscription",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Successfully subscribed to newsletter",
	})
}

func Unsubscribe(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	res := database.GetDB().Where("email = ?", email).Delete(&model.NewsletterSubscription{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unsubscribe",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetSubscription reports whether an email is subscribed.
func GetSubscription(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	var subscription model.NewsletterSubscription
	if err := database.GetDB().Where("email = ?", email).First(&subscription).Error; err != nil {
		return c.JSON(fiber.Map{"subscribed": false})
	}

	return c.JSON(fiber.Map{
		"subscribed":    true,
		"subscribed_at": subscription.SubscribedAt,
	})
}

// ListSubscribers is admin-only.
func ListSubscribers(c *fiber.Ctx) error {
	var subscribers []model.NewsletterSubscription
	if err := database.GetDB().
		Order("subscribed_at DESC").
		Find(&subscribers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscribers",
		})
	}

	return c.JSON(fiber.Map{
		"subscribers": subscribers,
		"total":       len(subscribers),
	})
}
