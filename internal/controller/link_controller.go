package controller

import (
	"log"
	"net/mail"

	"github.com/gofiber/fiber/v2"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/database"
	"stacklist_backend/pkg/email"
	"stacklist_backend/pkg/token"
)

type LinkInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SendAdminLink emails a short-lived signed sign-in link to an allow-listed
// admin. The response never reveals whether the address is on the list.
func SendAdminLink(c *fiber.Ctx) error {
	input := new(LinkInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	if cfg.IsAdminEmail(input.Email) {
		signed, err := token.GenerateAdminToken(cfg.JWT.Secret, input.Email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create sign-in link",
			})
		}

		link := cfg.Site.BaseURL + "/admin?token=" + signed
		if email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendAdminLinkEmail(input.Email, link); err != nil {
				log.Printf("Could not send admin link to %s: %v", input.Email, err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "If that address is an admin account, a sign-in link has been sent",
	})
}

// SendManagementLink re-sends the capability link for an existing paid
// token. Like the admin variant, the response is the same whether or not a
// token exists.
func SendManagementLink(c *fiber.Ctx) error {
	input := new(LinkInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	var userToken model.UserToken
	if err := database.GetDB().Where("email = ?", input.Email).First(&userToken).Error; err == nil {
		link := cfg.Site.BaseURL + "/manage?token=" + userToken.Token
		if email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendManagementLinkEmail(input.Email, string(userToken.Tier), link); err != nil {
				log.Printf("Could not send management link to %s: %v", input.Email, err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "If that address has an active plan, a management link has been sent",
	})
}
