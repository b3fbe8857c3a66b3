package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/database"
	"stacklist_backend/pkg/email"
	"stacklist_backend/pkg/enrich"
)

const tierOrder = "CASE tier WHEN 'premium' THEN 0 WHEN 'featured' THEN 1 ELSE 2 END"

type SubmissionInput struct {
	URL         string   `json:"url" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	LogoURL     string   `json:"logo_url"`
	ImageURL    string   `json:"image_url"`
	Email       string   `json:"email" validate:"required,email"`
}

// ListSubmissions returns approved listings, paid tiers first.
func ListSubmissions(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.Submission{}).
		Where("status = ?", model.StatusApproved)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags::text LIKE ?", "%\""+strings.ToLower(tag)+"\"%")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	query.Count(&total)

	switch c.Query("sort") {
	case "votes":
		query = query.Order(tierOrder).Order("vote_count DESC")
	default:
		query = query.Order(tierOrder).Order("created_at DESC")
	}

	var submissions []model.Submission
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&submissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listings",
		})
	}

	return c.JSON(fiber.Map{
		"submissions": submissions,
		"total":       total,
		"page":        page,
		"per_page":    perPage,
	})
}

// GetSubmissionBySlug returns one approved listing with its comments.
func GetSubmissionBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var submission model.Submission
	err := database.GetDB().
		Where("slug = ? AND status = ?", slug, model.StatusApproved).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&submission).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Listing not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch listing",
		})
	}

	return c.JSON(submission)
}

// CreateSubmission inserts a pending listing. The unique index on url is
// the final word on duplicates regardless of the pre-check.
func CreateSubmission(c *fiber.Ctx) error {
	input := new(SubmissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	normalized, err := enrich.NormalizeURL(input.URL)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	if strings.TrimSpace(input.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	category := model.Category(input.Category)
	if input.Category == "" || !model.IsValidCategory(category) {
		category = model.CategorySoftware
	}

	var existing model.Submission
	if err := database.GetDB().Where("url = ?", normalized).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "This URL has already been submitted",
			"title":  existing.Title,
			"status": string(existing.Status),
		})
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tags",
		})
	}

	// Paid submitters get their tier applied immediately.
	tier := model.TierFree
	var userToken model.UserToken
	if err := database.GetDB().Where("email = ?", input.Email).First(&userToken).Error; err == nil {
		tier = userToken.Tier
	}

	submission := model.Submission{
		Title:       strings.TrimSpace(input.Title),
		URL:         normalized,
		Description: input.Description,
		Category:    category,
		Tags:        datatypes.JSON(tagsJSON),
		LogoURL:     input.LogoURL,
		ImageURL:    input.ImageURL,
		Email:       input.Email,
		Status:      model.StatusPending,
		Tier:        tier,
	}

	if err := database.GetDB().Create(&submission).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "This URL has already been submitted",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create submission",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(submission)
}

// UpdateSubmission lets a management-token holder edit their own listing.
func UpdateSubmission(c *fiber.Ctx) error {
	tokenEmail := c.Locals("token_email").(string)
	id := c.Params("id")

	var submission model.Submission
	if err := database.GetDB().First(&submission, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	if !strings.EqualFold(submission.Email, tokenEmail) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to update this listing",
		})
	}

	input := new(SubmissionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if strings.TrimSpace(input.Title) != "" {
		submission.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		submission.Description = input.Description
	}
	if input.Category != "" && model.IsValidCategory(model.Category(input.Category)) {
		submission.Category = model.Category(input.Category)
	}
	if input.Tags != nil {
		tagsJSON, err := json.Marshal(input.Tags)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid tags",
			})
		}
		submission.Tags = datatypes.JSON(tagsJSON)
	}
	if input.LogoURL != "" {
		submission.LogoURL = input.LogoURL
	}
	if input.ImageURL != "" {
		submission.ImageURL = input.ImageURL
	}

	if err := database.GetDB().Save(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update listing",
		})
	}

	return c.JSON(submission)
}

type StatusInput struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// UpdateSubmissionStatus is the admin approve/reject action.
func UpdateSubmissionStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	status := model.SubmissionStatus(input.Status)
	if status != model.StatusApproved && status != model.StatusRejected && status != model.StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be pending, approved or rejected",
		})
	}

	var submission model.Submission
	if err := database.GetDB().First(&submission, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	previous := submission.Status
	if err := database.GetDB().Model(&submission).Update("status", status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update status",
		})
	}

	if email.GlobalEmailService != nil && previous != status {
		switch status {
		case model.StatusApproved:
			if err := email.GlobalEmailService.SendSubmissionApprovedEmail(
				submission.Email, submission.Title, cfg.Site.BaseURL+"/tools/"+submission.Slug,
			); err != nil {
				log.Printf("Could not send approval email: %v", err)
			}
		case model.StatusRejected:
			if err := email.GlobalEmailService.SendSubmissionRejectedEmail(
				submission.Email, submission.Title, input.Reason,
			); err != nil {
				log.Printf("Could not send rejection email: %v", err)
			}
		}
	}

	return c.JSON(submission)
}

// DeleteSubmission removes the listing and its relocated assets.
func DeleteSubmission(c *fiber.Ctx) error {
	id := c.Params("id")

	var submission model.Submission
	if err := database.GetDB().First(&submission, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	if err := database.GetDB().Delete(&submission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete listing",
		})
	}

	// Asset cleanup is best effort.
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, assetURL := range []string{submission.LogoURL, submission.ImageURL} {
			if assetURL == "" {
				continue
			}
			if err := store.DeleteByURL(ctx, assetURL); err != nil {
				log.Printf("Could not delete asset %s: %v", assetURL, err)
			}
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListPendingSubmissions feeds the admin review queue.
func ListPendingSubmissions(c *fiber.Ctx) error {
	var submissions []model.Submission
	if err := database.GetDB().
		Where("status = ?", model.StatusPending).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch pending submissions",
		})
	}

	return c.JSON(fiber.Map{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// ListManagedSubmissions returns the token holder's own listings.
func ListManagedSubmissions(c *fiber.Ctx) error {
	tokenEmail := c.Locals("token_email").(string)

	var submissions []model.Submission
	if err := database.GetDB().
		Where("email = ?", tokenEmail).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch your listings",
		})
	}

	return c.JSON(fiber.Map{
		"submissions": submissions,
		"tier":        c.Locals("token_tier"),
	})
}
