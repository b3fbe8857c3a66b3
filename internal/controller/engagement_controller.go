package controller

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/database"
)

// voterID comes from the X-Voter-ID header: a user id for signed-in
// visitors, a device-local marker otherwise.
func voterID(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get("X-Voter-ID"))
}

func loadSubmission(c *fiber.Ctx) (*model.Submission, error) {
	var submission model.Submission
	if err := database.GetDB().First(&submission, c.Params("id")).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func AddVote(c *fiber.Ctx) error {
	voter := voterID(c)
	if voter == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Voter ID is required",
		})
	}

	submission, err := loadSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	vote := model.Vote{SubmissionID: submission.ID, VoterID: voter}
	if err := database.GetDB().Create(&vote).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Already voted",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record vote",
		})
	}

	database.GetDB().Model(submission).
		Update("vote_count", gorm.Expr("vote_count + 1"))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Vote recorded",
	})
}

func RemoveVote(c *fiber.Ctx) error {
	voter := voterID(c)
	if voter == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Voter ID is required",
		})
	}

	submission, err := loadSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	res := database.GetDB().
		Where("submission_id = ? AND voter_id = ?", submission.ID, voter).
		Delete(&model.Vote{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove vote",
		})
	}
	if res.RowsAffected > 0 {
		database.GetDB().Model(submission).
			Update("vote_count", gorm.Expr("GREATEST(vote_count - 1, 0)"))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type CommentInput struct {
	Author string `json:"author" validate:"required"`
	Body   string `json:"body" validate:"required"`
}

func AddComment(c *fiber.Ctx) error {
	submission, err := loadSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	input := new(CommentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if strings.TrimSpace(input.Author) == "" || strings.TrimSpace(input.Body) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Author and body are required",
		})
	}

	comment := model.Comment{
		SubmissionID: submission.ID,
		Author:       strings.TrimSpace(input.Author),
		Body:         strings.TrimSpace(input.Body),
	}
	if err := database.GetDB().Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save comment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func ListComments(c *fiber.Ctx) error {
	submission, err := loadSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	var comments []model.Comment
	if err := database.GetDB().
		Where("submission_id = ?", submission.ID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch comments",
		})
	}

	return c.JSON(fiber.Map{
		"comments": comments,
		"total":    len(comments),
	})
}

// DeleteComment is admin-only moderation.
func DeleteComment(c *fiber.Ctx) error {
	res := database.GetDB().Delete(&model.Comment{}, c.Params("comment_id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete comment",
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Comment not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func AddBookmark(c *fiber.Ctx) error {
	voter := voterID(c)
	if voter == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Voter ID is required",
		})
	}

	submission, err := loadSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	bookmark := model.Bookmark{SubmissionID: submission.ID, VoterID: voter}
	if err := database.GetDB().Create(&bookmark).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Already bookmarked",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save bookmark",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bookmarked",
	})
}

func RemoveBookmark(c *fiber.Ctx) error {
	voter := voterID(c)
	if voter == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Voter ID is required",
		})
	}

	if err := database.GetDB().
		Where("submission_id = ? AND voter_id = ?", c.Params("id"), voter).
		Delete(&model.Bookmark{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove bookmark",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RecordClick is the outbound-link beacon. The write gets a 300ms budget so
// navigation is never held up by analytics.
func RecordClick(c *fiber.Ctx) error {
	submission, err := loadSubmission(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Listing not found",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	click := model.Click{
		SubmissionID: submission.ID,
		Referer:      c.Get("Referer"),
	}
	if err := database.GetDB().WithContext(ctx).Create(&click).Error; err != nil {
		// beacon writes are droppable
		return c.SendStatus(fiber.StatusAccepted)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
