package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/database"
	"stacklist_backend/pkg/email"
)

func InitDigestCron(siteURL string) {
	c := cron.New()

	// Monday mornings
	_, err := c.AddFunc("0 9 * * 1", func() {
		sendWeeklyDigest(siteURL)
	})

	if err != nil {
		log.Printf("Could not initialize digest cron: %v", err)
		return
	}

	c.Start()
}

func sendWeeklyDigest(siteURL string) {
	if email.GlobalEmailService == nil {
		return
	}

	var approved []model.Submission
	since := time.Now().AddDate(0, 0, -7)
	err := database.GetDB().
		Where("status = ? AND updated_at >= ?", model.StatusApproved, since).
		Order("tier DESC, vote_count DESC").
		Limit(10).
		Find(&approved).Error
	if err != nil {
		log.Printf("Could not fetch listings for digest: %v", err)
		return
	}
	if len(approved) == 0 {
		log.Println("No new approved listings this week, skipping digest")
		return
	}

	listings := make([]email.DigestListing, len(approved))
	for i, sub := range approved {
		listings[i] = email.DigestListing{
			Title:       sub.Title,
			Description: sub.Description,
			URL:         siteURL + "/tools/" + sub.Slug,
		}
	}

	var subscribers []model.NewsletterSubscription
	if err := database.GetDB().Find(&subscribers).Error; err != nil {
		log.Printf("Could not fetch newsletter subscribers: %v", err)
		return
	}

	sent := 0
	for _, sub := range subscribers {
		if err := email.GlobalEmailService.SendWeeklyDigestEmail(sub.Email, listings); err != nil {
			log.Printf("Could not send digest to %s: %v", sub.Email, err)
			continue
		}
		sent++
	}
	log.Printf("Weekly digest sent to %d subscribers", sent)
}
